package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/miradorstack/natal-engine/internal/ephemeris"
)

// EphemerisClient is an ephemeris.Oracle backed by a remote ephemeris
// sidecar speaking JSON over HTTP. Day numbers are computed locally since
// they need no ephemeris data.
type EphemerisClient struct {
	baseURL      string
	housesPath   string
	ayanamsaPath string
	bodyPath     string
	mode         ephemeris.AyanamsaMode
	httpClient   *http.Client
}

var _ ephemeris.Oracle = (*EphemerisClient)(nil)

// NewEphemerisClient constructs a client targeting the configured sidecar.
func NewEphemerisClient(baseURL, housesPath, ayanamsaPath, bodyPath string, mode ephemeris.AyanamsaMode, timeout time.Duration) *EphemerisClient {
	return &EphemerisClient{
		baseURL:      strings.TrimRight(baseURL, "/"),
		housesPath:   housesPath,
		ayanamsaPath: ayanamsaPath,
		bodyPath:     bodyPath,
		mode:         mode,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// DayNumber implements ephemeris.Oracle.
func (c *EphemerisClient) DayNumber(year, month, day int, hour float64) (float64, error) {
	return ephemeris.DayNumber(year, month, day, hour)
}

// Houses implements ephemeris.Oracle.
func (c *EphemerisClient) Houses(ctx context.Context, jd, lat, lon float64, system ephemeris.HouseSystem) (ephemeris.HouseResult, error) {
	if err := c.ready(); err != nil {
		return ephemeris.HouseResult{}, err
	}

	payload := map[string]interface{}{
		"jd":           jd,
		"latitude":     lat,
		"longitude":    lon,
		"house_system": system.String(),
	}

	var response struct {
		Ascendant float64   `json:"ascendant"`
		Midheaven float64   `json:"midheaven"`
		Cusps     []float64 `json:"cusps"`
	}

	if err := c.postJSON(ctx, c.resolvePath(c.housesPath), payload, &response); err != nil {
		return ephemeris.HouseResult{}, fmt.Errorf("ephemeris houses request failed: %w", err)
	}
	if len(response.Cusps) != 12 {
		return ephemeris.HouseResult{}, fmt.Errorf("ephemeris houses returned %d cusps", len(response.Cusps))
	}

	res := ephemeris.HouseResult{Ascendant: response.Ascendant, Midheaven: response.Midheaven}
	copy(res.Cusps[:], response.Cusps)
	if !finite(res.Ascendant) {
		return ephemeris.HouseResult{}, fmt.Errorf("ephemeris houses returned non-finite ascendant")
	}
	return res, nil
}

// Ayanamsa implements ephemeris.Oracle.
func (c *EphemerisClient) Ayanamsa(ctx context.Context, jd float64) (float64, error) {
	if err := c.ready(); err != nil {
		return 0, err
	}

	payload := map[string]interface{}{
		"jd":   jd,
		"mode": string(c.mode),
	}

	var response struct {
		Ayanamsa *float64 `json:"ayanamsa"`
	}
	if err := c.postJSON(ctx, c.resolvePath(c.ayanamsaPath), payload, &response); err != nil {
		return 0, fmt.Errorf("ephemeris ayanamsa request failed: %w", err)
	}
	if response.Ayanamsa == nil || !finite(*response.Ayanamsa) {
		return 0, fmt.Errorf("ephemeris ayanamsa missing from response")
	}
	return *response.Ayanamsa, nil
}

// BodyLongitude implements ephemeris.Oracle.
func (c *EphemerisClient) BodyLongitude(ctx context.Context, jd float64, body ephemeris.BodyID) (float64, error) {
	if err := c.ready(); err != nil {
		return 0, err
	}

	payload := map[string]interface{}{
		"jd":   jd,
		"body": string(body),
	}

	var response struct {
		Longitude *float64 `json:"longitude"`
	}
	if err := c.postJSON(ctx, c.resolvePath(c.bodyPath), payload, &response); err != nil {
		return 0, fmt.Errorf("ephemeris longitude request for %s failed: %w", body, err)
	}
	if response.Longitude == nil || !finite(*response.Longitude) {
		return 0, fmt.Errorf("ephemeris longitude for %s missing from response", body)
	}
	return *response.Longitude, nil
}

func (c *EphemerisClient) ready() error {
	if c == nil {
		return fmt.Errorf("ephemeris client not initialised")
	}
	if c.baseURL == "" {
		return fmt.Errorf("ephemeris base URL not configured")
	}
	return nil
}

func (c *EphemerisClient) resolvePath(p string) string {
	if c.baseURL == "" {
		return ""
	}
	cleaned := "/" + strings.TrimLeft(p, "/")
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return c.baseURL + cleaned
	}
	u.Path = path.Join(u.Path, cleaned)
	return u.String()
}

func (c *EphemerisClient) postJSON(ctx context.Context, endpoint string, payload any, out any) error {
	if endpoint == "" {
		return fmt.Errorf("empty endpoint")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var failure struct {
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(data, &failure) == nil && failure.Error != "" {
			return fmt.Errorf("ephemeris returned %s: %s", resp.Status, failure.Error)
		}
		return fmt.Errorf("ephemeris returned %s", resp.Status)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
