package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"golang.org/x/text/language"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/miradorstack/natal-engine/internal/chart"
	"github.com/miradorstack/natal-engine/internal/engine"
	"github.com/miradorstack/natal-engine/internal/ephemeris"
	"github.com/miradorstack/natal-engine/internal/locale"
	"github.com/miradorstack/natal-engine/internal/models"
	"github.com/miradorstack/natal-engine/internal/utils"
)

type brokenOracle struct {
	*ephemeris.Analytic
}

func (brokenOracle) BodyLongitude(ctx context.Context, jd float64, body ephemeris.BodyID) (float64, error) {
	return 0, errors.New("ephemeris files missing")
}

func newService(t *testing.T, oracle ephemeris.Oracle) *NatalService {
	t.Helper()
	zone, err := utils.LoadZone("Europe/Madrid")
	if err != nil {
		t.Fatalf("load zone: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gateway := engine.NewGateway(oracle, ephemeris.Placidus, 0)
	assembler := engine.NewAssembler(logger, engine.NewTimeResolver(gateway, zone), gateway, engine.NewZodiacDecomposer(locale.SignNames(language.Spanish)))
	return NewNatalService(logger, assembler, chart.NewWheel(300), language.Spanish)
}

func birthStruct(t *testing.T, fields map[string]interface{}) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(fields)
	if err != nil {
		t.Fatalf("build struct: %v", err)
	}
	return s
}

func referenceFields() map[string]interface{} {
	return map[string]interface{}{
		"birth_date": "2000-01-01",
		"birth_time": "12:00",
		"latitude":   40.4,
		"longitude":  -3.7,
	}
}

func TestComputePositions(t *testing.T) {
	service := newService(t, ephemeris.NewAnalytic(ephemeris.FaganBradley))

	resp, err := service.ComputePositions(context.Background(), birthStruct(t, referenceFields()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := resp.AsMap()
	for _, key := range []string{"ascendant_tropical", "ascendant_sidereal", "planetary_positions_tropical", "planetary_positions_sidereal"} {
		if _, ok := out[key]; !ok {
			t.Fatalf("response missing %s: %v", key, out)
		}
	}
	tropical := out["planetary_positions_tropical"].(map[string]interface{})
	if len(tropical) != len(models.Bodies) {
		t.Fatalf("expected %d bodies, got %d", len(models.Bodies), len(tropical))
	}
	if _, ok := tropical["☉ Sun"]; !ok {
		t.Fatalf("expected glyph labelled Sun, got %v", tropical)
	}

	asc := out["ascendant_tropical"].(map[string]interface{})
	spanish := locale.SignNames(language.Spanish)
	if !contains(spanish[:], asc["sign"].(string)) {
		t.Fatalf("expected Spanish sign name, got %v", asc["sign"])
	}
}

func TestComputePositionsNegotiatesLocale(t *testing.T) {
	service := newService(t, ephemeris.NewAnalytic(ephemeris.FaganBradley))
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("accept-language", "en-US"))

	resp, err := service.ComputePositions(ctx, birthStruct(t, referenceFields()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sign := resp.AsMap()["ascendant_sidereal"].(map[string]interface{})["sign"].(string)
	english := locale.SignNames(language.English)
	if !contains(english[:], sign) {
		t.Fatalf("expected English sign name, got %q", sign)
	}
}

func TestComputePositionsInvalidArgument(t *testing.T) {
	service := newService(t, ephemeris.NewAnalytic(ephemeris.FaganBradley))

	cases := map[string]map[string]interface{}{
		"missing time":  {"birth_date": "2000-01-01", "latitude": 1.0, "longitude": 1.0},
		"wrong type":    {"birth_date": "2000-01-01", "birth_time": "12:00", "latitude": "north", "longitude": 1.0},
		"bad date":      {"birth_date": "2000-13-40", "birth_time": "12:00", "latitude": 1.0, "longitude": 1.0},
		"bad latitude":  {"birth_date": "2000-01-01", "birth_time": "12:00", "latitude": 100.0, "longitude": 1.0},
		"bad longitude": {"birth_date": "2000-01-01", "birth_time": "12:00", "latitude": 10.0, "longitude": -200.0},
	}
	for name, fields := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := service.ComputePositions(context.Background(), birthStruct(t, fields))
			if status.Code(err) != codes.InvalidArgument {
				t.Fatalf("expected invalid argument, got %v", err)
			}
		})
	}

	if _, err := service.ComputeSchedule(context.Background(), nil); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected invalid argument for nil request, got %v", err)
	}
}

func TestComputePositionsOracleFailure(t *testing.T) {
	service := newService(t, brokenOracle{Analytic: ephemeris.NewAnalytic(ephemeris.FaganBradley)})

	_, err := service.ComputePositions(context.Background(), birthStruct(t, referenceFields()))
	if status.Code(err) != codes.Internal {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestComputeSchedule(t *testing.T) {
	service := newService(t, ephemeris.NewAnalytic(ephemeris.Lahiri))

	resp, err := service.ComputeSchedule(context.Background(), birthStruct(t, referenceFields()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dasha := resp.AsMap()["vimshottari_dasha"].(map[string]interface{})
	if dasha["total_years"].(float64) != 120 {
		t.Fatalf("expected 120 total years, got %v", dasha["total_years"])
	}
	if start := dasha["start"].(float64); start < 0 || start >= 120 {
		t.Fatalf("start %v outside [0,120)", start)
	}
}

func TestRenderChartAndLatency(t *testing.T) {
	service := newService(t, ephemeris.NewAnalytic(ephemeris.FaganBradley))

	resp, err := service.RenderChart(context.Background(), &emptypb.Empty{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(resp.GetValue(), []byte("\x89PNG")) {
		t.Fatalf("expected PNG payload")
	}
	if _, err := service.Chart(chart.Format("gif")); !errors.Is(err, utils.ErrComputation) {
		t.Fatalf("expected computation error for unknown format, got %v", err)
	}

	if got := service.Latency()[OpChart].Count; got != 1 {
		t.Fatalf("expected one chart sample, got %d", got)
	}
	if got := service.Latency()[OpPositions].Count; got != 0 {
		t.Fatalf("expected no positions samples, got %d", got)
	}
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
