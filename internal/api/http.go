package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/miradorstack/natal-engine/internal/chart"
	"github.com/miradorstack/natal-engine/internal/config"
	"github.com/miradorstack/natal-engine/internal/locale"
	"github.com/miradorstack/natal-engine/internal/models"
	"github.com/miradorstack/natal-engine/internal/utils"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

const maxRequestBytes = 1 << 16

// Backend is what the HTTP surface needs from the service layer.
type Backend interface {
	Positions(ctx context.Context, in models.BirthInput) (models.PositionsResult, error)
	Schedule(ctx context.Context, in models.BirthInput) (models.ScheduleResult, error)
	Chart(format chart.Format) ([]byte, error)
	SignNames(acceptLanguage string) [locale.SignCount]string
	Latency() map[string]utils.LatencySummary
}

type httpHandler struct {
	backend Backend
	logger  *slog.Logger
}

// NewHTTPHandler exposes the engine over JSON.
func NewHTTPHandler(backend Backend, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &httpHandler{backend: backend, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /calculate_positions/", h.positions)
	mux.HandleFunc("POST /calculate_dasha/", h.dasha)
	mux.HandleFunc("GET /generate_chart/", h.chart)
	mux.HandleFunc("GET /healthz", h.health)
	return h.withRequestID(mux)
}

func (h *httpHandler) positions(w http.ResponseWriter, r *http.Request) {
	in, err := decodeBirthRequest(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	res, err := h.backend.Positions(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	names := h.backend.SignNames(r.Header.Get("Accept-Language"))
	writeJSON(w, http.StatusOK, NewPositionsResponse(res, names))
}

func (h *httpHandler) dasha(w http.ResponseWriter, r *http.Request) {
	in, err := decodeBirthRequest(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	res, err := h.backend.Schedule(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NewDashaResponse(res))
}

func (h *httpHandler) chart(w http.ResponseWriter, r *http.Request) {
	format, err := chart.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.writeError(w, r, utils.NewParseError("chart.format", "unsupported format", err))
		return
	}
	data, err := h.backend.Chart(format)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

type healthResponse struct {
	Status  string                    `json:"status"`
	Latency map[string]latencySummary `json:"latency"`
}

type latencySummary struct {
	Count int     `json:"count"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

func (h *httpHandler) health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "SERVING", Latency: map[string]latencySummary{}}
	for op, s := range h.backend.Latency() {
		resp.Latency[op] = latencySummary{
			Count: s.Count,
			P50Ms: milliseconds(s.P50),
			P95Ms: milliseconds(s.P95),
			P99Ms: milliseconds(s.P99),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func decodeBirthRequest(w http.ResponseWriter, r *http.Request) (models.BirthInput, error) {
	var req BirthRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&req); err != nil {
		return models.BirthInput{}, utils.NewParseError("request.decode", "invalid JSON body", err)
	}
	return req.ToModel()
}

func (h *httpHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := HTTPStatus(err)
	level := slog.LevelWarn
	if code >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(r.Context(), level, "request failed",
		slog.String("request_id", w.Header().Get(RequestIDHeader)),
		slog.String("path", r.URL.Path),
		slog.Int("status", code),
		slog.Any("error", err),
	)
	writeJSON(w, code, ErrorResponse{Detail: err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (h *httpHandler) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		h.logger.Debug("http request",
			slog.String("request_id", id),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

// HTTPServer serves the JSON API.
type HTTPServer struct {
	cfg      config.ServerConfig
	server   *http.Server
	listener net.Listener
}

// NewHTTPServer binds the JSON API to the configured HTTP address.
func NewHTTPServer(cfg config.ServerConfig, backend Backend, logger *slog.Logger) (*HTTPServer, error) {
	lis, err := net.Listen("tcp", cfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", cfg.HTTPAddress, err)
	}
	return &HTTPServer{
		cfg: cfg,
		server: &http.Server{
			Handler:           NewHTTPHandler(backend, logger),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
		},
		listener: lis,
	}, nil
}

// Start serves requests until Shutdown is invoked.
func (s *HTTPServer) Start() error {
	if s.server == nil || s.listener == nil {
		return fmt.Errorf("server not initialised")
	}
	if err := s.server.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Address exposes the bound listener address.
func (s *HTTPServer) Address() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}
