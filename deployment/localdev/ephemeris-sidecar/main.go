// Command ephemeris-sidecar serves the analytic ephemeris over JSON so the
// engine's http backend can be exercised locally.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/miradorstack/natal-engine/internal/ephemeris"
	"github.com/miradorstack/natal-engine/internal/utils"
)

type housesRequest struct {
	JD          float64 `json:"jd"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	HouseSystem string  `json:"house_system"`
}

type ayanamsaRequest struct {
	JD   float64 `json:"jd"`
	Mode string  `json:"mode"`
}

type bodyRequest struct {
	JD   float64 `json:"jd"`
	Body string  `json:"body"`
}

func main() {
	addr := flag.String("addr", ":9090", "listen address")
	flag.Parse()

	logger := utils.NewLogger(os.Getenv("NATAL_LOG_LEVEL"), false).With(slog.String("component", "ephemeris-sidecar"))
	srv := &http.Server{
		Addr:              *addr,
		Handler:           logRequests(logger, newMux()),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("listening", slog.String("address", *addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}
}

func newMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("POST /v1/houses", func(w http.ResponseWriter, r *http.Request) {
		var req housesRequest
		if !decode(w, r, &req) {
			return
		}
		system, err := ephemeris.ParseHouseSystem(req.HouseSystem)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		houses, err := ephemeris.ComputeHouses(req.JD, req.Latitude, req.Longitude, system)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		writeJSON(w, map[string]any{
			"ascendant": houses.Ascendant,
			"midheaven": houses.Midheaven,
			"cusps":     houses.Cusps[:],
		})
	})

	mux.HandleFunc("POST /v1/ayanamsa", func(w http.ResponseWriter, r *http.Request) {
		var req ayanamsaRequest
		if !decode(w, r, &req) {
			return
		}
		mode, err := ephemeris.ParseAyanamsaMode(req.Mode)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		value, err := ephemeris.AyanamsaAt(req.JD, mode)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		writeJSON(w, map[string]any{"ayanamsa": value})
	})

	mux.HandleFunc("POST /v1/body", func(w http.ResponseWriter, r *http.Request) {
		var req bodyRequest
		if !decode(w, r, &req) {
			return
		}
		lon, err := ephemeris.Longitude(req.JD, ephemeris.BodyID(req.Body))
		if err != nil {
			status := http.StatusUnprocessableEntity
			if errors.Is(err, ephemeris.ErrUnknownBody) {
				status = http.StatusBadRequest
			}
			writeError(w, status, err)
			return
		}
		writeJSON(w, map[string]any{"longitude": lon})
	})
	return mux
}

func decode(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func logRequests(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		logger.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rw.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
