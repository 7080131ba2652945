package services

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/text/language"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/miradorstack/natal-engine/internal/api"
	"github.com/miradorstack/natal-engine/internal/chart"
	"github.com/miradorstack/natal-engine/internal/engine"
	"github.com/miradorstack/natal-engine/internal/locale"
	"github.com/miradorstack/natal-engine/internal/metrics"
	"github.com/miradorstack/natal-engine/internal/models"
	"github.com/miradorstack/natal-engine/internal/utils"
)

// Operation names used for metrics and latency tracking.
const (
	OpPositions = "positions"
	OpSchedule  = "schedule"
	OpChart     = "chart"
)

// latencyLogEvery controls how often the p95 latency is logged per operation.
const latencyLogEvery = 100

// NatalService is the facade shared by the gRPC and HTTP surfaces.
type NatalService struct {
	logger        *slog.Logger
	assembler     *engine.Assembler
	wheel         chart.Wheel
	defaultLocale language.Tag
	latencies     map[string]*utils.LatencyTracker
}

var _ api.NatalChartServer = (*NatalService)(nil)
var _ api.Backend = (*NatalService)(nil)

// NewNatalService constructs the service facade.
func NewNatalService(logger *slog.Logger, assembler *engine.Assembler, wheel chart.Wheel, defaultLocale language.Tag) *NatalService {
	if logger == nil {
		logger = slog.Default()
	}
	return &NatalService{
		logger:        logger,
		assembler:     assembler,
		wheel:         wheel,
		defaultLocale: defaultLocale,
		latencies: map[string]*utils.LatencyTracker{
			OpPositions: utils.NewLatencyTracker(1024),
			OpSchedule:  utils.NewLatencyTracker(1024),
			OpChart:     utils.NewLatencyTracker(1024),
		},
	}
}

// Positions computes the ascendant and planetary tables for a birth moment.
func (s *NatalService) Positions(ctx context.Context, in models.BirthInput) (models.PositionsResult, error) {
	start := time.Now()
	res, err := s.assembler.Positions(ctx, in)
	s.observe(ctx, OpPositions, start, err)
	return res, err
}

// Schedule computes the simplified Vimshottari schedule for a birth moment.
func (s *NatalService) Schedule(ctx context.Context, in models.BirthInput) (models.ScheduleResult, error) {
	start := time.Now()
	res, err := s.assembler.Schedule(ctx, in)
	s.observe(ctx, OpSchedule, start, err)
	return res, err
}

// Chart renders the static zodiac wheel.
func (s *NatalService) Chart(format chart.Format) ([]byte, error) {
	start := time.Now()
	data, err := s.wheel.Bytes(format)
	if err != nil {
		err = utils.NewComputationError("chart.render", "render failed", err)
	}
	s.observe(context.Background(), OpChart, start, err)
	return data, err
}

// SignNames negotiates the sign vocabulary for an Accept-Language value.
func (s *NatalService) SignNames(acceptLanguage string) [locale.SignCount]string {
	return locale.SignNames(locale.Negotiate(acceptLanguage, s.defaultLocale))
}

// Latency reports the recent latency distribution of each operation.
func (s *NatalService) Latency() map[string]utils.LatencySummary {
	out := make(map[string]utils.LatencySummary, len(s.latencies))
	for op, tracker := range s.latencies {
		out[op] = tracker.Summary()
	}
	return out
}

// ComputePositions implements natal.v1.NatalChart/ComputePositions.
func (s *NatalService) ComputePositions(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in, err := api.BirthInputFromStruct(req)
	if err != nil {
		metrics.ObserveComputation(OpPositions, 0, metrics.OutcomeInvalid)
		return nil, api.StatusError(err)
	}
	s.logger.Debug("ComputePositions called", slog.String("date", in.Date), slog.String("time", in.Time))

	res, err := s.Positions(ctx, in)
	if err != nil {
		return nil, api.StatusError(err)
	}
	out, err := api.NewPositionsResponse(res, s.SignNames(acceptLanguage(ctx))).Struct()
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

// ComputeSchedule implements natal.v1.NatalChart/ComputeSchedule.
func (s *NatalService) ComputeSchedule(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in, err := api.BirthInputFromStruct(req)
	if err != nil {
		metrics.ObserveComputation(OpSchedule, 0, metrics.OutcomeInvalid)
		return nil, api.StatusError(err)
	}
	s.logger.Debug("ComputeSchedule called", slog.String("date", in.Date), slog.String("time", in.Time))

	res, err := s.Schedule(ctx, in)
	if err != nil {
		return nil, api.StatusError(err)
	}
	out, err := api.NewDashaResponse(res).Struct()
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

// RenderChart implements natal.v1.NatalChart/RenderChart; the payload is PNG.
func (s *NatalService) RenderChart(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.BytesValue, error) {
	data, err := s.Chart(chart.FormatPNG)
	if err != nil {
		return nil, api.StatusError(err)
	}
	return wrapperspb.Bytes(data), nil
}

func (s *NatalService) observe(ctx context.Context, op string, start time.Time, err error) {
	duration := time.Since(start)
	if err != nil {
		outcome := metrics.OutcomeError
		level := slog.LevelError
		if kind := utils.KindOf(err); kind == utils.KindParse || kind == utils.KindRange {
			outcome = metrics.OutcomeInvalid
			level = slog.LevelWarn
		}
		metrics.ObserveComputation(op, duration, outcome)
		s.logger.Log(ctx, level, "computation failed", slog.String("operation", op), slog.Any("error", err))
		return
	}

	metrics.ObserveComputation(op, duration, metrics.OutcomeSuccess)
	tracker := s.latencies[op]
	tracker.Observe(duration)
	if total := tracker.Total(); total%latencyLogEvery == 0 {
		s.logger.Info("computation latency", slog.String("operation", op), slog.Duration("p95", tracker.Percentile(95)), slog.Int("samples", tracker.Count()))
	}
}

func acceptLanguage(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if values := md.Get("accept-language"); len(values) > 0 {
		return values[0]
	}
	return ""
}
