package engine

import (
	"context"
	"log/slog"

	"github.com/miradorstack/natal-engine/internal/models"
	"github.com/miradorstack/natal-engine/internal/utils"
)

// Assembler orchestrates time resolution, oracle lookups, frame conversion
// and zodiac labelling into the positions and schedule results. It keeps no
// per-request state, so one Assembler serves concurrent requests.
type Assembler struct {
	logger   *slog.Logger
	resolver *TimeResolver
	gateway  *Gateway
	zodiac   *ZodiacDecomposer
}

// NewAssembler constructs the orchestrator.
func NewAssembler(logger *slog.Logger, resolver *TimeResolver, gateway *Gateway, zodiac *ZodiacDecomposer) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{
		logger:   logger,
		resolver: resolver,
		gateway:  gateway,
		zodiac:   zodiac,
	}
}

// Positions computes the tropical and sidereal ascendant and planetary tables.
func (a *Assembler) Positions(ctx context.Context, in models.BirthInput) (models.PositionsResult, error) {
	if err := a.ready(); err != nil {
		return models.PositionsResult{}, err
	}
	if err := ValidateBirthInput(in); err != nil {
		return models.PositionsResult{}, err
	}

	epoch, ut, err := a.resolver.Resolve(in)
	if err != nil {
		return models.PositionsResult{}, err
	}
	a.logger.Debug("resolved birth epoch",
		slog.String("date", in.Date),
		slog.String("time", in.Time),
		slog.Time("ut", ut),
		slog.Float64("epoch", float64(epoch)),
	)

	snap, err := a.gateway.Snapshot(ctx, epoch, in.Latitude, in.Longitude)
	if err != nil {
		return models.PositionsResult{}, err
	}

	ascSidereal := ToSidereal(snap.Ascendant, snap.Ayanamsa)
	return models.PositionsResult{
		Epoch:             epoch,
		Ayanamsa:          snap.Ayanamsa,
		AscendantTropical: a.ascendant(snap.Ascendant),
		AscendantSidereal: a.ascendant(ascSidereal),
		PlanetaryTropical: snap.Tropical,
		PlanetarySidereal: ToSiderealTable(snap.Tropical, snap.Ayanamsa),
	}, nil
}

// Schedule computes the simplified Vimshottari schedule from the Moon's
// sidereal longitude at the birth epoch.
func (a *Assembler) Schedule(ctx context.Context, in models.BirthInput) (models.ScheduleResult, error) {
	if err := a.ready(); err != nil {
		return models.ScheduleResult{}, err
	}
	if err := ValidateBirthInput(in); err != nil {
		return models.ScheduleResult{}, err
	}

	epoch, _, err := a.resolver.Resolve(in)
	if err != nil {
		return models.ScheduleResult{}, err
	}
	ayanamsa, err := a.gateway.Ayanamsa(ctx, epoch)
	if err != nil {
		return models.ScheduleResult{}, err
	}
	moon, err := a.gateway.Longitude(ctx, epoch, models.BodyMoon)
	if err != nil {
		return models.ScheduleResult{}, err
	}

	moonSidereal := ToSidereal(moon, ayanamsa)
	schedule := Schedule(moonSidereal)
	a.logger.Debug("computed dasha schedule",
		slog.Float64("epoch", float64(epoch)),
		slog.Float64("moon_sidereal", float64(moonSidereal)),
		slog.Float64("start", schedule.Start),
	)

	return models.ScheduleResult{
		Epoch:            epoch,
		MoonSidereal:     moonSidereal,
		VimshottariDasha: schedule,
	}, nil
}

func (a *Assembler) ascendant(angle models.EclipticAngle) models.AscendantPosition {
	label := a.zodiac.Decompose(angle)
	return models.AscendantPosition{
		Label:  label,
		Angle:  angle,
		Degree: Round2(label.Degree),
	}
}

func (a *Assembler) ready() error {
	if a == nil || a.resolver == nil || a.gateway == nil || a.zodiac == nil {
		return utils.NewComputationError("engine", "assembler not configured", nil)
	}
	return nil
}
