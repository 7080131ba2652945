package engine

import (
	"time"

	"github.com/miradorstack/natal-engine/internal/models"
	"github.com/miradorstack/natal-engine/internal/utils"
)

// DayNumberer is the slice of the oracle the resolver needs.
type DayNumberer interface {
	DayNumber(year, month, day int, hour float64) (float64, error)
}

// TimeResolver turns a civil birth date and time in the configured zone
// into a UT Julian day.
type TimeResolver struct {
	oracle DayNumberer
	zone   *time.Location
}

// NewTimeResolver builds a resolver for the process-wide source zone.
func NewTimeResolver(oracle DayNumberer, zone *time.Location) *TimeResolver {
	if zone == nil {
		zone = time.UTC
	}
	return &TimeResolver{oracle: oracle, zone: zone}
}

// Zone reports the source time zone.
func (r *TimeResolver) Zone() *time.Location { return r.zone }

// Resolve returns the epoch of the birth moment and the UT instant it was derived from.
func (r *TimeResolver) Resolve(in models.BirthInput) (models.Epoch, time.Time, error) {
	local, err := utils.ParseCivil(in.Date, in.Time, r.zone)
	if err != nil {
		return 0, time.Time{}, utils.NewParseError("time.resolve", "malformed birth date or time", err)
	}

	ut := local.UTC()
	jd, err := r.oracle.DayNumber(ut.Year(), int(ut.Month()), ut.Day(), utils.FractionalHour(ut))
	if err != nil {
		return 0, time.Time{}, utils.NewComputationError("time.resolve", "day number failed", err)
	}
	return models.Epoch(jd), ut, nil
}
