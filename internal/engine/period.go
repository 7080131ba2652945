package engine

import (
	"math"

	"github.com/miradorstack/natal-engine/internal/ephemeris"
	"github.com/miradorstack/natal-engine/internal/models"
)

// dashaModulus folds the longitude into the simplified 27-unit cycle.
const dashaModulus = 27.0

// Schedule derives the simplified Vimshottari start offset from the Moon's
// sidereal longitude: (lon mod 27) / 27 * 120, reported to 2 decimals.
// This is a linear approximation, not a nakshatra lookup with weighted
// sub-periods.
func Schedule(moonSidereal models.EclipticAngle) models.PeriodSchedule {
	lon := float64(moonSidereal)
	if lon < 0 || lon >= 360 {
		lon = ephemeris.Normalize(lon)
	}
	start := Round2(math.Mod(lon, dashaModulus) / dashaModulus * models.TotalDashaYears)
	// Rounding just below the cycle end lands on its start.
	if start >= models.TotalDashaYears {
		start = 0
	}
	return models.PeriodSchedule{Start: start, TotalYears: models.TotalDashaYears}
}
