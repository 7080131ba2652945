package engine

import (
	"github.com/miradorstack/natal-engine/internal/ephemeris"
	"github.com/miradorstack/natal-engine/internal/models"
)

// ToSidereal rotates a tropical longitude into the sidereal frame.
func ToSidereal(angle models.EclipticAngle, ayanamsa models.AyanamsaOffset) models.EclipticAngle {
	result := float64(angle) - float64(ayanamsa)
	if result < 0 {
		result += 360
	}
	// Only reachable for out-of-domain inputs or when +360 rounds up to 360.
	if result < 0 || result >= 360 {
		result = ephemeris.Normalize(result)
	}
	return models.EclipticAngle(result)
}

// ToSiderealTable applies ToSidereal to every entry of a tropical table.
func ToSiderealTable(tropical models.PlanetaryTable, ayanamsa models.AyanamsaOffset) models.PlanetaryTable {
	sidereal := make(models.PlanetaryTable, len(tropical))
	for body, angle := range tropical {
		sidereal[body] = ToSidereal(angle, ayanamsa)
	}
	return sidereal
}
