package engine

import (
	"math"

	"github.com/miradorstack/natal-engine/internal/ephemeris"
	"github.com/miradorstack/natal-engine/internal/locale"
	"github.com/miradorstack/natal-engine/internal/models"
)

const signWidth = 30.0

// ZodiacDecomposer labels ecliptic longitudes with a sign and a degree within it.
type ZodiacDecomposer struct {
	names [locale.SignCount]string
}

// NewZodiacDecomposer uses the given ordered sign names, Aries first.
func NewZodiacDecomposer(names [locale.SignCount]string) *ZodiacDecomposer {
	return &ZodiacDecomposer{names: names}
}

// Decompose maps an angle in [0,360) to its sign and degree. Angles outside
// the domain are normalised first.
func (z *ZodiacDecomposer) Decompose(angle models.EclipticAngle) models.ZodiacLabel {
	a := float64(angle)
	if a < 0 || a >= 360 {
		a = ephemeris.Normalize(a)
	}
	index := int(math.Floor(a / signWidth))
	if index > locale.SignCount-1 {
		index = locale.SignCount - 1
	}
	return models.ZodiacLabel{
		Sign:      z.names[index],
		SignIndex: index,
		Degree:    math.Mod(a, signWidth),
	}
}

// SignName returns the configured name for a sign index.
func (z *ZodiacDecomposer) SignName(index int) string {
	if index < 0 || index >= locale.SignCount {
		return ""
	}
	return z.names[index]
}
