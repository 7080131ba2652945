package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/miradorstack/natal-engine/internal/locale"
	"github.com/miradorstack/natal-engine/internal/models"
)

func TestDecomposeIsTotalAndRoundTrips(t *testing.T) {
	z := NewZodiacDecomposer(locale.SignNames(language.Spanish))
	for a := 0.0; a < 360; a += 0.113 {
		label := z.Decompose(models.EclipticAngle(a))
		if label.SignIndex < 0 || label.SignIndex > 11 {
			t.Fatalf("sign index %d out of range for %v", label.SignIndex, a)
		}
		if label.Degree < 0 || label.Degree >= 30 {
			t.Fatalf("degree %v out of range for %v", label.Degree, a)
		}
		if back := float64(label.SignIndex)*30 + label.Degree; math.Abs(back-a) > 1e-9 {
			t.Fatalf("round trip of %v gave %v", a, back)
		}
	}
}

func TestDecompose(t *testing.T) {
	z := NewZodiacDecomposer(locale.SignNames(language.Spanish))

	cases := []struct {
		angle  float64
		sign   string
		index  int
		degree float64
	}{
		{0, "Aries", 0, 0},
		{30, "Tauro", 1, 0},
		{45.5, "Tauro", 1, 15.5},
		{95.25, "Cáncer", 3, 5.25},
		{359.999, "Piscis", 11, 29.999},
	}
	for _, c := range cases {
		label := z.Decompose(models.EclipticAngle(c.angle))
		assert.Equal(t, c.sign, label.Sign, "angle %v", c.angle)
		assert.Equal(t, c.index, label.SignIndex, "angle %v", c.angle)
		assert.InDelta(t, c.degree, label.Degree, 1e-9, "angle %v", c.angle)
	}
}

func TestDecomposeNormalisesOutOfDomain(t *testing.T) {
	z := NewZodiacDecomposer(locale.SignNames(language.English))
	label := z.Decompose(-15)
	assert.Equal(t, "Pisces", label.Sign)
	assert.InDelta(t, 15.0, label.Degree, 1e-9)

	assert.Equal(t, "Aries", z.SignName(0))
	assert.Equal(t, "", z.SignName(12))
}
