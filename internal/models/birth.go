package models

// BirthInput is the caller-supplied birth moment and place.
type BirthInput struct {
	Date      string
	Time      string
	Latitude  float64
	Longitude float64
}

// Epoch is a Julian Day number in Universal Time.
type Epoch float64

// EclipticAngle is an ecliptic longitude in degrees, normally in [0,360).
type EclipticAngle float64

// AyanamsaOffset is the precession correction, in degrees, for an Epoch.
type AyanamsaOffset float64

// ZodiacLabel places an angle inside the 12-sign, 30 degree zodiac.
type ZodiacLabel struct {
	Sign      string
	SignIndex int
	Degree    float64
}

// PlanetaryTable maps each body to its ecliptic longitude.
type PlanetaryTable map[Body]EclipticAngle

// Labelled converts the table into wire labels keyed by Body.Label.
func (t PlanetaryTable) Labelled() map[string]float64 {
	out := make(map[string]float64, len(t))
	for body, angle := range t {
		out[body.Label()] = float64(angle)
	}
	return out
}

// TotalDashaYears is the length of the Vimshottari master cycle.
const TotalDashaYears = 120

// PeriodSchedule is the simplified major-period allocation.
type PeriodSchedule struct {
	Start      float64
	TotalYears int
}
