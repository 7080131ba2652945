package models

// AscendantPosition is the rounded, labelled ascendant for one frame.
type AscendantPosition struct {
	Label  ZodiacLabel
	Angle  EclipticAngle
	Degree float64
}

// PositionsResult is the combined output of the positions operation.
type PositionsResult struct {
	Epoch             Epoch
	Ayanamsa          AyanamsaOffset
	AscendantTropical AscendantPosition
	AscendantSidereal AscendantPosition
	PlanetaryTropical PlanetaryTable
	PlanetarySidereal PlanetaryTable
}

// ScheduleResult is the output of the period schedule operation.
type ScheduleResult struct {
	Epoch            Epoch
	MoonSidereal     EclipticAngle
	VimshottariDasha PeriodSchedule
}
