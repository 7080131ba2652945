package models

import "fmt"

// Body identifies a chart point with a tabulated longitude.
type Body int

const (
	BodySun Body = iota
	BodyMoon
	BodyMercury
	BodyVenus
	BodyMars
	BodyJupiter
	BodySaturn
	BodyUranus
	BodyNeptune
	BodyPluto
	BodyNorthNode
	BodySouthNode
)

// Bodies lists every tabulated body in table order.
var Bodies = []Body{
	BodySun, BodyMoon, BodyMercury, BodyVenus, BodyMars, BodyJupiter,
	BodySaturn, BodyUranus, BodyNeptune, BodyPluto, BodyNorthNode, BodySouthNode,
}

var bodyNames = [...]string{
	"Sun", "Moon", "Mercury", "Venus", "Mars", "Jupiter",
	"Saturn", "Uranus", "Neptune", "Pluto", "North Node", "South Node",
}

var bodyGlyphs = [...]string{
	"☉", "☽", "☿", "♀", "♂", "♃",
	"♄", "♅", "♆", "♇", "", "",
}

// Name is the plain English name, e.g. "Mars".
func (b Body) Name() string {
	if b < 0 || int(b) >= len(bodyNames) {
		return fmt.Sprintf("Body(%d)", int(b))
	}
	return bodyNames[b]
}

// Label is the key used in response tables: glyph and name for planets,
// bare name for the lunar nodes.
func (b Body) Label() string {
	if b < 0 || int(b) >= len(bodyGlyphs) || bodyGlyphs[b] == "" {
		return b.Name()
	}
	return bodyGlyphs[b] + " " + bodyNames[b]
}

func (b Body) String() string { return b.Name() }
