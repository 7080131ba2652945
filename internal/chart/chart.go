// Package chart draws the static zodiac wheel served next to the position
// tables. The wheel does not depend on any computed position.
package chart

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/miradorstack/natal-engine/internal/locale"
)

// Format selects the chart encoding.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ParseFormat resolves a format name; empty selects PNG.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatPNG, nil
	case FormatPNG, FormatSVG:
		return f, nil
	}
	return "", fmt.Errorf("unsupported chart format %q", s)
}

// ContentType is the media type of the encoded chart.
func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// Wheel geometry in chart units: the circle has radius 1 and sign markers
// sit at MarkerRadius, offset half a sign from each spoke.
const (
	MarkerRadius = 1.2
	extent       = 1.4
	spokeStep    = 30.0
	markerOffset = 15.0
	ringSegments = 180
)

var (
	spokeColor  = color.Gray{Y: 0x80}
	circleColor = color.Black
)

// Wheel renders the 12-sector zodiac wheel at a square pixel size.
type Wheel struct {
	Size int
}

// NewWheel returns a wheel of size pixels; non-positive sizes select 600.
func NewWheel(size int) Wheel {
	if size <= 0 {
		size = 600
	}
	return Wheel{Size: size}
}

// Render encodes the wheel in the requested format.
func (w Wheel) Render(out io.Writer, format Format) error {
	switch format {
	case FormatPNG, "":
		return w.PNG(out)
	case FormatSVG:
		return w.SVG(out)
	}
	return fmt.Errorf("unsupported chart format %q", format)
}

// Bytes renders the wheel into memory.
func (w Wheel) Bytes(format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := w.Render(&buf, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (w Wheel) scale() float64 { return float64(w.Size) / 2 / extent }

// toPixel maps chart units (y up) to image coordinates (y down).
func (w Wheel) toPixel(x, y float64) (float32, float32) {
	c := float64(w.Size) / 2
	s := w.scale()
	return float32(c + x*s), float32(c - y*s)
}

func polar(radius, degrees float64) (float64, float64) {
	rad := degrees * math.Pi / 180
	return radius * math.Cos(rad), radius * math.Sin(rad)
}

// PNG draws the wheel with ASCII sign abbreviations, since the bitmap font
// has no zodiac glyphs.
func (w Wheel) PNG(out io.Writer) error {
	img := image.NewRGBA(image.Rect(0, 0, w.Size, w.Size))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	z := vector.NewRasterizer(w.Size, w.Size)
	for i := 0; i < locale.SignCount; i++ {
		x, y := polar(1, float64(i)*spokeStep)
		w.segment(z, 0, 0, x, y, 1.5)
	}
	z.Draw(img, img.Bounds(), image.NewUniform(spokeColor), image.Point{})

	z.Reset(w.Size, w.Size)
	w.ring(z, 1, 2)
	z.Draw(img, img.Bounds(), image.NewUniform(circleColor), image.Point{})

	d := &font.Drawer{Dst: img, Src: image.NewUniform(circleColor), Face: basicfont.Face7x13}
	metrics := d.Face.Metrics()
	for i, label := range locale.Abbreviations {
		x, y := polar(MarkerRadius, float64(i)*spokeStep+markerOffset)
		px, py := w.toPixel(x, y)
		width := d.MeasureString(label)
		d.Dot = fixed.Point26_6{
			X: fixed.I(int(px)) - width/2,
			Y: fixed.I(int(py)) + (metrics.Ascent-metrics.Descent)/2,
		}
		d.DrawString(label)
	}

	if err := png.Encode(out, img); err != nil {
		return fmt.Errorf("encode chart png: %w", err)
	}
	return nil
}

// segment adds a straight stroke of the given pixel width as a quad.
func (w Wheel) segment(z *vector.Rasterizer, x0, y0, x1, y1 float64, width float32) {
	ax, ay := w.toPixel(x0, y0)
	bx, by := w.toPixel(x1, y1)
	dx, dy := bx-ax, by-ay
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length == 0 {
		return
	}
	nx, ny := -dy/length*width/2, dx/length*width/2

	z.MoveTo(ax+nx, ay+ny)
	z.LineTo(bx+nx, by+ny)
	z.LineTo(bx-nx, by-ny)
	z.LineTo(ax-nx, ay-ny)
	z.ClosePath()
}

// ring adds an annulus centred on the origin. The inner edge winds the
// opposite way so its interior stays unfilled.
func (w Wheel) ring(z *vector.Rasterizer, radius float64, width float32) {
	half := float64(width) / 2 / w.scale()
	path := func(r float64, reverse bool) {
		for i := 0; i <= ringSegments; i++ {
			step := i
			if reverse {
				step = ringSegments - i
			}
			px, py := w.toPixel(polar(r, float64(step)*360/ringSegments))
			if i == 0 {
				z.MoveTo(px, py)
				continue
			}
			z.LineTo(px, py)
		}
		z.ClosePath()
	}
	path(radius+half, false)
	path(radius-half, true)
}

// SVG draws the wheel with the Unicode sign glyphs.
func (w Wheel) SVG(out io.Writer) error {
	var b strings.Builder
	c := float64(w.Size) / 2

	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n", w.Size, w.Size, w.Size, w.Size)
	fmt.Fprintf(&b, `<rect width="100%%" height="100%%" fill="white"/>`+"\n")
	for i := 0; i < locale.SignCount; i++ {
		x, y := w.toPixel(polar(1, float64(i)*spokeStep))
		fmt.Fprintf(&b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="gray" stroke-width="1.5"/>`+"\n", c, c, x, y)
	}
	fmt.Fprintf(&b, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="black" stroke-width="2"/>`+"\n", c, c, w.scale())
	for i, glyph := range locale.Glyphs {
		x, y := w.toPixel(polar(MarkerRadius, float64(i)*spokeStep+markerOffset))
		fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" font-size="14" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n", x, y, glyph)
	}
	b.WriteString("</svg>\n")

	if _, err := io.WriteString(out, b.String()); err != nil {
		return fmt.Errorf("write chart svg: %w", err)
	}
	return nil
}
