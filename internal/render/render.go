// Package render draws the three map styles for a region and names the
// output files.
package render

import (
	"image"
	"math"

	"github.com/fogleman/gg"
	"github.com/paulmach/orb"
	"golang.org/x/image/font/basicfont"

	"mxroads/internal/geodata"
	"mxroads/internal/geom"
)

// Canvas geometry mirrors an 8-inch figure at 300 dpi. Line widths are
// given in printer's points and converted at that resolution.
const (
	SizePx     = 2400
	dpi        = 300.0
	pxPerPoint = dpi / 72.0

	roadWidthPt     = 0.05
	boundaryWidthPt = 0.5

	// width ramp for the distance map
	minDistWidthPt = 0.05
	maxDistWidthPt = 0.9

	// e-folding distance of the width law, metres in Web Mercator
	distScale = 1e6

	// extent padding around the boundary bounds, per side
	extentPad = 0.05

	roadAlpha = 204 // 80%, dark-background maps only

	darkBackground = "#090909"
)

// Scene is a region ready to draw. All coordinates are Web Mercator
// metres; Center is the boundary centroid the distance map measures
// from.
type Scene struct {
	Boundary orb.MultiPolygon
	Roads    []geodata.Road
	Center   orb.Point
}

// viewport maps Mercator coordinates onto the canvas: extent padded 5%
// per side, aspect preserved, drawing centered, y flipped.
type viewport struct {
	scale      float64
	minX, minY float64
	offX, offY float64
}

func newViewport(b orb.Bound) viewport {
	dx := b.Max[0] - b.Min[0]
	dy := b.Max[1] - b.Min[1]
	w := dx * (1 + 2*extentPad)
	h := dy * (1 + 2*extentPad)
	s := math.Min(SizePx/w, SizePx/h)
	return viewport{
		scale: s,
		minX:  b.Min[0] - extentPad*dx,
		minY:  b.Min[1] - extentPad*dy,
		offX:  (SizePx - s*w) / 2,
		offY:  (SizePx - s*h) / 2,
	}
}

func (v viewport) apply(p orb.Point) (float64, float64) {
	x := v.offX + (p[0]-v.minX)*v.scale
	y := SizePx - (v.offY + (p[1]-v.minY)*v.scale)
	return x, y
}

// Basic renders every road uniformly in black on white.
func Basic(s *Scene) image.Image {
	dc := gg.NewContext(SizePx, SizePx)
	dc.SetHexColor("#ffffff")
	dc.Clear()
	v := newViewport(s.Boundary.Bound())

	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(roadWidthPt * pxPerPoint)
	for _, r := range s.Roads {
		strokeLine(dc, v, r.Line)
	}

	dc.SetLineWidth(boundaryWidthPt * pxPerPoint)
	strokeBoundary(dc, v, s.Boundary)
	return dc.Image()
}

// ByType renders roads colored by highway class on a dark background
// with a legend in the lower-left corner. Classes draw in hierarchy
// order so reruns are byte-identical.
func ByType(s *Scene) image.Image {
	dc := gg.NewContext(SizePx, SizePx)
	dc.SetHexColor(darkBackground)
	dc.Clear()
	v := newViewport(s.Boundary.Bound())

	dc.SetLineWidth(roadWidthPt * pxPerPoint)
	for idx, col := range classColors {
		dc.SetRGBA255(int(col.R), int(col.G), int(col.B), roadAlpha)
		for _, r := range s.Roads {
			if ClassIndex(r.Class) != idx {
				continue
			}
			strokeLine(dc, v, r.Line)
		}
	}

	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(boundaryWidthPt * pxPerPoint)
	strokeBoundary(dc, v, s.Boundary)

	drawLegend(dc)
	return dc.Image()
}

// ByDistance renders roads colored by class with line width falling off
// away from the boundary centroid.
func ByDistance(s *Scene) image.Image {
	dc := gg.NewContext(SizePx, SizePx)
	dc.SetHexColor(darkBackground)
	dc.Clear()
	v := newViewport(s.Boundary.Bound())

	widths := distanceWidths(s)
	for i, r := range s.Roads {
		col := classColors[ClassIndex(r.Class)]
		dc.SetRGBA255(int(col.R), int(col.G), int(col.B), roadAlpha)
		dc.SetLineWidth(widths[i] * pxPerPoint)
		strokeLine(dc, v, r.Line)
	}

	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(boundaryWidthPt * pxPerPoint)
	strokeBoundary(dc, v, s.Boundary)
	return dc.Image()
}

// distanceWidths maps each road's distance from the centre onto the
// [min, max] point range: exp(-d/scale), rescaled over the region. If
// every road is equidistant the ramp collapses to the maximum width.
func distanceWidths(s *Scene) []float64 {
	raw := make([]float64, len(s.Roads))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, r := range s.Roads {
		raw[i] = math.Exp(-geom.DistanceFrom(r.Line, s.Center) / distScale)
		lo = math.Min(lo, raw[i])
		hi = math.Max(hi, raw[i])
	}

	widths := make([]float64, len(raw))
	span := hi - lo
	for i, w := range raw {
		if span == 0 {
			widths[i] = maxDistWidthPt
			continue
		}
		widths[i] = minDistWidthPt + (w-lo)/span*(maxDistWidthPt-minDistWidthPt)
	}
	return widths
}

func strokeLine(dc *gg.Context, v viewport, ls orb.LineString) {
	if len(ls) < 2 {
		return
	}
	x, y := v.apply(ls[0])
	dc.MoveTo(x, y)
	for _, p := range ls[1:] {
		x, y = v.apply(p)
		dc.LineTo(x, y)
	}
	dc.Stroke()
}

func strokeBoundary(dc *gg.Context, v viewport, mp orb.MultiPolygon) {
	for _, poly := range mp {
		for _, ring := range poly {
			if len(ring) < 2 {
				continue
			}
			x, y := v.apply(ring[0])
			dc.MoveTo(x, y)
			for _, p := range ring[1:] {
				x, y = v.apply(p)
				dc.LineTo(x, y)
			}
			dc.ClosePath()
		}
	}
	dc.Stroke()
}

func drawLegend(dc *gg.Context) {
	const (
		margin  = 48.0
		padding = 18.0
		swatchW = 36.0
		swatchH = 14.0
		rowH    = 30.0
		titleH  = 26.0
		boxW    = 240.0
	)

	rows := len(classColors)
	boxH := 2*padding + titleH + rowH*float64(rows)
	x0 := margin
	y0 := SizePx - margin - boxH

	dc.SetHexColor("#222222")
	dc.DrawRectangle(x0, y0, boxW, boxH)
	dc.Fill()
	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(2)
	dc.DrawRectangle(x0, y0, boxW, boxH)
	dc.Stroke()

	dc.SetFontFace(basicfont.Face7x13)
	dc.DrawString("Road type", x0+padding, y0+padding+13)

	for i, col := range classColors {
		rowY := y0 + padding + titleH + float64(i)*rowH
		dc.SetRGBA255(int(col.R), int(col.G), int(col.B), 255)
		dc.DrawRectangle(x0+padding, rowY+(rowH-swatchH)/2, swatchW, swatchH)
		dc.Fill()
		dc.SetRGB(1, 1, 1)
		dc.DrawString(classLabel(i), x0+padding+swatchW+12, rowY+rowH/2+5)
	}
}
