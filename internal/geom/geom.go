// Package geom post-processes fetched road geometry: boundary cleanup,
// clipping back to the exact administrative polygon and projection into
// Web Mercator for plotting.
package geom

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/project"

	"mxroads/internal/geodata"
)

// LargestPolygon keeps only the component with the greatest area,
// dropping small disconnected fragments such as offshore islets. A
// single-polygon boundary passes through unchanged.
func LargestPolygon(mp orb.MultiPolygon) orb.MultiPolygon {
	if len(mp) <= 1 {
		return mp
	}
	best := 0
	bestArea := planar.Area(mp[0])
	for i := 1; i < len(mp); i++ {
		if a := planar.Area(mp[i]); a > bestArea {
			best, bestArea = i, a
		}
	}
	return orb.MultiPolygon{mp[best]}
}

// PadBound grows a bound outward by d on every side.
func PadBound(b orb.Bound, d float64) orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.Min[0] - d, b.Min[1] - d},
		Max: orb.Point{b.Max[0] + d, b.Max[1] + d},
	}
}

// ClipToBoundary clips every road to the boundary polygon. Lines are
// split at ring crossings and only the inside pieces survive; pieces
// that degenerate to a point (clipping artifacts where a road grazes
// the border) are discarded, so the result holds line geometry only.
func ClipToBoundary(boundary orb.MultiPolygon, roads []geodata.Road) []geodata.Road {
	bound := boundary.Bound()
	out := make([]geodata.Road, 0, len(roads))
	for _, r := range roads {
		if len(r.Line) < 2 {
			continue
		}
		// cheap bbox pass before the exact polygon split
		for _, piece := range clip.LineString(bound, r.Line.Clone()) {
			for _, part := range clipLineToPolygon(boundary, piece) {
				if isDegenerate(part) {
					continue
				}
				out = append(out, geodata.Road{Line: part, Class: r.Class})
			}
		}
	}
	return out
}

func clipLineToPolygon(mp orb.MultiPolygon, ls orb.LineString) []orb.LineString {
	var parts []orb.LineString
	var cur orb.LineString
	flush := func() {
		if len(cur) >= 2 {
			parts = append(parts, cur)
		}
		cur = nil
	}
	for i := 0; i+1 < len(ls); i++ {
		for _, seg := range splitSegment(mp, ls[i], ls[i+1]) {
			mid := orb.Point{(seg[0][0] + seg[1][0]) / 2, (seg[0][1] + seg[1][1]) / 2}
			if planar.MultiPolygonContains(mp, mid) {
				if len(cur) == 0 {
					cur = append(cur, seg[0])
				}
				cur = append(cur, seg[1])
			} else {
				flush()
			}
		}
	}
	flush()
	return parts
}

type segment [2]orb.Point

// splitSegment cuts a-b at every crossing with a boundary ring edge and
// returns the ordered subsegments.
func splitSegment(mp orb.MultiPolygon, a, b orb.Point) []segment {
	ts := []float64{0, 1}
	for _, poly := range mp {
		for _, ring := range poly {
			for j := 0; j+1 < len(ring); j++ {
				if t, ok := intersectParam(a, b, ring[j], ring[j+1]); ok {
					ts = append(ts, t)
				}
			}
		}
	}
	sort.Float64s(ts)

	segs := make([]segment, 0, len(ts)-1)
	for i := 0; i+1 < len(ts); i++ {
		if ts[i+1]-ts[i] < 1e-12 {
			continue
		}
		segs = append(segs, segment{lerp(a, b, ts[i]), lerp(a, b, ts[i+1])})
	}
	return segs
}

// intersectParam returns the parameter along a-b of a proper crossing
// with c-d, if any.
func intersectParam(a, b, c, d orb.Point) (float64, bool) {
	r0, r1 := b[0]-a[0], b[1]-a[1]
	s0, s1 := d[0]-c[0], d[1]-c[1]
	den := r0*s1 - r1*s0
	if den == 0 {
		return 0, false
	}
	t := ((c[0]-a[0])*s1 - (c[1]-a[1])*s0) / den
	u := ((c[0]-a[0])*r1 - (c[1]-a[1])*r0) / den
	if t <= 0 || t >= 1 || u < 0 || u > 1 {
		return 0, false
	}
	return t, true
}

func lerp(a, b orb.Point, t float64) orb.Point {
	return orb.Point{a[0] + (b[0]-a[0])*t, a[1] + (b[1]-a[1])*t}
}

func isDegenerate(ls orb.LineString) bool {
	if len(ls) < 2 {
		return true
	}
	for i := 1; i < len(ls); i++ {
		if ls[i] != ls[0] {
			return false
		}
	}
	return true
}

// ToMercator projects a boundary into Web Mercator metres.
func ToMercator(mp orb.MultiPolygon) orb.MultiPolygon {
	return project.MultiPolygon(mp.Clone(), project.WGS84.ToMercator)
}

// LineToMercator projects a single road line into Web Mercator metres.
func LineToMercator(ls orb.LineString) orb.LineString {
	return project.LineString(ls.Clone(), project.WGS84.ToMercator)
}

// Centroid returns the area centroid of the boundary.
func Centroid(mp orb.MultiPolygon) orb.Point {
	c, _ := planar.CentroidArea(mp)
	return c
}

// DistanceFrom returns the planar distance from a road to a point.
func DistanceFrom(ls orb.LineString, p orb.Point) float64 {
	return planar.DistanceFrom(ls, p)
}
