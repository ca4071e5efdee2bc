package geom

import (
	"math"
	"testing"

	"github.com/paulmach/orb"

	"mxroads/internal/geodata"
)

func square(x0, y0, x1, y1 float64) orb.Polygon {
	return orb.Polygon{orb.Ring{
		{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}, {x0, y0},
	}}
}

func TestLargestPolygon(t *testing.T) {
	mainland := square(0, 0, 10, 10)
	islet := square(20, 20, 21, 21)

	got := LargestPolygon(orb.MultiPolygon{islet, mainland})
	if len(got) != 1 {
		t.Fatalf("polygon count: got=%d want=1", len(got))
	}
	if b := got.Bound(); b.Max != (orb.Point{10, 10}) {
		t.Fatalf("kept the wrong polygon: bound=%v", b)
	}

	single := orb.MultiPolygon{mainland}
	if got := LargestPolygon(single); len(got) != 1 || got.Bound() != single.Bound() {
		t.Fatalf("single polygon should pass through unchanged, got=%v", got)
	}
}

func TestPadBound(t *testing.T) {
	b := PadBound(orb.Bound{Min: orb.Point{1, 2}, Max: orb.Point{3, 4}}, 0.5)
	if b.Min != (orb.Point{0.5, 1.5}) || b.Max != (orb.Point{3.5, 4.5}) {
		t.Fatalf("padded bound: got=%v", b)
	}
}

func TestClipCrossingLine(t *testing.T) {
	boundary := orb.MultiPolygon{square(0, 0, 10, 10)}
	roads := []geodata.Road{
		{Line: orb.LineString{{-5, 5}, {15, 5}}, Class: "primary"},
	}

	got := ClipToBoundary(boundary, roads)
	if len(got) != 1 {
		t.Fatalf("road count: got=%d want=1", len(got))
	}
	line := got[0].Line
	first, last := line[0], line[len(line)-1]
	if math.Abs(first[0]-0) > 1e-9 || math.Abs(last[0]-10) > 1e-9 {
		t.Fatalf("clipped span: got %v .. %v, want x 0 .. 10", first, last)
	}
	if got[0].Class != "primary" {
		t.Errorf("class lost in clipping: got=%q", got[0].Class)
	}
}

func TestClipKeepsInsideDropsOutside(t *testing.T) {
	boundary := orb.MultiPolygon{square(0, 0, 10, 10)}
	roads := []geodata.Road{
		{Line: orb.LineString{{1, 1}, {2, 2}}, Class: "residential"},
		{Line: orb.LineString{{20, 20}, {30, 30}}, Class: "residential"},
	}

	got := ClipToBoundary(boundary, roads)
	if len(got) != 1 {
		t.Fatalf("road count: got=%d want=1", len(got))
	}
	if got[0].Line[0] != (orb.Point{1, 1}) || got[0].Line[1] != (orb.Point{2, 2}) {
		t.Fatalf("inside road modified: got=%v", got[0].Line)
	}
}

func TestClipSplitsReentrantLine(t *testing.T) {
	// dips out of the polygon and comes back: two pieces expected
	boundary := orb.MultiPolygon{square(0, 0, 10, 10)}
	roads := []geodata.Road{
		{Line: orb.LineString{{1, 5}, {5, 15}, {9, 5}}, Class: "secondary"},
	}

	got := ClipToBoundary(boundary, roads)
	if len(got) != 2 {
		t.Fatalf("piece count: got=%d want=2", len(got))
	}
}

func TestClipLeavesNoPointPieces(t *testing.T) {
	boundary := orb.MultiPolygon{square(0, 0, 10, 10)}
	roads := []geodata.Road{
		{Line: orb.LineString{{-5, 5}, {15, 5}}},
		{Line: orb.LineString{{-5, 0}, {15, 0}}}, // runs along the edge
		{Line: orb.LineString{{1, 1}, {1, 1}}},   // zero length
		{Line: orb.LineString{{5, 5}}},           // single point
		{Line: orb.LineString{{-1, -1}, {11, 11}}},
	}

	for _, r := range ClipToBoundary(boundary, roads) {
		if len(r.Line) < 2 {
			t.Fatalf("point piece survived clipping: %v", r.Line)
		}
		if r.Line[0] == r.Line[len(r.Line)-1] && len(r.Line) == 2 {
			t.Fatalf("zero-length piece survived clipping: %v", r.Line)
		}
	}
}

func TestClipDropsIsletRoadsAfterReduction(t *testing.T) {
	mainland := square(0, 0, 10, 10)
	islet := square(20, 20, 20.1, 20.1)
	boundary := orb.MultiPolygon{mainland, islet}

	var roads []geodata.Road
	for i := 0; i < 9; i++ {
		y := 0.5 + float64(i)
		roads = append(roads, geodata.Road{Line: orb.LineString{{1, y}, {9, y}}, Class: "residential"})
	}
	roads = append(roads, geodata.Road{
		Line:  orb.LineString{{20.02, 20.05}, {20.08, 20.05}},
		Class: "residential",
	})

	// without the reduction the islet road survives
	if got := ClipToBoundary(boundary, roads); len(got) != 10 {
		t.Fatalf("unreduced clip: got=%d roads want=10", len(got))
	}

	got := ClipToBoundary(LargestPolygon(boundary), roads)
	if len(got) != 9 {
		t.Fatalf("reduced clip: got=%d roads want=9", len(got))
	}
	for _, r := range got {
		if r.Line[0][0] > 10 {
			t.Fatalf("islet road survived: %v", r.Line)
		}
	}
}

func TestMercatorRoundTrip(t *testing.T) {
	boundary := orb.MultiPolygon{square(-103.7, 18.7, -103.5, 19.5)}
	merc := ToMercator(boundary)
	if merc.Bound() == boundary.Bound() {
		t.Fatal("projection did not change coordinates")
	}

	c := Centroid(merc)
	b := merc.Bound()
	if c[0] < b.Min[0] || c[0] > b.Max[0] || c[1] < b.Min[1] || c[1] > b.Max[1] {
		t.Fatalf("centroid %v outside bound %v", c, b)
	}
}

func TestDistanceFrom(t *testing.T) {
	line := orb.LineString{{0, 3}, {10, 3}}
	if d := DistanceFrom(line, orb.Point{5, 0}); math.Abs(d-3) > 1e-9 {
		t.Fatalf("distance: got=%v want=3", d)
	}
}
