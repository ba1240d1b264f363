package geo

import (
	"math"
	"testing"

	"github.com/twpayne/go-geom"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-12 }

func TestCentroid(t *testing.T) {
	t.Parallel()

	square := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{
		{{0, 0}, {2, 0}, {2, 2}, {0, 2}, {0, 0}},
	})
	withHole := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{
		{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}},
		{{1, 1}, {2, 1}, {2, 2}, {1, 1}},
	})
	multi := geom.NewMultiPolygon(geom.XY).MustSetCoords([][][]geom.Coord{
		{{{0, 0}, {2, 0}, {2, 2}, {0, 2}, {0, 0}}},
		{{{10, 10}, {12, 10}, {12, 12}, {10, 12}, {10, 10}}},
	})
	line := geom.NewLineString(geom.XY).MustSetCoords([]geom.Coord{{0, 0}, {3, 3}})
	point := geom.NewPointFlat(geom.XY, []float64{2.35, 48.85})
	xyz := geom.NewPolygon(geom.XYZ).MustSetCoords([][]geom.Coord{
		{{0, 0, 100}, {2, 0, 100}, {2, 2, 100}, {0, 2, 100}, {0, 0, 100}},
	})
	coll := geom.NewGeometryCollection()
	if err := coll.Push(point, line); err != nil {
		t.Fatalf("push: %v", err)
	}

	cases := []struct {
		name string
		g    geom.T
		x, y float64
	}{
		{"closing vertex skipped", square, 1, 1},
		{"holes count as rings", withHole, 13.0 / 7, 12.0 / 7},
		{"multipolygon", multi, 6, 6},
		{"linestring keeps every vertex", line, 1.5, 1.5},
		{"point", point, 2.35, 48.85},
		{"z ignored", xyz, 1, 1},
		{"collection", coll, (2.35 + 0 + 3) / 3, (48.85 + 0 + 3) / 3},
	}
	for _, c := range cases {
		x, y, ok := Centroid(c.g)
		if !ok || !near(x, c.x) || !near(y, c.y) {
			t.Fatalf("%s: got (%v, %v, %v), want (%v, %v)", c.name, x, y, ok, c.x, c.y)
		}
	}
}

func TestCentroid_Empty(t *testing.T) {
	t.Parallel()
	for name, g := range map[string]geom.T{
		"nil":     nil,
		"polygon": geom.NewPolygon(geom.XY),
		"multi":   geom.NewMultiPolygon(geom.XY),
	} {
		if _, _, ok := Centroid(g); ok {
			t.Fatalf("%s: empty geometry should not yield a centroid", name)
		}
	}
}

func TestRound6(t *testing.T) {
	t.Parallel()
	cases := map[float64]float64{
		2.3522219:   2.352222,
		48.85661351: 48.856614,
		1.0000004:   1,
		1.0000006:   1.000001,
		-1.0000006:  -1.000001,
		-1.0000004:  -1,
		2.35:        2.35,
		-0.0000004:  0,
	}
	for in, want := range cases {
		if got := Round6(in); !near(got, want) {
			t.Fatalf("Round6(%v) = %v, want %v", in, got, want)
		}
	}
}
