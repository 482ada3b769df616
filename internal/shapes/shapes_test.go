package shapes_test

import (
	"math"
	"strings"
	"testing"

	"github.com/youruser/cardsheet/internal/shapes"
)

const eps = 1e-9

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func samePath(t *testing.T, got, want shapes.Path, tol float64) {
	t.Helper()
	if len(got.Segments) != len(want.Segments) {
		t.Fatalf("segment count: got %d, want %d", len(got.Segments), len(want.Segments))
	}
	for i := range got.Segments {
		g, w := got.Segments[i], want.Segments[i]
		if g.Op != w.Op {
			t.Fatalf("segment %d: op %c, want %c", i, g.Op, w.Op)
		}
		if !near(g.RX, w.RX, tol) || !near(g.RY, w.RY, tol) || g.LargeArc != w.LargeArc || g.Sweep != w.Sweep {
			t.Fatalf("segment %d: arc params differ: %+v vs %+v", i, g, w)
		}
		for j := range g.Points {
			if !near(g.Points[j].X, w.Points[j].X, tol) || !near(g.Points[j].Y, w.Points[j].Y, tol) {
				t.Fatalf("segment %d point %d: got %+v, want %+v", i, j, g.Points[j], w.Points[j])
			}
		}
	}
}

func TestGeneratorsAreLinearInSize(t *testing.T) {
	for _, kind := range shapes.Kinds {
		if kind == shapes.Spiral {
			continue
		}
		for _, factor := range []float64{0.5, 3, 17.25} {
			base, ok := shapes.Geometry(kind, 2)
			if !ok {
				t.Fatalf("%s: no geometry", kind)
			}
			scaled, _ := shapes.Geometry(kind, 2*factor)
			samePath(t, base.Scale(factor), scaled, 1e-9*factor)
		}
	}
}

func TestSpiralIsLinearWithinRounding(t *testing.T) {
	base := shapes.SpiralPath(10, 3, 100)
	scaled := shapes.SpiralPath(40, 3, 100)
	samePath(t, base.Scale(4), scaled, 0.003)
}

func TestHeartProportions(t *testing.T) {
	size := 64.0
	p := shapes.HeartPath(size)
	start := p.Segments[0].Points[0]
	if !near(start.Y, -size*8/32, eps) || start.X != 0 {
		t.Errorf("top notch: got %+v", start)
	}
	left := p.Segments[1].Points
	if !near(left[0].X, -size*12/32, eps) || !near(left[1].X, -size*24/32, eps) {
		t.Errorf("left controls: got %+v", left)
	}
	if !near(left[2].Y, size*14/32, eps) {
		t.Errorf("bottom point: got %+v", left[2])
	}
	right := p.Segments[2].Points
	if !near(right[0].X, size*24/32, eps) || !near(right[1].X, size*12/32, eps) {
		t.Errorf("right controls: got %+v", right)
	}
}

func TestStarRadii(t *testing.T) {
	p := shapes.StarPath(shapes.StarOptions{Size: 1})
	pts := p.Points()
	if len(pts) != 10 {
		t.Fatalf("expected 10 vertices, got %d", len(pts))
	}
	for i, pt := range pts {
		r := math.Hypot(pt.X, pt.Y)
		want := 0.5
		if i%2 == 1 {
			want = 0.25
		}
		if !near(r, want, eps) {
			t.Errorf("vertex %d radius %f, want %f", i, r, want)
		}
	}
	if !near(pts[0].X, 0, eps) || !near(pts[0].Y, -0.5, eps) {
		t.Errorf("first spike should point up, got %+v", pts[0])
	}
}

func TestHexagram(t *testing.T) {
	pts := shapes.HexagramPath(1).Points()
	if len(pts) != 12 {
		t.Fatalf("expected 12 vertices, got %d", len(pts))
	}
	if r := math.Hypot(pts[1].X, pts[1].Y); !near(r, 1/3.464, eps) {
		t.Errorf("inner radius %f", r)
	}
}

func TestSpiralEndpoints(t *testing.T) {
	p := shapes.SpiralPath(2, 3, 100)
	pts := p.Points()
	if len(pts) != 101 {
		t.Fatalf("expected 101 points, got %d", len(pts))
	}
	if pts[0] != (shapes.Point{}) {
		t.Errorf("spiral must start at the origin, got %+v", pts[0])
	}
	last := pts[len(pts)-1]
	if !near(math.Hypot(last.X, last.Y), 1, 0.002) {
		t.Errorf("spiral must end at radius size/2, got %+v", last)
	}
}

func TestZigzagIsOpen(t *testing.T) {
	p := shapes.ZigzagPath(1, 5)
	for _, seg := range p.Segments {
		if seg.Op == shapes.OpClose {
			t.Fatal("zigzag must stay open")
		}
	}
	if got := len(p.Segments); got != 7 {
		t.Errorf("expected 7 segments, got %d", got)
	}
}

func TestQuestionMarkHasDot(t *testing.T) {
	glyph, dot := shapes.QuestionMarkParts(64)
	if glyph.Segments[len(glyph.Segments)-1].Op != shapes.OpClose {
		t.Error("glyph should be closed")
	}
	if len(dot.Segments) != 3 || dot.Segments[1].Op != shapes.OpArc {
		t.Fatalf("unexpected dot: %+v", dot.Segments)
	}
	start := dot.Segments[0].Points[0]
	if !near(start.X, -32+24, eps) || !near(start.Y, -32+55.6, eps) {
		t.Errorf("dot start %+v", start)
	}
}

func TestCubicsReplacesArcs(t *testing.T) {
	p := shapes.InfinityPath(6).Cubics()
	for _, seg := range p.Segments {
		if seg.Op == shapes.OpArc {
			t.Fatal("arc left in cubic form")
		}
	}
	// The arc endpoints survive the conversion.
	orig := shapes.InfinityPath(6)
	want := orig.Segments[1].Points[0]
	var found bool
	for _, seg := range p.Segments {
		if seg.Op == shapes.OpCubic && seg.Points[2] == want {
			found = true
		}
	}
	if !found {
		t.Errorf("arc endpoint %+v not found in cubic form", want)
	}
}

func TestCubicsFullCircleDot(t *testing.T) {
	_, dot := shapes.QuestionMarkParts(64)
	cubic := dot.Cubics()
	center := shapes.Point{X: -32 + 30.5, Y: -32 + 55.6}
	for _, seg := range cubic.Segments {
		if seg.Op != shapes.OpCubic {
			continue
		}
		end := seg.Points[2]
		dx, dy := (end.X-center.X)/6.5, (end.Y-center.Y)/6.4
		if !near(dx*dx+dy*dy, 1, 1e-6) {
			t.Errorf("cubic end %+v is off the dot ellipse", end)
		}
	}
}

func TestStringFormatting(t *testing.T) {
	got := shapes.DiamondPath(1).String()
	want := "M0,-0.5 L0.3333,0 L0,0.5 L-0.3333,0 Z"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if poly := shapes.DiamondPath(1).PolygonString(); poly != "0,-0.5 0.3333,0 0,0.5 -0.3333,0" {
		t.Errorf("polygon %q", poly)
	}
	arc := shapes.InfinityPath(6).String()
	if !strings.Contains(arc, "A1,1 0 0,1 ") {
		t.Errorf("arc not serialized: %q", arc)
	}
}

func TestTransform(t *testing.T) {
	var p shapes.Path
	p.MoveTo(1, 0)
	got := p.Transform(10, 20, 90, 2).Segments[0].Points[0]
	if !near(got.X, 10, eps) || !near(got.Y, 22, eps) {
		t.Errorf("got %+v", got)
	}
}

func TestParseKind(t *testing.T) {
	if k, ok := shapes.ParseKind(" Heart "); !ok || k != shapes.Heart {
		t.Errorf("got %q %v", k, ok)
	}
	if _, ok := shapes.ParseKind("blob"); ok {
		t.Error("unknown kind accepted")
	}
	if !shapes.Spiral.Stroked() || shapes.Heart.Stroked() {
		t.Error("stroked classification wrong")
	}
}
