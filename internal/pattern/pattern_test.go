package pattern_test

import (
	"math"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/youruser/cardsheet/internal/pattern"
	"github.com/youruser/cardsheet/internal/shapes"
)

func exampleParams() pattern.Params {
	p := pattern.DefaultParams()
	p.Seed = "Hello, world!"
	p.Width = 200
	p.Height = 300
	p.Count = 10
	p.DeadZone = 1.0
	p.MinSize = 8
	p.MaxSize = 24
	p.Color = "#CC00FFFF"
	return p
}

func TestGenerateDeterministic(t *testing.T) {
	a := pattern.Generate(exampleParams())
	b := pattern.Generate(exampleParams())
	if len(a) == 0 {
		t.Fatal("expected shapes")
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("two generations with the same seed differ")
	}
	if pattern.SVG(200, 300, a) != pattern.SVG(200, 300, b) {
		t.Fatal("SVG output differs")
	}
}

func TestGenerateFollowsSeedStream(t *testing.T) {
	shapesOut := pattern.Generate(exampleParams())
	first := shapesOut[0]
	if math.Abs(first.X-0.598382731448306*200) > 1e-9 {
		t.Errorf("x = %v", first.X)
	}
	if math.Abs(first.Y-0.21485268345433886*300) > 1e-9 {
		t.Errorf("y = %v", first.Y)
	}
	if math.Abs(first.Size-(8+0.044561423204877576*16)) > 1e-9 {
		t.Errorf("size = %v", first.Size)
	}
	if first.Slot != 0 {
		t.Errorf("slot = %d", first.Slot)
	}
}

func TestDifferentSeedsDiffer(t *testing.T) {
	p := exampleParams()
	a := pattern.Generate(p)
	p.Seed = "another seed"
	b := pattern.Generate(p)
	if reflect.DeepEqual(a, b) {
		t.Fatal("different seeds gave identical patterns")
	}
}

func TestCollisionInvariant(t *testing.T) {
	for _, dz := range []float64{0.5, 1, 1.2, 2} {
		p := exampleParams()
		p.Count = 200
		p.DeadZone = dz
		out := pattern.Generate(p)
		for i := range out {
			for j := i + 1; j < len(out); j++ {
				d := math.Hypot(out[i].X-out[j].X, out[i].Y-out[j].Y)
				min := (out[i].Size + out[j].Size) / 2 * dz
				if d < min-1e-9 {
					t.Fatalf("deadZone %v: shapes %d and %d overlap (%v < %v)", dz, i, j, d, min)
				}
			}
		}
	}
}

func TestDeadZoneZeroPlacesAll(t *testing.T) {
	for _, n := range []int{0, 1, 10, 500} {
		p := exampleParams()
		p.DeadZone = 0
		p.Count = n
		if got := len(pattern.Generate(p)); got != n {
			t.Errorf("count %d: got %d shapes", n, got)
		}
	}
}

func TestGlobalFailLimitBoundsWork(t *testing.T) {
	p := exampleParams()
	p.Width, p.Height = 10, 10
	p.MinSize, p.MaxSize = 9, 10
	p.Count = 10000
	p.DeadZone = 1
	out := pattern.Generate(p)
	if len(out) == 0 || len(out) > 5 {
		t.Fatalf("expected a handful of shapes in a tiny area, got %d", len(out))
	}
}

func TestDegenerateParams(t *testing.T) {
	tests := map[string]func(*pattern.Params){
		"negative count": func(p *pattern.Params) { p.Count = -3 },
		"no kinds":       func(p *pattern.Params) { p.Kinds = nil },
		"unknown kinds":  func(p *pattern.Params) { p.Kinds = []shapes.Kind{"blob"} },
		"zero width":     func(p *pattern.Params) { p.Width = 0 },
		"nan height":     func(p *pattern.Params) { p.Height = math.NaN() },
	}
	for name, mutate := range tests {
		p := exampleParams()
		mutate(&p)
		if got := pattern.Generate(p); len(got) != 0 {
			t.Errorf("%s: expected no shapes, got %d", name, len(got))
		}
	}
}

func TestInvertedRangesAreSwapped(t *testing.T) {
	p := exampleParams()
	p.MinSize, p.MaxSize = 24, 8
	p.MinRotate, p.MaxRotate = 45, -45
	p.MinOpacity, p.MaxOpacity = 0.9, 0.1
	out := pattern.Generate(p)
	if len(out) == 0 {
		t.Fatal("expected shapes")
	}
	for _, s := range out {
		if s.Size < 8 || s.Size > 24 {
			t.Errorf("size %v outside [8, 24]", s.Size)
		}
		if s.Rotate < -45 || s.Rotate >= 45 {
			t.Errorf("rotate %v outside [-45, 45)", s.Rotate)
		}
		if s.Opacity < 0.1 || s.Opacity > 0.9 {
			t.Errorf("opacity %v outside [0.1, 0.9]", s.Opacity)
		}
	}
}

func TestOpacityClampedAndRounded(t *testing.T) {
	p := exampleParams()
	p.MinOpacity, p.MaxOpacity = 0.6, 1.4
	p.DeadZone = 0
	p.Count = 50
	for _, s := range pattern.Generate(p) {
		if s.Opacity > 1 {
			t.Fatalf("opacity %v not clamped", s.Opacity)
		}
		if r := math.Round(s.Opacity*100) / 100; r != s.Opacity {
			t.Fatalf("opacity %v not rounded to 2 decimals", s.Opacity)
		}
		if !strings.HasPrefix(s.Color, "rgba(204, 0, 255, ") {
			t.Fatalf("unexpected colour %q", s.Color)
		}
	}
}

func TestKindsComeFromAllowedList(t *testing.T) {
	p := exampleParams()
	p.Kinds = []shapes.Kind{shapes.Star, shapes.Question, shapes.Spiral}
	p.DeadZone = 0
	p.Count = 100
	seen := map[shapes.Kind]bool{}
	for _, s := range pattern.Generate(p) {
		seen[s.Kind] = true
	}
	for k := range seen {
		if k != shapes.Star && k != shapes.Question && k != shapes.Spiral {
			t.Errorf("unexpected kind %q", k)
		}
	}
	if len(seen) != 3 {
		t.Errorf("expected all three kinds in 100 draws, saw %v", seen)
	}
}

func TestConcurrentGenerationsAreIndependent(t *testing.T) {
	want := pattern.Generate(exampleParams())
	var wg sync.WaitGroup
	results := make([][]pattern.Shape, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := exampleParams()
			if i%2 == 1 {
				p.Seed = "noise"
				pattern.Generate(p)
				p.Seed = "Hello, world!"
			}
			results[i] = pattern.Generate(p)
		}(i)
	}
	wg.Wait()
	for i, got := range results {
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("goroutine %d produced a different pattern", i)
		}
	}
}

func TestSVGElements(t *testing.T) {
	p := exampleParams()
	p.DeadZone = 0
	p.Count = 40
	p.Kinds = shapes.Kinds
	out := pattern.Generate(p)
	svg := pattern.SVG(200, 300, out)
	if got := strings.Count(svg, "<g "); got != len(out) {
		t.Errorf("expected %d groups, got %d", len(out), got)
	}
	if !strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg" width="200" height="300"`) {
		t.Errorf("unexpected header: %s", svg[:80])
	}
}

func TestCountIsCapped(t *testing.T) {
	p := exampleParams()
	p.Width, p.Height = 1e9, 1e9
	p.Count = 100000
	p.DeadZone = 1.2
	if got := len(pattern.Generate(p)); got != pattern.MaxCount {
		t.Fatalf("placed %d shapes, want cap %d", got, pattern.MaxCount)
	}
	if got := p.Normalize().Count; got != pattern.MaxCount {
		t.Errorf("Normalize count = %d", got)
	}
}
