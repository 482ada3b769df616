// Package pattern scatters decorative shapes over a rectangle.
//
// Placement is driven entirely by a seed string: the same Params always
// produce the same shapes in the same order. Candidates that land too close
// to an earlier shape are rejected and retried a bounded number of times,
// so crowded parameters yield fewer shapes instead of looping.
package pattern

import (
	"math"
	"strconv"

	"github.com/youruser/cardsheet/internal/paint"
	"github.com/youruser/cardsheet/internal/prng"
	"github.com/youruser/cardsheet/internal/shapes"
)

const (
	DefaultMaxAttemptsPerShape = 10
	DefaultGlobalFailLimit     = 100

	// MaxCount bounds a single generation. A dense print card holds a
	// few hundred shapes.
	MaxCount = 2000
)

// Params describes one pattern generation.
type Params struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Seed   string  `json:"seed"`
	Color  string  `json:"color"`
	Count  int     `json:"shapesCount"`

	Kinds []shapes.Kind `json:"shapeTypes"`

	MinSize    float64 `json:"minSize"`
	MaxSize    float64 `json:"maxSize"`
	MinOpacity float64 `json:"minOpacity"`
	MaxOpacity float64 `json:"maxOpacity"`
	MinRotate  float64 `json:"minRotate"`
	MaxRotate  float64 `json:"maxRotate"`

	// DeadZone scales the minimum centre distance between two shapes
	// relative to their mean size. Zero or less disables collision checks.
	DeadZone float64 `json:"deadZone"`

	// Zero selects DefaultMaxAttemptsPerShape.
	MaxAttemptsPerShape int `json:"maxAttemptsPerShape,omitempty"`
	// Zero selects DefaultGlobalFailLimit.
	GlobalFailLimit int `json:"globalFailLimit,omitempty"`
}

// DefaultParams mirrors the defaults of the patterned card background.
func DefaultParams() Params {
	return Params{
		Seed:                "default-seed",
		Color:               "rgba(0, 0, 0, 1)",
		Count:               100,
		Kinds:               append([]shapes.Kind(nil), shapes.Kinds...),
		MinSize:             10,
		MaxSize:             50,
		MinOpacity:          0.2,
		MaxOpacity:          0.6,
		MinRotate:           0,
		MaxRotate:           360,
		DeadZone:            1.2,
		MaxAttemptsPerShape: DefaultMaxAttemptsPerShape,
		GlobalFailLimit:     DefaultGlobalFailLimit,
	}
}

// Shape is one placed pattern element. X and Y are the centre.
type Shape struct {
	Slot    int         `json:"key"`
	Kind    shapes.Kind `json:"shape"`
	Size    float64     `json:"size"`
	X       float64     `json:"x"`
	Y       float64     `json:"y"`
	Rotate  float64     `json:"rotate"`
	Opacity float64     `json:"opacity"`
	Color   string      `json:"finalColor"`
}

// Normalize returns a copy of p with degenerate values repaired: NaNs become
// zero, inverted ranges are swapped, sizes are non-negative, unknown kinds
// are dropped, the count is capped at MaxCount and zero budgets take their
// defaults.
func (p Params) Normalize() Params {
	p.Width = finite(p.Width)
	p.Height = finite(p.Height)
	p.MinSize = math.Max(finite(p.MinSize), 0)
	p.MaxSize = math.Max(finite(p.MaxSize), 0)
	p.MinSize, p.MaxSize = ordered(p.MinSize, p.MaxSize)
	p.MinOpacity, p.MaxOpacity = ordered(finite(p.MinOpacity), finite(p.MaxOpacity))
	p.MinRotate, p.MaxRotate = ordered(finite(p.MinRotate), finite(p.MaxRotate))
	p.DeadZone = finite(p.DeadZone)
	p.Count = min(p.Count, MaxCount)

	kinds := make([]shapes.Kind, 0, len(p.Kinds))
	for _, k := range p.Kinds {
		if k.Valid() {
			kinds = append(kinds, k)
		}
	}
	p.Kinds = kinds

	if p.MaxAttemptsPerShape <= 0 {
		p.MaxAttemptsPerShape = DefaultMaxAttemptsPerShape
	}
	if p.GlobalFailLimit <= 0 {
		p.GlobalFailLimit = DefaultGlobalFailLimit
	}
	return p
}

type placement struct {
	x, y, size float64
}

// Generate places up to p.Count shapes. It never fails: impossible or
// degenerate parameters produce fewer shapes, possibly none.
//
// Random values are drawn in a fixed order: x, y and size for every
// attempt, then kind, rotation and opacity once a position is accepted.
// A slot whose attempts are all rejected is skipped and counts against
// GlobalFailLimit; generation stops once that limit is exceeded.
func Generate(p Params) []Shape {
	p = p.Normalize()
	if p.Count <= 0 || len(p.Kinds) == 0 || p.Width <= 0 || p.Height <= 0 {
		return nil
	}

	base, err := paint.Parse(p.Color)
	if err != nil {
		base = paint.Color{Space: paint.RGB, A: 1}
	}

	rng := prng.New(p.Seed)
	placed := newIndex(p)
	out := make([]Shape, 0, min(p.Count, 1024))
	fails := 0

	for i := 0; i < p.Count; i++ {
		accepted := false
		for attempt := 0; attempt < p.MaxAttemptsPerShape; attempt++ {
			x := rng.Float64() * p.Width
			y := rng.Float64() * p.Height
			size := p.MinSize + rng.Float64()*(p.MaxSize-p.MinSize)

			if placed.collides(x, y, size, p.DeadZone) {
				continue
			}

			kind := p.Kinds[int(rng.Float64()*float64(len(p.Kinds)))]
			rotate := p.MinRotate + rng.Float64()*(p.MaxRotate-p.MinRotate)
			opacity := p.MinOpacity + rng.Float64()*(p.MaxOpacity-p.MinOpacity)
			opacity = math.Min(math.Max(round2(opacity), 0), 1)

			placed.add(placement{x, y, size})
			out = append(out, Shape{
				Slot:    i,
				Kind:    kind,
				Size:    size,
				X:       x,
				Y:       y,
				Rotate:  rotate,
				Opacity: opacity,
				Color:   base.WithAlpha(opacity).String(),
			})
			accepted = true
			break
		}
		if !accepted {
			fails++
			if fails > p.GlobalFailLimit {
				break
			}
		}
	}
	return out
}

func collides(placed []placement, x, y, size, deadZone float64) bool {
	if deadZone <= 0 {
		return false
	}
	for _, s := range placed {
		dx, dy := s.x-x, s.y-y
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist < (s.size+size)/2*deadZone {
			return true
		}
	}
	return false
}

// maxCells bounds the grid coordinates; wider grids fall back to a scan.
const maxCells = 1 << 40

// index buckets placed shapes into square cells no smaller than the
// largest possible collision distance, MaxSize*DeadZone, so a candidate
// only needs the 3x3 cells around its own. Results are identical to a
// scan over every placed shape.
type index struct {
	cell  float64
	cells map[[2]int64][]placement
	all   []placement
}

func newIndex(p Params) *index {
	ix := &index{}
	cell := p.MaxSize * p.DeadZone
	if cell > 0 && p.Width/cell < maxCells && p.Height/cell < maxCells {
		ix.cell = cell
		ix.cells = make(map[[2]int64][]placement)
	}
	return ix
}

func (ix *index) key(x, y float64) [2]int64 {
	return [2]int64{int64(math.Floor(x / ix.cell)), int64(math.Floor(y / ix.cell))}
}

func (ix *index) add(pl placement) {
	if ix.cells == nil {
		ix.all = append(ix.all, pl)
		return
	}
	k := ix.key(pl.x, pl.y)
	ix.cells[k] = append(ix.cells[k], pl)
}

func (ix *index) collides(x, y, size, deadZone float64) bool {
	if ix.cells == nil {
		return collides(ix.all, x, y, size, deadZone)
	}
	k := ix.key(x, y)
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			if collides(ix.cells[[2]int64{k[0] + dx, k[1] + dy}], x, y, size, deadZone) {
				return true
			}
		}
	}
	return false
}

// round2 rounds to two decimals from the exact binary value, as a browser's
// toFixed(2) does.
func round2(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return 0
	}
	return r
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func ordered(lo, hi float64) (float64, float64) {
	if lo > hi {
		return hi, lo
	}
	return lo, hi
}
