// Package shapes holds the vector geometry of the decorative pattern shapes.
//
// Every generator returns a Path centered on the origin and scaled to the
// requested size, so a single translate/rotate/scale places it on a card.
// Generators are pure: the same size always yields the same path.
package shapes

import (
	"math"
	"strconv"
	"strings"
)

// Point is a 2D point in shape space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Op identifies a path command.
type Op byte

const (
	OpMove  Op = 'M'
	OpLine  Op = 'L'
	OpCubic Op = 'C'
	OpArc   Op = 'A'
	OpClose Op = 'Z'
)

// Segment is one absolute path command.
//
// Move and Line carry one point, Cubic carries two control points followed
// by the end point, Arc carries its end point plus the SVG arc parameters.
type Segment struct {
	Op       Op      `json:"op"`
	Points   []Point `json:"points,omitempty"`
	RX       float64 `json:"rx,omitempty"`
	RY       float64 `json:"ry,omitempty"`
	Rotation float64 `json:"rotation,omitempty"`
	LargeArc bool    `json:"largeArc,omitempty"`
	Sweep    bool    `json:"sweep,omitempty"`
}

// Path is a sequence of absolute segments.
type Path struct {
	Segments []Segment `json:"segments"`
}

func (p *Path) MoveTo(x, y float64) {
	p.Segments = append(p.Segments, Segment{Op: OpMove, Points: []Point{{x, y}}})
}

func (p *Path) LineTo(x, y float64) {
	p.Segments = append(p.Segments, Segment{Op: OpLine, Points: []Point{{x, y}}})
}

func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	p.Segments = append(p.Segments, Segment{Op: OpCubic, Points: []Point{{c1x, c1y}, {c2x, c2y}, {x, y}}})
}

// ArcTo appends an SVG elliptical arc ending at (x, y).
func (p *Path) ArcTo(rx, ry, rotation float64, largeArc, sweep bool, x, y float64) {
	p.Segments = append(p.Segments, Segment{
		Op:       OpArc,
		Points:   []Point{{x, y}},
		RX:       rx,
		RY:       ry,
		Rotation: rotation,
		LargeArc: largeArc,
		Sweep:    sweep,
	})
}

func (p *Path) Close() {
	p.Segments = append(p.Segments, Segment{Op: OpClose})
}

// Append adds all segments of q after the segments of p.
func (p *Path) Append(q Path) {
	p.Segments = append(p.Segments, q.Segments...)
}

// Empty reports whether the path has no segments.
func (p Path) Empty() bool {
	return len(p.Segments) == 0
}

// Scale returns a copy of p with every coordinate and radius multiplied by s.
func (p Path) Scale(s float64) Path {
	return p.mapPoints(func(pt Point) Point { return Point{pt.X * s, pt.Y * s} }, math.Abs(s), 0)
}

// Transform returns a copy of p scaled by scale, rotated by degrees and then
// translated by (tx, ty). This is the SVG transform
// "translate(tx, ty) rotate(degrees) scale(scale)".
func (p Path) Transform(tx, ty, degrees, scale float64) Path {
	rad := degrees * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return p.mapPoints(func(pt Point) Point {
		x, y := pt.X*scale, pt.Y*scale
		return Point{x*cos - y*sin + tx, x*sin + y*cos + ty}
	}, math.Abs(scale), degrees)
}

func (p Path) mapPoints(f func(Point) Point, radiusScale, rotate float64) Path {
	out := Path{Segments: make([]Segment, len(p.Segments))}
	for i, seg := range p.Segments {
		ns := seg
		if len(seg.Points) > 0 {
			ns.Points = make([]Point, len(seg.Points))
			for j, pt := range seg.Points {
				ns.Points[j] = f(pt)
			}
		}
		if seg.Op == OpArc {
			ns.RX = seg.RX * radiusScale
			ns.RY = seg.RY * radiusScale
			ns.Rotation = seg.Rotation + rotate
		}
		out.Segments[i] = ns
	}
	return out
}

// Points returns every explicit point of the path in order (control points
// included). It is mostly useful for polygons and for tests.
func (p Path) Points() []Point {
	var pts []Point
	for _, seg := range p.Segments {
		pts = append(pts, seg.Points...)
	}
	return pts
}

// String renders the path as SVG path data with absolute commands.
func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p.Segments {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(byte(seg.Op))
		switch seg.Op {
		case OpArc:
			b.WriteString(formatNumber(seg.RX))
			b.WriteByte(',')
			b.WriteString(formatNumber(seg.RY))
			b.WriteByte(' ')
			b.WriteString(formatNumber(seg.Rotation))
			b.WriteByte(' ')
			b.WriteString(flag(seg.LargeArc))
			b.WriteByte(',')
			b.WriteString(flag(seg.Sweep))
			b.WriteByte(' ')
			writePoint(&b, seg.Points[0])
		default:
			for j, pt := range seg.Points {
				if j > 0 {
					b.WriteByte(' ')
				}
				writePoint(&b, pt)
			}
		}
	}
	return b.String()
}

// PolygonString renders the points of a polygon path in the format of the
// SVG "points" attribute.
func (p Path) PolygonString() string {
	var b strings.Builder
	for i, seg := range p.Segments {
		if seg.Op != OpMove && seg.Op != OpLine {
			continue
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		writePoint(&b, seg.Points[0])
	}
	return b.String()
}

func writePoint(b *strings.Builder, pt Point) {
	b.WriteString(formatNumber(pt.X))
	b.WriteByte(',')
	b.WriteString(formatNumber(pt.Y))
}

func flag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// formatNumber prints v rounded to 4 decimals without trailing zeros.
func formatNumber(v float64) string {
	r := math.Round(v*1e4) / 1e4
	if r == 0 {
		return "0"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// FormatNumber is the number formatting used for all emitted SVG.
func FormatNumber(v float64) string {
	return formatNumber(v)
}
