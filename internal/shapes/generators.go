package shapes

import "math"

const (
	DefaultStarSpikes     = 5
	DefaultCrossBarRatio  = 1.0 / 4
	DefaultZigzagSegments = 5
	DefaultSpiralTurns    = 3
	DefaultSpiralSegments = 100

	// hexagramInnerDivisor is 2*sqrt(3) rounded the way the pattern editor
	// always used it.
	hexagramInnerDivisor = 3.464

	// circleKappa places cubic control points for a quarter circle.
	circleKappa = 0.5522847498307936
)

// CirclePath is a circle of diameter size built from four cubic arcs.
func CirclePath(size float64) Path {
	r := size / 2
	k := r * circleKappa
	var p Path
	p.MoveTo(r, 0)
	p.CubicTo(r, k, k, r, 0, r)
	p.CubicTo(-k, r, -r, k, -r, 0)
	p.CubicTo(-r, -k, -k, -r, 0, -r)
	p.CubicTo(k, -r, r, -k, r, 0)
	p.Close()
	return p
}

// SquarePath is an axis-aligned square with side size.
func SquarePath(size float64) Path {
	h := size / 2
	var p Path
	p.MoveTo(-h, -h)
	p.LineTo(h, -h)
	p.LineTo(h, h)
	p.LineTo(-h, h)
	p.Close()
	return p
}

// TrianglePath is an equilateral triangle with side size, lifted by a tenth
// of the size so it sits optically centered.
func TrianglePath(size float64) Path {
	height := math.Sqrt(3) / 2 * size
	lift := size * 0.1
	var p Path
	p.MoveTo(0, -height/2-lift)
	p.LineTo(-size/2, height/2-lift)
	p.LineTo(size/2, height/2-lift)
	p.Close()
	return p
}

// DiamondPath is a rhombus size tall and two thirds of size wide.
func DiamondPath(size float64) Path {
	var p Path
	p.MoveTo(0, -size/2)
	p.LineTo(size/3, 0)
	p.LineTo(0, size/2)
	p.LineTo(-size/3, 0)
	p.Close()
	return p
}

// StarOptions configures StarPath. Zero values select the defaults:
// five spikes, outer radius size/2, inner radius size/4.
type StarOptions struct {
	Size        float64
	Spikes      int
	OuterRadius float64
	InnerRadius float64
}

// StarPath is a star polygon starting at the top spike.
func StarPath(o StarOptions) Path {
	spikes := o.Spikes
	if spikes <= 0 {
		spikes = DefaultStarSpikes
	}
	outer := o.OuterRadius
	if outer == 0 {
		outer = o.Size / 2
	}
	inner := o.InnerRadius
	if inner == 0 {
		inner = o.Size / 4
	}

	step := math.Pi / float64(spikes)
	rotation := -math.Pi / 2
	var p Path
	for i := 0; i < spikes*2; i++ {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		x, y := math.Cos(rotation)*r, math.Sin(rotation)*r
		if i == 0 {
			p.MoveTo(x, y)
		} else {
			p.LineTo(x, y)
		}
		rotation += step
	}
	p.Close()
	return p
}

// HexagramPath is the six-spike star variant.
func HexagramPath(size float64) Path {
	return StarPath(StarOptions{Size: size, Spikes: 6, InnerRadius: size / hexagramInnerDivisor})
}

// HeartPath is two cubic lobes meeting at a top notch (-size*8/32) and a
// bottom point (size*14/32).
func HeartPath(size float64) Path {
	s := size / 32

	topY := -8 * s
	bottomY := 14 * s

	var p Path
	p.MoveTo(0, topY)
	p.CubicTo(-12*s, -18*s, -24*s, 2*s, 0, bottomY)
	p.CubicTo(24*s, 2*s, 12*s, -18*s, 0, topY)
	p.Close()
	return p
}

// CrossPath is a plus sign whose bars are size*barRatio thick.
func CrossPath(size, barRatio float64) Path {
	if barRatio <= 0 {
		barRatio = DefaultCrossBarRatio
	}
	half := size / 2
	hs := size * barRatio / 2

	var p Path
	p.MoveTo(-hs, -half)
	p.LineTo(hs, -half)
	p.LineTo(hs, -hs)
	p.LineTo(half, -hs)
	p.LineTo(half, hs)
	p.LineTo(hs, hs)
	p.LineTo(hs, half)
	p.LineTo(-hs, half)
	p.LineTo(-hs, hs)
	p.LineTo(-half, hs)
	p.LineTo(-half, -hs)
	p.LineTo(-hs, -hs)
	p.Close()
	return p
}

// ZigzagPath is an open polyline with the given number of teeth. It is
// meant to be stroked.
func ZigzagPath(size float64, segments int) Path {
	if segments <= 0 {
		segments = DefaultZigzagSegments
	}
	stepX := size / float64(segments)
	stepY := size / 6
	shiftX := -(size/2 + stepX/2)

	var p Path
	p.MoveTo(shiftX, -stepY/2)
	for i := 0; i < segments; i++ {
		y := -stepY
		if i%2 == 0 {
			y = stepY
		}
		p.LineTo(stepX*float64(i+1)+shiftX, y)
	}
	p.LineTo(size+stepX+shiftX, -stepY/2)
	return p
}

// QuestionMarkPath is the question-mark glyph followed by its dot.
func QuestionMarkPath(size float64) Path {
	glyph, dot := QuestionMarkParts(size)
	glyph.Append(dot)
	return glyph
}

// QuestionMarkParts returns the hook and the dot of the question mark as
// separate subpaths. The glyph is drawn on a 64 unit grid.
func QuestionMarkParts(size float64) (glyph, dot Path) {
	s := size / 64
	offX := -size / 2
	offY := -size * 0.5
	x := func(v float64) float64 { return offX + v*s }
	y := func(v float64) float64 { return offY + v*s }
	c := func(p *Path, x1, y1, x2, y2, x3, y3 float64) {
		p.CubicTo(x(x1), y(y1), x(x2), y(y2), x(x3), y(y3))
	}

	glyph.MoveTo(x(30.2), y(2.1))
	c(&glyph, 18.6, 2.8, 12.5, 9.4, 12, 21.3)
	glyph.LineTo(x(23.7), y(21.3))
	c(&glyph, 23.8, 17.2, 26.2, 14.1, 30.4, 13.6)
	c(&glyph, 34.6, 13.2, 38.6, 14.2, 39.8, 17)
	c(&glyph, 41.1, 20.1, 38.2, 23.7, 36.8, 25.2)
	c(&glyph, 34.2, 28, 30, 30.1, 27.8, 33.1)
	c(&glyph, 25.7, 36.1, 25.3, 40, 25.1, 44.8)
	glyph.LineTo(x(35.4), y(44.8))
	c(&glyph, 35.5, 41.7, 35.7, 38.8, 37.1, 36.9)
	c(&glyph, 39.4, 33.8, 42.8, 32.4, 45.6, 29.9)
	c(&glyph, 48.3, 27.6, 51.2, 24.8, 51.6, 20.4)
	c(&glyph, 53.3, 7.5, 42.7, 1.3, 30.2, 2.1)
	glyph.Close()

	rx, ry := 6.5*s, 6.4*s
	dot.MoveTo(x(30.5-6.5), y(55.6))
	dot.ArcTo(rx, ry, 0, true, false, x(30.5+6.5), y(55.6))
	dot.ArcTo(rx, ry, 0, true, false, x(30.5-6.5), y(55.6))
	return glyph, dot
}

// InfinityPath is a figure-eight made of two loops of radius size/6 that
// cross at the origin. It is meant to be stroked.
func InfinityPath(size float64) Path {
	lr := size / 6
	off := lr / math.Sqrt2
	gap := off * 2
	co := off + gap

	var p Path
	p.MoveTo(co, off)
	p.ArcTo(lr, lr, 0, false, true, co-gap, off)
	p.LineTo(0, 0)
	p.LineTo(off, -off)
	p.ArcTo(lr, lr, 0, false, true, off+gap, -off+gap)
	p.Close()

	p.MoveTo(-co, off)
	p.ArcTo(lr, lr, 0, false, false, -co+gap, off)
	p.LineTo(0, 0)
	p.LineTo(-off, -off)
	p.ArcTo(lr, lr, 0, true, false, -off-gap, -off+gap)
	p.Close()
	return p
}

// SpiralPath is an Archimedean spiral approximated by segments straight
// steps over turns rotations. The radius grows linearly from 0 to size/2.
// Points are rounded to three decimals.
func SpiralPath(size float64, turns, segments int) Path {
	if turns <= 0 {
		turns = DefaultSpiralTurns
	}
	if segments <= 0 {
		segments = DefaultSpiralSegments
	}
	maxAngle := float64(turns) * 2 * math.Pi
	step := maxAngle / float64(segments)
	scale := size / 2

	var p Path
	for i := 0; i <= segments; i++ {
		a := float64(i) * step
		r := scale * (a / maxAngle)
		x := round3(r * math.Cos(a))
		y := round3(r * math.Sin(a))
		if i == 0 {
			p.MoveTo(x, y)
		} else {
			p.LineTo(x, y)
		}
	}
	return p
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
