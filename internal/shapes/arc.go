package shapes

import "math"

// Cubics returns a copy of p where every elliptical arc is replaced by the
// cubic Bézier segments approximating it. Rasterizers that only understand
// lines and cubics consume this form.
func (p Path) Cubics() Path {
	var out Path
	var cur, start Point
	for _, seg := range p.Segments {
		switch seg.Op {
		case OpMove:
			cur = seg.Points[0]
			start = cur
			out.Segments = append(out.Segments, seg)
		case OpLine:
			cur = seg.Points[0]
			out.Segments = append(out.Segments, seg)
		case OpCubic:
			cur = seg.Points[2]
			out.Segments = append(out.Segments, seg)
		case OpArc:
			for _, c := range arcToCubics(cur, seg) {
				out.CubicTo(c[0].X, c[0].Y, c[1].X, c[1].Y, c[2].X, c[2].Y)
			}
			cur = seg.Points[0]
		case OpClose:
			cur = start
			out.Segments = append(out.Segments, seg)
		}
	}
	return out
}

// arcToCubics converts an endpoint-parameterized SVG arc starting at p0 into
// cubic segments of at most a quarter turn each.
func arcToCubics(p0 Point, seg Segment) [][3]Point {
	p1 := seg.Points[0]
	if p0 == p1 {
		return nil
	}
	rx, ry := math.Abs(seg.RX), math.Abs(seg.RY)
	if rx == 0 || ry == 0 {
		return [][3]Point{{p0, p1, p1}}
	}

	sinPhi, cosPhi := math.Sincos(seg.Rotation * math.Pi / 180)
	dx2 := (p0.X - p1.X) / 2
	dy2 := (p0.Y - p1.Y) / 2
	x1p := cosPhi*dx2 + sinPhi*dy2
	y1p := -sinPhi*dx2 + cosPhi*dy2

	lambda := (x1p*x1p)/(rx*rx) + (y1p*y1p)/(ry*ry)
	if lambda > 1 {
		s := math.Sqrt(lambda)
		rx *= s
		ry *= s
	}

	num := rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p
	den := rx*rx*y1p*y1p + ry*ry*x1p*x1p
	coef := 0.0
	if den != 0 && num > 0 {
		coef = math.Sqrt(num / den)
	}
	if seg.LargeArc == seg.Sweep {
		coef = -coef
	}
	cxp := coef * rx * y1p / ry
	cyp := -coef * ry * x1p / rx

	cx := cosPhi*cxp - sinPhi*cyp + (p0.X+p1.X)/2
	cy := sinPhi*cxp + cosPhi*cyp + (p0.Y+p1.Y)/2

	ux, uy := (x1p-cxp)/rx, (y1p-cyp)/ry
	vx, vy := (-x1p-cxp)/rx, (-y1p-cyp)/ry
	theta1 := vectorAngle(1, 0, ux, uy)
	delta := vectorAngle(ux, uy, vx, vy)
	if !seg.Sweep && delta > 0 {
		delta -= 2 * math.Pi
	} else if seg.Sweep && delta < 0 {
		delta += 2 * math.Pi
	}

	n := int(math.Ceil(math.Abs(delta) / (math.Pi / 2)))
	if n < 1 {
		n = 1
	}
	step := delta / float64(n)
	t := 4.0 / 3.0 * math.Tan(step/4)

	at := func(a float64) (Point, Point) {
		sinA, cosA := math.Sincos(a)
		pt := Point{
			X: cx + rx*cosA*cosPhi - ry*sinA*sinPhi,
			Y: cy + rx*cosA*sinPhi + ry*sinA*cosPhi,
		}
		d := Point{
			X: -rx*sinA*cosPhi - ry*cosA*sinPhi,
			Y: -rx*sinA*sinPhi + ry*cosA*cosPhi,
		}
		return pt, d
	}

	out := make([][3]Point, 0, n)
	a1 := theta1
	for i := 0; i < n; i++ {
		a2 := a1 + step
		e1, d1 := at(a1)
		e2, d2 := at(a2)
		if i == n-1 {
			e2 = p1
		}
		out = append(out, [3]Point{
			{e1.X + t*d1.X, e1.Y + t*d1.Y},
			{e2.X - t*d2.X, e2.Y - t*d2.Y},
			e2,
		})
		a1 = a2
	}
	return out
}

func vectorAngle(ux, uy, vx, vy float64) float64 {
	return math.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
}
