package shapes

import "strings"

// Kind names a pattern shape.
type Kind string

const (
	Circle   Kind = "circle"
	Square   Kind = "square"
	Triangle Kind = "triangle"
	Diamond  Kind = "diamond"
	Star     Kind = "star"
	Hexagram Kind = "hexagram"
	Heart    Kind = "heart"
	Cross    Kind = "cross"
	Question Kind = "question"
	Zigzag   Kind = "zigzag"
	Infinity Kind = "infinity"
	Spiral   Kind = "spiral"
)

// Kinds lists every supported kind in display order.
var Kinds = []Kind{
	Circle, Square, Triangle, Diamond, Star, Hexagram,
	Heart, Cross, Question, Zigzag, Infinity, Spiral,
}

// ParseKind matches s case-insensitively against the known kinds.
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, true
		}
	}
	return "", false
}

// Valid reports whether k is a supported kind.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Stroked reports whether the kind is drawn as an open stroked line rather
// than a filled area.
func (k Kind) Stroked() bool {
	switch k {
	case Zigzag, Infinity, Spiral:
		return true
	}
	return false
}

// StrokeWidth is the line width of stroked kinds in unit space. Filled kinds
// return 0.
func (k Kind) StrokeWidth() float64 {
	switch k {
	case Zigzag, Infinity:
		return 0.1
	case Spiral:
		return 0.07
	}
	return 0
}

// Polygon reports whether the kind is emitted as an SVG polygon.
func (k Kind) Polygon() bool {
	return k == Triangle || k == Diamond
}

// Geometry returns the path of kind k at the given size using each
// generator's default sub-parameters. ok is false for unknown kinds.
func Geometry(k Kind, size float64) (Path, bool) {
	switch k {
	case Circle:
		return CirclePath(size), true
	case Square:
		return SquarePath(size), true
	case Triangle:
		return TrianglePath(size), true
	case Diamond:
		return DiamondPath(size), true
	case Star:
		return StarPath(StarOptions{Size: size}), true
	case Hexagram:
		return HexagramPath(size), true
	case Heart:
		return HeartPath(size), true
	case Cross:
		return CrossPath(size, DefaultCrossBarRatio), true
	case Question:
		return QuestionMarkPath(size), true
	case Zigzag:
		return ZigzagPath(size, DefaultZigzagSegments), true
	case Infinity:
		return InfinityPath(size), true
	case Spiral:
		return SpiralPath(size, DefaultSpiralTurns, DefaultSpiralSegments), true
	}
	return Path{}, false
}
