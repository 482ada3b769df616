package pattern

import (
	"fmt"
	"strings"
	"sync"

	"github.com/youruser/cardsheet/internal/shapes"
)

// unitGeometry holds the unit-size path data of every kind. Shapes are
// placed by transform only, so the data is shared by all elements.
var unitGeometry = sync.OnceValue(func() map[shapes.Kind]string {
	m := make(map[shapes.Kind]string, len(shapes.Kinds))
	for _, k := range shapes.Kinds {
		p, _ := shapes.Geometry(k, 1)
		if k.Polygon() {
			m[k] = p.PolygonString()
		} else {
			m[k] = p.String()
		}
	}
	return m
})

// Transform is the SVG transform that places a unit shape.
func (s Shape) Transform() string {
	return fmt.Sprintf("translate(%s, %s) rotate(%s) scale(%s)",
		num(s.X), num(s.Y), num(s.Rotate), num(s.Size))
}

// WriteSVG appends one element per shape to b, in placement order.
func WriteSVG(b *strings.Builder, list []Shape) {
	geom := unitGeometry()
	for _, s := range list {
		t := s.Transform()
		fmt.Fprintf(b, `<g data-key="%d">`, s.Slot)
		switch s.Kind {
		case shapes.Circle:
			fmt.Fprintf(b, `<circle cx="0" cy="0" r="0.5" fill="%s" transform="%s"/>`, s.Color, t)
		case shapes.Square:
			fmt.Fprintf(b, `<rect x="-0.5" y="-0.5" width="1" height="1" fill="%s" transform="%s"/>`, s.Color, t)
		case shapes.Triangle, shapes.Diamond:
			fmt.Fprintf(b, `<polygon points="%s" fill="%s" transform="%s"/>`, geom[s.Kind], s.Color, t)
		case shapes.Zigzag, shapes.Infinity, shapes.Spiral:
			fmt.Fprintf(b, `<path d="%s" fill="none" stroke="%s" stroke-width="%s" transform="%s"/>`,
				geom[s.Kind], s.Color, num(s.Kind.StrokeWidth()), t)
		default:
			fmt.Fprintf(b, `<path d="%s" fill="%s" transform="%s"/>`, geom[s.Kind], s.Color, t)
		}
		b.WriteString("</g>")
	}
}

// SVG renders a standalone document of the given size containing list.
func SVG(width, height float64, list []Shape) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		num(width), num(height), num(width), num(height))
	WriteSVG(&b, list)
	b.WriteString("</svg>")
	return b.String()
}

func num(v float64) string {
	return shapes.FormatNumber(v)
}
