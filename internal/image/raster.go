package imagepkg

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/gogpu/gg"

	"github.com/youruser/cardsheet/internal/paint"
	"github.com/youruser/cardsheet/internal/pattern"
	"github.com/youruser/cardsheet/internal/render"
	"github.com/youruser/cardsheet/internal/shapes"
)

// trace feeds p, already in device px, into the context's current path.
func trace(dc *gg.Context, p shapes.Path) {
	for _, seg := range p.Cubics().Segments {
		switch seg.Op {
		case shapes.OpMove:
			dc.MoveTo(seg.Points[0].X, seg.Points[0].Y)
		case shapes.OpLine:
			dc.LineTo(seg.Points[0].X, seg.Points[0].Y)
		case shapes.OpCubic:
			c := seg.Points
			dc.CubicTo(c[0].X, c[0].Y, c[1].X, c[1].Y, c[2].X, c[2].Y)
		case shapes.OpClose:
			dc.ClosePath()
		}
	}
}

// drawShapes paints a pattern, given in card px, onto a transparent
// w x h layer.
func drawShapes(list []pattern.Shape, w, h int, scale float64) (image.Image, error) {
	dc := gg.NewContext(w, h)
	defer dc.Close()

	for _, s := range list {
		unit, ok := shapes.Geometry(s.Kind, 1)
		if !ok {
			continue
		}
		trace(dc, unit.Transform(s.X*scale, s.Y*scale, s.Rotate, s.Size*scale))
		setPaint(dc, paint.MustNRGBA(s.Color))
		var err error
		if s.Kind.Stroked() {
			dc.SetLineWidth(s.Kind.StrokeWidth() * s.Size * scale)
			err = dc.Stroke()
		} else {
			err = dc.Fill()
		}
		if err != nil {
			return nil, fmt.Errorf("shape %d (%s): %w", s.Slot, s.Kind, err)
		}
	}
	return dc.Image(), nil
}

// setPaint sets a straight-alpha colour; gg.FromColor would read the
// premultiplied channels of color.Color as straight ones.
func setPaint(dc *gg.Context, c color.NRGBA) {
	dc.SetRGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, float64(c.A)/255)
}

// coverage rasterizes the area of p, in card px, into a w x h mask.
func coverage(p shapes.Path, w, h int, scale float64) *gg.Mask {
	dc := gg.NewContext(w, h)
	defer dc.Close()
	trace(dc, p.Scale(scale))
	return dc.AsMask()
}

// alphaOf copies a gg mask into an image.Alpha for draw.DrawMask.
func alphaOf(m *gg.Mask) *image.Alpha {
	a := image.NewAlpha(m.Bounds())
	copy(a.Pix, m.Data())
	return a
}

// borderMask is the outer rounded rect minus the inner one and the text
// cut-out.
func borderMask(b *render.Border, w, h int, scale float64) *image.Alpha {
	outer := coverage(b.Outer.Path(), w, h, scale).Data()
	inner := coverage(b.Inner.Path(), w, h, scale).Data()
	var cut []uint8
	if b.Cut != nil {
		cut = coverage(b.Cut.Path(), w, h, scale).Data()
	}
	a := image.NewAlpha(image.Rect(0, 0, w, h))
	for i := range a.Pix {
		v := min(outer[i], 255-inner[i])
		if cut != nil {
			v = min(v, 255-cut[i])
		}
		a.Pix[i] = v
	}
	return a
}

// fillMasked paints c through mask onto dst.
func fillMasked(dst draw.Image, mask image.Image, c color.Color) {
	draw.DrawMask(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, mask, image.Point{}, draw.Over)
}

// fillPath paints the area of p, in card px, onto dst.
func fillPath(dst draw.Image, p shapes.Path, c color.Color, scale float64) {
	b := dst.Bounds()
	fillMasked(dst, alphaOf(coverage(p, b.Dx(), b.Dy(), scale)), c)
}
