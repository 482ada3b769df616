package imagepkg

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"
	"unicode/utf8"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/youruser/cardsheet/internal/paint"
	"github.com/youruser/cardsheet/internal/render"
)

type fontKey struct{ bold, italic bool }

// goFonts parses the bundled Go font family once. Font families named in
// a profile are matched by weight and style only.
var goFonts = sync.OnceValues(func() (map[fontKey]*opentype.Font, error) {
	src := map[fontKey][]byte{
		{false, false}: goregular.TTF,
		{true, false}:  gobold.TTF,
		{false, true}:  goitalic.TTF,
		{true, true}:   gobolditalic.TTF,
	}
	out := make(map[fontKey]*opentype.Font, len(src))
	for k, ttf := range src {
		f, err := opentype.Parse(ttf)
		if err != nil {
			return nil, fmt.Errorf("parse go font: %w", err)
		}
		out[k] = f
	}
	return out, nil
})

type faceKey struct {
	fontKey
	size float64
}

// faces caches the font faces of one page. Faces keep glyph buffers and
// must not be shared between goroutines.
type faces map[faceKey]font.Face

func (fc faces) get(t *render.Text, size float64) (font.Face, error) {
	k := faceKey{fontKey{t.FontWeight >= 600, t.FontStyle == "italic" || t.FontStyle == "oblique"}, size}
	if f, ok := fc[k]; ok {
		return f, nil
	}
	fonts, err := goFonts()
	if err != nil {
		return nil, err
	}
	f, err := opentype.NewFace(fonts[k.fontKey], &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	fc[k] = f
	return f, nil
}

func (fc faces) Close() {
	for _, f := range fc {
		f.Close()
	}
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// measurer returns the advance width of a string including letter spacing.
func measurer(face font.Face, spacing float64) func(string) float64 {
	return func(s string) float64 {
		return fromFixed(font.MeasureString(face, s)) + spacing*float64(utf8.RuneCountInString(s))
	}
}

func drawLine(dst draw.Image, face font.Face, src image.Image, s string, x, baseline, spacing float64) {
	d := &font.Drawer{Dst: dst, Src: src, Face: face, Dot: fixed.Point26_6{X: toFixed(x), Y: toFixed(baseline)}}
	if spacing == 0 {
		d.DrawString(s)
		return
	}
	for _, r := range s {
		d.DrawString(string(r))
		d.Dot.X += toFixed(spacing)
	}
}

// drawText renders a text box onto the card canvas. The box is drawn on
// its own layer centred on the frame so that rotation keeps the centre in
// place.
func drawText(canvas *image.NRGBA, t *render.Text, scale float64, fc faces) error {
	size := t.FontSize * scale
	if size <= 0 && t.Background == "" {
		return nil
	}

	cx := (t.Frame.X + t.Frame.W/2) * scale
	cy := (t.Frame.Y + t.Frame.H/2) * scale
	side := int(math.Ceil(math.Hypot(t.Frame.W, t.Frame.H)*scale)) + 2
	ox, oy := float64(side)/2-cx, float64(side)/2-cy
	layer := image.NewNRGBA(image.Rect(0, 0, side, side))

	if t.Background != "" {
		frame := t.Frame.Path().Scale(scale).Transform(ox, oy, 0, 1)
		fillPath(layer, frame, paint.MustNRGBA(t.Background), 1)
	}

	if size > 0 && t.Content != "" {
		face, err := fc.get(t, size)
		if err != nil {
			return err
		}
		spacing := t.LetterSpacing * scale
		measure := measurer(face, spacing)
		lines := render.Wrap(t.Content, t.Area.W*scale, measure, t.SingleLine, t.Ellipsis)

		step := t.LineStep() * scale
		top := t.BlockTop(float64(len(lines))*t.LineStep())*scale + oy
		m := face.Metrics()
		shift := (fromFixed(m.Ascent) - fromFixed(m.Descent)) / 2

		type placed struct {
			s    string
			x, y float64
		}
		out := make([]placed, len(lines))
		for i, line := range lines {
			w := measure(line)
			x := (t.Area.X+t.Area.W/2)*scale - w/2
			switch t.Align {
			case "left", "start":
				x = t.Area.X * scale
			case "right", "end":
				x = (t.Area.X+t.Area.W)*scale - w
			}
			out[i] = placed{line, x + ox, top + step*(float64(i)+0.5) + shift}
		}

		if offsets := render.OutlineOffsets(t.Outline.Width, t.Outline.Detailing); len(offsets) > 0 {
			halo := image.NewNRGBA(layer.Bounds())
			src := image.NewUniform(paint.MustNRGBA(t.Outline.Color))
			for _, l := range out {
				for _, o := range offsets {
					drawLine(halo, face, src, l.s, l.x+o.X*scale, l.y+o.Y*scale, spacing)
				}
			}
			if t.Outline.Blur > 0 {
				halo = imaging.Blur(halo, t.Outline.Blur*scale)
			}
			draw.Draw(layer, layer.Bounds(), halo, image.Point{}, draw.Over)
		}

		src := image.NewUniform(paint.MustNRGBA(t.Color))
		for _, l := range out {
			drawLine(layer, face, src, l.s, l.x, l.y, spacing)
		}
	}

	var rotated image.Image = layer
	if t.Rotate != 0 {
		// imaging rotates counter-clockwise, CSS clockwise.
		rotated = imaging.Rotate(layer, -t.Rotate, color.Transparent)
	}
	rb := rotated.Bounds()
	at := image.Pt(int(math.Round(cx-float64(rb.Dx())/2)), int(math.Round(cy-float64(rb.Dy())/2)))
	draw.Draw(canvas, rb.Sub(rb.Min).Add(at), rotated, rb.Min, draw.Over)
	return nil
}
