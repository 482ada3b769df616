// Package imagepkg rasterizes rendered sheets into page images.
package imagepkg

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"github.com/youruser/cardsheet/internal/paint"
	"github.com/youruser/cardsheet/internal/render"
)

// ErrPageTooLarge rejects a page above the pixel budget before any
// allocation.
var ErrPageTooLarge = errors.New("page exceeds pixel budget")

// DefaultMaxPagePixels is 512 MiB of NRGBA; an A3 sheet at scale 4 is
// about a quarter of it.
const DefaultMaxPagePixels = 1 << 27

type Options struct {
	// Scale is device px per sheet px. Zero or less means 1.
	Scale float64
	// MaxPixels bounds a page's width times height in device px. Zero
	// selects DefaultMaxPagePixels.
	MaxPixels int64
	// Label, when set, is encoded with the page side and number into a
	// QR code in the bottom-right page margin.
	Label  string
	Logger *slog.Logger
}

// Composer turns sheet descriptors into raster pages. Pages are
// transparent where no card is drawn.
type Composer struct {
	src       Source
	scale     float64
	maxPixels int64
	label     string
	logger    *slog.Logger
}

func NewComposer(src Source, opts Options) *Composer {
	if opts.Scale <= 0 || math.IsNaN(opts.Scale) {
		opts.Scale = 1
	}
	if opts.MaxPixels <= 0 {
		opts.MaxPixels = DefaultMaxPagePixels
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Composer{
		src:       src,
		scale:     opts.Scale,
		maxPixels: opts.MaxPixels,
		label:     opts.Label,
		logger:    logger.With("component", "compose"),
	}
}

func (c *Composer) px(v float64) int {
	return int(math.Round(v * c.scale))
}

// fits checks a w x h sheet px area against the budget in device px.
func (c *Composer) fits(w, h float64) error {
	pw, ph := math.Ceil(w*c.scale), math.Ceil(h*c.scale)
	if !(pw >= 0 && ph >= 0) || pw*ph > float64(c.maxPixels) {
		return fmt.Errorf("%w: %.0fx%.0f px, budget %d", ErrPageTooLarge, pw, ph, c.maxPixels)
	}
	return nil
}

func (c *Composer) rect(b render.Box) image.Rectangle {
	return image.Rect(c.px(b.X), c.px(b.Y), c.px(b.X+b.W), c.px(b.Y+b.H))
}

// Pages rasterizes sheets with at most workers pages in flight. The
// result keeps the order of sheets.
func (c *Composer) Pages(ctx context.Context, sheets []render.Sheet, workers int) ([]*image.NRGBA, error) {
	out := make([]*image.NRGBA, len(sheets))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, sh := range sheets {
		g.Go(func() error {
			img, err := c.Page(ctx, sh)
			if err != nil {
				return err
			}
			out[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Page rasterizes one sheet.
func (c *Composer) Page(ctx context.Context, sh render.Sheet) (*image.NRGBA, error) {
	if err := c.fits(sh.Width, sh.Height); err != nil {
		return nil, fmt.Errorf("page %d: %w", sh.Index+1, err)
	}
	page := image.NewNRGBA(image.Rect(0, 0, c.px(sh.Width), c.px(sh.Height)))
	fc := faces{}
	defer fc.Close()

	for _, card := range sh.Cards {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := c.card(ctx, card, fc)
		if err != nil {
			return nil, fmt.Errorf("page %d card %d: %w", sh.Index+1, card.Index, err)
		}
		at := image.Pt(c.px(card.X), c.px(card.Y))
		draw.Draw(page, img.Bounds().Add(at), img, image.Point{}, draw.Over)
	}

	if c.label != "" {
		ok, err := stampLabel(page, sh, pageLabel(c.label, sh), c.scale)
		if err != nil {
			return nil, err
		}
		if !ok {
			c.logger.Debug("page margin too small for label", "page", sh.Index+1, "back", sh.Back)
		}
	}
	return page, nil
}

func (c *Composer) card(ctx context.Context, card render.Card, fc faces) (*image.NRGBA, error) {
	if err := c.fits(card.Width, card.Height); err != nil {
		return nil, err
	}
	w, h := c.px(card.Width), c.px(card.Height)
	canvas := image.NewNRGBA(image.Rect(0, 0, w, h))

	for _, l := range card.Layers {
		var err error
		switch l {
		case render.LayerBackground:
			canvas, err = c.background(ctx, canvas, card.Background)
		case render.LayerPattern:
			if card.Pattern.Background != "" {
				draw.Draw(canvas, canvas.Bounds(), image.NewUniform(paint.MustNRGBA(card.Pattern.Background)), image.Point{}, draw.Over)
			}
			var layer image.Image
			layer, err = drawShapes(card.Pattern.Shapes, w, h, c.scale)
			if err == nil {
				draw.Draw(canvas, canvas.Bounds(), layer, image.Point{}, draw.Over)
			}
		case render.LayerBorder:
			fillMasked(canvas, borderMask(card.Border, w, h, c.scale), paint.MustNRGBA(card.Border.Color))
		case render.LayerImage:
			canvas, err = c.image(ctx, canvas, card.Image)
		case render.LayerText:
			err = drawText(canvas, card.Text, c.scale, fc)
		case render.LayerMarker:
			fillPath(canvas, card.Marker.Path, paint.MustNRGBA(card.Marker.Color), c.scale)
		}
		if err != nil {
			return nil, fmt.Errorf("%s layer: %w", l, err)
		}
	}

	if card.ClipRadius <= 0 {
		return canvas, nil
	}
	frame := render.RoundRect{Box: render.Box{W: card.Width, H: card.Height}, R: card.ClipRadius}
	clipped := image.NewNRGBA(canvas.Bounds())
	draw.DrawMask(clipped, clipped.Bounds(), canvas, image.Point{}, alphaOf(coverage(frame.Path(), w, h, c.scale)), image.Point{}, draw.Src)
	return clipped, nil
}

// fetch resolves ref. A missing image is logged and skipped like a broken
// image in a browser; only cancellation is an error.
func (c *Composer) fetch(ctx context.Context, ref string) (image.Image, error) {
	img, err := c.src.Fetch(ctx, ref)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("image unavailable", "ref", shortRef(ref), "err", err)
		return nil, nil
	}
	return img, nil
}

func (c *Composer) image(ctx context.Context, canvas *image.NRGBA, im *render.Image) (*image.NRGBA, error) {
	if im.Fill != "" {
		draw.Draw(canvas, c.rect(im.Frame), image.NewUniform(paint.MustNRGBA(im.Fill)), image.Point{}, draw.Over)
	}
	if im.Ref == "" {
		return canvas, nil
	}
	src, err := c.fetch(ctx, im.Ref)
	if src == nil {
		return canvas, err
	}
	box := c.rect(im.Content)
	fitted, at := fitInto(src, box.Dx(), box.Dy(), im.Fit)
	if fitted == nil {
		return canvas, nil
	}
	return imaging.Overlay(canvas, fitted, box.Min.Add(at), 1), nil
}

func (c *Composer) background(ctx context.Context, canvas *image.NRGBA, bg *render.BackgroundImage) (*image.NRGBA, error) {
	if bg.Ref == "" || bg.Opacity <= 0 {
		return canvas, nil
	}
	src, err := c.fetch(ctx, bg.Ref)
	if src == nil {
		return canvas, err
	}
	b := canvas.Bounds()
	fitted, at := fitInto(src, b.Dx(), b.Dy(), bg.Fit)
	if fitted == nil {
		return canvas, nil
	}
	return imaging.Overlay(canvas, filter(fitted, bg, c.scale), at, math.Min(bg.Opacity, 1)), nil
}

// fitInto sizes src for a w x h box following CSS object-fit and returns
// the offset of the result inside the box.
func fitInto(src image.Image, w, h int, fit string) (*image.NRGBA, image.Point) {
	sb := src.Bounds()
	iw, ih := sb.Dx(), sb.Dy()
	if w <= 0 || h <= 0 || iw <= 0 || ih <= 0 {
		return nil, image.Point{}
	}
	centered := func(img *image.NRGBA) (*image.NRGBA, image.Point) {
		r := img.Bounds()
		return img, image.Pt((w-r.Dx())/2, (h-r.Dy())/2)
	}
	switch fit {
	case "cover":
		return imaging.Fill(src, w, h, imaging.Center, imaging.Lanczos), image.Point{}
	case "fill":
		return imaging.Resize(src, w, h, imaging.Lanczos), image.Point{}
	case "none":
		return centered(imaging.CropCenter(src, min(w, iw), min(h, ih)))
	case "scale-down":
		if iw <= w && ih <= h {
			return centered(imaging.Clone(src))
		}
	}
	r := math.Min(float64(w)/float64(iw), float64(h)/float64(ih))
	nw := max(1, int(math.Round(float64(iw)*r)))
	nh := max(1, int(math.Round(float64(ih)*r)))
	return centered(imaging.Resize(src, nw, nh, imaging.Lanczos))
}

// filter applies the CSS filter chain of a background image in CSS order:
// blur, brightness, saturate, contrast, hue-rotate.
func filter(img *image.NRGBA, bg *render.BackgroundImage, scale float64) *image.NRGBA {
	if bg.Blur > 0 {
		img = imaging.Blur(img, bg.Blur*scale)
	}
	if bg.Brightness != 1 && bg.Brightness >= 0 {
		k := bg.Brightness
		img = imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
			return color.NRGBA{R: clamp8(float64(c.R) * k), G: clamp8(float64(c.G) * k), B: clamp8(float64(c.B) * k), A: c.A}
		})
	}
	if bg.Saturate != 1 && bg.Saturate >= 0 {
		img = imaging.AdjustSaturation(img, math.Min((bg.Saturate-1)*100, 500))
	}
	if bg.Contrast != 1 && bg.Contrast >= 0 {
		img = imaging.AdjustContrast(img, math.Max(-100, math.Min((bg.Contrast-1)*100, 100)))
	}
	if bg.HueRotate != 0 {
		img = imaging.AdjustFunc(img, hueRotate(bg.HueRotate))
	}
	return img
}

// hueRotate is the CSS hue-rotate colour matrix.
func hueRotate(degrees float64) func(color.NRGBA) color.NRGBA {
	sin, cos := math.Sincos(degrees * math.Pi / 180)
	m := [3][3]float64{
		{0.213 + cos*0.787 - sin*0.213, 0.715 - cos*0.715 - sin*0.715, 0.072 - cos*0.072 + sin*0.928},
		{0.213 - cos*0.213 + sin*0.143, 0.715 + cos*0.285 + sin*0.140, 0.072 - cos*0.072 - sin*0.283},
		{0.213 - cos*0.213 - sin*0.787, 0.715 - cos*0.715 + sin*0.715, 0.072 + cos*0.928 + sin*0.072},
	}
	return func(c color.NRGBA) color.NRGBA {
		r, g, b := float64(c.R), float64(c.G), float64(c.B)
		return color.NRGBA{
			R: clamp8(m[0][0]*r + m[0][1]*g + m[0][2]*b),
			G: clamp8(m[1][0]*r + m[1][1]*g + m[1][2]*b),
			B: clamp8(m[2][0]*r + m[2][1]*g + m[2][2]*b),
			A: c.A,
		}
	}
}

func clamp8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(v, 255))))
}
