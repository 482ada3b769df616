package imagepkg

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/disintegration/imaging"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/youruser/cardsheet/internal/render"
)

// minLabelSide is the smallest QR side, in device px, that stays readable.
const minLabelSide = 48

// GenerateQRPNG returns PNG bytes of a QR code for text, size px wide.
func GenerateQRPNG(text string, size int) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("qr: empty text")
	}
	return qrcode.Encode(text, qrcode.Medium, size)
}

// pageLabel is the QR payload stamped on a page.
func pageLabel(label string, sh render.Sheet) string {
	side := "front"
	if sh.Back {
		side = "back"
	}
	return fmt.Sprintf("%s %s %d", label, side, sh.Index+1)
}

// stampLabel draws a QR code for text into the bottom-right corner of dst
// when the margin left by the cards can hold one. It reports whether a
// code was drawn.
func stampLabel(dst draw.Image, sh render.Sheet, text string, scale float64) (bool, error) {
	var maxX, maxY float64
	for _, c := range sh.Cards {
		maxX = max(maxX, c.X+c.Width)
		maxY = max(maxY, c.Y+c.Height)
	}
	margin := min(sh.Width-maxX, sh.Height-maxY) * scale
	side := int(margin * 0.8)
	if side < minLabelSide {
		return false, nil
	}

	q, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return false, fmt.Errorf("qr: %w", err)
	}
	q.DisableBorder = true
	code := imaging.Resize(q.Image(side), side, side, imaging.NearestNeighbor)

	b := dst.Bounds()
	inset := int((margin - float64(side)) / 2)
	at := image.Pt(b.Max.X-inset-side, b.Max.Y-inset-side)
	draw.Draw(dst, image.Rectangle{Min: at, Max: at.Add(image.Pt(side, side))}, code, image.Point{}, draw.Over)
	return true, nil
}
