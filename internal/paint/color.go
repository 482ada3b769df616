// Package paint parses the CSS colour strings stored in settings profiles
// and composes opacity into them.
package paint

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/gg"
)

// ErrInvalidColor is returned for strings that are not a supported colour.
var ErrInvalidColor = errors.New("invalid colour")

// Space is the notation a colour was written in.
type Space string

const (
	RGB Space = "rgb"
	HSL Space = "hsl"
)

// Color is a decomposed CSS colour. For RGB the channels are 0..255, for
// HSL they are hue degrees and saturation/lightness percentages. A is
// always 0..1.
type Color struct {
	Space    Space
	Channels [3]float64
	A        float64
	HasAlpha bool
}

var named = map[string]string{
	"transparent": "#00000000",
	"black":       "#000000",
	"white":       "#ffffff",
	"red":         "#ff0000",
	"green":       "#008000",
	"blue":        "#0000ff",
	"gray":        "#808080",
	"grey":        "#808080",
}

// Parse decomposes s. Supported forms: #RGB, #RGBA, #RRGGBB, #RRGGBBAA,
// rgb(), rgba(), hsl(), hsla() and a few named colours.
func Parse(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if hex, ok := named[strings.ToLower(s)]; ok {
		s = hex
	}
	if strings.HasPrefix(s, "#") {
		return parseHex(s)
	}
	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	fn := strings.ToLower(strings.TrimSpace(s[:open]))
	args := splitArgs(s[open+1 : len(s)-1])

	var c Color
	switch fn {
	case "rgb", "rgba":
		c.Space = RGB
	case "hsl", "hsla":
		c.Space = HSL
	default:
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	if len(args) != 3 && len(args) != 4 {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(strings.TrimSuffix(args[i], "%"), 64)
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		c.Channels[i] = v
	}
	c.A = 1
	if len(args) == 4 {
		a, err := strconv.ParseFloat(args[3], 64)
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		c.A = a
		c.HasAlpha = true
	}
	return c, nil
}

func parseHex(s string) (Color, error) {
	digits := s[1:]
	switch len(digits) {
	case 3, 4, 6, 8:
	default:
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	for _, r := range digits {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
	}
	h := gg.Hex(s)
	c := Color{
		Space:    RGB,
		Channels: [3]float64{math.Round(h.R * 255), math.Round(h.G * 255), math.Round(h.B * 255)},
		A:        1,
	}
	if len(digits) == 4 || len(digits) == 8 {
		c.A = math.Round(h.A*1000) / 1000
		c.HasAlpha = true
	}
	return c, nil
}

func splitArgs(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '/' })
	out := fields[:0]
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// WithAlpha returns c with its alpha replaced by a, clamped to [0, 1].
func (c Color) WithAlpha(a float64) Color {
	c.A = clamp01(a)
	c.HasAlpha = true
	return c
}

// String recomposes the colour in functional notation, for example
// "rgba(204, 0, 255, 0.35)".
func (c Color) String() string {
	parts := make([]string, 0, 4)
	for i, v := range c.Channels {
		p := jsNumber(v)
		if c.Space == HSL && i > 0 {
			p += "%"
		}
		parts = append(parts, p)
	}
	fn := string(c.Space)
	if c.HasAlpha {
		fn += "a"
		parts = append(parts, jsNumber(c.A))
	}
	return fn + "(" + strings.Join(parts, ", ") + ")"
}

// NRGBA converts the colour to a non-premultiplied 8-bit colour.
func (c Color) NRGBA() color.NRGBA {
	r, g, b := c.Channels[0]/255, c.Channels[1]/255, c.Channels[2]/255
	if c.Space == HSL {
		v := gg.HSL(c.Channels[0], c.Channels[1]/100, c.Channels[2]/100)
		r, g, b = v.R, v.G, v.B
	}
	return color.NRGBA{
		R: to8(r),
		G: to8(g),
		B: to8(b),
		A: to8(c.A),
	}
}

// Alpha composes opacity a into the colour string s. Unparseable input is
// treated as black so rendering never fails on a bad profile value.
func Alpha(s string, a float64) string {
	c, err := Parse(s)
	if err != nil {
		c = Color{Space: RGB, A: 1}
	}
	return c.WithAlpha(a).String()
}

// MustNRGBA parses s and converts it, falling back to transparent black.
func MustNRGBA(s string) color.NRGBA {
	c, err := Parse(s)
	if err != nil {
		return color.NRGBA{}
	}
	return c.NRGBA()
}

func to8(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(math.Max(v, 0), 1)
}

// jsNumber formats v the way a browser prints a number.
func jsNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
