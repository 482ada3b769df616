package render

import (
	"math"
	"strconv"
	"strings"

	"github.com/youruser/cardsheet/internal/settings"
	"github.com/youruser/cardsheet/internal/shapes"
)

// DetectFormat guesses the image format of ref from a data URI media type
// or the file extension.
func DetectFormat(ref string) settings.ImageFormat {
	switch {
	case ref == "":
		return settings.FormatOther
	case strings.HasPrefix(ref, "data:image/png"):
		return settings.FormatPNG
	case strings.HasPrefix(ref, "data:image/jpg"), strings.HasPrefix(ref, "data:image/jpeg"):
		return settings.FormatJPEG
	}
	lower := strings.ToLower(ref)
	switch {
	case strings.HasSuffix(lower, ".png"):
		return settings.FormatPNG
	case strings.HasSuffix(lower, ".jpg"), strings.HasSuffix(lower, ".jpeg"):
		return settings.FormatJPEG
	}
	return settings.FormatOther
}

func applyCase(s string, c settings.TextCase) string {
	switch c {
	case settings.CaseUpper:
		return strings.ToUpper(s)
	case settings.CaseLower:
		return strings.ToLower(s)
	}
	return s
}

// OutlineOffsets spreads shadow copies evenly on a circle of radius width.
// At least two copies are made; detailing adds copies per px of width.
func OutlineOffsets(width, detailing float64) []shapes.Point {
	if width <= 0 {
		return nil
	}
	steps := int(math.Ceil(math.Max(2, width*detailing)))
	step := 2 * math.Pi / float64(steps)
	out := make([]shapes.Point, steps)
	for i := range out {
		a := float64(i) * step
		out[i] = shapes.Point{X: fixed2(math.Cos(a) * width), Y: fixed2(math.Sin(a) * width)}
	}
	return out
}

// OutlineShadows renders the offsets as a CSS text-shadow list, or "none".
func OutlineShadows(width, blur float64, color string, detailing float64) string {
	offsets := OutlineOffsets(width, detailing)
	if len(offsets) == 0 {
		return "none"
	}
	layers := make([]string, len(offsets))
	b := strconv.FormatFloat(blur, 'f', -1, 64)
	for i, o := range offsets {
		layers[i] = strconv.FormatFloat(o.X, 'f', 2, 64) + "px " +
			strconv.FormatFloat(o.Y, 'f', 2, 64) + "px " + b + "px " + color
	}
	return strings.Join(layers, ", ")
}

func fixed2(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	return r
}

// markerPath builds the team marker outline inside a w x h card.
func markerPath(m settings.Marker, w, h float64) shapes.Path {
	edge, side, _ := strings.Cut(string(m.Position), "-")
	size, pad := m.Size, m.Padding
	var p shapes.Path

	switch m.Style {
	case settings.MarkerLine:
		var b Box
		switch edge {
		case "top":
			b = Box{0, 0, w, size / 2}
		case "bottom":
			b = Box{0, h - size/2, w, size / 2}
		case "left":
			b = Box{0, 0, size / 2, h}
		case "right":
			b = Box{w - size/2, 0, size / 2, h}
		default:
			return p
		}
		return RoundRect{Box: b}.Path()

	case settings.MarkerTriangle:
		var pts [3]shapes.Point
		switch m.Position {
		case settings.MarkerTopLeft:
			pts = [3]shapes.Point{{X: pad, Y: pad}, {X: pad + size, Y: pad}, {X: pad, Y: pad + size}}
		case settings.MarkerRightTop:
			pts = [3]shapes.Point{{X: w - pad - size, Y: pad}, {X: w - pad, Y: pad}, {X: w - pad, Y: pad + size}}
		case settings.MarkerLeftBottom:
			pts = [3]shapes.Point{{X: pad, Y: h - pad - size}, {X: pad + size, Y: h - pad}, {X: pad, Y: h - pad}}
		case settings.MarkerBottomRight:
			pts = [3]shapes.Point{{X: w - pad, Y: h - pad - size}, {X: w - pad, Y: h - pad}, {X: w - pad - size, Y: h - pad}}
		default:
			return p
		}
		p.MoveTo(pts[0].X, pts[0].Y)
		p.LineTo(pts[1].X, pts[1].Y)
		p.LineTo(pts[2].X, pts[2].Y)
		p.Close()
		return p
	}

	// circle
	cx, cy := pad+size/2, pad+size/2
	for _, s := range []string{edge, side} {
		switch s {
		case "right":
			cx = w - pad - size/2
		case "bottom":
			cy = h - pad - size/2
		}
	}
	return shapes.CirclePath(size).Transform(cx, cy, 0, 1)
}

// textFrame is the front text box.
func textFrame(t settings.TextBox, w, h float64) RoundRect {
	y := t.PaddingY
	if t.Position == "down" {
		y = h - t.PaddingY - t.MinHeight
	}
	return RoundRect{
		Box: Box{X: t.PaddingX, Y: y, W: w - 2*t.PaddingX, H: t.MinHeight},
		R:   t.BorderRadius,
	}
}

// borderGeometry resolves the active border variant for a w x h card.
func borderGeometry(v settings.BorderVariant, teamColor string, w, h float64) *Border {
	switch b := v.(type) {
	case settings.SVGBorder:
		return &Border{
			Version: settings.BorderSVG,
			Color:   b.Paint(teamColor),
			Outer:   RoundRect{Box: Box{0, 0, w, h}, R: b.OuterRadius},
			Inner: RoundRect{
				Box: Box{b.WidthX, b.WidthTop, w - 2*b.WidthX, h - b.WidthTop - b.WidthBottom},
				R:   b.InnerRadius,
			},
		}
	case settings.CSSBorder:
		return &Border{
			Version: settings.BorderCSS,
			Style:   b.Style,
			Color:   b.Paint(teamColor),
			Outer:   RoundRect{Box: Box{0, 0, w, h}, R: b.OuterRadius},
			Inner: RoundRect{
				Box: Box{b.WidthX, b.WidthTop, w - 2*b.WidthX, h - b.WidthTop - b.WidthBottom},
				R:   math.Max(0, b.OuterRadius-math.Max(b.WidthX, math.Max(b.WidthTop, b.WidthBottom))),
			},
		}
	}
	return nil
}

// imageFrame is the box the card image flows into. An overlaid text box
// leaves the whole card to the image; otherwise the text box takes its
// minimum height at the top or bottom.
func imageFrame(t settings.TextBox, w, h float64, hasText bool) Box {
	if !hasText || t.Overlay {
		return Box{0, 0, w, h}
	}
	rest := math.Max(0, h-t.MinHeight)
	if t.Position == "down" {
		return Box{0, 0, w, rest}
	}
	return Box{0, h - rest, w, rest}
}

func inset(b Box, top, right, bottom, left float64) Box {
	return Box{
		X: b.X + left,
		Y: b.Y + top,
		W: math.Max(0, b.W-left-right),
		H: math.Max(0, b.H-top-bottom),
	}
}
