package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/youruser/cardsheet/internal/pattern"
	"github.com/youruser/cardsheet/internal/shapes"
)

func num(v float64) string { return shapes.FormatNumber(v) }

func attr(s string) string { return html.EscapeString(s) }

// SVG renders a sheet as a standalone document. The output depends only on
// the sheet, so identical inputs give identical bytes.
func SVG(sh Sheet) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		num(sh.Width), num(sh.Height), num(sh.Width), num(sh.Height))
	for _, c := range sh.Cards {
		writeCard(&b, sh.Index, c)
	}
	b.WriteString("</svg>")
	return b.String()
}

// EmptySVG is the placeholder page shown when there is nothing to print or
// the cards do not fit.
func EmptySVG(width, height float64, sizeError bool) string {
	msg, fill := "Nothing selected", "#888888"
	if sizeError {
		msg, fill = "Cards do not fit on the page", "#D32F2F"
	}
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`+
		`<text x="%s" y="%s" text-anchor="middle" dominant-baseline="middle" font-family="sans-serif" font-size="34" fill="%s">%s</text></svg>`,
		num(width), num(height), num(width), num(height), num(width/2), num(height/2), fill, msg)
}

func writeCard(b *strings.Builder, page int, c Card) {
	id := fmt.Sprintf("p%d-c%d", page, c.Index)
	fmt.Fprintf(b, `<g transform="translate(%s, %s)">`, num(c.X), num(c.Y))
	fmt.Fprintf(b, `<clipPath id="clip-%s"><rect width="%s" height="%s" rx="%s" ry="%s"/></clipPath>`,
		id, num(c.Width), num(c.Height), num(c.ClipRadius), num(c.ClipRadius))
	fmt.Fprintf(b, `<g clip-path="url(#clip-%s)">`, id)
	for _, l := range c.Layers {
		switch l {
		case LayerBackground:
			writeBackground(b, c)
		case LayerPattern:
			if c.Pattern.Background != "" {
				fmt.Fprintf(b, `<rect width="%s" height="%s" fill="%s"/>`, num(c.Width), num(c.Height), attr(c.Pattern.Background))
			}
			pattern.WriteSVG(b, c.Pattern.Shapes)
		case LayerBorder:
			writeBorder(b, id, c.Border)
		case LayerImage:
			writeImage(b, c.Image, c.Name)
		case LayerText:
			writeText(b, c.Text)
		case LayerMarker:
			fmt.Fprintf(b, `<path d="%s" fill="%s"/>`, c.Marker.D, attr(c.Marker.Color))
		}
	}
	b.WriteString("</g></g>")
}

func aspect(fit string) string {
	switch fit {
	case "cover":
		return "xMidYMid slice"
	case "fill":
		return "none"
	}
	return "xMidYMid meet"
}

func writeBackground(b *strings.Builder, c Card) {
	bg := c.Background
	fmt.Fprintf(b, `<image href="%s" width="%s" height="%s" preserveAspectRatio="%s" opacity="%s" style="filter: blur(%spx) brightness(%s) saturate(%s) contrast(%s) hue-rotate(%sdeg)"/>`,
		attr(bg.Ref), num(c.Width), num(c.Height), aspect(bg.Fit), num(bg.Opacity),
		num(bg.Blur), num(bg.Brightness), num(bg.Saturate), num(bg.Contrast), num(bg.HueRotate))
}

func writeRoundRect(b *strings.Builder, r RoundRect, fill string) {
	fmt.Fprintf(b, `<rect x="%s" y="%s" width="%s" height="%s" rx="%s" ry="%s" fill="%s"/>`,
		num(r.X), num(r.Y), num(r.W), num(r.H), num(r.R), num(r.R), fill)
}

func writeBorder(b *strings.Builder, id string, br *Border) {
	fmt.Fprintf(b, `<mask id="border-%s">`, id)
	writeRoundRect(b, br.Outer, "white")
	writeRoundRect(b, br.Inner, "black")
	if br.Cut != nil {
		writeRoundRect(b, *br.Cut, "black")
	}
	b.WriteString("</mask>")
	fmt.Fprintf(b, `<g mask="url(#border-%s)">`, id)
	writeRoundRect(b, br.Outer, attr(br.Color))
	b.WriteString("</g>")
}

func writeImage(b *strings.Builder, img *Image, alt string) {
	f := img.Frame
	if img.Fill != "" {
		fmt.Fprintf(b, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`,
			num(f.X), num(f.Y), num(f.W), num(f.H), attr(img.Fill))
	}
	if img.Ref == "" {
		return
	}
	ct := img.Content
	fmt.Fprintf(b, `<image href="%s" x="%s" y="%s" width="%s" height="%s" preserveAspectRatio="%s"><title>%s</title></image>`,
		attr(img.Ref), num(ct.X), num(ct.Y), num(ct.W), num(ct.H), aspect(img.Fit), attr(alt))
}

func writeText(b *strings.Builder, t *Text) {
	cx := t.Frame.X + t.Frame.W/2
	cy := t.Frame.Y + t.Frame.H/2
	fmt.Fprintf(b, `<g transform="rotate(%s, %s, %s)">`, num(t.Rotate), num(cx), num(cy))
	if t.Background != "" {
		writeRoundRect(b, t.Frame, attr(t.Background))
	}

	lines := Wrap(t.Content, t.Area.W, approxMeasure(t.FontSize, t.LetterSpacing), t.SingleLine, t.Ellipsis)
	lh := t.LineStep()
	y := t.BlockTop(float64(len(lines))*lh) + lh/2

	x, anchor := t.Area.X+t.Area.W/2, "middle"
	switch t.Align {
	case "left", "start":
		x, anchor = t.Area.X, "start"
	case "right", "end":
		x, anchor = t.Area.X+t.Area.W, "end"
	}

	fmt.Fprintf(b, `<text text-anchor="%s" dominant-baseline="central" font-family="%s" font-style="%s" font-size="%s" font-weight="%d" letter-spacing="%s" fill="%s"`,
		anchor, attr(t.FontFamily), attr(t.FontStyle), num(t.FontSize), t.FontWeight, num(t.LetterSpacing), attr(t.Color))
	if t.Outline.Width > 0 {
		fmt.Fprintf(b, ` stroke="%s" stroke-width="%s" stroke-linejoin="round" paint-order="stroke"`,
			attr(t.Outline.Color), num(2*t.Outline.Width))
	}
	b.WriteString(">")
	for i, line := range lines {
		fmt.Fprintf(b, `<tspan x="%s" y="%s">%s</tspan>`, num(x), num(y+float64(i)*lh), html.EscapeString(line))
	}
	b.WriteString("</text></g>")
}
