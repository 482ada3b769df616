package render

import (
	"github.com/youruser/cardsheet/internal/pattern"
	"github.com/youruser/cardsheet/internal/settings"
	"github.com/youruser/cardsheet/internal/shapes"
)

// Box is an axis-aligned rectangle in card px.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// RoundRect is a Box with a corner radius.
type RoundRect struct {
	Box
	R float64 `json:"r"`
}

// Path returns the outline of r, clockwise from the top-left corner.
func (r RoundRect) Path() shapes.Path {
	rad := min(r.R, r.W/2, r.H/2)
	var p shapes.Path
	if rad <= 0 {
		p.MoveTo(r.X, r.Y)
		p.LineTo(r.X+r.W, r.Y)
		p.LineTo(r.X+r.W, r.Y+r.H)
		p.LineTo(r.X, r.Y+r.H)
		p.Close()
		return p
	}
	x0, y0, x1, y1 := r.X, r.Y, r.X+r.W, r.Y+r.H
	p.MoveTo(x0+rad, y0)
	p.LineTo(x1-rad, y0)
	p.ArcTo(rad, rad, 0, false, true, x1, y0+rad)
	p.LineTo(x1, y1-rad)
	p.ArcTo(rad, rad, 0, false, true, x1-rad, y1)
	p.LineTo(x0+rad, y1)
	p.ArcTo(rad, rad, 0, false, true, x0, y1-rad)
	p.LineTo(x0, y0+rad)
	p.ArcTo(rad, rad, 0, false, true, x0+rad, y0)
	p.Close()
	return p
}

// Layer names one paint step of a card, in stacking order.
type Layer string

const (
	LayerBackground Layer = "background"
	LayerPattern    Layer = "pattern"
	LayerBorder     Layer = "border"
	LayerImage      Layer = "image"
	LayerText       Layer = "text"
	LayerMarker     Layer = "marker"
)

type Image struct {
	Ref    string               `json:"ref"`
	Format settings.ImageFormat `json:"format"`
	Fit    string               `json:"fit"`
	// Frame is the image box; Content is the frame minus the padding.
	Frame   Box    `json:"frame"`
	Content Box    `json:"content"`
	Fill    string `json:"fill,omitempty"`
}

// BackgroundImage is a decorative image with CSS-like filters.
type BackgroundImage struct {
	Ref        string  `json:"ref"`
	Fit        string  `json:"fit"`
	Opacity    float64 `json:"opacity"`
	Blur       float64 `json:"blur"`
	Brightness float64 `json:"brightness"`
	Saturate   float64 `json:"saturate"`
	Contrast   float64 `json:"contrast"`
	HueRotate  float64 `json:"hueRotate"`
}

type Pattern struct {
	Background string          `json:"background"`
	Seed       string          `json:"seed"`
	Requested  int             `json:"requested"`
	Shapes     []pattern.Shape `json:"shapes"`
}

// Border is drawn as Outer minus Inner minus Cut for both renderer
// variants.
type Border struct {
	Version settings.BorderVersion `json:"version"`
	Style   string                 `json:"style,omitempty"`
	Color   string                 `json:"color"`
	Outer   RoundRect              `json:"outer"`
	Inner   RoundRect              `json:"inner"`
	Cut     *RoundRect             `json:"cut,omitempty"`
}

type Outline struct {
	Width     float64 `json:"width"`
	Blur      float64 `json:"blur"`
	Color     string  `json:"color"`
	Shadow    string  `json:"shadow"`
	Detailing float64 `json:"detailing"`
}

type Text struct {
	Content string `json:"content"`
	// Frame is the text box, Area the text area inside its padding.
	Frame         RoundRect `json:"frame"`
	Area          Box       `json:"area"`
	Background    string    `json:"background,omitempty"`
	Rotate        float64   `json:"rotate"`
	Align         string    `json:"align"`
	VAlign        string    `json:"valign"`
	FontFamily    string    `json:"fontFamily"`
	FontStyle     string    `json:"fontStyle"`
	FontSize      float64   `json:"fontSize"`
	FontWeight    int       `json:"fontWeight"`
	LetterSpacing float64   `json:"letterSpacing"`
	LineHeight    float64   `json:"lineHeight"`
	Color         string    `json:"color"`
	SingleLine    bool      `json:"singleLine"`
	Ellipsis      bool      `json:"ellipsis"`
	Outline       Outline   `json:"outline"`
}

// LineStep is the distance between two baselines.
func (t *Text) LineStep() float64 {
	if lh := t.FontSize * t.LineHeight; lh > 0 {
		return lh
	}
	return t.FontSize
}

// BlockTop places a block of the given height inside the text area.
func (t *Text) BlockTop(height float64) float64 {
	switch t.VAlign {
	case "start", "top":
		return t.Area.Y
	case "end", "bottom":
		return t.Area.Y + t.Area.H - height
	}
	return t.Area.Y + (t.Area.H-height)/2
}

type Marker struct {
	Style    settings.MarkerStyle    `json:"style"`
	Position settings.MarkerPosition `json:"position"`
	Color    string                  `json:"color"`
	Path     shapes.Path             `json:"-"`
	D        string                  `json:"d"`
}

// Card is one fully resolved card slot. Coordinates inside the card are
// relative to its top-left corner at X, Y on the sheet.
type Card struct {
	Index  int     `json:"index"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Back   bool    `json:"back"`
	CardID string  `json:"cardId,omitempty"`
	TeamID string  `json:"teamId,omitempty"`
	Name   string  `json:"name,omitempty"`
	Local  bool    `json:"local,omitempty"`

	ClipRadius float64 `json:"clipRadius"`
	Layers     []Layer `json:"layers"`

	Background *BackgroundImage `json:"background,omitempty"`
	Pattern    Pattern          `json:"pattern"`
	Border     *Border          `json:"border,omitempty"`
	Image      *Image           `json:"image,omitempty"`
	Text       *Text            `json:"text,omitempty"`
	Marker     *Marker          `json:"marker,omitempty"`
}

// Sheet is one printable page.
type Sheet struct {
	Index  int     `json:"index"`
	Back   bool    `json:"back"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Cards  []Card  `json:"cards"`
	// Errors counts slots whose card could not be resolved.
	Errors int `json:"errors"`
}
