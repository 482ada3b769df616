// Package settings holds the render settings snapshot consumed by layout
// and rendering. A RenderSettings value is never mutated in place: the With
// helpers return modified copies.
package settings

import (
	"maps"
	"slices"

	"github.com/youruser/cardsheet/internal/pattern"
	"github.com/youruser/cardsheet/internal/shapes"
)

type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// ImageFormat selects a per-format style variant.
type ImageFormat string

const (
	FormatJPEG  ImageFormat = "jpeg"
	FormatPNG   ImageFormat = "png"
	FormatOther ImageFormat = "other"
)

type Paper struct {
	Format      string      `json:"format"`
	Width       float64     `json:"width"`  // mm
	Height      float64     `json:"height"` // mm
	Orientation Orientation `json:"orientation"`
	Padding     float64     `json:"padding"` // mm
}

// Grid is the gutter drawn around every card, in px.
type Grid struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

type Card struct {
	Size            string  `json:"size"`
	Width           float64 `json:"width"`  // mm
	Height          float64 `json:"height"` // mm
	BackgroundColor string  `json:"backgroundColor"`
}

// FormatStyle is the image and text styling that depends on the format of
// the card image.
type FormatStyle struct {
	ImageFit           string  `json:"imageFit"`
	ImagePaddingX      float64 `json:"imagePaddingX"`
	ImagePaddingTop    float64 `json:"imagePaddingTop"`
	ImagePaddingBottom float64 `json:"imagePaddingBottom"`

	TextColor     string  `json:"textColor"`
	FontSize      float64 `json:"fontSize"`
	FontWeight    int     `json:"fontWeight"`
	LetterSpacing float64 `json:"letterSpacing"`
	LineHeight    float64 `json:"lineHeight"`

	OutlineColor string  `json:"outlineColor"`
	OutlineWidth float64 `json:"outlineWidth"`
	OutlineBlur  float64 `json:"outlineBlur"`
}

type FormatStyles map[ImageFormat]FormatStyle

// For returns the variant for f, falling back to the generic one.
func (fs FormatStyles) For(f ImageFormat) FormatStyle {
	if s, ok := fs[f]; ok {
		return s
	}
	return fs[FormatOther]
}

type Pattern struct {
	BackgroundColor        string        `json:"backgroundColor"`
	BackgroundUseTeamColor bool          `json:"backgroundUseTeamColor"`
	Seed                   string        `json:"seed"`
	UniqueSeed             bool          `json:"uniqueSeed"`
	Color                  string        `json:"color"`
	UseTeamColor           bool          `json:"useTeamColor"`
	ShapesCount            int           `json:"shapesCount"`
	Shapes                 []shapes.Kind `json:"shapes"`
	MinSize                float64       `json:"minSize"`
	MaxSize                float64       `json:"maxSize"`
	MinOpacity             float64       `json:"minOpacity"`
	MaxOpacity             float64       `json:"maxOpacity"`
	MinRotate              float64       `json:"minRotate"`
	MaxRotate              float64       `json:"maxRotate"`
	DeadZone               float64       `json:"deadZone"`
}

// Params builds generator parameters for an area of the given size.
func (p Pattern) Params(width, height float64, seed, color string) pattern.Params {
	return pattern.Params{
		Width:      width,
		Height:     height,
		Seed:       seed,
		Color:      color,
		Count:      p.ShapesCount,
		Kinds:      slices.Clone(p.Shapes),
		MinSize:    p.MinSize,
		MaxSize:    p.MaxSize,
		MinOpacity: p.MinOpacity,
		MaxOpacity: p.MaxOpacity,
		MinRotate:  p.MinRotate,
		MaxRotate:  p.MaxRotate,
		DeadZone:   p.DeadZone,
	}
}

// Background is a decorative image laid under (or over) the card image.
type Background struct {
	ID         string  `json:"id"`
	Fit        string  `json:"fit"`
	OverImage  bool    `json:"overImage"`
	Opacity    float64 `json:"opacity"`
	Blur       float64 `json:"blur"`
	Brightness float64 `json:"brightness"`
	Saturate   float64 `json:"saturate"`
	Contrast   float64 `json:"contrast"`
	HueRotate  float64 `json:"hueRotate"`
}

type MarkerStyle string

const (
	MarkerLine     MarkerStyle = "line"
	MarkerTriangle MarkerStyle = "triangle"
	MarkerCircle   MarkerStyle = "circle"
)

// MarkerPosition is "<edge>-<side>", e.g. "right-top".
type MarkerPosition string

const (
	MarkerTopLeft     MarkerPosition = "top-left"
	MarkerRightTop    MarkerPosition = "right-top"
	MarkerLeftBottom  MarkerPosition = "left-bottom"
	MarkerBottomRight MarkerPosition = "bottom-right"
)

type Marker struct {
	Position     MarkerPosition `json:"position"`
	Style        MarkerStyle    `json:"style"`
	Color        string         `json:"color"`
	UseTeamColor bool           `json:"useTeamColor"`
	Size         float64        `json:"size"`
	Padding      float64        `json:"padding"`
	Opacity      float64        `json:"opacity"`
}

type TextCase string

const (
	CaseNone  TextCase = "none"
	CaseUpper TextCase = "uppercase"
	CaseLower TextCase = "lowercase"
)

// TextBox styles the card name on the front.
type TextBox struct {
	Show            bool     `json:"show"`
	Position        string   `json:"position"` // "down" or "up"
	Overlay         bool     `json:"overlay"`
	BackgroundColor string   `json:"backgroundColor"`
	MinHeight       float64  `json:"minHeight"`
	PaddingX        float64  `json:"paddingX"`
	PaddingY        float64  `json:"paddingY"`
	BorderRadius    float64  `json:"borderRadius"`
	Rotate          float64  `json:"rotate"`
	Align           string   `json:"align"`
	TextPaddingX    float64  `json:"textPaddingX"`
	TextPaddingY    float64  `json:"textPaddingY"`
	SingleLine      bool     `json:"singleLine"`
	Ellipsis        bool     `json:"ellipsis"`
	FontFamily      string   `json:"fontFamily"`
	FontStyle       string   `json:"fontStyle"`
	Case            TextCase `json:"case"`
	// OutlineDetailing is the number of shadow layers per px of outline.
	OutlineDetailing float64 `json:"outlineDetailing"`
}

// BackText is the caption printed on card backs.
type BackText struct {
	Text             string   `json:"text"`
	Position         string   `json:"position"` // start, center or end
	PaddingLeft      float64  `json:"paddingLeft"`
	PaddingRight     float64  `json:"paddingRight"`
	PaddingTop       float64  `json:"paddingTop"`
	PaddingBottom    float64  `json:"paddingBottom"`
	Rotate           float64  `json:"rotate"`
	Align            string   `json:"align"`
	FontFamily       string   `json:"fontFamily"`
	FontStyle        string   `json:"fontStyle"`
	Case             TextCase `json:"case"`
	Color            string   `json:"color"`
	FontSize         float64  `json:"fontSize"`
	FontWeight       int      `json:"fontWeight"`
	LetterSpacing    float64  `json:"letterSpacing"`
	LineHeight       float64  `json:"lineHeight"`
	OutlineColor     string   `json:"outlineColor"`
	OutlineWidth     float64  `json:"outlineWidth"`
	OutlineBlur      float64  `json:"outlineBlur"`
	OutlineDetailing float64  `json:"outlineDetailing"`
}

type Front struct {
	ImageOverEverything bool         `json:"imageOverEverything"`
	Styles              FormatStyles `json:"styles"`
	Background          Background   `json:"background"`
	Pattern             Pattern      `json:"pattern"`
	Border              Border       `json:"border"`
	Marker              Marker       `json:"marker"`
	Text                TextBox      `json:"text"`
}

type Back struct {
	Background Background `json:"background"`
	Pattern    Pattern    `json:"pattern"`
	Border     Border     `json:"border"`
	Text       BackText   `json:"text"`
}

// RenderSettings is one complete settings profile.
type RenderSettings struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Paper Paper  `json:"paper"`
	Grid  Grid   `json:"grid"`
	Card  Card   `json:"card"`
	Front Front  `json:"front"`
	Back  Back   `json:"back"`
}

// Clone returns a deep copy of s.
func (s RenderSettings) Clone() RenderSettings {
	s.Front.Styles = maps.Clone(s.Front.Styles)
	s.Front.Pattern.Shapes = slices.Clone(s.Front.Pattern.Shapes)
	s.Back.Pattern.Shapes = slices.Clone(s.Back.Pattern.Shapes)
	return s
}

// Sheet returns the paper size in mm for the current orientation.
func (p Paper) Sheet() (width, height float64) {
	if p.Orientation == Landscape {
		return p.Height, p.Width
	}
	return p.Width, p.Height
}
