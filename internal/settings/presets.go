package settings

import (
	"slices"

	"github.com/youruser/cardsheet/internal/shapes"
)

// Size is a width and height in mm.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Custom keeps the explicit width and height of a profile.
const Custom = "custom"

var PaperFormats = map[string]Size{
	"A3": {297, 420},
	"A4": {210, 297},
	"A5": {148, 210},
	"B4": {250, 353},
	"B5": {176, 250},
}

var CardSizes = map[string]Size{
	"small":    {20, 30},
	"standard": {25, 35},
	"big":      {30, 40},
}

// Default is the built-in "border" profile.
func Default() RenderSettings {
	return RenderSettings{
		ID:   "border",
		Name: "Border",
		Paper: Paper{
			Format:      "A4",
			Width:       210,
			Height:      297,
			Orientation: Portrait,
			Padding:     6,
		},
		Grid: Grid{Color: "#FFFFFF00", Width: 0},
		Card: Card{
			Size:            "standard",
			Width:           24,
			Height:          34,
			BackgroundColor: "#00000000",
		},
		Front: Front{
			Styles: FormatStyles{
				FormatJPEG:  defaultStyle("cover", 0, 0, 40),
				FormatPNG:   defaultStyle("contain", 12, 8, 40),
				FormatOther: defaultStyle("cover", 0, 0, 40),
			},
			Background: defaultBackground(),
			Pattern: Pattern{
				BackgroundColor: "#FFFFFF00",
				Seed:            "Hello, world!",
				Color:           "#CC00FFFF",
				UseTeamColor:    true,
				ShapesCount:     40,
				Shapes:          []shapes.Kind{shapes.Star, shapes.Question, shapes.Spiral},
				MinSize:         8,
				MaxSize:         24,
				MinOpacity:      0.2,
				MaxOpacity:      0.4,
				MinRotate:       -45,
				MaxRotate:       45,
				DeadZone:        1.0,
			},
			Border: Border{
				Show:        true,
				ClipContent: true,
				Version:     BorderSVG,
				CSS: CSSBorder{
					OverImage: true, Color: "#CC00FFFF", UseTeamColor: true, Style: "ridge",
					WidthX: 6, WidthTop: 6, WidthBottom: 6, OuterRadius: 18,
				},
				SVG: SVGBorder{
					OverImage: true, Color: "#CC00FFFF", UseTeamColor: true,
					WidthX: 6, WidthTop: 6, WidthBottom: 40, OuterRadius: 16, InnerRadius: 12,
					CutText: true,
				},
			},
			Marker: Marker{
				Position:     MarkerRightTop,
				Style:        MarkerTriangle,
				Color:        "#CC00FFFF",
				UseTeamColor: true,
				Size:         16,
				Opacity:      1,
			},
			Text: TextBox{
				Show:             true,
				Position:         "down",
				Overlay:          true,
				BackgroundColor:  "#8D8D8D4C",
				MinHeight:        28,
				PaddingX:         6,
				PaddingY:         6,
				BorderRadius:     12,
				Align:            "center",
				TextPaddingX:     8,
				TextPaddingY:     2,
				Ellipsis:         true,
				FontFamily:       "Roboto",
				FontStyle:        "normal",
				Case:             CaseUpper,
				OutlineDetailing: 40,
			},
		},
		Back: Back{
			Background: defaultBackground(),
			Pattern: Pattern{
				BackgroundColor: "#FFFFFF00",
				Seed:            "Never Gonna Give You Up",
				Color:           "#CC00FFFF",
				UseTeamColor:    true,
				ShapesCount:     40,
				Shapes:          []shapes.Kind{shapes.Question},
				MinSize:         8,
				MaxSize:         24,
				MinOpacity:      0.6,
				MaxOpacity:      1.4,
				MinRotate:       -45,
				MaxRotate:       45,
				DeadZone:        0.8,
			},
			Border: Border{
				Show:        true,
				ClipContent: true,
				Version:     BorderSVG,
				CSS: CSSBorder{
					OverImage: true, Color: "#CC00FFFF", UseTeamColor: true, Style: "solid",
					WidthX: 6, WidthTop: 6, WidthBottom: 6, OuterRadius: 16,
				},
				SVG: SVGBorder{
					OverImage: true, Color: "#CC00FFFF", UseTeamColor: true,
					WidthX: 6, WidthTop: 6, WidthBottom: 6, OuterRadius: 16, InnerRadius: 8,
				},
			},
			Text: BackText{
				Text:             "Guess who?",
				Position:         "center",
				PaddingLeft:      4,
				PaddingTop:       4,
				Rotate:           -12,
				Align:            "center",
				FontFamily:       "Roboto",
				FontStyle:        "normal",
				Case:             CaseNone,
				Color:            "#FFFFFFFF",
				FontSize:         28,
				FontWeight:       400,
				LetterSpacing:    0.15,
				LineHeight:       1.2,
				OutlineColor:     "#000000FF",
				OutlineWidth:     2,
				OutlineBlur:      0.8,
				OutlineDetailing: 40,
			},
		},
	}
}

func defaultStyle(fit string, padX, padTop, padBottom float64) FormatStyle {
	return FormatStyle{
		ImageFit:           fit,
		ImagePaddingX:      padX,
		ImagePaddingTop:    padTop,
		ImagePaddingBottom: padBottom,
		TextColor:          "#FFFFFFFF",
		FontSize:           12,
		FontWeight:         400,
		LetterSpacing:      0.1,
		LineHeight:         1,
		OutlineColor:       "#000000FF",
		OutlineWidth:       0.8,
		OutlineBlur:        0.2,
	}
}

func defaultBackground() Background {
	return Background{
		Fit:        "cover",
		Opacity:    0.2,
		Brightness: 1,
		Saturate:   1,
		Contrast:   1,
	}
}

// WithPaperFormat applies a named paper preset. Custom and unknown names
// only record the format and keep the current size.
func (s RenderSettings) WithPaperFormat(name string) RenderSettings {
	s = s.Clone()
	s.Paper.Format = name
	if size, ok := PaperFormats[name]; ok {
		s.Paper.Width, s.Paper.Height = size.Width, size.Height
	}
	return s
}

// WithCardSize applies a named card size preset.
func (s RenderSettings) WithCardSize(name string) RenderSettings {
	s = s.Clone()
	s.Card.Size = name
	if size, ok := CardSizes[name]; ok {
		s.Card.Width, s.Card.Height = size.Width, size.Height
	}
	return s
}

func (s RenderSettings) WithOrientation(o Orientation) RenderSettings {
	s = s.Clone()
	s.Paper.Orientation = o
	return s
}

func (s RenderSettings) WithGridWidth(px float64) RenderSettings {
	s = s.Clone()
	s.Grid.Width = px
	return s
}

// WithPatternSeed sets the pattern seed of both sides.
func (s RenderSettings) WithPatternSeed(front, back string) RenderSettings {
	s = s.Clone()
	s.Front.Pattern.Seed = front
	s.Back.Pattern.Seed = back
	return s
}

// PresetNames returns the sorted names of a preset table.
func PresetNames(m map[string]Size) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}
