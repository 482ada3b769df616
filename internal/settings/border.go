package settings

type BorderVersion string

const (
	BorderCSS BorderVersion = "css"
	BorderSVG BorderVersion = "svg"
)

// Border keeps both renderer variants so switching Version back and forth
// does not lose values; only the variant returned by Active is drawn.
type Border struct {
	Show        bool          `json:"show"`
	ClipContent bool          `json:"clipContent"`
	Version     BorderVersion `json:"version"`
	CSS         CSSBorder     `json:"css"`
	SVG         SVGBorder     `json:"svg"`
}

// BorderVariant is implemented by CSSBorder and SVGBorder.
type BorderVariant interface {
	borderVersion() BorderVersion
	Paint(teamColor string) string
	Over() bool
	Outer() float64
}

// CSSBorder is a plain stroked outline with a CSS border style.
type CSSBorder struct {
	OverImage    bool    `json:"overImage"`
	Color        string  `json:"color"`
	UseTeamColor bool    `json:"useTeamColor"`
	Style        string  `json:"style"`
	WidthX       float64 `json:"widthX"`
	WidthTop     float64 `json:"widthTop"`
	WidthBottom  float64 `json:"widthBottom"`
	OuterRadius  float64 `json:"outerRadius"`
}

// SVGBorder is a filled ring: the outer rounded rectangle minus an inner
// one, optionally also minus the text box.
type SVGBorder struct {
	OverImage    bool    `json:"overImage"`
	Color        string  `json:"color"`
	UseTeamColor bool    `json:"useTeamColor"`
	WidthX       float64 `json:"widthX"`
	WidthTop     float64 `json:"widthTop"`
	WidthBottom  float64 `json:"widthBottom"`
	OuterRadius  float64 `json:"outerRadius"`
	InnerRadius  float64 `json:"innerRadius"`
	CutText      bool    `json:"cutText"`
}

func (CSSBorder) borderVersion() BorderVersion { return BorderCSS }
func (SVGBorder) borderVersion() BorderVersion { return BorderSVG }

func (b CSSBorder) Over() bool { return b.OverImage }
func (b SVGBorder) Over() bool { return b.OverImage }

func (b CSSBorder) Outer() float64 { return b.OuterRadius }
func (b SVGBorder) Outer() float64 { return b.OuterRadius }

// Paint resolves the border colour; an empty teamColor means no team.
func (b CSSBorder) Paint(teamColor string) string {
	if teamColor != "" && b.UseTeamColor {
		return teamColor
	}
	return b.Color
}

func (b SVGBorder) Paint(teamColor string) string {
	if teamColor != "" && b.UseTeamColor {
		return teamColor
	}
	return b.Color
}

// Active returns the selected variant, or nil when the border is hidden or
// the version is unknown.
func (b Border) Active() BorderVariant {
	if !b.Show {
		return nil
	}
	switch b.Version {
	case BorderCSS:
		return b.CSS
	case BorderSVG:
		return b.SVG
	}
	return nil
}

// ClipRadius is the corner radius used to clip card content.
func (b Border) ClipRadius() float64 {
	if !b.ClipContent {
		return 0
	}
	if b.Version == BorderCSS {
		return b.CSS.OuterRadius
	}
	return b.SVG.OuterRadius
}
