package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/youruser/cardsheet/internal/paint"
	"github.com/youruser/cardsheet/internal/shapes"
)

var ErrInvalidProfile = errors.New("invalid settings profile")

// MaxSizeMM bounds every paper, card and padding length. The largest
// preset paper, A3, is 297x420 mm.
const MaxSizeMM = 1000

// MaxGridWidth bounds the gutter in px.
const MaxGridWidth = 100

// Decode reads a JSON profile on top of Default, so a profile only needs
// the fields it changes, and validates the result. A format style present
// in the profile replaces the default style of that format as a whole.
func Decode(r io.Reader) (RenderSettings, error) {
	return DecodeOver(Default(), r)
}

// DecodeOver is Decode with base in place of Default. base is not
// modified.
func DecodeOver(base RenderSettings, r io.Reader) (RenderSettings, error) {
	s := base.Clone()
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return RenderSettings{}, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	if err := s.Validate(); err != nil {
		return RenderSettings{}, err
	}
	return s, nil
}

// LoadFile decodes the profile stored at path.
func LoadFile(path string) (RenderSettings, error) {
	f, err := os.Open(path)
	if err != nil {
		return RenderSettings{}, err
	}
	defer f.Close()
	s, err := Decode(f)
	if err != nil {
		return RenderSettings{}, fmt.Errorf("loading %s: %w", path, err)
	}
	return s, nil
}

// Validate reports the first problem that would make layout or rendering
// meaningless. Geometry that merely does not fit the page is not an error
// here; the layout reports it as a size error.
func (s RenderSettings) Validate() error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidProfile, fmt.Sprintf(format, args...))
	}
	if !inRange(s.Paper.Width) || !inRange(s.Paper.Height) {
		return bad("paper size %gx%g (max %d mm)", s.Paper.Width, s.Paper.Height, MaxSizeMM)
	}
	if s.Paper.Padding < 0 || s.Paper.Padding > MaxSizeMM {
		return bad("paper padding %g", s.Paper.Padding)
	}
	if s.Paper.Orientation != Portrait && s.Paper.Orientation != Landscape {
		return bad("orientation %q", s.Paper.Orientation)
	}
	if !inRange(s.Card.Width) || !inRange(s.Card.Height) {
		return bad("card size %gx%g (max %d mm)", s.Card.Width, s.Card.Height, MaxSizeMM)
	}
	if s.Grid.Width < 0 || s.Grid.Width > MaxGridWidth {
		return bad("grid width %g", s.Grid.Width)
	}
	for f := range s.Front.Styles {
		if f != FormatJPEG && f != FormatPNG && f != FormatOther {
			return bad("unknown image format %q", f)
		}
	}
	if _, ok := s.Front.Styles[FormatOther]; !ok {
		return bad("missing %q style", FormatOther)
	}
	for side, b := range map[string]Border{"front": s.Front.Border, "back": s.Back.Border} {
		if b.Version != BorderCSS && b.Version != BorderSVG {
			return bad("%s border version %q", side, b.Version)
		}
	}
	for side, p := range map[string]Pattern{"front": s.Front.Pattern, "back": s.Back.Pattern} {
		for _, k := range p.Shapes {
			if !k.Valid() {
				return bad("%s pattern shape %q (known: %v)", side, k, shapes.Kinds)
			}
		}
	}
	for name, c := range s.colors() {
		if c == "" {
			continue
		}
		if _, err := paint.Parse(c); err != nil {
			return bad("%s: %v", name, err)
		}
	}
	return nil
}

func inRange(mm float64) bool {
	return mm > 0 && mm <= MaxSizeMM
}

func (s RenderSettings) colors() map[string]string {
	m := map[string]string{
		"grid.color":                    s.Grid.Color,
		"card.backgroundColor":          s.Card.BackgroundColor,
		"front.pattern.color":           s.Front.Pattern.Color,
		"front.pattern.backgroundColor": s.Front.Pattern.BackgroundColor,
		"front.border.css.color":        s.Front.Border.CSS.Color,
		"front.border.svg.color":        s.Front.Border.SVG.Color,
		"front.marker.color":            s.Front.Marker.Color,
		"front.text.backgroundColor":    s.Front.Text.BackgroundColor,
		"back.pattern.color":            s.Back.Pattern.Color,
		"back.pattern.backgroundColor":  s.Back.Pattern.BackgroundColor,
		"back.border.css.color":         s.Back.Border.CSS.Color,
		"back.border.svg.color":         s.Back.Border.SVG.Color,
		"back.text.color":               s.Back.Text.Color,
		"back.text.outlineColor":        s.Back.Text.OutlineColor,
	}
	for f, st := range s.Front.Styles {
		m["front.styles."+string(f)+".textColor"] = st.TextColor
		m["front.styles."+string(f)+".outlineColor"] = st.OutlineColor
	}
	return m
}
