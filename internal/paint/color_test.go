package paint_test

import (
	"errors"
	"image/color"
	"testing"

	"github.com/youruser/cardsheet/internal/paint"
)

func TestAlpha(t *testing.T) {
	tests := []struct {
		in   string
		a    float64
		want string
	}{
		{"#CC00FFFF", 0.35, "rgba(204, 0, 255, 0.35)"},
		{"#fff", 0.5, "rgba(255, 255, 255, 0.5)"},
		{"#FFFFFF00", 1, "rgba(255, 255, 255, 1)"},
		{"rgb(10, 20, 30)", 0.2, "rgba(10, 20, 30, 0.2)"},
		{"rgba(10, 20, 30, 0.9)", 1.4, "rgba(10, 20, 30, 1)"},
		{"hsl(120, 50%, 25%)", 0.3, "hsla(120, 50%, 25%, 0.3)"},
		{"transparent", 0.4, "rgba(0, 0, 0, 0.4)"},
		{"not a colour", 0.4, "rgba(0, 0, 0, 0.4)"},
		{"#123456", -1, "rgba(18, 52, 86, 0)"},
	}
	for _, tt := range tests {
		if got := paint.Alpha(tt.in, tt.a); got != tt.want {
			t.Errorf("Alpha(%q, %v) = %q, want %q", tt.in, tt.a, got, tt.want)
		}
	}
}

func TestParseHexAlpha(t *testing.T) {
	c, err := paint.Parse("#8D8D8D4C")
	if err != nil {
		t.Fatal(err)
	}
	if c.A != 0.298 {
		t.Errorf("alpha %v, want 0.298", c.A)
	}
	if got := c.String(); got != "rgba(141, 141, 141, 0.298)" {
		t.Errorf("got %q", got)
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"", "#12", "#zzzzzz", "rgb(1,2)", "foo(1,2,3)", "rgb(a,b,c)"} {
		if _, err := paint.Parse(in); !errors.Is(err, paint.ErrInvalidColor) {
			t.Errorf("Parse(%q): expected ErrInvalidColor, got %v", in, err)
		}
	}
}

func TestNRGBA(t *testing.T) {
	got := paint.MustNRGBA("rgba(255, 0, 0, 0.5)")
	want := color.NRGBA{R: 255, A: 128}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if got := paint.MustNRGBA("hsl(0, 100%, 50%)"); got != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("hsl red: got %+v", got)
	}
	if got := paint.MustNRGBA("garbage"); got != (color.NRGBA{}) {
		t.Errorf("garbage: got %+v", got)
	}
}
