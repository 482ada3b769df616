// Package render turns a layout into fully resolved sheets: every card
// slot gets its image, colours, pattern, border, text and marker. The
// result is plain data; svg.go and the raster exporter paint it.
package render

import (
	"cmp"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/youruser/cardsheet/internal/cards"
	"github.com/youruser/cardsheet/internal/deck"
	"github.com/youruser/cardsheet/internal/layout"
	"github.com/youruser/cardsheet/internal/paint"
	"github.com/youruser/cardsheet/internal/pattern"
	"github.com/youruser/cardsheet/internal/settings"
)

// Lookup resolves card ids and background images. *cards.Repository
// implements it.
type Lookup interface {
	Resolve(id string) (cards.Resolved, error)
	BackgroundImage(id string) (ref string, relative, ok bool)
}

type Options struct {
	// BaseURL prefixes image references relative to the content root.
	BaseURL string
	// Lang selects the translation of card names.
	Lang string
	// NewSeed returns a fresh pattern seed when a profile asks for unique
	// seeds. Defaults to a random UUID.
	NewSeed func() string
	Logger  *slog.Logger
}

type Renderer struct {
	lookup Lookup
	opts   Options
	log    *slog.Logger
}

func New(lookup Lookup, opts Options) *Renderer {
	if opts.NewSeed == nil {
		opts.NewSeed = uuid.NewString
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Renderer{lookup: lookup, opts: opts, log: log.With("component", "render")}
}

type patternKey struct {
	seed, color string
	back        bool
}

// pass holds memoized patterns for one Sheets call.
type pass struct {
	s        settings.RenderSettings
	teams    deck.Teams
	patterns map[patternKey][]pattern.Shape
}

// Sheets renders front pages followed by back pages. A layout with a size
// error or without pages renders no sheets.
func (r *Renderer) Sheets(res layout.Result, s settings.RenderSettings, teams deck.Teams) []Sheet {
	if res.SizeError {
		return nil
	}
	p := &pass{s: s, teams: teams, patterns: map[patternKey][]pattern.Shape{}}
	out := make([]Sheet, 0, res.PageCount())
	for i, page := range res.Pages {
		out = append(out, r.sheet(p, res, i, page, false))
	}
	for i, page := range res.BackPages {
		out = append(out, r.sheet(p, res, len(res.Pages)+i, page, true))
	}
	return out
}

func (r *Renderer) sheet(p *pass, res layout.Result, index int, page layout.Page, back bool) Sheet {
	sh := Sheet{
		Index:  index,
		Back:   back,
		Width:  res.PaperWidth,
		Height: res.PaperHeight,
		Cards:  make([]Card, 0, len(page)),
	}
	for _, slot := range page {
		var (
			c  Card
			ok bool
		)
		if back || slot.Back {
			c, ok = r.backCard(p, res, slot), true
		} else {
			c, ok = r.frontCard(p, res, slot)
		}
		if !ok {
			sh.Errors++
			continue
		}
		// Missing cards leave no hole: the next card takes the cell.
		c.Index = len(sh.Cards)
		c.X, c.Y = res.Position(c.Index, back)
		sh.Cards = append(sh.Cards, c)
	}
	if sh.Errors > 0 {
		r.log.Warn("unresolved cards on sheet", "sheet", index, "errors", sh.Errors)
	}
	return sh
}

func (p *pass) team(id string) (deck.Team, bool) {
	if id == "" {
		return deck.Team{}, false
	}
	return p.teams.Get(id)
}

func (r *Renderer) imageURL(ref string, relative bool) string {
	if !relative || ref == "" {
		return ref
	}
	return strings.TrimSuffix(r.opts.BaseURL, "/") + "/" + strings.TrimPrefix(ref, "/")
}

func (r *Renderer) frontCard(p *pass, res layout.Result, slot layout.Slot) (Card, bool) {
	resolved, err := r.lookup.Resolve(slot.CardID)
	if err != nil {
		r.log.Debug("card not found", "card", slot.CardID, "err", err)
		return Card{}, false
	}
	s := p.s
	f := s.Front
	w, h := res.CardWidth, res.CardHeight
	team, hasTeam := p.team(slot.TeamID)
	teamColor := ""
	if hasTeam {
		teamColor = team.Color
	}

	c := Card{
		Width:      w,
		Height:     h,
		CardID:     resolved.Card.ID,
		TeamID:     slot.TeamID,
		Local:      resolved.Local,
		Name:       applyCase(resolved.Name(r.opts.Lang), f.Text.Case),
		ClipRadius: f.Border.ClipRadius(),
	}

	ref, relative := resolved.ImageRef()
	ref = r.imageURL(ref, relative)
	format := DetectFormat(ref)
	style := f.Styles.For(format)

	c.Background = r.background(f.Background)
	c.Pattern = r.pattern(p, f.Pattern, teamColor, w, h, false)

	hasText := f.Text.Show && c.Name != ""
	var frame RoundRect
	if hasText {
		frame = textFrame(f.Text, w, h)
		c.Text = &Text{
			Content:       c.Name,
			Frame:         frame,
			Area:          inset(frame.Box, f.Text.TextPaddingY, f.Text.TextPaddingX, f.Text.TextPaddingY, f.Text.TextPaddingX),
			Background:    f.Text.BackgroundColor,
			Rotate:        f.Text.Rotate,
			Align:         f.Text.Align,
			VAlign:        "center",
			FontFamily:    f.Text.FontFamily,
			FontStyle:     f.Text.FontStyle,
			FontSize:      style.FontSize,
			FontWeight:    style.FontWeight,
			LetterSpacing: style.LetterSpacing,
			LineHeight:    style.LineHeight,
			Color:         style.TextColor,
			SingleLine:    f.Text.SingleLine,
			Ellipsis:      f.Text.Ellipsis,
			Outline: Outline{
				Width:     style.OutlineWidth,
				Blur:      style.OutlineBlur,
				Color:     style.OutlineColor,
				Shadow:    OutlineShadows(style.OutlineWidth, style.OutlineBlur, style.OutlineColor, f.Text.OutlineDetailing),
				Detailing: f.Text.OutlineDetailing,
			},
		}
	}

	if v := f.Border.Active(); v != nil {
		c.Border = borderGeometry(v, teamColor, w, h)
		if sv, ok := v.(settings.SVGBorder); ok && sv.CutText && hasText {
			cut := frame
			c.Border.Cut = &cut
		}
	}

	imgFrame := imageFrame(f.Text, w, h, hasText)
	c.Image = &Image{
		Ref:     ref,
		Format:  format,
		Fit:     style.ImageFit,
		Frame:   imgFrame,
		Content: inset(imgFrame, style.ImagePaddingTop, style.ImagePaddingX, style.ImagePaddingBottom, style.ImagePaddingX),
		Fill:    s.Card.BackgroundColor,
	}

	if hasTeam && slot.MarkFront {
		color := f.Marker.Color
		if f.Marker.UseTeamColor {
			color = team.Color
		}
		mp := markerPath(f.Marker, w, h)
		c.Marker = &Marker{
			Style:    f.Marker.Style,
			Position: f.Marker.Position,
			Color:    paint.Alpha(color, f.Marker.Opacity),
			Path:     mp,
			D:        mp.String(),
		}
	}

	c.Layers = frontLayers(c, f)
	return c, true
}

func (r *Renderer) backCard(p *pass, res layout.Result, slot layout.Slot) Card {
	b := p.s.Back
	w, h := res.CardWidth, res.CardHeight
	team, hasTeam := p.team(slot.TeamID)
	teamColor := ""
	if hasTeam {
		teamColor = team.Color
	}
	c := Card{
		Width:      w,
		Height:     h,
		Back:       true,
		TeamID:     slot.TeamID,
		ClipRadius: b.Border.ClipRadius(),
		Background: r.background(b.Background),
		Pattern:    r.pattern(p, b.Pattern, teamColor, w, h, true),
	}
	if v := b.Border.Active(); v != nil {
		c.Border = borderGeometry(v, teamColor, w, h)
	}
	if b.Text.Text != "" {
		frame := RoundRect{Box: Box{0, 0, w, h}}
		c.Text = &Text{
			Content:       applyCase(b.Text.Text, b.Text.Case),
			Frame:         frame,
			Area:          inset(frame.Box, b.Text.PaddingTop, b.Text.PaddingRight, b.Text.PaddingBottom, b.Text.PaddingLeft),
			Rotate:        b.Text.Rotate,
			Align:         b.Text.Align,
			VAlign:        b.Text.Position,
			FontFamily:    b.Text.FontFamily,
			FontStyle:     b.Text.FontStyle,
			FontSize:      b.Text.FontSize,
			FontWeight:    b.Text.FontWeight,
			LetterSpacing: b.Text.LetterSpacing,
			LineHeight:    b.Text.LineHeight,
			Color:         b.Text.Color,
			Outline: Outline{
				Width:     b.Text.OutlineWidth,
				Blur:      b.Text.OutlineBlur,
				Color:     b.Text.OutlineColor,
				Shadow:    OutlineShadows(b.Text.OutlineWidth, b.Text.OutlineBlur, b.Text.OutlineColor, b.Text.OutlineDetailing),
				Detailing: b.Text.OutlineDetailing,
			},
		}
	}
	c.Layers = backLayers(c, b)
	return c
}

func (r *Renderer) background(bg settings.Background) *BackgroundImage {
	ref, relative, ok := r.lookup.BackgroundImage(bg.ID)
	if !ok || ref == "" {
		return nil
	}
	return &BackgroundImage{
		Ref:        r.imageURL(ref, relative),
		Fit:        bg.Fit,
		Opacity:    bg.Opacity,
		Blur:       bg.Blur,
		Brightness: bg.Brightness,
		Saturate:   bg.Saturate,
		Contrast:   bg.Contrast,
		HueRotate:  bg.HueRotate,
	}
}

func (r *Renderer) pattern(p *pass, ps settings.Pattern, teamColor string, w, h float64, back bool) Pattern {
	color := ps.Color
	if teamColor != "" && ps.UseTeamColor {
		color = teamColor
	}
	bg := ps.BackgroundColor
	if teamColor != "" && ps.BackgroundUseTeamColor {
		bg = teamColor
	}

	seed := ps.Seed
	if ps.UniqueSeed {
		seed = r.opts.NewSeed()
	}
	key := patternKey{seed: seed, color: color, back: back}
	list, ok := p.patterns[key]
	if !ok {
		list = pattern.Generate(ps.Params(w, h, seed, color))
		p.patterns[key] = list
		if len(list) < ps.ShapesCount {
			r.log.Debug("pattern under-filled",
				"seed", seed, "requested", ps.ShapesCount, "placed", len(list), "back", back)
		}
	}
	return Pattern{Background: bg, Seed: seed, Requested: ps.ShapesCount, Shapes: list}
}

type zLayer struct {
	l Layer
	z int
}

// frontLayers orders the paint steps of a front card by stacking level.
func frontLayers(c Card, f settings.Front) []Layer {
	var zs []zLayer
	if c.Background != nil {
		zs = append(zs, zLayer{LayerBackground, pick(f.Background.OverImage, 4, 0)})
	}
	zs = append(zs, zLayer{LayerPattern, 1})
	if v := f.Border.Active(); v != nil {
		zs = append(zs, zLayer{LayerBorder, pick(v.Over(), 5, 2)})
	}
	zs = append(zs, zLayer{LayerImage, pick(f.ImageOverEverything, 6, 3)})
	if c.Text != nil {
		zs = append(zs, zLayer{LayerText, 7})
	}
	if c.Marker != nil {
		zs = append(zs, zLayer{LayerMarker, 8})
	}
	return sortLayers(zs)
}

func backLayers(c Card, b settings.Back) []Layer {
	var zs []zLayer
	if c.Background != nil {
		zs = append(zs, zLayer{LayerBackground, pick(b.Background.OverImage, 4, 0)})
	}
	zs = append(zs, zLayer{LayerPattern, 1})
	if v := b.Border.Active(); v != nil {
		zs = append(zs, zLayer{LayerBorder, pick(v.Over(), 5, 2)})
	}
	if c.Text != nil {
		zs = append(zs, zLayer{LayerText, 6})
	}
	return sortLayers(zs)
}

func sortLayers(zs []zLayer) []Layer {
	slices.SortStableFunc(zs, func(a, b zLayer) int { return cmp.Compare(a.z, b.z) })
	out := make([]Layer, len(zs))
	for i, v := range zs {
		out[i] = v.l
	}
	return out
}

func pick(cond bool, a, b int) int {
	if cond {
		return a
	}
	return b
}
