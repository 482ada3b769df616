// Package layout expands a card selection into render streams, splits the
// streams into printable pages and arranges the pages for preview.
//
// All sizes are in px. Paper, padding and card sizes come from the settings
// in mm and are scaled by ScaleFactor; the gutter is already in px.
package layout

import (
	"errors"
	"math"

	"github.com/youruser/cardsheet/internal/deck"
	"github.com/youruser/cardsheet/internal/settings"
)

// ScaleFactor is the number of px per mm of paper.
const ScaleFactor = 4.0

// ErrSizeError is returned by Result.Err when not even one card fits on
// the page.
var ErrSizeError = errors.New("card does not fit on the page")

// Slot describes one card position on a page.
type Slot struct {
	CardID    string `json:"cardId,omitempty"`
	TeamID    string `json:"teamId,omitempty"`
	MarkFront bool   `json:"markFront,omitempty"`
	Back      bool   `json:"back,omitempty"`
}

type Page []Slot

// Geometry is the page and card geometry for the current orientation.
type Geometry struct {
	PaperWidth  float64 `json:"paperWidth"`
	PaperHeight float64 `json:"paperHeight"`
	Padding     float64 `json:"padding"`
	CardWidth   float64 `json:"cardWidth"`
	CardHeight  float64 `json:"cardHeight"`
	Gutter      float64 `json:"gutter"`
}

func GeometryFor(s settings.RenderSettings) Geometry {
	w, h := s.Paper.Sheet()
	return Geometry{
		PaperWidth:  ScaleFactor * w,
		PaperHeight: ScaleFactor * h,
		Padding:     ScaleFactor * s.Paper.Padding,
		CardWidth:   ScaleFactor * s.Card.Width,
		CardHeight:  ScaleFactor * s.Card.Height,
		Gutter:      s.Grid.Width,
	}
}

// Capacity returns how many cards fit in a row and how many rows fit on a
// page. ok is false when either is not positive.
func (g Geometry) Capacity() (perRow, rows int, ok bool) {
	perRow = fit(g.PaperWidth-2*g.Padding, g.CardWidth+2*g.Gutter)
	rows = fit(g.PaperHeight-2*g.Padding, g.CardHeight+2*g.Gutter)
	return perRow, rows, perRow > 0 && rows > 0
}

func fit(space, item float64) int {
	n := math.Floor(space / item)
	if math.IsNaN(n) || n <= 0 || item <= 0 {
		return 0
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

// Expand builds the front and back render streams. Without active teams
// the fronts are the selection itself and there are no backs. With active
// teams every team gets the whole selection, and teams that show backs add
// one back per selected card.
func Expand(selected []string, teams deck.Teams) (fronts, backs []Slot) {
	active := teams.Active()
	if len(active) == 0 {
		fronts = make([]Slot, len(selected))
		for i, id := range selected {
			fronts[i] = Slot{CardID: id}
		}
		return fronts, nil
	}
	fronts = make([]Slot, 0, len(active)*len(selected))
	for _, t := range active {
		for _, id := range selected {
			fronts = append(fronts, Slot{CardID: id, TeamID: t.ID, MarkFront: t.MarkFront})
		}
	}
	for _, t := range active {
		if !t.ShowBacks {
			continue
		}
		for range selected {
			backs = append(backs, Slot{TeamID: t.ID, Back: true})
		}
	}
	return fronts, backs
}

// Paginate splits stream into consecutive pages of at most perPage slots.
// The last page may be partial. A non-positive perPage yields no pages.
func Paginate(stream []Slot, perPage int) []Page {
	if perPage <= 0 || len(stream) == 0 {
		return nil
	}
	pages := make([]Page, 0, (len(stream)+perPage-1)/perPage)
	for i := 0; i < len(stream); i += perPage {
		end := min(i+perPage, len(stream))
		pages = append(pages, Page(stream[i:end:end]))
	}
	return pages
}

// Arrange computes a near-square preview grid for count pages. In
// landscape the columns and rows are swapped. Zero pages still occupy one
// cell for the empty sheet.
func Arrange(count int, o settings.Orientation) (columns, rows int) {
	if count <= 0 {
		return 1, 1
	}
	columns = int(math.Ceil(math.Sqrt(float64(count))))
	rows = (count + columns - 1) / columns
	if o == settings.Landscape {
		return rows, columns
	}
	return columns, rows
}

// Result is a complete layout pass.
type Result struct {
	Geometry
	CardsPerRow int    `json:"cardsPerRow"`
	RowsPerPage int    `json:"rowsPerPage"`
	Pages       []Page `json:"pages"`
	BackPages   []Page `json:"backPages"`
	SizeError   bool   `json:"sizeError"`
	GridColumns int    `json:"gridColumns"`
	GridRows    int    `json:"gridRows"`
}

// CardsPerPage is zero when the layout has a size error.
func (r Result) CardsPerPage() int {
	if r.SizeError {
		return 0
	}
	return r.CardsPerRow * r.RowsPerPage
}

// PageCount counts front and back pages.
func (r Result) PageCount() int { return len(r.Pages) + len(r.BackPages) }

// Empty reports the valid "nothing selected" state.
func (r Result) Empty() bool { return !r.SizeError && r.PageCount() == 0 }

func (r Result) Err() error {
	if r.SizeError {
		return ErrSizeError
	}
	return nil
}

// Compute runs a full layout pass. A size error yields no pages.
func Compute(selected []string, teams deck.Teams, s settings.RenderSettings) Result {
	g := GeometryFor(s)
	perRow, rows, ok := g.Capacity()
	r := Result{Geometry: g, CardsPerRow: perRow, RowsPerPage: rows, SizeError: !ok}
	if ok {
		fronts, backs := Expand(selected, teams)
		r.Pages = Paginate(fronts, perRow*rows)
		r.BackPages = Paginate(backs, perRow*rows)
	}
	r.GridColumns, r.GridRows = Arrange(r.PageCount(), s.Paper.Orientation)
	return r
}

// Position returns the top-left corner of slot i on a page. Back pages
// fill each row from the right so they line up with the fronts when
// printed on the reverse side.
func (r Result) Position(i int, back bool) (x, y float64) {
	if r.CardsPerRow <= 0 {
		return 0, 0
	}
	col, row := i%r.CardsPerRow, i/r.CardsPerRow
	y = r.Padding + float64(row)*(r.CardHeight+r.Gutter)
	if back {
		x = r.PaperWidth - r.Padding - float64(col+1)*r.CardWidth - float64(col)*r.Gutter
		return x, y
	}
	x = r.Padding + float64(col)*(r.CardWidth+r.Gutter)
	return x, y
}
