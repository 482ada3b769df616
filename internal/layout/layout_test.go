package layout_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/youruser/cardsheet/internal/deck"
	"github.com/youruser/cardsheet/internal/layout"
	"github.com/youruser/cardsheet/internal/settings"
)

func ids(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("card-%d", i)
	}
	return out
}

func TestPaginateCoverage(t *testing.T) {
	for _, n := range []int{0, 1, 7, 8, 9, 64, 65} {
		for _, k := range []int{1, 3, 8} {
			stream, _ := layout.Expand(ids(n), nil)
			pages := layout.Paginate(stream, k)
			want := (n + k - 1) / k
			if len(pages) != want {
				t.Fatalf("n=%d k=%d: %d pages, want %d", n, k, len(pages), want)
			}
			var joined []layout.Slot
			for i, p := range pages {
				if i < len(pages)-1 && len(p) != k {
					t.Fatalf("n=%d k=%d: page %d has %d slots", n, k, i, len(p))
				}
				joined = append(joined, p...)
			}
			if len(pages) > 0 {
				if last := len(pages[len(pages)-1]); last != n-k*(len(pages)-1) {
					t.Fatalf("n=%d k=%d: last page has %d", n, k, last)
				}
			}
			if n > 0 && !reflect.DeepEqual(joined, stream) {
				t.Fatalf("n=%d k=%d: concatenation differs", n, k)
			}
		}
	}
	if layout.Paginate(make([]layout.Slot, 3), 0) != nil {
		t.Error("zero capacity produced pages")
	}
}

func TestPaginateDoesNotAlias(t *testing.T) {
	stream, _ := layout.Expand(ids(4), nil)
	pages := layout.Paginate(stream, 2)
	pages[0] = append(pages[0], layout.Slot{CardID: "extra"})
	if pages[1][0].CardID != "card-2" {
		t.Fatal("appending to a page overwrote the next one")
	}
}

func TestExpandTeams(t *testing.T) {
	sel := ids(5)
	fronts, backs := layout.Expand(sel, nil)
	if len(fronts) != 5 || backs != nil {
		t.Fatalf("no teams: %d fronts, %d backs", len(fronts), len(backs))
	}

	teams := deck.Teams{
		{ID: "red", Active: true, MarkFront: true, ShowBacks: true},
		{ID: "blue", Active: true},
		{ID: "green"},
	}
	fronts, backs = layout.Expand(sel, teams)
	if len(fronts) != 10 {
		t.Fatalf("2 teams x 5 cards: %d fronts", len(fronts))
	}
	if fronts[0] != (layout.Slot{CardID: "card-0", TeamID: "red", MarkFront: true}) {
		t.Errorf("first front = %+v", fronts[0])
	}
	if fronts[5] != (layout.Slot{CardID: "card-0", TeamID: "blue"}) {
		t.Errorf("sixth front = %+v", fronts[5])
	}
	if len(backs) != 5 {
		t.Fatalf("backs = %d", len(backs))
	}
	for _, b := range backs {
		if b.TeamID != "red" || !b.Back || b.CardID != "" {
			t.Fatalf("back = %+v", b)
		}
	}
}

func TestCapacity(t *testing.T) {
	s := settings.Default()
	g := layout.GeometryFor(s)
	perRow, rows, ok := g.Capacity()
	// (840 - 48) / 96 = 8.25, (1188 - 48) / 136 = 8.38
	if !ok || perRow != 8 || rows != 8 {
		t.Fatalf("capacity = %d x %d (%v)", perRow, rows, ok)
	}

	g = layout.GeometryFor(s.WithGridWidth(4))
	perRow, rows, _ = g.Capacity()
	if perRow != 7 || rows != 7 {
		t.Fatalf("with gutter = %d x %d", perRow, rows)
	}

	g = layout.GeometryFor(s.WithOrientation(settings.Landscape))
	perRow, rows, _ = g.Capacity()
	if perRow != 11 || rows != 5 {
		t.Fatalf("landscape = %d x %d", perRow, rows)
	}
}

func TestSizeError(t *testing.T) {
	s := settings.Default()
	s.Card.Width = 500
	r := layout.Compute(ids(3), nil, s)
	if !r.SizeError || r.CardsPerRow > 0 {
		t.Fatalf("expected size error, got %+v", r)
	}
	if len(r.Pages) != 0 || len(r.BackPages) != 0 {
		t.Fatal("size error produced pages")
	}
	if !errors.Is(r.Err(), layout.ErrSizeError) {
		t.Fatalf("err = %v", r.Err())
	}
	if r.Empty() {
		t.Fatal("size error reported as empty")
	}
}

func TestComputeEmpty(t *testing.T) {
	r := layout.Compute(nil, nil, settings.Default())
	if !r.Empty() || r.Err() != nil {
		t.Fatalf("expected empty state, got %+v", r)
	}
	if r.GridColumns != 1 || r.GridRows != 1 {
		t.Fatalf("grid = %dx%d", r.GridColumns, r.GridRows)
	}
}

func TestComputeTeamsAndGrid(t *testing.T) {
	teams := deck.Teams{
		{ID: "red", Active: true, ShowBacks: true},
		{ID: "blue", Active: true, ShowBacks: true},
	}
	r := layout.Compute(ids(40), teams, settings.Default())
	// 80 fronts and 80 backs over 64-card pages.
	if len(r.Pages) != 2 || len(r.BackPages) != 2 {
		t.Fatalf("pages = %d, backs = %d", len(r.Pages), len(r.BackPages))
	}
	if len(r.Pages[1]) != 16 || len(r.BackPages[1]) != 16 {
		t.Fatalf("last pages = %d, %d", len(r.Pages[1]), len(r.BackPages[1]))
	}
	if r.GridColumns != 2 || r.GridRows != 2 {
		t.Fatalf("grid = %dx%d", r.GridColumns, r.GridRows)
	}
}

func TestArrange(t *testing.T) {
	cases := []struct {
		n, cols, rows int
	}{
		{1, 1, 1}, {2, 2, 1}, {3, 2, 2}, {5, 3, 2}, {10, 4, 3},
	}
	for _, c := range cases {
		cols, rows := layout.Arrange(c.n, settings.Portrait)
		if cols != c.cols || rows != c.rows {
			t.Errorf("%d pages: %dx%d, want %dx%d", c.n, cols, rows, c.cols, c.rows)
		}
		cols, rows = layout.Arrange(c.n, settings.Landscape)
		if cols != c.rows || rows != c.cols {
			t.Errorf("%d pages landscape: %dx%d", c.n, cols, rows)
		}
	}
}

func TestPositionMirrorsBacks(t *testing.T) {
	r := layout.Compute(ids(3), nil, settings.Default())
	x0, y0 := r.Position(0, false)
	if x0 != 24 || y0 != 24 {
		t.Fatalf("front slot 0 at %v,%v", x0, y0)
	}
	x1, _ := r.Position(1, false)
	if x1 != 24+96 {
		t.Fatalf("front slot 1 at %v", x1)
	}
	bx, by := r.Position(0, true)
	if bx != 840-24-96 || by != 24 {
		t.Fatalf("back slot 0 at %v,%v", bx, by)
	}
	_, y8 := r.Position(8, false)
	if y8 != 24+136 {
		t.Fatalf("slot 8 row y = %v", y8)
	}
}
