package api

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/youruser/cardsheet/internal/cards"
	"github.com/youruser/cardsheet/internal/export"
	imagepkg "github.com/youruser/cardsheet/internal/image"
	"github.com/youruser/cardsheet/internal/render"
	"github.com/youruser/cardsheet/internal/settings"
)

type fakeRaster struct{ err error }

func (f fakeRaster) Pages(_ context.Context, sheets []render.Sheet, _ int) ([]*image.NRGBA, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*image.NRGBA, len(sheets))
	for i := range sheets {
		out[i] = image.NewNRGBA(image.Rect(0, 0, 4, 4))
	}
	return out, nil
}

type fakePDF struct{ err error }

func (f fakePDF) Write(_ context.Context, w io.Writer, _ export.Rasterizer, sheets []render.Sheet, _ int) error {
	if len(sheets) == 0 {
		return export.ErrNoPages
	}
	if f.err != nil {
		return f.err
	}
	_, err := w.Write([]byte("%PDF-1.4"))
	return err
}

func newTestServer(pdf PDFWriter) *gin.Engine {
	return newTestServerWith(fakeRaster{}, pdf)
}

func newTestServerWith(raster export.Rasterizer, pdf PDFWriter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	repo := cards.NewRepository(cards.Content{
		Cards: []cards.Card{
			{ID: "cat", Name: cards.Text("Cat"), ImagePath: "cat.png"},
			{ID: "oak", Name: cards.Text("Oak"), ImagePath: "oak.jpg"},
		},
		Categories: []cards.Category{{ID: "animals", Name: cards.Text("Animals")}},
	})
	s := NewServer(Deps{
		Repo:     repo,
		Settings: settings.Default(),
		Render:   render.Options{BaseURL: "/content/", NewSeed: func() string { return "fixed" }},
		Raster:   raster,
		PDF:      pdf,
		Workers:  1,
	})
	r := gin.New()
	r.Use(RequestID())
	s.RegisterRoutes(r)
	return r
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func TestHealthAndRequestID(t *testing.T) {
	r := newTestServer(fakePDF{})
	w := do(r, http.MethodGet, "/api/health", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("health = %d %s", w.Code, w.Body)
	}
	if w.Header().Get(headerRequestID) == "" {
		t.Error("missing request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(headerRequestID, "abc")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Header().Get(headerRequestID); got != "abc" {
		t.Errorf("request id = %q, want echoed", got)
	}
}

func TestShapes(t *testing.T) {
	r := newTestServer(fakePDF{})
	list := decode[struct{ Shapes []string }](t, do(r, http.MethodGet, "/api/shapes", ""))
	if len(list.Shapes) != 12 {
		t.Errorf("shapes = %v", list.Shapes)
	}

	w := do(r, http.MethodGet, "/api/shapes/spiral?size=10", "")
	if w.Code != http.StatusOK {
		t.Fatalf("spiral = %d", w.Code)
	}
	got := decode[struct {
		D           string
		Stroked     bool
		StrokeWidth float64
	}](t, w)
	if got.D == "" || !got.Stroked || math.Abs(got.StrokeWidth-0.7) > 1e-9 {
		t.Errorf("spiral = %+v", got)
	}

	if w := do(r, http.MethodGet, "/api/shapes/blob", ""); w.Code != http.StatusNotFound {
		t.Errorf("unknown kind = %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/api/shapes/circle?size=-1", ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad size = %d", w.Code)
	}
}

func TestPattern(t *testing.T) {
	r := newTestServer(fakePDF{})
	body := `{"width":100,"height":100,"seed":"x","shapesCount":5,"shapeTypes":["circle"],"minSize":5,"maxSize":10,"deadZone":0}`
	got := decode[struct {
		Requested int
		Shapes    []json.RawMessage
	}](t, do(r, http.MethodPost, "/api/pattern", body))
	if got.Requested != 5 || len(got.Shapes) != 5 {
		t.Errorf("pattern = %+v", got)
	}

	w := do(r, http.MethodPost, "/api/pattern?format=svg", body)
	if ct := w.Header().Get("Content-Type"); ct != "image/svg+xml" || !strings.HasPrefix(w.Body.String(), "<svg") {
		t.Errorf("svg: %s %.40s", ct, w.Body)
	}
	if w := do(r, http.MethodPost, "/api/pattern", `{"width":`); w.Code != http.StatusBadRequest {
		t.Errorf("bad body = %d", w.Code)
	}
}

func TestLayoutAndSheets(t *testing.T) {
	r := newTestServer(fakePDF{})
	res := decode[struct {
		CardsPerRow int
		Pages       [][]json.RawMessage
	}](t, do(r, http.MethodPost, "/api/layout", `{"selection":["cat","oak"]}`))
	if res.CardsPerRow != 8 || len(res.Pages) != 1 || len(res.Pages[0]) != 2 {
		t.Errorf("layout = %+v", res)
	}

	w := do(r, http.MethodPost, "/api/sheets", `{"selection":["cat","ghost","oak"]}`)
	got := decode[struct {
		Errors int
		Sheets []struct{ Cards []json.RawMessage }
	}](t, w)
	if got.Errors != 1 || len(got.Sheets) != 1 || len(got.Sheets[0].Cards) != 2 {
		t.Errorf("sheets: errors %d, sheets %d", got.Errors, len(got.Sheets))
	}

	w = do(r, http.MethodPost, "/api/sheets", `{"selection":[],"settings":{"card":{"width":500}}}`)
	sized := decode[struct{ SizeError bool }](t, w)
	if !sized.SizeError {
		t.Error("oversized card should report a size error")
	}

	if w := do(r, http.MethodPost, "/api/layout", `{"settings":{"paper":{"orientation":"sideways"}}}`); w.Code != http.StatusBadRequest {
		t.Errorf("invalid settings = %d", w.Code)
	}
}

func TestSheetSVG(t *testing.T) {
	r := newTestServer(fakePDF{})
	w := do(r, http.MethodPost, "/api/sheets/0/svg", `{"selection":["cat"],"teams":[{"id":"red","color":"#FF0000","active":true,"showBacks":true}]}`)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "/content/cards/images/cat.png") {
		t.Fatalf("front svg = %d %.80s", w.Code, w.Body)
	}
	if w := do(r, http.MethodPost, "/api/sheets/1/svg", `{"selection":["cat"],"teams":[{"id":"red","color":"#FF0000","active":true,"showBacks":true}]}`); w.Code != http.StatusOK {
		t.Errorf("back svg = %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/api/sheets/5/svg", `{"selection":["cat"]}`); w.Code != http.StatusNotFound {
		t.Errorf("out of range = %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/api/sheets/x/svg", `{}`); w.Code != http.StatusBadRequest {
		t.Errorf("bad page = %d", w.Code)
	}
	w = do(r, http.MethodPost, "/api/sheets/0/svg", `{"selection":[]}`)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "<svg") {
		t.Errorf("empty placeholder = %d", w.Code)
	}
}

func TestCardsEndpoints(t *testing.T) {
	r := newTestServer(fakePDF{})

	got := decode[struct{ Count int }](t, do(r, http.MethodPost, "/api/cards/filter", `{"query":"OA"}`))
	if got.Count != 1 {
		t.Errorf("filter count = %d", got.Count)
	}

	if w := do(r, http.MethodPut, "/api/cards/cat/overlay", `{"name":"Tiger"}`); w.Code != http.StatusNoContent {
		t.Fatalf("overlay = %d %s", w.Code, w.Body)
	}
	w := do(r, http.MethodPost, "/api/sheets/0/svg", `{"selection":["cat"]}`)
	if !strings.Contains(w.Body.String(), "TIGER") {
		t.Error("overlay name not rendered")
	}
	if w := do(r, http.MethodDelete, "/api/cards/cat/overlay", ""); w.Code != http.StatusNoContent {
		t.Errorf("clear overlay = %d", w.Code)
	}
	if w := do(r, http.MethodPut, "/api/cards/ghost/overlay", `{"name":"x"}`); w.Code != http.StatusNotFound {
		t.Errorf("overlay on unknown card = %d", w.Code)
	}

	w = do(r, http.MethodPost, "/api/cards/local", `{"cards":[{"id":"mine","name":"Mine","image":"data:image/png;base64,AAAA"}]}`)
	if n := decode[struct{ LocalCards int }](t, w).LocalCards; n != 1 {
		t.Errorf("local cards = %d", n)
	}
	if w := do(r, http.MethodDelete, "/api/cards/local/mine", ""); w.Code != http.StatusNoContent {
		t.Errorf("remove local = %d", w.Code)
	}
	if w := do(r, http.MethodDelete, "/api/cards/local/mine", ""); w.Code != http.StatusNotFound {
		t.Errorf("remove missing local = %d", w.Code)
	}

	content := decode[struct{ Cards int }](t, do(r, http.MethodGet, "/api/content", ""))
	if content.Cards != 2 {
		t.Errorf("content cards = %d", content.Cards)
	}
}

func TestSelectionText(t *testing.T) {
	r := newTestServer(fakePDF{})
	w := do(r, http.MethodPost, "/api/selection/export", `{"selection":["a","b"]}`)
	if got := w.Body.String(); got != "# 2 cards\na\nb" {
		t.Errorf("export = %q", got)
	}
	w = do(r, http.MethodPost, "/api/selection/import", "# Red\na\n\nb\na\n")
	if got := decode[struct{ Selection []string }](t, w).Selection; len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("import = %v", got)
	}
}

func TestExport(t *testing.T) {
	r := newTestServer(fakePDF{})
	w := do(r, http.MethodPost, "/api/export/zip?format=jpeg", `{"selection":["cat"]}`)
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "application/zip" {
		t.Fatalf("zip = %d %s", w.Code, w.Body)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, export.ZipName) {
		t.Errorf("disposition = %q", cd)
	}
	if w := do(r, http.MethodPost, "/api/export/zip?format=gif", `{"selection":["cat"]}`); w.Code != http.StatusBadRequest {
		t.Errorf("gif = %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/api/export/zip", `{"selection":[]}`); w.Code != http.StatusBadRequest {
		t.Errorf("no pages = %d", w.Code)
	}

	w = do(r, http.MethodPost, "/api/export/pdf", `{"selection":["cat"]}`)
	if w.Code != http.StatusOK || !strings.HasPrefix(w.Body.String(), "%PDF") {
		t.Errorf("pdf = %d", w.Code)
	}
	r = newTestServer(fakePDF{err: export.ErrChromeUnavailable})
	if w := do(r, http.MethodPost, "/api/export/pdf", `{"selection":["cat"]}`); w.Code != http.StatusServiceUnavailable {
		t.Errorf("no chrome = %d", w.Code)
	}
}

func TestQR(t *testing.T) {
	r := newTestServer(fakePDF{})
	w := do(r, http.MethodGet, "/api/qr?text=hello&size=128", "")
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("qr = %d", w.Code)
	}
}

func TestLocalImagesMustBeInline(t *testing.T) {
	r := newTestServer(fakePDF{})
	for _, body := range []string{
		`{"cards":[{"id":"x","name":"X","imageURL":"http://127.0.0.1:9/admin/secret.png"}]}`,
		`{"cards":[{"id":"x","name":"X","image":"https://intranet.local/a.png"}]}`,
		`{"backgrounds":[{"id":"bg","imageURL":"http://169.254.169.254/latest/meta-data"}]}`,
	} {
		if w := do(r, http.MethodPost, "/api/cards/local", body); w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", body, w.Code)
		}
	}
	content := decode[struct{ LocalCards int }](t, do(r, http.MethodGet, "/api/content", ""))
	if content.LocalCards != 0 {
		t.Errorf("rejected cards were stored: %d", content.LocalCards)
	}

	if w := do(r, http.MethodPut, "/api/cards/cat/overlay", `{"imageURL":"http://localhost:2375/x.png"}`); w.Code != http.StatusBadRequest {
		t.Errorf("remote overlay = %d, want 400", w.Code)
	}
	if w := do(r, http.MethodPut, "/api/cards/cat/overlay", `{"imageURL":"data:image/png;base64,AAAA"}`); w.Code != http.StatusNoContent {
		t.Errorf("inline overlay = %d", w.Code)
	}
}

func TestOversizedRequests(t *testing.T) {
	r := newTestServer(fakePDF{})
	if w := do(r, http.MethodPost, "/api/layout", `{"settings":{"paper":{"width":1e6,"height":1e6}}}`); w.Code != http.StatusBadRequest {
		t.Errorf("huge paper = %d, want 400", w.Code)
	}
	if w := do(r, http.MethodPost, "/api/export/zip", `{"selection":["cat"],"settings":{"card":{"width":5000}}}`); w.Code != http.StatusBadRequest {
		t.Errorf("huge card = %d, want 400", w.Code)
	}

	r = newTestServerWith(fakeRaster{err: fmt.Errorf("page 1: %w", imagepkg.ErrPageTooLarge)}, fakePDF{})
	if w := do(r, http.MethodPost, "/api/export/zip", `{"selection":["cat"]}`); w.Code != http.StatusBadRequest {
		t.Errorf("page over budget = %d, want 400", w.Code)
	}
}

func TestDuplicateTeamsRejected(t *testing.T) {
	r := newTestServer(fakePDF{})
	body := `{"selection":["cat"],"teams":[
		{"id":"red","color":"#FF0000","active":true},
		{"id":"red","color":"#00FF00","active":true,"showBacks":true}]}`
	for _, path := range []string{"/api/layout", "/api/sheets", "/api/export/zip"} {
		if w := do(r, http.MethodPost, path, body); w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, w.Code)
		}
	}
}
