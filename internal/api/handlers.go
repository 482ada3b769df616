package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/youruser/cardsheet/internal/cards"
	"github.com/youruser/cardsheet/internal/deck"
	"github.com/youruser/cardsheet/internal/export"
	imagepkg "github.com/youruser/cardsheet/internal/image"
	"github.com/youruser/cardsheet/internal/layout"
	"github.com/youruser/cardsheet/internal/pattern"
	"github.com/youruser/cardsheet/internal/render"
	"github.com/youruser/cardsheet/internal/settings"
	"github.com/youruser/cardsheet/internal/shapes"
)

// PDFWriter prints sheets to a PDF. *export.PDF implements it.
type PDFWriter interface {
	Write(ctx context.Context, w io.Writer, r export.Rasterizer, sheets []render.Sheet, workers int) error
}

type Deps struct {
	Repo     *cards.Repository
	Settings settings.RenderSettings
	Teams    deck.Teams
	Render   render.Options
	Raster   export.Rasterizer
	PDF      PDFWriter
	Workers  int
	Logger   *slog.Logger
}

// Server holds the collaborators behind the HTTP surface.
type Server struct {
	Deps
}

func NewServer(d Deps) *Server {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Teams == nil {
		d.Teams = deck.DefaultTeams()
	}
	if d.Render.Logger == nil {
		d.Render.Logger = d.Logger
	}
	return &Server{Deps: d}
}

func fail(c *gin.Context, status int, err error) {
	c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// health
func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// qr endpoint returns a PNG of a QR for "text" query param
func qrHandler(c *gin.Context) {
	text := c.DefaultQuery("text", "cardsheet")
	size := 400
	if v, err := strconv.Atoi(c.Query("size")); err == nil {
		size = min(max(v, 64), 2048)
	}
	b, err := imagepkg.GenerateQRPNG(text, size)
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}

func listShapes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"shapes": shapes.Kinds})
}

func shapeHandler(c *gin.Context) {
	kind, ok := shapes.ParseKind(c.Param("kind"))
	if !ok {
		fail(c, http.StatusNotFound, errors.New("unknown shape "+strconv.Quote(c.Param("kind"))))
		return
	}
	size := 100.0
	if v := c.Query("size"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			fail(c, http.StatusBadRequest, errors.New("invalid size "+strconv.Quote(v)))
			return
		}
		size = f
	}
	p, _ := shapes.Geometry(kind, size)
	c.JSON(http.StatusOK, gin.H{
		"shape":       kind,
		"size":        size,
		"d":           p.String(),
		"stroked":     kind.Stroked(),
		"strokeWidth": kind.StrokeWidth() * size,
	})
}

func patternHandler(c *gin.Context) {
	p := pattern.DefaultParams()
	if err := c.ShouldBindJSON(&p); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	list := pattern.Generate(p)
	if c.Query("format") == "svg" {
		c.Data(http.StatusOK, "image/svg+xml", []byte(pattern.SVG(p.Width, p.Height, list)))
		return
	}
	c.JSON(http.StatusOK, gin.H{"requested": p.Count, "shapes": list})
}

func (s *Server) settingsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"settings":     s.Settings,
		"paperFormats": settings.PaperFormats,
		"cardSizes":    settings.CardSizes,
		"teams":        s.Teams,
	})
}

// sheetRequest is the common body of the layout, sheet and export
// endpoints. Missing settings and teams fall back to the server's.
type sheetRequest struct {
	Selection deck.Selection  `json:"selection"`
	Teams     deck.Teams      `json:"teams"`
	Settings  json.RawMessage `json:"settings"`
	Lang      string          `json:"lang"`
}

type sheetJob struct {
	req      sheetRequest
	settings settings.RenderSettings
	teams    deck.Teams
	layout   layout.Result
}

func (s *Server) bindSheets(c *gin.Context) (sheetJob, bool) {
	var j sheetJob
	if err := c.ShouldBindJSON(&j.req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return j, false
	}
	j.settings = s.Settings
	if raw := j.req.Settings; len(raw) > 0 && string(raw) != "null" {
		st, err := settings.DecodeOver(s.Settings, bytes.NewReader(raw))
		if err != nil {
			fail(c, http.StatusBadRequest, err)
			return j, false
		}
		j.settings = st
	}
	if err := j.req.Teams.Validate(); err != nil {
		fail(c, http.StatusBadRequest, err)
		return j, false
	}
	j.teams = j.req.Teams
	if j.teams == nil {
		j.teams = s.Teams
	}
	j.layout = layout.Compute(j.req.Selection.IDs(), j.teams, j.settings)
	return j, true
}

func (s *Server) render(j sheetJob) []render.Sheet {
	opts := s.Render
	if j.req.Lang != "" {
		opts.Lang = j.req.Lang
	}
	return render.New(s.Repo, opts).Sheets(j.layout, j.settings, j.teams)
}

func (s *Server) layoutHandler(c *gin.Context) {
	j, ok := s.bindSheets(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, j.layout)
}

func (s *Server) sheetsHandler(c *gin.Context) {
	j, ok := s.bindSheets(c)
	if !ok {
		return
	}
	sheets := s.render(j)
	errs := 0
	for _, sh := range sheets {
		errs += sh.Errors
	}
	c.JSON(http.StatusOK, gin.H{
		"sizeError":   j.layout.SizeError,
		"empty":       j.layout.Empty(),
		"gridColumns": j.layout.GridColumns,
		"gridRows":    j.layout.GridRows,
		"errors":      errs,
		"sheets":      sheets,
	})
}

// sheetSVGHandler serves page n of fronts followed by backs. Without
// pages, page 0 is the empty or size-error placeholder.
func (s *Server) sheetSVGHandler(c *gin.Context) {
	n, err := strconv.Atoi(c.Param("page"))
	if err != nil || n < 0 {
		fail(c, http.StatusBadRequest, errors.New("invalid page "+strconv.Quote(c.Param("page"))))
		return
	}
	j, ok := s.bindSheets(c)
	if !ok {
		return
	}
	var doc string
	switch sheets := s.render(j); {
	case n < len(sheets):
		doc = render.SVG(sheets[n])
	case len(sheets) == 0 && n == 0:
		doc = render.EmptySVG(j.layout.PaperWidth, j.layout.PaperHeight, j.layout.SizeError)
	default:
		fail(c, http.StatusNotFound, errors.New("page "+strconv.Itoa(n)+" out of range"))
		return
	}
	c.Data(http.StatusOK, "image/svg+xml", []byte(doc))
}

func (s *Server) contentHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories":  s.Repo.Categories(),
		"sets":        s.Repo.Sets(),
		"backgrounds": s.Repo.Backgrounds(),
		"cards":       len(s.Repo.Cards()),
		"localCards":  len(s.Repo.LocalCards()),
	})
}

func (s *Server) filterHandler(c *gin.Context) {
	var opt cards.FilterOptions
	if err := c.ShouldBindJSON(&opt); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	out := s.Repo.Search(opt)
	c.JSON(http.StatusOK, gin.H{"count": len(out), "cards": out})
}

func (s *Server) addLocalHandler(c *gin.Context) {
	var content cards.Content
	if err := c.ShouldBindJSON(&content); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	if err := content.CheckInline(); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	s.Repo.MergeLocal(content)
	c.JSON(http.StatusOK, gin.H{"localCards": len(s.Repo.LocalCards())})
}

func (s *Server) removeLocalHandler(c *gin.Context) {
	if !s.Repo.RemoveLocalCard(c.Param("id")) {
		fail(c, http.StatusNotFound, cards.ErrNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) setOverlayHandler(c *gin.Context) {
	var o cards.Overlay
	if err := c.ShouldBindJSON(&o); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	if err := o.CheckInline(); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	if err := s.Repo.SetOverlay(c.Param("id"), o); err != nil {
		if errors.Is(err, cards.ErrNotFound) {
			fail(c, http.StatusNotFound, err)
			return
		}
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) clearOverlayHandler(c *gin.Context) {
	s.Repo.ClearOverlay(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func exportSelectionHandler(c *gin.Context) {
	var req struct {
		Selection deck.Selection `json:"selection"`
		Teams     deck.Teams     `json:"teams"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(deck.ExportText(&req.Selection, req.Teams)))
}

func importSelectionHandler(c *gin.Context) {
	b, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"selection": deck.ParseText(string(b))})
}

func (s *Server) exportZipHandler(c *gin.Context) {
	f, err := imagepkg.ParseFormat(c.Query("format"))
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	j, ok := s.bindSheets(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteZip(c.Request.Context(), &buf, s.Raster, s.render(j), f, s.Workers); err != nil {
		s.exportFailed(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+export.ZipName+`"`)
	c.Data(http.StatusOK, "application/zip", buf.Bytes())
}

func (s *Server) exportPDFHandler(c *gin.Context) {
	j, ok := s.bindSheets(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := s.PDF.Write(c.Request.Context(), &buf, s.Raster, s.render(j), s.Workers); err != nil {
		s.exportFailed(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+export.PDFName+`"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (s *Server) exportFailed(c *gin.Context, err error) {
	switch {
	case errors.Is(err, export.ErrNoPages), errors.Is(err, imagepkg.ErrPageTooLarge):
		fail(c, http.StatusBadRequest, err)
	case errors.Is(err, export.ErrChromeUnavailable):
		fail(c, http.StatusServiceUnavailable, err)
	default:
		s.Logger.Error("export failed", "request_id", c.GetString("request_id"), "err", err)
		fail(c, http.StatusInternalServerError, err)
	}
}
