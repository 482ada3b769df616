package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	imagepkg "github.com/youruser/cardsheet/internal/image"
	"github.com/youruser/cardsheet/internal/layout"
	"github.com/youruser/cardsheet/internal/render"
)

var ErrChromeUnavailable = errors.New("chrome is not available")

const mmPerInch = 25.4

var chromePaths = []string{
	"/usr/bin/chromium",
	"/usr/bin/chromium-browser",
	"/usr/bin/google-chrome",
	"/usr/bin/google-chrome-stable",
	"/snap/bin/chromium",
}

// detectChromePath returns the configured executable when it exists, then
// the first known install location, then a match on PATH.
func detectChromePath(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}
	for _, p := range chromePaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, name := range []string{"chromium", "google-chrome", "headless-shell"} {
		if p, err := exec.LookPath(name); err == nil {
			return p
		}
	}
	return ""
}

var document = template.Must(template.New("pdf").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><style>
@page { size: {{.Width}}mm {{.Height}}mm; margin: 0 }
html, body { margin: 0; padding: 0 }
.paper { width: {{.Width}}mm; height: {{.Height}}mm; overflow: hidden; break-after: page }
.paper:last-child { break-after: auto }
.paper img { display: block; width: 100%; height: 100% }
</style></head><body>
{{range .Pages}}<div class="paper"><img src="{{.}}"></div>
{{end}}</body></html>`))

// pdfDocument lays out one page image per paper sheet of w x h mm.
func pdfDocument(pages []template.URL, w, h float64) (string, error) {
	var b bytes.Buffer
	err := document.Execute(&b, struct {
		Width, Height float64
		Pages         []template.URL
	}{w, h, pages})
	return b.String(), err
}

type PDFOptions struct {
	ChromePath string
	Timeout    time.Duration
	// ImageFormat encodes the page images embedded in the document.
	// JPEG pages are flattened on white.
	ImageFormat imagepkg.Format
	Logger      *slog.Logger
}

// PDF prints rasterized sheets to a PDF with headless Chrome.
type PDF struct {
	opts   PDFOptions
	logger *slog.Logger
	detect func(configured string) string
}

func NewPDF(opts PDFOptions) *PDF {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.ImageFormat == "" {
		opts.ImageFormat = imagepkg.PNG
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PDF{opts: opts, logger: logger.With("component", "pdf"), detect: detectChromePath}
}

// Available reports whether a Chrome executable can be found.
func (p *PDF) Available() bool {
	return p.detect(p.opts.ChromePath) != ""
}

// Write rasterizes sheets and writes the printed PDF to w. Page size is
// taken from the first sheet.
func (p *PDF) Write(ctx context.Context, w io.Writer, r Rasterizer, sheets []render.Sheet, workers int) error {
	if len(sheets) == 0 {
		return ErrNoPages
	}
	chrome := p.detect(p.opts.ChromePath)
	if chrome == "" {
		return ErrChromeUnavailable
	}

	pages, err := r.Pages(ctx, sheets, workers)
	if err != nil {
		return fmt.Errorf("rasterize: %w", err)
	}
	urls := make([]template.URL, len(pages))
	var buf bytes.Buffer
	for i, img := range pages {
		buf.Reset()
		if err := imagepkg.Encode(&buf, img, p.opts.ImageFormat); err != nil {
			return fmt.Errorf("encode page %d: %w", i+1, err)
		}
		urls[i] = template.URL("data:" + p.opts.ImageFormat.ContentType() + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes()))
	}

	wmm := sheets[0].Width / layout.ScaleFactor
	hmm := sheets[0].Height / layout.ScaleFactor
	html, err := pdfDocument(urls, wmm, hmm)
	if err != nil {
		return fmt.Errorf("build document: %w", err)
	}

	start := time.Now()
	out, err := p.print(ctx, chrome, html, wmm/mmPerInch, hmm/mmPerInch)
	if err != nil {
		return fmt.Errorf("failed to generate PDF: %w", err)
	}
	p.logger.Info("pdf printed", "pages", len(pages), "bytes", len(out), "took", time.Since(start))
	_, err = w.Write(out)
	return err
}

func (p *PDF) print(ctx context.Context, chrome, html string, widthIn, heightIn float64) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(chrome),
		chromedp.NoSandbox,
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()
	chromeCtx, chromeCancel := chromedp.NewContext(allocCtx)
	defer chromeCancel()

	var pdf []byte
	err := chromedp.Run(chromeCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				WithPaperWidth(widthIn).
				WithPaperHeight(heightIn).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			return err
		}),
	)
	return pdf, err
}
