// Package export packages rendered sheets as downloadable files.
package export

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"

	imagepkg "github.com/youruser/cardsheet/internal/image"
	"github.com/youruser/cardsheet/internal/render"
)

const (
	ZipName = "cards_sheets.zip"
	PDFName = "cards_sheets.pdf"
)

var ErrNoPages = errors.New("no pages to export")

// Rasterizer turns sheets into page images, in order.
type Rasterizer interface {
	Pages(ctx context.Context, sheets []render.Sheet, workers int) ([]*image.NRGBA, error)
}

// PageName is the archive entry of the i-th page (zero based).
func PageName(i int, f imagepkg.Format) string {
	return fmt.Sprintf("cards_sheet_%d.%s", i+1, f.Ext())
}

// WriteZip rasterizes sheets and writes one image per page into a ZIP
// archive. Entries are stored uncompressed since every page format is
// already compressed.
func WriteZip(ctx context.Context, w io.Writer, r Rasterizer, sheets []render.Sheet, f imagepkg.Format, workers int) error {
	if len(sheets) == 0 {
		return ErrNoPages
	}
	pages, err := r.Pages(ctx, sheets, workers)
	if err != nil {
		return fmt.Errorf("rasterize: %w", err)
	}

	zw := zip.NewWriter(w)
	var buf bytes.Buffer
	for i, img := range pages {
		buf.Reset()
		if err := imagepkg.Encode(&buf, img, f); err != nil {
			return fmt.Errorf("encode page %d: %w", i+1, err)
		}
		entry, err := zw.CreateHeader(&zip.FileHeader{Name: PageName(i, f), Method: zip.Store})
		if err != nil {
			return err
		}
		if _, err := entry.Write(buf.Bytes()); err != nil {
			return err
		}
	}
	return zw.Close()
}
