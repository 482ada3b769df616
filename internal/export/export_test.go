package export

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"html/template"
	"image"
	"image/png"
	"os"
	"strings"
	"testing"

	imagepkg "github.com/youruser/cardsheet/internal/image"
	"github.com/youruser/cardsheet/internal/render"
)

type fakeRasterizer struct {
	err   error
	calls int
}

func (f *fakeRasterizer) Pages(_ context.Context, sheets []render.Sheet, _ int) ([]*image.NRGBA, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*image.NRGBA, len(sheets))
	for i, sh := range sheets {
		out[i] = image.NewNRGBA(image.Rect(0, 0, int(sh.Width), int(sh.Height)))
	}
	return out, nil
}

func TestWriteZip(t *testing.T) {
	sheets := []render.Sheet{{Width: 10, Height: 20}, {Index: 1, Width: 10, Height: 20}, {Back: true, Width: 10, Height: 20}}
	var buf bytes.Buffer
	if err := WriteZip(context.Background(), &buf, &fakeRasterizer{}, sheets, imagepkg.PNG, 2); err != nil {
		t.Fatal(err)
	}
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"cards_sheet_1.png", "cards_sheet_2.png", "cards_sheet_3.png"}
	if len(zr.File) != len(want) {
		t.Fatalf("entries = %d, want %d", len(zr.File), len(want))
	}
	for i, f := range zr.File {
		if f.Name != want[i] {
			t.Errorf("entry %d = %q, want %q", i, f.Name, want[i])
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		img, err := png.Decode(rc)
		rc.Close()
		if err != nil || img.Bounds().Dy() != 20 {
			t.Errorf("%s: decode %v", f.Name, err)
		}
	}
}

func TestWriteZipErrors(t *testing.T) {
	var buf bytes.Buffer
	r := &fakeRasterizer{}
	if err := WriteZip(context.Background(), &buf, r, nil, imagepkg.PNG, 1); !errors.Is(err, ErrNoPages) {
		t.Fatalf("empty: err = %v", err)
	}
	if r.calls != 0 {
		t.Fatal("rasterizer called for an empty export")
	}
	boom := errors.New("boom")
	if err := WriteZip(context.Background(), &buf, &fakeRasterizer{err: boom}, []render.Sheet{{Width: 1, Height: 1}}, imagepkg.JPEG, 1); !errors.Is(err, boom) {
		t.Fatalf("rasterizer failure: err = %v", err)
	}
}

func TestPageName(t *testing.T) {
	if got := PageName(0, imagepkg.JPEG); got != "cards_sheet_1.jpeg" {
		t.Errorf("PageName = %q", got)
	}
	if got := PageName(9, imagepkg.WebP); got != "cards_sheet_10.webp" {
		t.Errorf("PageName = %q", got)
	}
}

func TestPDFDocument(t *testing.T) {
	doc, err := pdfDocument([]template.URL{"data:image/png;base64,AAAA", "data:image/png;base64,BBBB"}, 210, 297)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"size: 210mm 297mm",
		`<img src="data:image/png;base64,AAAA">`,
		`<img src="data:image/png;base64,BBBB">`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
	if n := strings.Count(doc, `class="paper"`); n != 2 {
		t.Errorf("paper divs = %d, want 2", n)
	}
}

func TestPDFWithoutChrome(t *testing.T) {
	p := NewPDF(PDFOptions{ChromePath: "/nonexistent/chrome"})
	p.detect = func(string) string { return "" }
	if p.Available() {
		t.Fatal("Available() = true without chrome")
	}
	r := &fakeRasterizer{}
	var buf bytes.Buffer
	if err := p.Write(context.Background(), &buf, r, []render.Sheet{{Width: 840, Height: 1188}}, 1); !errors.Is(err, ErrChromeUnavailable) {
		t.Fatalf("err = %v, want ErrChromeUnavailable", err)
	}
	if r.calls != 0 {
		t.Error("pages rasterized although chrome is missing")
	}
	if err := p.Write(context.Background(), &buf, r, nil, 1); !errors.Is(err, ErrNoPages) {
		t.Fatalf("empty: err = %v", err)
	}
}

func TestDetectChromePathPrefersConfigured(t *testing.T) {
	exe := t.TempDir() + "/chrome"
	if err := writeFile(exe); err != nil {
		t.Fatal(err)
	}
	if got := detectChromePath(exe); got != exe {
		t.Errorf("detectChromePath = %q, want %q", got, exe)
	}
}

func writeFile(path string) error {
	return os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755)
}
