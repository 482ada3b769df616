package cards

import (
	"encoding/base64"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"path"
	"strings"
)

// Content feed layout, relative to the content root.
const (
	CardsFile       = "cards/cardConfig.json"
	CategoriesFile  = "categories/categoryList.json"
	SetsFile        = "sets/setConfig.json"
	BackgroundsFile = "backgrounds/backgroundConfig.json"

	CardImagesDir       = "cards/images"
	BackgroundImagesDir = "backgrounds/images"
)

// LoadContent reads the content feed from fsys. Missing sections are
// skipped; a root without any section is an error.
func LoadContent(fsys fs.FS) (Content, error) {
	var c Content
	sections := []struct {
		file string
		into any
	}{
		{CardsFile, &struct {
			Cards *[]Card `json:"cards"`
		}{&c.Cards}},
		{CategoriesFile, &struct {
			Categories *[]Category `json:"categories"`
		}{&c.Categories}},
		{SetsFile, &struct {
			Sets *[]Set `json:"sets"`
		}{&c.Sets}},
		{BackgroundsFile, &struct {
			Backgrounds *[]Background `json:"backgrounds"`
		}{&c.Backgrounds}},
	}

	found := false
	for _, s := range sections {
		b, err := fs.ReadFile(fsys, s.file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Content{}, fmt.Errorf("reading %s: %w", s.file, err)
		}
		found = true
		if err := json.Unmarshal(b, s.into); err != nil {
			return Content{}, fmt.Errorf("parsing %s: %w", s.file, err)
		}
	}
	if !found {
		return Content{}, fmt.Errorf("no content feed found")
	}
	return c, nil
}

// PackError lists the problems found while importing a pack. Valid items
// are still returned alongside it.
type PackError struct {
	Problems []string
}

func (e *PackError) Error() string {
	return fmt.Sprintf("pack has %d problem(s): %s", len(e.Problems), strings.Join(e.Problems, "; "))
}

// LoadPack reads a user pack: the same layout as the content feed with the
// images stored next to it. Images are inlined as data URIs so the result
// can live in the local repository without the pack. Cards without an id,
// or whose image is missing from the pack, are dropped and reported.
func LoadPack(fsys fs.FS) (Content, error) {
	c, err := LoadContent(fsys)
	if err != nil {
		return Content{}, err
	}
	var problems []string

	valid := c.Cards[:0]
	for i, card := range c.Cards {
		if card.ID == "" {
			problems = append(problems, fmt.Sprintf("card #%d: missing field 'id'", i+1))
			continue
		}
		if card.ImagePath != "" {
			uri, err := inlineImage(fsys, path.Join(CardImagesDir, card.ImagePath))
			if err != nil {
				problems = append(problems, fmt.Sprintf("card #%d (id: %s): %v", i+1, card.ID, err))
				continue
			}
			card.Image, card.ImagePath = uri, ""
		}
		valid = append(valid, card)
	}
	c.Cards = valid

	bgs := c.Backgrounds[:0]
	for i, bg := range c.Backgrounds {
		if bg.ID == "" || bg.ImagePath == "" {
			problems = append(problems, fmt.Sprintf("background #%d: missing field 'id' or 'imagePath'", i+1))
			continue
		}
		uri, err := inlineImage(fsys, path.Join(BackgroundImagesDir, bg.ImagePath))
		if err != nil {
			problems = append(problems, fmt.Sprintf("background #%d (id: %s): %v", i+1, bg.ID, err))
			continue
		}
		bg.Image, bg.ImagePath = uri, ""
		bgs = append(bgs, bg)
	}
	c.Backgrounds = bgs

	if len(problems) > 0 {
		return c, &PackError{Problems: problems}
	}
	return c, nil
}

func inlineImage(fsys fs.FS, name string) (string, error) {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", fmt.Errorf("image %s: %w", name, err)
	}
	typ := mime.TypeByExtension(path.Ext(name))
	if i := strings.IndexByte(typ, ';'); i >= 0 {
		typ = typ[:i]
	}
	if typ == "" {
		typ = "application/octet-stream"
	}
	return "data:" + typ + ";base64," + base64.StdEncoding.EncodeToString(b), nil
}

func parseListCell(s string) []string {
	s = strings.ReplaceAll(s, "／", "/")
	parts := strings.Split(s, "/")
	out := []string{}
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" && t != "-" {
			out = append(out, t)
		}
	}
	return out
}

// LoadCardsCSV reads cards from a spreadsheet export. Recognised columns
// are id, name, name.<lang>, categories (separated by "/") and imagePath or
// image. Rows without an id are skipped.
func LoadCardsCSV(r io.Reader) ([]Card, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("csv has no header")
	}
	header := rows[0]
	cols := map[string]int{}
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}
	if _, ok := cols["id"]; !ok {
		return nil, fmt.Errorf("csv has no id column")
	}

	get := func(row []string, name string) string {
		if idx, ok := cols[name]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	out := []Card{}
	for _, row := range rows[1:] {
		c := Card{
			ID:         get(row, "id"),
			Categories: parseListCell(get(row, "categories")),
			ImagePath:  get(row, "imagePath"),
			Image:      get(row, "image"),
		}
		if c.ID == "" {
			continue
		}
		var pairs []string
		for _, h := range header {
			h = strings.TrimSpace(h)
			if lang, ok := strings.CutPrefix(h, "name."); ok {
				if v := get(row, h); v != "" {
					pairs = append(pairs, lang, v)
				}
			}
		}
		if len(pairs) > 0 {
			c.Name = Translations(pairs...)
		} else {
			c.Name = Text(get(row, "name"))
		}
		out = append(out, c)
	}
	return out, nil
}
