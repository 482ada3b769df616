package cards

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortOrder string

const (
	SortNone     SortOrder = "none"
	SortName     SortOrder = "name"
	SortID       SortOrder = "id"
	SortCategory SortOrder = "category"
)

type FilterOptions struct {
	Query      string    `json:"query"`
	Lang       string    `json:"lang"`
	Categories []string  `json:"categories"`
	Sets       []string  `json:"sets"`
	LocalOnly  bool      `json:"localOnly"`
	EditedOnly bool      `json:"editedOnly"`
	Sort       SortOrder `json:"sort"`
}

func containsAny(hay []string, needles []string) bool {
	for _, n := range needles {
		if slices.Contains(hay, n) {
			return true
		}
	}
	return false
}

// Filter keeps the cards matching every given criterion. The query matches
// case-insensitively against the id and the name in opt.Lang; categories
// and sets match when the card belongs to any of them.
func Filter(cards []Card, sets []Set, opt FilterOptions) []Card {
	members := map[string]bool{}
	for _, s := range sets {
		if slices.Contains(opt.Sets, s.ID) {
			for _, id := range s.Cards {
				members[id] = true
			}
		}
	}
	q := strings.ToLower(strings.TrimSpace(opt.Query))

	out := []Card{}
	for _, c := range cards {
		if len(opt.Categories) > 0 && !containsAny(c.Categories, opt.Categories) {
			continue
		}
		if len(opt.Sets) > 0 && !members[c.ID] {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(c.Name.Resolve(opt.Lang)), q) &&
			!strings.Contains(strings.ToLower(c.ID), q) {
			continue
		}
		out = append(out, c)
	}
	return Sort(out, opt.Sort, opt.Lang)
}

// Sort orders cards in place using the collation of lang and returns them.
// SortNone keeps the input order.
func Sort(cards []Card, order SortOrder, lang string) []Card {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	col := collate.New(tag)
	var key func(Card) string
	switch order {
	case SortName:
		key = func(c Card) string { return c.Name.Resolve(lang) }
	case SortID:
		key = func(c Card) string { return c.ID }
	case SortCategory:
		key = func(c Card) string {
			if len(c.Categories) == 0 {
				return ""
			}
			return c.Categories[0]
		}
	default:
		return cards
	}
	slices.SortStableFunc(cards, func(a, b Card) int {
		return col.CompareString(key(a), key(b))
	})
	return cards
}

// Search filters the repository's cards. LocalOnly and EditedOnly narrow
// the source before the other criteria apply.
func (r *Repository) Search(opt FilterOptions) []Card {
	var source []Card
	switch {
	case opt.LocalOnly:
		source = r.LocalCards()
	case opt.EditedOnly:
		r.mu.RLock()
		for _, c := range r.canonical.list() {
			if _, ok := r.overlays[c.ID]; ok {
				source = append(source, c)
			}
		}
		r.mu.RUnlock()
	default:
		source = r.Cards()
	}
	return Filter(source, r.Sets(), opt)
}
