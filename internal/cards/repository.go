package cards

import (
	"errors"
	"slices"
	"sync"
)

var ErrNotFound = errors.New("card not found")

// Resolved is a card ready for rendering: the local card when one exists
// with the id, otherwise the canonical card with its overlay, if any.
type Resolved struct {
	Card    Card
	Local   bool
	Overlay *Overlay
}

// Name resolves the display name; an overlay name wins over the canonical
// one.
func (r Resolved) Name(lang string) string {
	if r.Overlay != nil {
		if s := r.Overlay.Name.Resolve(lang); s != "" {
			return s
		}
	}
	return r.Card.Name.Resolve(lang)
}

// ImageRef returns the image reference and whether it is relative to the
// content base URL.
func (r Resolved) ImageRef() (ref string, relative bool) {
	if r.Local {
		if r.Card.ImageURL != "" {
			return r.Card.ImageURL, false
		}
		return r.Card.Image, false
	}
	if r.Overlay != nil && r.Overlay.ImageURL != "" {
		return r.Overlay.ImageURL, false
	}
	return contentPath(CardImagesDir, r.Card.ImagePath), true
}

type collection struct {
	order       []string
	cards       map[string]Card
	categories  []Category
	sets        []Set
	backgrounds map[string]Background
	bgOrder     []string
}

func newCollection(c Content) collection {
	col := collection{
		cards:       make(map[string]Card, len(c.Cards)),
		backgrounds: make(map[string]Background, len(c.Backgrounds)),
		categories:  slices.Clone(c.Categories),
		sets:        slices.Clone(c.Sets),
	}
	for _, card := range c.Cards {
		col.putCard(card)
	}
	for _, bg := range c.Backgrounds {
		if _, ok := col.backgrounds[bg.ID]; !ok {
			col.bgOrder = append(col.bgOrder, bg.ID)
		}
		col.backgrounds[bg.ID] = bg
	}
	return col
}

func (c *collection) putCard(card Card) {
	if _, ok := c.cards[card.ID]; !ok {
		c.order = append(c.order, card.ID)
	}
	c.cards[card.ID] = card
}

func (c *collection) list() []Card {
	out := make([]Card, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.cards[id])
	}
	return out
}

// Repository joins the canonical content feed with the user's local
// content and session overlays. It is safe for concurrent use.
type Repository struct {
	mu        sync.RWMutex
	canonical collection
	local     collection
	overlays  map[string]Overlay
}

func NewRepository(canonical Content) *Repository {
	return &Repository{
		canonical: newCollection(canonical),
		local:     newCollection(Content{}),
		overlays:  map[string]Overlay{},
	}
}

// ReplaceLocal swaps the whole local collection.
func (r *Repository) ReplaceLocal(c Content) {
	col := newCollection(c)
	r.mu.Lock()
	r.local = col
	r.mu.Unlock()
}

// MergeLocal adds or replaces local items by id.
func (r *Repository) MergeLocal(c Content) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, card := range c.Cards {
		r.local.putCard(card)
	}
	for _, bg := range c.Backgrounds {
		if _, ok := r.local.backgrounds[bg.ID]; !ok {
			r.local.bgOrder = append(r.local.bgOrder, bg.ID)
		}
		r.local.backgrounds[bg.ID] = bg
	}
	r.local.categories = mergeByID(r.local.categories, c.Categories, func(c Category) string { return c.ID })
	r.local.sets = mergeByID(r.local.sets, c.Sets, func(s Set) string { return s.ID })
}

func mergeByID[T any](dst, src []T, id func(T) string) []T {
	for _, item := range src {
		i := slices.IndexFunc(dst, func(d T) bool { return id(d) == id(item) })
		if i >= 0 {
			dst[i] = item
		} else {
			dst = append(dst, item)
		}
	}
	return dst
}

func (r *Repository) RemoveLocalCard(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.local.cards[id]; !ok {
		return false
	}
	delete(r.local.cards, id)
	r.local.order = slices.DeleteFunc(r.local.order, func(v string) bool { return v == id })
	return true
}

// SetOverlay records a session edit of a canonical card.
func (r *Repository) SetOverlay(id string, o Overlay) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.canonical.cards[id]; !ok {
		return ErrNotFound
	}
	r.overlays[id] = o
	return nil
}

func (r *Repository) ClearOverlay(id string) {
	r.mu.Lock()
	delete(r.overlays, id)
	r.mu.Unlock()
}

// Resolve looks id up in the local collection first, then in the canonical
// one.
func (r *Repository) Resolve(id string) (Resolved, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.local.cards[id]; ok {
		return Resolved{Card: c, Local: true}, nil
	}
	if c, ok := r.canonical.cards[id]; ok {
		res := Resolved{Card: c}
		if o, ok := r.overlays[id]; ok {
			res.Overlay = &o
		}
		return res, nil
	}
	return Resolved{}, ErrNotFound
}

// BackgroundImage returns the image reference of a background, local
// first, and whether it is relative to the content base URL.
func (r *Repository) BackgroundImage(id string) (ref string, relative, ok bool) {
	if id == "" {
		return "", false, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if bg, found := r.local.backgrounds[id]; found {
		if bg.ImageURL != "" {
			return bg.ImageURL, false, true
		}
		return bg.Image, false, true
	}
	if bg, found := r.canonical.backgrounds[id]; found {
		return contentPath(BackgroundImagesDir, bg.ImagePath), true, true
	}
	return "", false, false
}

// Cards lists canonical cards followed by local ones.
func (r *Repository) Cards() []Card {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append(r.canonical.list(), r.local.list()...)
}

func (r *Repository) LocalCards() []Card {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.local.list()
}

func (r *Repository) Categories() []Category {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append(slices.Clone(r.canonical.categories), r.local.categories...)
}

func (r *Repository) Sets() []Set {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append(slices.Clone(r.canonical.sets), r.local.sets...)
}

func (r *Repository) Backgrounds() []Background {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Background, 0, len(r.canonical.bgOrder)+len(r.local.bgOrder))
	for _, id := range r.canonical.bgOrder {
		out = append(out, r.canonical.backgrounds[id])
	}
	for _, id := range r.local.bgOrder {
		out = append(out, r.local.backgrounds[id])
	}
	return out
}

func contentPath(dir, name string) string {
	if name == "" {
		return ""
	}
	return dir + "/" + name
}
