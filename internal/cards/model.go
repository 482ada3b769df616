package cards

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotInline rejects a session image that is not a data: URI. Local
// cards, local backgrounds and overlays carry their pixels inline.
var ErrNotInline = errors.New("image must be an inline data URI")

// Card is one printable item. Canonical cards reference their image by a
// path relative to the content base URL; local cards carry a data URI
// instead.
type Card struct {
	ID         string        `json:"id"`
	Name       LocalizedText `json:"name"`
	Categories []string      `json:"categories,omitempty"`
	ImagePath  string        `json:"imagePath,omitempty"`
	Image      string        `json:"image,omitempty"`
	ImageURL   string        `json:"imageURL,omitempty"`
}

type Category struct {
	ID   string        `json:"id"`
	Name LocalizedText `json:"name"`
}

type Set struct {
	ID    string        `json:"id"`
	Name  LocalizedText `json:"name"`
	Cards []string      `json:"cards"`
}

type Background struct {
	ID        string        `json:"id"`
	Name      LocalizedText `json:"name,omitzero"`
	ImagePath string        `json:"imagePath,omitempty"`
	Image     string        `json:"image,omitempty"`
	ImageURL  string        `json:"imageURL,omitempty"`
}

// Overlay is a session edit of a canonical card. Empty fields keep the
// canonical value.
type Overlay struct {
	Name     LocalizedText `json:"name,omitzero"`
	ImageURL string        `json:"imageURL,omitempty"`
}

// Content is one complete collection of cards and their companions.
type Content struct {
	Cards       []Card       `json:"cards"`
	Categories  []Category   `json:"categories"`
	Sets        []Set        `json:"sets"`
	Backgrounds []Background `json:"backgrounds"`
}

func inline(field, ref string) error {
	if ref == "" || strings.HasPrefix(ref, "data:") {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNotInline, field)
}

// CheckInline reports the first local card or background whose image is
// not inline.
func (c Content) CheckInline() error {
	for _, card := range c.Cards {
		if err := inline("card "+card.ID+" image", card.Image); err != nil {
			return err
		}
		if err := inline("card "+card.ID+" imageURL", card.ImageURL); err != nil {
			return err
		}
	}
	for _, bg := range c.Backgrounds {
		if err := inline("background "+bg.ID+" image", bg.Image); err != nil {
			return err
		}
		if err := inline("background "+bg.ID+" imageURL", bg.ImageURL); err != nil {
			return err
		}
	}
	return nil
}

func (o Overlay) CheckInline() error {
	return inline("overlay imageURL", o.ImageURL)
}
