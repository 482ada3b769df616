package deck

import (
	"encoding/json"
	"slices"
)

// Selection is the set of chosen card ids. Ids are unique and keep the
// order in which they were first added, so pages are stable between runs.
type Selection struct {
	ids   []string
	index map[string]struct{}
}

func NewSelection(ids ...string) *Selection {
	s := &Selection{}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add reports whether id was not selected before.
func (s *Selection) Add(id string) bool {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[id]; ok {
		return false
	}
	s.index[id] = struct{}{}
	s.ids = append(s.ids, id)
	return true
}

func (s *Selection) Remove(id string) bool {
	if _, ok := s.index[id]; !ok {
		return false
	}
	delete(s.index, id)
	s.ids = slices.DeleteFunc(s.ids, func(v string) bool { return v == id })
	return true
}

// Toggle selects id when absent and deselects it otherwise.
func (s *Selection) Toggle(id string) {
	if !s.Remove(id) {
		s.Add(id)
	}
}

func (s *Selection) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

func (s *Selection) Len() int { return len(s.ids) }

func (s *Selection) Clear() {
	s.ids = nil
	s.index = nil
}

// IDs returns a copy of the selected ids in insertion order.
func (s *Selection) IDs() []string {
	return slices.Clone(s.ids)
}

func (s *Selection) MarshalJSON() ([]byte, error) {
	ids := s.ids
	if ids == nil {
		ids = []string{}
	}
	return json.Marshal(ids)
}

// UnmarshalJSON accepts a JSON array; duplicates are dropped.
func (s *Selection) UnmarshalJSON(b []byte) error {
	var ids []string
	if err := json.Unmarshal(b, &ids); err != nil {
		return err
	}
	s.Clear()
	for _, id := range ids {
		s.Add(id)
	}
	return nil
}
