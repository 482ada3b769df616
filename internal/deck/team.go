package deck

import (
	"errors"
	"fmt"
)

// ErrDuplicateTeam reports two teams sharing an id.
var ErrDuplicateTeam = errors.New("duplicate team id")

// Team groups marked fronts and optional back sheets under one colour.
type Team struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Active    bool   `json:"active"`
	MarkFront bool   `json:"markFront"`
	ShowBacks bool   `json:"showBacks"`
}

// Teams is ordered; render passes follow this order.
type Teams []Team

// DefaultTeams is the palette offered before the user edits any team.
func DefaultTeams() Teams {
	return Teams{
		{ID: "red", Name: "Red", Color: "#E53935FF"},
		{ID: "blue", Name: "Blue", Color: "#1E88E5FF"},
		{ID: "green", Name: "Green", Color: "#43A047FF"},
		{ID: "yellow", Name: "Yellow", Color: "#FDD835FF"},
	}
}

func (ts Teams) Active() Teams {
	var out Teams
	for _, t := range ts {
		if t.Active {
			out = append(out, t)
		}
	}
	return out
}

func (ts Teams) Get(id string) (Team, bool) {
	for _, t := range ts {
		if t.ID == id {
			return t, true
		}
	}
	return Team{}, false
}

// Validate requires unique ids, since Get and the render streams address
// teams by id.
func (ts Teams) Validate() error {
	seen := make(map[string]bool, len(ts))
	for _, t := range ts {
		if seen[t.ID] {
			return fmt.Errorf("%w: %q", ErrDuplicateTeam, t.ID)
		}
		seen[t.ID] = true
	}
	return nil
}
