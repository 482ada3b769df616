package deck

import (
	"strconv"
	"strings"
)

// ExportText renders the selection as plain text, one id per line. With
// active teams every team gets a "# name" header followed by the ids,
// mirroring the order in which fronts are printed.
func ExportText(sel *Selection, teams Teams) string {
	ids := sel.IDs()
	active := teams.Active()
	lines := []string{}
	if len(active) == 0 {
		lines = append(lines, "# "+strconv.Itoa(len(ids))+" cards")
		return strings.Join(append(lines, ids...), "\n")
	}
	for _, t := range active {
		name := t.Name
		if name == "" {
			name = t.ID
		}
		lines = append(lines, "# "+name)
		lines = append(lines, ids...)
	}
	return strings.Join(lines, "\n")
}

// ParseText reads ids back from ExportText output or any newline separated
// list. Header and blank lines are skipped.
func ParseText(s string) *Selection {
	sel := NewSelection()
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sel.Add(line)
	}
	return sel
}
