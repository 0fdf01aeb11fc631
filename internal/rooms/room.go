package rooms

import (
	"sort"
	"strings"

	"gitgrotto/internal/challenge"
)

// Room is an immutable node in the dungeon graph. Content is fixed after
// load; the only mutable state anywhere near a room is the quiz answer
// slot inside its challenge.
type Room struct {
	ID        string
	Name      string
	Narrative string
	Challenge *challenge.Challenge
	Exits     map[string]string
	IsStart   bool
	IsEnd     bool
}

// ExitTo resolves a direction case-insensitively. Absence of the key
// means there is no exit that way.
func (r *Room) ExitTo(direction string) (string, bool) {
	id, ok := r.Exits[strings.ToLower(strings.TrimSpace(direction))]
	return id, ok
}

// ExitNames returns the available directions in sorted order.
func (r *Room) ExitNames() []string {
	names := make([]string, 0, len(r.Exits))
	for d := range r.Exits {
		names = append(names, d)
	}
	sort.Strings(names)
	return names
}
