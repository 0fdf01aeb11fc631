package engine

import (
	"context"

	"gitgrotto/internal/game"
)

// Result is what every dispatched command produces. The dispatcher never
// returns errors to its caller; failures become unsuccessful results.
// Exit flags the sentinel the presentation layer turns into a quit
// confirmation.
type Result struct {
	Success bool
	Message string
	Exit    bool
}

// SaveFunc persists a snapshot on the save command. Injected so the
// engine stays ignorant of the storage backend.
type SaveFunc func(ctx context.Context, p game.Progress) error

// JournalFunc records each dispatched command, when configured.
type JournalFunc func(ctx context.Context, command string, success bool)
