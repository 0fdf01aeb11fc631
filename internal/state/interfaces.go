package state

import (
	"context"
	"time"

	"gitgrotto/internal/game"
)

// Store persists game snapshots and the per-session command journal.
type Store interface {
	EnsureSchema(ctx context.Context) error
	SaveGame(ctx context.Context, p game.Progress) error
	LoadGame(ctx context.Context, playerName string) (*game.Progress, error)
	ListSaves(ctx context.Context) ([]SaveInfo, error)
	RecordCommand(ctx context.Context, sessionID, command string, success bool) error
	SessionSummary(ctx context.Context, sessionID string) (Summary, error)
	Close() error
}

type SaveInfo struct {
	PlayerName    string
	CurrentRoomID string
	MoveCount     int
	SavedAt       time.Time
}

type Summary struct {
	Commands  int
	Succeeded int
}
