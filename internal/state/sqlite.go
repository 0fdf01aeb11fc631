package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"gitgrotto/internal/game"
)

// SQLiteStore keeps saves and the command journal in a single local
// database file.
type SQLiteStore struct {
	db *sql.DB
}

var ErrNoSave = errors.New("no save found")

func NewSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS saves (
			player_name TEXT PRIMARY KEY,
			current_room_id TEXT NOT NULL,
			completed_rooms TEXT NOT NULL,
			completed_challenges TEXT NOT NULL,
			move_count INTEGER NOT NULL DEFAULT 0,
			game_started TEXT NOT NULL,
			saved_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS command_journal (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			command TEXT NOT NULL,
			success INTEGER NOT NULL,
			ts TEXT NOT NULL DEFAULT (datetime('now'))
		);`,
		`CREATE INDEX IF NOT EXISTS idx_journal_session ON command_journal(session_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// SaveGame upserts the player's slot; each player has exactly one save.
func (s *SQLiteStore) SaveGame(ctx context.Context, p game.Progress) error {
	roomsJSON, err := json.Marshal(p.CompletedRooms)
	if err != nil {
		return err
	}
	challengesJSON, err := json.Marshal(p.CompletedChallenges)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO saves (player_name, current_room_id, completed_rooms, completed_challenges, move_count, game_started, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(player_name) DO UPDATE SET
			current_room_id=excluded.current_room_id,
			completed_rooms=excluded.completed_rooms,
			completed_challenges=excluded.completed_challenges,
			move_count=excluded.move_count,
			game_started=excluded.game_started,
			saved_at=excluded.saved_at`,
		p.PlayerName, p.CurrentRoomID, string(roomsJSON), string(challengesJSON),
		p.MoveCount, p.GameStarted.UTC().Format(time.RFC3339Nano), p.SavedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save game: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LoadGame(ctx context.Context, playerName string) (*game.Progress, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT current_room_id, completed_rooms, completed_challenges, move_count, game_started, saved_at
		FROM saves WHERE player_name = ?`, playerName)

	var (
		p              game.Progress
		roomsJSON      string
		challengesJSON string
		started        string
		saved          string
	)
	p.PlayerName = playerName
	err := row.Scan(&p.CurrentRoomID, &roomsJSON, &challengesJSON, &p.MoveCount, &started, &saved)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSave
	}
	if err != nil {
		return nil, fmt.Errorf("load game: %w", err)
	}
	if err := json.Unmarshal([]byte(roomsJSON), &p.CompletedRooms); err != nil {
		return nil, fmt.Errorf("load game: %w", err)
	}
	if err := json.Unmarshal([]byte(challengesJSON), &p.CompletedChallenges); err != nil {
		return nil, fmt.Errorf("load game: %w", err)
	}
	if p.GameStarted, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return nil, fmt.Errorf("load game: %w", err)
	}
	if p.SavedAt, err = time.Parse(time.RFC3339Nano, saved); err != nil {
		return nil, fmt.Errorf("load game: %w", err)
	}
	return &p, nil
}

func (s *SQLiteStore) ListSaves(ctx context.Context) ([]SaveInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT player_name, current_room_id, move_count, saved_at
		FROM saves ORDER BY saved_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	saves := []SaveInfo{}
	for rows.Next() {
		var (
			info  SaveInfo
			saved string
		)
		if err := rows.Scan(&info.PlayerName, &info.CurrentRoomID, &info.MoveCount, &saved); err != nil {
			return nil, err
		}
		if info.SavedAt, err = time.Parse(time.RFC3339Nano, saved); err != nil {
			return nil, err
		}
		saves = append(saves, info)
	}
	return saves, rows.Err()
}

func (s *SQLiteStore) RecordCommand(ctx context.Context, sessionID, command string, success bool) error {
	ok := 0
	if success {
		ok = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO command_journal (session_id, command, success) VALUES (?, ?, ?)`,
		sessionID, command, ok)
	return err
}

func (s *SQLiteStore) SessionSummary(ctx context.Context, sessionID string) (Summary, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(success), 0)
		FROM command_journal WHERE session_id = ?`, sessionID)
	var sum Summary
	if err := row.Scan(&sum.Commands, &sum.Succeeded); err != nil {
		return Summary{}, err
	}
	return sum, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
