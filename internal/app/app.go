package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"gitgrotto/internal/engine"
	"gitgrotto/internal/game"
	"gitgrotto/internal/gitx"
	"gitgrotto/internal/rooms"
	"gitgrotto/internal/state"
	"gitgrotto/internal/telemetry"
	"gitgrotto/internal/ui"
)

// App wires one session together: store, logger, room graph, inspector,
// engine, and the terminal front end.
type App struct {
	cfg       Config
	logger    *telemetry.Logger
	store     *state.SQLiteStore
	loader    *rooms.FSLoader
	git       *gitx.CLI
	engine    *engine.Engine
	sessionID string
}

func New(cfg Config) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.WorkDir, 0o755); err != nil {
		return nil, err
	}

	logger, err := telemetry.New(cfg.LogPath)
	if err != nil {
		return nil, err
	}

	store, err := state.NewSQLite(filepath.Join(cfg.DataDir, "grotto.db"))
	if err != nil {
		_ = logger.Close()
		return nil, err
	}
	if err := store.EnsureSchema(context.Background()); err != nil {
		_ = store.Close()
		_ = logger.Close()
		return nil, err
	}

	a := &App{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		loader:    rooms.NewLoader(),
		git:       gitx.NewCLI(),
		sessionID: uuid.NewString(),
	}
	a.logger.WithBase(map[string]any{"session": a.sessionID})
	a.engine = engine.New(engine.Options{
		WorkDir: cfg.WorkDir,
		Git:     a.git,
		Save: func(ctx context.Context, p game.Progress) error {
			return a.store.SaveGame(ctx, p)
		},
		Journal: func(ctx context.Context, command string, success bool) {
			if err := a.store.RecordCommand(ctx, a.sessionID, command, success); err != nil {
				a.logger.Error("journal.record_failed", map[string]any{"error": err.Error()})
			}
		},
		Logger: a.logger,
	})
	return a, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("app.start", map[string]any{"player": a.cfg.PlayerName, "workdir": a.cfg.WorkDir})

	roomMap, err := a.loader.Load(a.cfg.RoomsPath)
	if err != nil {
		return err
	}

	g, err := a.resolveGame(ctx, roomMap)
	if err != nil {
		return err
	}

	intro := a.engine.StartGame(ctx, g)
	if !intro.Success {
		return errors.New(intro.Message)
	}

	view := ui.New(ui.Options{
		Engine:    a.engine,
		Intro:     intro.Message,
		ASCIIOnly: a.cfg.ASCIIOnly,
	})
	return view.Run()
}

// resolveGame restores the player's save when asked to resume, falling
// back to a fresh game when there is nothing to resume.
func (a *App) resolveGame(ctx context.Context, roomMap map[string]*rooms.Room) (*game.Game, error) {
	if a.cfg.Resume {
		progress, err := a.store.LoadGame(ctx, a.cfg.PlayerName)
		switch {
		case err == nil:
			g, err := game.Restore(*progress, roomMap)
			if err != nil {
				return nil, fmt.Errorf("restore save: %w", err)
			}
			a.logger.Info("game.restored", map[string]any{"room": progress.CurrentRoomID, "moves": progress.MoveCount})
			return g, nil
		case errors.Is(err, state.ErrNoSave):
			a.logger.Info("game.no_save", nil)
		default:
			return nil, err
		}
	}
	return game.New(a.cfg.PlayerName, roomMap)
}

func (a *App) Close() {
	summary, err := a.store.SessionSummary(context.Background(), a.sessionID)
	if err == nil {
		a.logger.Info("app.stop", map[string]any{"commands": summary.Commands, "succeeded": summary.Succeeded})
	}
	_ = a.store.Close()
	_ = a.logger.Close()
}
