package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gitgrotto/internal/app"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "gitgrotto:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := app.FromEnv()
	if err != nil {
		return err
	}

	flag.StringVar(&cfg.PlayerName, "player", cfg.PlayerName, "player name for the save slot")
	flag.StringVar(&cfg.WorkDir, "workdir", cfg.WorkDir, "directory the git challenges run in")
	flag.StringVar(&cfg.RoomsPath, "rooms", cfg.RoomsPath, "room pack to load (default: built-in campaign)")
	flag.StringVar(&cfg.DataDir, "data", cfg.DataDir, "directory for saves and logs")
	flag.BoolVar(&cfg.Resume, "resume", cfg.Resume, "resume the previous save for this player")
	flag.BoolVar(&cfg.ASCIIOnly, "ascii", cfg.ASCIIOnly, "plain ASCII output")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.Run(ctx)
}
