package rooms

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gitgrotto/internal/challenge"
	"gitgrotto/internal/gitx"
)

// Builtin hooks referenced by the embedded campaign. Room packs name
// them in setup_hook / validate_hook fields.
func init() {
	challenge.RegisterSetupHook("seed_chronicle", seedChronicle)
	challenge.RegisterSetupHook("brew_conflict", brewConflict)
	challenge.RegisterValidateHook("conflict_resolved", conflictResolved)
}

// seedChronicle guarantees an initialized repository with at least one
// commit, so later rooms can assume a history exists. It never touches a
// repository that already has commits.
func seedChronicle(ctx context.Context, workDir string, git gitx.Inspector) error {
	if !git.IsRepository(ctx, workDir) {
		if err := run(ctx, git, workDir, "git init -b main"); err != nil {
			return err
		}
	}
	count, err := git.CommitCount(ctx, workDir)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	path := filepath.Join(workDir, "chronicle.txt")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte("Day 1: entered the grotto.\n"), 0o644); err != nil {
			return err
		}
	}
	return run(ctx, git, workDir,
		"git add chronicle.txt",
		gitCommit("begin the chronicle"),
	)
}

// brewConflict stages a merge conflict on poem.txt: divergent edits on
// main and the riverside branch, then a merge left mid-conflict for the
// player to resolve. Re-entering the room is a no-op once the riverside
// branch exists.
func brewConflict(ctx context.Context, workDir string, git gitx.Inspector) error {
	if err := seedChronicle(ctx, workDir, git); err != nil {
		return err
	}
	branches, err := git.Branches(ctx, workDir)
	if err != nil {
		return err
	}
	for _, b := range branches {
		if b == "riverside" {
			return nil
		}
	}

	// The conflict is brewed from main regardless of where the player
	// wandered in earlier rooms.
	if err := run(ctx, git, workDir, "git checkout main"); err != nil {
		return err
	}
	poem := filepath.Join(workDir, "poem.txt")
	if err := os.WriteFile(poem, []byte("The grotto drips in silence.\n"), 0o644); err != nil {
		return err
	}
	if err := run(ctx, git, workDir,
		"git add poem.txt",
		gitCommit("plant the poem"),
		"git checkout -b riverside",
	); err != nil {
		return err
	}
	if err := os.WriteFile(poem, []byte("The river sings in the dark.\n"), 0o644); err != nil {
		return err
	}
	if err := run(ctx, git, workDir,
		"git add poem.txt",
		gitCommit("riverside verse"),
		"git checkout main",
	); err != nil {
		return err
	}
	if err := os.WriteFile(poem, []byte("The stones remember the flood.\n"), 0o644); err != nil {
		return err
	}
	if err := run(ctx, git, workDir,
		"git add poem.txt",
		gitCommit("stonebound verse"),
	); err != nil {
		return err
	}

	// The merge is supposed to fail; the conflict is the challenge.
	res, err := git.Execute(ctx, "git merge riverside", workDir)
	if err != nil {
		return err
	}
	if res.Success {
		return errors.New("expected the riverside merge to conflict, but it merged cleanly")
	}
	return nil
}

// conflictResolved passes once the merge is fully settled: no unmerged
// paths and a clean working tree.
func conflictResolved(ctx context.Context, workDir string, git gitx.Inspector) (challenge.Result, error) {
	conflicted, err := git.HasConflicts(ctx, workDir)
	if err != nil {
		return challenge.Result{}, err
	}
	if conflicted {
		return challenge.Result{
			Successful: false,
			Message:    "poem.txt still carries conflict markers.",
			Hint:       "Edit poem.txt to keep the verse you want, then 'git add poem.txt'.",
		}, nil
	}
	status, err := git.Status(ctx, workDir)
	if err != nil {
		return challenge.Result{}, err
	}
	if !strings.Contains(status, "nothing to commit") {
		return challenge.Result{
			Successful: false,
			Message:    "The conflict is staged but the merge is unfinished.",
			Hint:       "Conclude the merge with 'git commit'.",
		}, nil
	}
	return challenge.Result{
		Successful: true,
		Message:    "The two verses are reconciled. The chasm quiets.",
	}, nil
}

func run(ctx context.Context, git gitx.Inspector, workDir string, commands ...string) error {
	for _, cmd := range commands {
		res, err := git.Execute(ctx, cmd, workDir)
		if err != nil {
			return err
		}
		if !res.Success {
			return fmt.Errorf("%s: %s", cmd, strings.TrimSpace(res.Output()))
		}
	}
	return nil
}

func gitCommit(message string) string {
	return fmt.Sprintf("git -c user.name=%s -c user.email=%s commit -m %q",
		"grotto", "grotto@example.invalid", message)
}
