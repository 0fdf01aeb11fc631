package challenge

import (
	"context"

	"gitgrotto/internal/gitx"
)

// Kind discriminates the three challenge variants. The set is closed;
// dispatch on Kind is always an exhaustive switch.
type Kind string

const (
	KindRepository Kind = "repository"
	KindQuiz       Kind = "quiz"
	KindScenario   Kind = "scenario"
)

// Result is the outcome of a single Validate call. Hint, when set, names
// the next command the player should try.
type Result struct {
	Successful bool
	Message    string
	Hint       string
}

// SetupFunc prepares external repository state before a room is played.
// It runs after any static setup files have been written.
type SetupFunc func(ctx context.Context, workDir string, git gitx.Inspector) error

// ValidateFunc fully replaces the declarative criterion pipeline when
// configured on a challenge.
type ValidateFunc func(ctx context.Context, workDir string, git gitx.Inspector) (Result, error)

// Criteria is the declarative rule bag for Repository and Scenario
// challenges. Zero values mean "not required".
type Criteria struct {
	RequireInit           bool
	RequiredFiles         []string
	RequiredBranches      []string
	RequiredCurrentBranch string
	RequiredCommitCount   int
	RequireCleanStatus    bool
}
