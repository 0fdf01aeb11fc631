package gitx

import "context"

// Inspector runs git against a working directory and answers the
// higher-level questions challenges ask about repository state.
type Inspector interface {
	Execute(ctx context.Context, command string, workDir string) (ExecResult, error)
	IsRepository(ctx context.Context, dir string) bool
	Status(ctx context.Context, dir string) (string, error)
	Log(ctx context.Context, dir string, maxCount int) (string, error)
	Reflog(ctx context.Context, dir string) (string, error)
	Tags(ctx context.Context, dir string) (string, error)
	StashList(ctx context.Context, dir string) (string, error)
	Remotes(ctx context.Context, dir string) (string, error)
	Branches(ctx context.Context, dir string) ([]string, error)
	CurrentBranch(ctx context.Context, dir string) (string, error)
	CommitCount(ctx context.Context, dir string) (int, error)
	HasConflicts(ctx context.Context, dir string) (bool, error)
}
