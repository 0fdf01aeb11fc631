package gitx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/anmitsu/go-shlex"
)

// CLI shells out to the git binary. One instance is shared by every
// challenge; git itself is only safe for sequential use against a single
// working tree, which the engine guarantees.
type CLI struct {
	gitPath string
}

func NewCLI() *CLI {
	return &CLI{gitPath: "git"}
}

// Execute forwards a raw player command ("git status", "git commit -m 'x'")
// to git. The leading "git" token is required; quoting follows shell rules.
func (c *CLI) Execute(ctx context.Context, command string, workDir string) (ExecResult, error) {
	if err := ensureDir(workDir); err != nil {
		return ExecResult{}, err
	}
	args, err := shlex.Split(command, true)
	if err != nil {
		return ExecResult{}, fmt.Errorf("parse command: %w", err)
	}
	if len(args) == 0 || args[0] != "git" {
		return ExecResult{}, fmt.Errorf("not a git command: %q", command)
	}
	return c.run(ctx, workDir, args[1:]...), nil
}

func (c *CLI) IsRepository(ctx context.Context, dir string) bool {
	res := c.run(ctx, dir, "rev-parse", "--is-inside-work-tree")
	return res.Success && strings.TrimSpace(res.Stdout) == "true"
}

func (c *CLI) Status(ctx context.Context, dir string) (string, error) {
	return c.query(ctx, dir, "status")
}

// Log returns the abbreviated history. A repository with zero commits
// yields an empty string rather than an error.
func (c *CLI) Log(ctx context.Context, dir string, maxCount int) (string, error) {
	if err := ensureDir(dir); err != nil {
		return "", err
	}
	args := []string{"log", "--oneline"}
	if maxCount > 0 {
		args = append(args, "-n", strconv.Itoa(maxCount))
	}
	res := c.run(ctx, dir, args...)
	if !res.Success {
		if isEmptyHistory(res.Stderr) {
			return "", nil
		}
		return "", errors.New(strings.TrimSpace(res.Stderr))
	}
	return res.Stdout, nil
}

func (c *CLI) Reflog(ctx context.Context, dir string) (string, error) {
	return c.query(ctx, dir, "reflog")
}

func (c *CLI) Tags(ctx context.Context, dir string) (string, error) {
	return c.query(ctx, dir, "tag", "--list")
}

func (c *CLI) StashList(ctx context.Context, dir string) (string, error) {
	return c.query(ctx, dir, "stash", "list")
}

func (c *CLI) Remotes(ctx context.Context, dir string) (string, error) {
	return c.query(ctx, dir, "remote", "-v")
}

func (c *CLI) Branches(ctx context.Context, dir string) ([]string, error) {
	out, err := c.query(ctx, dir, "branch", "--format=%(refname:short)")
	if err != nil {
		return nil, err
	}
	branches := []string{}
	for _, line := range strings.Split(out, "\n") {
		if b := strings.TrimSpace(line); b != "" {
			branches = append(branches, b)
		}
	}
	return branches, nil
}

func (c *CLI) CurrentBranch(ctx context.Context, dir string) (string, error) {
	res := c.run(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	if res.Success {
		return strings.TrimSpace(res.Stdout), nil
	}
	// No commits yet: HEAD resolves symbolically but not to a revision.
	if err := ensureDir(dir); err != nil {
		return "", err
	}
	sym := c.run(ctx, dir, "symbolic-ref", "--short", "HEAD")
	if sym.Success {
		return strings.TrimSpace(sym.Stdout), nil
	}
	return "", errors.New(strings.TrimSpace(res.Stderr))
}

// CommitCount reports the number of commits reachable from HEAD. A
// repository without any commits counts as zero, not as an error.
func (c *CLI) CommitCount(ctx context.Context, dir string) (int, error) {
	if err := ensureDir(dir); err != nil {
		return 0, err
	}
	res := c.run(ctx, dir, "rev-list", "--count", "HEAD")
	if !res.Success {
		if isEmptyHistory(res.Stderr) {
			return 0, nil
		}
		return 0, errors.New(strings.TrimSpace(res.Stderr))
	}
	n, err := strconv.Atoi(strings.TrimSpace(res.Stdout))
	if err != nil {
		return 0, fmt.Errorf("parse rev-list output: %w", err)
	}
	return n, nil
}

func (c *CLI) HasConflicts(ctx context.Context, dir string) (bool, error) {
	out, err := c.query(ctx, dir, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return statusHasConflicts(out), nil
}

func (c *CLI) query(ctx context.Context, dir string, args ...string) (string, error) {
	if err := ensureDir(dir); err != nil {
		return "", err
	}
	res := c.run(ctx, dir, args...)
	if !res.Success {
		return "", errors.New(strings.TrimSpace(res.Stderr))
	}
	return res.Stdout, nil
}

func (c *CLI) run(ctx context.Context, dir string, args ...string) ExecResult {
	cmd := exec.CommandContext(ctx, c.gitPath, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_TERMINAL_PROMPT=0",
		"GIT_PAGER=cat",
	)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := ExecResult{
		Success: err == nil,
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.ExitCode = -1
			if res.Stderr == "" {
				res.Stderr = err.Error()
			}
		}
	}
	return res
}

func ensureDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("working directory does not exist: %s", dir)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", dir)
	}
	return nil
}

// statusHasConflicts checks porcelain status lines for the XY codes git
// assigns to unmerged paths.
func statusHasConflicts(porcelain string) bool {
	conflictCodes := map[string]struct{}{
		"DD": {}, "AU": {}, "UD": {}, "UA": {}, "DU": {}, "AA": {}, "UU": {},
	}
	for _, line := range strings.Split(porcelain, "\n") {
		if len(line) < 2 {
			continue
		}
		if _, ok := conflictCodes[line[:2]]; ok {
			return true
		}
	}
	return false
}

func isEmptyHistory(stderr string) bool {
	s := strings.ToLower(stderr)
	return strings.Contains(s, "does not have any commits") ||
		strings.Contains(s, "unknown revision") ||
		strings.Contains(s, "bad revision")
}
