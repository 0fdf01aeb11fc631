package challenge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gitgrotto/internal/gitx"
)

// criterion is one declarative rule. The compiled slice preserves the
// documented short-circuit order, so the first unmet rule decides which
// message and hint the player sees.
type criterion struct {
	name string
	hint string
	eval func(ctx context.Context, workDir string, git gitx.Inspector) (evaluation, error)
}

type evaluation struct {
	ok      bool
	message string
	hint    string
}

func pass() evaluation {
	return evaluation{ok: true}
}

func fail(message, hint string) evaluation {
	return evaluation{ok: false, message: message, hint: hint}
}

// compileCriteria flattens the rule bag into an ordered list:
// init, required files, required branches, current branch, commit count,
// clean tree. Evaluation short-circuits on the first failure.
func compileCriteria(c Criteria) []criterion {
	checks := []criterion{}
	if c.RequireInit {
		checks = append(checks, initCriterion())
	}
	for _, f := range c.RequiredFiles {
		checks = append(checks, fileCriterion(f))
	}
	for _, b := range c.RequiredBranches {
		checks = append(checks, branchCriterion(b))
	}
	if c.RequiredCurrentBranch != "" {
		checks = append(checks, currentBranchCriterion(c.RequiredCurrentBranch))
	}
	if c.RequiredCommitCount > 0 {
		checks = append(checks, commitCountCriterion(c.RequiredCommitCount))
	}
	if c.RequireCleanStatus {
		checks = append(checks, cleanStatusCriterion())
	}
	return checks
}

func initCriterion() criterion {
	hint := "Run 'git init' to initialize a repository here."
	return criterion{
		name: "repository_initialized",
		hint: hint,
		eval: func(ctx context.Context, workDir string, git gitx.Inspector) (evaluation, error) {
			if !git.IsRepository(ctx, workDir) {
				return fail("This directory is not a git repository yet.", hint), nil
			}
			return pass(), nil
		},
	}
}

func fileCriterion(name string) criterion {
	hint := fmt.Sprintf("Create %s, then stage it with 'git add %s'.", name, name)
	return criterion{
		name: "file_exists:" + name,
		hint: hint,
		eval: func(_ context.Context, workDir string, _ gitx.Inspector) (evaluation, error) {
			if _, err := os.Stat(filepath.Join(workDir, name)); err != nil {
				if os.IsNotExist(err) {
					return fail(fmt.Sprintf("The required file %s is missing.", name), hint), nil
				}
				return evaluation{}, err
			}
			return pass(), nil
		},
	}
}

func branchCriterion(name string) criterion {
	hint := fmt.Sprintf("Create it with 'git branch %s'.", name)
	return criterion{
		name: "branch_exists:" + name,
		hint: hint,
		eval: func(ctx context.Context, workDir string, git gitx.Inspector) (evaluation, error) {
			branches, err := git.Branches(ctx, workDir)
			if err != nil {
				return evaluation{}, err
			}
			if !slices.Contains(branches, name) {
				return fail(fmt.Sprintf("The branch %s does not exist.", name), hint), nil
			}
			return pass(), nil
		},
	}
}

func currentBranchCriterion(name string) criterion {
	hint := fmt.Sprintf("Switch to it with 'git checkout %s'.", name)
	return criterion{
		name: "current_branch:" + name,
		hint: hint,
		eval: func(ctx context.Context, workDir string, git gitx.Inspector) (evaluation, error) {
			current, err := git.CurrentBranch(ctx, workDir)
			if err != nil {
				return evaluation{}, err
			}
			if current != name {
				return fail(fmt.Sprintf("You are on branch %s, but should be on %s.", current, name), hint), nil
			}
			return pass(), nil
		},
	}
}

func commitCountCriterion(min int) criterion {
	hint := "Stage your changes with 'git add', then record them with 'git commit'."
	return criterion{
		name: fmt.Sprintf("commit_count>=%d", min),
		hint: hint,
		eval: func(ctx context.Context, workDir string, git gitx.Inspector) (evaluation, error) {
			count, err := git.CommitCount(ctx, workDir)
			if err != nil {
				return evaluation{}, err
			}
			if count < min {
				return fail(fmt.Sprintf("The repository has %s, but needs at least %d.", pluralCommits(count), min), hint), nil
			}
			return pass(), nil
		},
	}
}

func cleanStatusCriterion() criterion {
	hint := "Run 'git status' to see what is pending, then commit or stash it."
	return criterion{
		name: "clean_working_tree",
		hint: hint,
		eval: func(ctx context.Context, workDir string, git gitx.Inspector) (evaluation, error) {
			status, err := git.Status(ctx, workDir)
			if err != nil {
				return evaluation{}, err
			}
			if !statusIsClean(status) {
				return fail("The working tree still has uncommitted changes.", hint), nil
			}
			return pass(), nil
		},
	}
}

func statusIsClean(status string) bool {
	return strings.Contains(status, "nothing to commit") ||
		strings.TrimSpace(status) == ""
}

func pluralCommits(n int) string {
	if n == 1 {
		return "1 commit"
	}
	return fmt.Sprintf("%d commits", n)
}
