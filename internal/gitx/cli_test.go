package gitx

import (
	"context"
	"path/filepath"
	"testing"
)

func TestStatusHasConflicts(t *testing.T) {
	cases := []struct {
		name      string
		porcelain string
		want      bool
	}{
		{"clean", "", false},
		{"modified only", " M notes.txt\n?? scratch.txt\n", false},
		{"both modified", "UU notes.txt\n", true},
		{"both added", "AA notes.txt\n M other.txt\n", true},
		{"deleted by us", "DU notes.txt\n", true},
		{"short line ignored", "U\n", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := statusHasConflicts(tc.porcelain); got != tc.want {
				t.Fatalf("statusHasConflicts(%q) = %v, want %v", tc.porcelain, got, tc.want)
			}
		})
	}
}

func TestExecuteRejectsNonGitCommands(t *testing.T) {
	dir := t.TempDir()
	cli := NewCLI()

	if _, err := cli.Execute(context.Background(), "rm -rf /", dir); err == nil {
		t.Fatal("expected error for non-git command")
	}
	if _, err := cli.Execute(context.Background(), "", dir); err == nil {
		t.Fatal("expected error for empty command")
	}
}

func TestExecuteMissingWorkDir(t *testing.T) {
	cli := NewCLI()
	missing := filepath.Join(t.TempDir(), "nope")

	if _, err := cli.Execute(context.Background(), "git status", missing); err == nil {
		t.Fatal("expected error for missing working directory")
	}
	if _, err := cli.Status(context.Background(), missing); err == nil {
		t.Fatal("expected error for missing working directory")
	}
	if _, err := cli.CommitCount(context.Background(), missing); err == nil {
		t.Fatal("expected error for missing working directory")
	}
}

func TestIsEmptyHistory(t *testing.T) {
	if !isEmptyHistory("fatal: your current branch 'main' does not have any commits yet") {
		t.Fatal("expected empty-history stderr to be recognized")
	}
	if !isEmptyHistory("fatal: bad revision 'HEAD'") {
		t.Fatal("expected bad-revision stderr to be recognized")
	}
	if isEmptyHistory("fatal: not a git repository") {
		t.Fatal("not-a-repository is not an empty history")
	}
}
