package challenge

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gitgrotto/internal/gitx"
)

// fakeInspector is a canned-state Inspector for validation tests.
type fakeInspector struct {
	repo        bool
	status      string
	branches    []string
	current     string
	commitCount int
	failQueries bool
}

func (f *fakeInspector) Execute(_ context.Context, _ string, _ string) (gitx.ExecResult, error) {
	return gitx.ExecResult{Success: true}, nil
}

func (f *fakeInspector) IsRepository(_ context.Context, _ string) bool { return f.repo }

func (f *fakeInspector) Status(_ context.Context, _ string) (string, error) {
	if f.failQueries {
		return "", errors.New("not a git repository")
	}
	return f.status, nil
}

func (f *fakeInspector) Log(_ context.Context, _ string, _ int) (string, error) { return "", nil }
func (f *fakeInspector) Reflog(_ context.Context, _ string) (string, error)     { return "", nil }
func (f *fakeInspector) Tags(_ context.Context, _ string) (string, error)       { return "", nil }
func (f *fakeInspector) StashList(_ context.Context, _ string) (string, error)  { return "", nil }
func (f *fakeInspector) Remotes(_ context.Context, _ string) (string, error)    { return "", nil }

func (f *fakeInspector) Branches(_ context.Context, _ string) ([]string, error) {
	if f.failQueries {
		return nil, errors.New("not a git repository")
	}
	return f.branches, nil
}

func (f *fakeInspector) CurrentBranch(_ context.Context, _ string) (string, error) {
	if f.failQueries {
		return "", errors.New("not a git repository")
	}
	return f.current, nil
}

func (f *fakeInspector) CommitCount(_ context.Context, _ string) (int, error) {
	if f.failQueries {
		return 0, errors.New("not a git repository")
	}
	return f.commitCount, nil
}

func (f *fakeInspector) HasConflicts(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func TestConstructionValidation(t *testing.T) {
	if _, err := NewRepository("", "desc", Criteria{}); err == nil {
		t.Fatal("expected error for empty id")
	}
	if _, err := NewRepository("c1", "", Criteria{}); err == nil {
		t.Fatal("expected error for empty description")
	}
	if _, err := NewQuiz("q1", "desc", "", []string{"a", "b"}, 0, ""); err == nil {
		t.Fatal("expected error for empty question")
	}
	if _, err := NewQuiz("q1", "desc", "q?", []string{"only"}, 0, ""); err == nil {
		t.Fatal("expected error for single option")
	}
	if _, err := NewQuiz("q1", "desc", "q?", []string{"a", "b"}, 2, ""); err == nil {
		t.Fatal("expected error for out-of-range correct index")
	}
	if _, err := NewQuiz("q1", "desc", "q?", []string{"a", "b"}, -1, ""); err == nil {
		t.Fatal("expected error for negative correct index")
	}
}

func TestValidateNoCriteriaSucceeds(t *testing.T) {
	dir := t.TempDir()
	ch, err := NewRepository("c1", "empty criteria", Criteria{})
	if err != nil {
		t.Fatal(err)
	}
	res := ch.Validate(context.Background(), dir, &fakeInspector{})
	if !res.Successful {
		t.Fatalf("expected success, got %#v", res)
	}
}

func TestValidateMissingWorkDir(t *testing.T) {
	ch, err := NewRepository("c1", "desc", Criteria{RequireInit: true})
	if err != nil {
		t.Fatal(err)
	}
	res := ch.Validate(context.Background(), filepath.Join(t.TempDir(), "gone"), &fakeInspector{repo: true})
	if res.Successful {
		t.Fatal("expected failure for missing working directory")
	}
	if !strings.Contains(res.Message, "does not exist") {
		t.Fatalf("unexpected message %q", res.Message)
	}
}

func TestValidateCriterionOrder(t *testing.T) {
	dir := t.TempDir()
	ch, err := NewRepository("c1", "ordered", Criteria{
		RequireInit:           true,
		RequiredFiles:         []string{"notes.txt"},
		RequiredBranches:      []string{"feature"},
		RequiredCurrentBranch: "feature",
		RequiredCommitCount:   2,
		RequireCleanStatus:    true,
	})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	git := &fakeInspector{}

	// Everything unmet: the init failure wins.
	res := ch.Validate(ctx, dir, git)
	if res.Successful || !strings.Contains(res.Message, "not a git repository") {
		t.Fatalf("expected init failure first, got %#v", res)
	}
	if !strings.Contains(res.Hint, "git init") {
		t.Fatalf("expected init hint, got %q", res.Hint)
	}

	git.repo = true
	res = ch.Validate(ctx, dir, git)
	if res.Successful || !strings.Contains(res.Message, "notes.txt") {
		t.Fatalf("expected file failure next, got %#v", res)
	}

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	res = ch.Validate(ctx, dir, git)
	if res.Successful || !strings.Contains(res.Message, "feature") {
		t.Fatalf("expected branch failure next, got %#v", res)
	}

	git.branches = []string{"main", "feature"}
	git.current = "main"
	res = ch.Validate(ctx, dir, git)
	if res.Successful || !strings.Contains(res.Message, "should be on feature") {
		t.Fatalf("expected current-branch failure next, got %#v", res)
	}

	git.current = "feature"
	git.commitCount = 1
	res = ch.Validate(ctx, dir, git)
	if res.Successful || !strings.Contains(res.Message, "at least 2") {
		t.Fatalf("expected commit-count failure next, got %#v", res)
	}

	git.commitCount = 2
	git.status = "On branch feature\nChanges not staged for commit:\n"
	res = ch.Validate(ctx, dir, git)
	if res.Successful || !strings.Contains(res.Message, "uncommitted changes") {
		t.Fatalf("expected clean-tree failure next, got %#v", res)
	}

	git.status = "On branch feature\nnothing to commit, working tree clean\n"
	res = ch.Validate(ctx, dir, git)
	if !res.Successful {
		t.Fatalf("expected success, got %#v", res)
	}
}

func TestValidateInspectorErrorBecomesFailure(t *testing.T) {
	dir := t.TempDir()
	ch, err := NewRepository("c1", "desc", Criteria{RequireInit: true, RequiredCommitCount: 1})
	if err != nil {
		t.Fatal(err)
	}
	git := &fakeInspector{repo: true, failQueries: true}
	res := ch.Validate(context.Background(), dir, git)
	if res.Successful {
		t.Fatal("expected failure when inspector queries error")
	}
	if !strings.Contains(res.Message, "Could not inspect") {
		t.Fatalf("unexpected message %q", res.Message)
	}
}

func TestCustomValidatorOverridesCriteria(t *testing.T) {
	dir := t.TempDir()
	called := false
	// Declarative criteria would all fail; the custom validator must win.
	ch, err := NewRepository("c1", "custom", Criteria{RequireInit: true},
		WithValidate(func(_ context.Context, _ string, _ gitx.Inspector) (Result, error) {
			called = true
			return Result{Successful: true, Message: "custom says yes"}, nil
		}))
	if err != nil {
		t.Fatal(err)
	}
	res := ch.Validate(context.Background(), dir, &fakeInspector{})
	if !called {
		t.Fatal("custom validator was not invoked")
	}
	if !res.Successful || res.Message != "custom says yes" {
		t.Fatalf("expected verbatim custom result, got %#v", res)
	}
}

func TestQuizAnswerFlow(t *testing.T) {
	ch, err := NewQuiz("q1", "staging quiz",
		"Which command stages every change in the current directory?",
		[]string{"git add .", "git commit -a"}, 0, "Staging comes before committing.")
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	git := &fakeInspector{}

	res := ch.Validate(ctx, t.TempDir(), git)
	if res.Successful || res.Hint == "" {
		t.Fatalf("expected unanswered failure with hint, got %#v", res)
	}

	if err := ch.SubmitAnswer(1); err != nil {
		t.Fatal(err)
	}
	res = ch.Validate(ctx, t.TempDir(), git)
	if res.Successful {
		t.Fatal("expected wrong answer to fail")
	}
	if !strings.Contains(res.Message, "Incorrect") || !strings.Contains(res.Message, "git commit -a") {
		t.Fatalf("unexpected message %q", res.Message)
	}
	if res.Hint != "Staging comes before committing." {
		t.Fatalf("expected configured hint, got %q", res.Hint)
	}

	// A wrong answer does not lock the quiz.
	if err := ch.SubmitAnswer(0); err != nil {
		t.Fatal(err)
	}
	res = ch.Validate(ctx, t.TempDir(), git)
	if !res.Successful {
		t.Fatalf("expected correct answer to pass, got %#v", res)
	}
	if !strings.Contains(res.Message, "Correct") || !strings.Contains(res.Message, "git add .") {
		t.Fatalf("unexpected message %q", res.Message)
	}
}

func TestSubmitAnswerOutOfRange(t *testing.T) {
	ch, err := NewQuiz("q1", "desc", "q?", []string{"a", "b", "c"}, 1, "")
	if err != nil {
		t.Fatal(err)
	}
	if err := ch.SubmitAnswer(1); err != nil {
		t.Fatal(err)
	}
	for _, idx := range []int{-1, 3, 99} {
		if err := ch.SubmitAnswer(idx); err == nil {
			t.Fatalf("expected out-of-range error for %d", idx)
		}
	}
	// The stored answer survives rejected submissions.
	res := ch.Validate(context.Background(), t.TempDir(), &fakeInspector{})
	if !res.Successful {
		t.Fatalf("prior answer should be unchanged, got %#v", res)
	}
}

func TestSetupWritesMissingFilesOnly(t *testing.T) {
	dir := t.TempDir()
	ch, err := NewScenario("s1", "conflicted", Criteria{}, map[string]string{
		"poem.txt":       "roses are red\n",
		"notes/todo.txt": "fix the poem\n",
	})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	git := &fakeInspector{}

	if err := os.WriteFile(filepath.Join(dir, "poem.txt"), []byte("mine\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := ch.Setup(ctx, dir, git); err != nil {
		t.Fatal(err)
	}

	// The pre-existing file is untouched, the missing one materialized.
	b, err := os.ReadFile(filepath.Join(dir, "poem.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "mine\n" {
		t.Fatalf("setup overwrote an existing file: %q", b)
	}
	if _, err := os.Stat(filepath.Join(dir, "notes", "todo.txt")); err != nil {
		t.Fatalf("setup file not materialized: %v", err)
	}
}

func TestSetupMissingWorkDir(t *testing.T) {
	ch, err := NewScenario("s1", "desc", Criteria{}, map[string]string{"a.txt": "a\n"})
	if err != nil {
		t.Fatal(err)
	}
	err = ch.Setup(context.Background(), filepath.Join(t.TempDir(), "gone"), &fakeInspector{})
	if err == nil {
		t.Fatal("expected error for missing working directory")
	}
}

func TestSetupHookRunsAfterFiles(t *testing.T) {
	dir := t.TempDir()
	var sawFile bool
	ch, err := NewScenario("s1", "desc", Criteria{}, map[string]string{"seed.txt": "seed\n"},
		WithSetup(func(_ context.Context, workDir string, _ gitx.Inspector) error {
			_, statErr := os.Stat(filepath.Join(workDir, "seed.txt"))
			sawFile = statErr == nil
			return nil
		}))
	if err != nil {
		t.Fatal(err)
	}
	if err := ch.Setup(context.Background(), dir, &fakeInspector{}); err != nil {
		t.Fatal(err)
	}
	if !sawFile {
		t.Fatal("setup hook ran before static files were written")
	}
}

func TestHookRegistry(t *testing.T) {
	RegisterSetupHook("test_hook_registry_setup", func(_ context.Context, _ string, _ gitx.Inspector) error {
		return nil
	})
	if _, ok := SetupHook("test_hook_registry_setup"); !ok {
		t.Fatal("registered setup hook not found")
	}
	if _, ok := ValidateHook("no_such_hook"); ok {
		t.Fatal("unexpected validate hook")
	}
}
