package challenge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gitgrotto/internal/gitx"
)

// Challenge gates a room. Repository and Scenario variants judge a real
// git working tree; the Quiz variant judges an in-memory answer. All
// fields except the quiz answer slot are fixed at construction.
type Challenge struct {
	id          string
	description string
	kind        Kind

	criteria    Criteria
	checks      []criterion
	setupFiles  map[string]string
	setupHook   SetupFunc
	validator   ValidateFunc
	successText string

	question     string
	options      []string
	correctIndex int
	quizHint     string
	answered     bool
	answer       int
}

// Option customizes Repository and Scenario challenges at construction.
type Option func(*Challenge)

// WithSetup installs a custom setup hook, run after static setup files.
func WithSetup(fn SetupFunc) Option {
	return func(c *Challenge) { c.setupHook = fn }
}

// WithValidate installs a custom validator. It fully overrides the
// declarative criterion pipeline.
func WithValidate(fn ValidateFunc) Option {
	return func(c *Challenge) { c.validator = fn }
}

// WithSuccessText replaces the generic success narrative.
func WithSuccessText(text string) Option {
	return func(c *Challenge) { c.successText = text }
}

func NewRepository(id, description string, criteria Criteria, opts ...Option) (*Challenge, error) {
	c := &Challenge{
		id:          id,
		description: description,
		kind:        KindRepository,
		criteria:    criteria,
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.validateConfig(); err != nil {
		return nil, err
	}
	c.checks = compileCriteria(criteria)
	return c, nil
}

func NewScenario(id, description string, criteria Criteria, setupFiles map[string]string, opts ...Option) (*Challenge, error) {
	c := &Challenge{
		id:          id,
		description: description,
		kind:        KindScenario,
		criteria:    criteria,
		setupFiles:  setupFiles,
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.validateConfig(); err != nil {
		return nil, err
	}
	c.checks = compileCriteria(criteria)
	return c, nil
}

func NewQuiz(id, description, question string, options []string, correctIndex int, hint string) (*Challenge, error) {
	c := &Challenge{
		id:           id,
		description:  description,
		kind:         KindQuiz,
		question:     question,
		options:      options,
		correctIndex: correctIndex,
		quizHint:     hint,
	}
	if err := c.validateConfig(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Challenge) validateConfig() error {
	if c.id == "" {
		return errors.New("challenge id is required")
	}
	if c.description == "" {
		return fmt.Errorf("challenge %s: description is required", c.id)
	}
	if c.kind == KindQuiz {
		if c.question == "" {
			return fmt.Errorf("challenge %s: question is required", c.id)
		}
		if len(c.options) < 2 {
			return fmt.Errorf("challenge %s: a quiz needs at least 2 options, got %d", c.id, len(c.options))
		}
		if c.correctIndex < 0 || c.correctIndex >= len(c.options) {
			return fmt.Errorf("challenge %s: correct answer index %d out of range [0,%d)", c.id, c.correctIndex, len(c.options))
		}
	}
	return nil
}

func (c *Challenge) ID() string          { return c.id }
func (c *Challenge) Description() string { return c.description }
func (c *Challenge) Kind() Kind          { return c.kind }
func (c *Challenge) Question() string    { return c.question }
func (c *Challenge) Options() []string   { return c.options }

// Setup materializes external state for the challenge. Repository and
// Scenario setups require the working directory to exist; setup files
// already present are left untouched, so re-entering a room never
// clobbers the player's work.
func (c *Challenge) Setup(ctx context.Context, workDir string, git gitx.Inspector) error {
	if c.kind == KindQuiz {
		return nil
	}
	info, err := os.Stat(workDir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("challenge %s: working directory does not exist: %s", c.id, workDir)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("challenge %s: not a directory: %s", c.id, workDir)
	}
	for name, content := range c.setupFiles {
		path := filepath.Join(workDir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("challenge %s: %w", c.id, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("challenge %s: %w", c.id, err)
		}
	}
	if c.setupHook != nil {
		if err := c.setupHook(ctx, workDir, git); err != nil {
			return fmt.Errorf("challenge %s: setup hook: %w", c.id, err)
		}
	}
	return nil
}

// Validate judges the challenge. A custom validator, when present,
// replaces the declarative pipeline entirely; otherwise criteria are
// evaluated in a fixed order and the first unmet one decides the result.
// Inspector failures become failed results, never panics or errors.
func (c *Challenge) Validate(ctx context.Context, workDir string, git gitx.Inspector) Result {
	if c.kind == KindQuiz {
		return c.validateQuiz()
	}
	if _, err := os.Stat(workDir); err != nil {
		return Result{
			Successful: false,
			Message:    fmt.Sprintf("The working directory %s does not exist.", workDir),
			Hint:       "Restart the game to recreate your working directory.",
		}
	}
	if c.validator != nil {
		res, err := c.validator(ctx, workDir, git)
		if err != nil {
			return Result{
				Successful: false,
				Message:    "Could not inspect the repository: " + err.Error(),
				Hint:       "Check that the working directory is intact, then try again.",
			}
		}
		return res
	}
	for _, check := range c.checks {
		eval, err := check.eval(ctx, workDir, git)
		if err != nil {
			return Result{
				Successful: false,
				Message:    "Could not inspect the repository: " + err.Error(),
				Hint:       check.hint,
			}
		}
		if !eval.ok {
			return Result{Successful: false, Message: eval.message, Hint: eval.hint}
		}
	}
	return Result{Successful: true, Message: c.successMessage()}
}

func (c *Challenge) validateQuiz() Result {
	if !c.answered {
		return Result{
			Successful: false,
			Message:    "You haven't answered the question yet.",
			Hint:       "Answer with 'answer <number>'.",
		}
	}
	chosen := c.options[c.answer]
	if c.answer == c.correctIndex {
		return Result{
			Successful: true,
			Message:    fmt.Sprintf("Correct! %q is the right answer.", chosen),
		}
	}
	return Result{
		Successful: false,
		Message:    fmt.Sprintf("Incorrect. %q is not the right answer.", chosen),
		Hint:       c.DefaultHint(),
	}
}

// SubmitAnswer records the player's choice. Out-of-range indexes are
// rejected without touching any previously stored answer; in-range
// submissions simply replace the prior one.
func (c *Challenge) SubmitAnswer(index int) error {
	if c.kind != KindQuiz {
		return fmt.Errorf("challenge %s is not a quiz", c.id)
	}
	if index < 0 || index >= len(c.options) {
		return fmt.Errorf("answer index %d out of range [0,%d)", index, len(c.options))
	}
	c.answer = index
	c.answered = true
	return nil
}

// DefaultHint is what the hint command shows when the player asks.
func (c *Challenge) DefaultHint() string {
	switch c.kind {
	case KindQuiz:
		if c.quizHint != "" {
			return c.quizHint
		}
		return "Read the question again and pick the option that matches what git actually does."
	case KindScenario:
		return "Look at the files git placed in your working directory, then let 'git status' guide you."
	default:
		return "Inspect the repository: 'git status' and 'git log' usually reveal what's missing."
	}
}

func (c *Challenge) successMessage() string {
	if c.successText != "" {
		return c.successText
	}
	return "Challenge complete. The way forward is open."
}
