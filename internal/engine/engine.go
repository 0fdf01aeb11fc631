package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gitgrotto/internal/challenge"
	"gitgrotto/internal/game"
	"gitgrotto/internal/gitx"
	"gitgrotto/internal/telemetry"
)

// Engine interprets player commands against a single bound game and
// working directory. Dispatch is strictly sequential: one command fully
// completes before the next begins, which is also what keeps git safe
// against its single working tree.
type Engine struct {
	game    *game.Game
	workDir string
	git     gitx.Inspector
	save    SaveFunc
	journal JournalFunc
	logger  *telemetry.Logger
}

type Options struct {
	WorkDir string
	Git     gitx.Inspector
	Save    SaveFunc
	Journal JournalFunc
	Logger  *telemetry.Logger
}

func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = telemetry.Discard()
	}
	return &Engine{
		workDir: opts.WorkDir,
		git:     opts.Git,
		save:    opts.Save,
		journal: opts.Journal,
		logger:  logger,
	}
}

// StartGame binds the session and prepares the starting room's
// challenge. The returned result carries the entry narrative.
func (e *Engine) StartGame(ctx context.Context, g *game.Game) Result {
	e.game = g
	room := g.CurrentRoom()
	msg := e.describeRoom()
	if room.Challenge != nil && !g.ChallengeCompleted(room.Challenge.ID()) {
		if err := room.Challenge.Setup(ctx, e.workDir, e.git); err != nil {
			e.logger.Error("challenge.setup_failed", map[string]any{"room": room.ID, "error": err.Error()})
			return Result{Success: false, Message: fmt.Sprintf("The challenge could not be prepared: %v", err)}
		}
	}
	e.logger.Info("game.started", map[string]any{"player": g.Player().Name, "room": room.ID})
	return Result{Success: true, Message: msg}
}

func (e *Engine) Game() *game.Game { return e.game }

// Dispatch interprets one line of player input. It never panics and
// never returns an error; every failure path becomes a Result.
func (e *Engine) Dispatch(ctx context.Context, input string) Result {
	input = strings.TrimSpace(input)
	if e.game == nil {
		return Result{Success: false, Message: "No active game. Start one before issuing commands."}
	}
	if input == "" {
		return Result{Success: false, Message: "Say something, or type 'help' for the list of commands."}
	}

	fields := strings.Fields(input)
	keyword := strings.ToLower(fields[0])

	var res Result
	switch keyword {
	case "help":
		res = Result{Success: true, Message: helpText}
	case "status":
		res = e.statusReport()
	case "look", "examine":
		res = Result{Success: true, Message: e.describeRoom()}
	case "hint":
		res = e.hint()
	case "save":
		res = e.saveGame(ctx)
	case "exit", "quit":
		res = Result{Success: true, Exit: true, Message: "Leaving the grotto..."}
	case "answer":
		res = e.answer(ctx, fields[1:])
	case "forward", "back":
		res = e.move(ctx, keyword)
	case "go":
		if len(fields) < 2 {
			res = Result{Success: false, Message: "Go where? Try 'go <direction>'."}
		} else {
			res = e.move(ctx, strings.ToLower(fields[1]))
		}
	case "git":
		res = e.gitPassthrough(ctx, input)
	default:
		res = Result{Success: false, Message: fmt.Sprintf("I don't understand %q. Type 'help' for the list of commands.", input)}
	}

	if e.journal != nil {
		e.journal(ctx, input, res.Success)
	}
	return res
}

// gitPassthrough forwards the raw command to git and then, always,
// re-validates the room's pending challenge. Challenges react to every
// invocation, not just the ones that look relevant.
func (e *Engine) gitPassthrough(ctx context.Context, raw string) Result {
	execRes, err := e.git.Execute(ctx, raw, e.workDir)
	if err != nil {
		return Result{Success: false, Message: err.Error()}
	}
	msg := strings.TrimRight(execRes.Output(), "\n")
	if !execRes.Success && msg == "" {
		msg = fmt.Sprintf("git exited with status %d", execRes.ExitCode)
	}

	if followUp := e.revalidate(ctx); followUp != "" {
		if msg != "" {
			msg += "\n\n"
		}
		msg += followUp
	}
	return Result{Success: execRes.Success, Message: msg}
}

// revalidate runs the pending challenge's validation and, on success,
// marks it complete and reports the newly opened exits. Completed or
// absent challenges make this a no-op.
func (e *Engine) revalidate(ctx context.Context) string {
	room := e.game.CurrentRoom()
	ch := room.Challenge
	if ch == nil || e.game.ChallengeCompleted(ch.ID()) {
		return ""
	}
	vr := ch.Validate(ctx, e.workDir, e.git)
	if !vr.Successful {
		return ""
	}
	e.game.CompleteCurrentChallenge()
	e.logger.Info("challenge.completed", map[string]any{"challenge": ch.ID(), "room": room.ID})
	return vr.Message + "\n" + e.exitsLine()
}

func (e *Engine) move(ctx context.Context, direction string) Result {
	room := e.game.CurrentRoom()
	if e.game.CurrentChallengePending() {
		return Result{
			Success: false,
			Message: "You must complete the challenge in this room before moving on. ('hint' if you are stuck.)",
		}
	}
	targetID, ok := e.game.RoomIDInDirection(direction)
	if !ok {
		return Result{Success: false, Message: fmt.Sprintf("You can't go %q from here. %s", direction, e.exitsLine())}
	}
	if err := e.game.MoveToRoom(targetID); err != nil {
		return Result{Success: false, Message: err.Error()}
	}
	next := e.game.CurrentRoom()
	e.logger.Info("game.moved", map[string]any{"from": room.ID, "to": next.ID, "direction": direction})

	msg := e.describeRoom()
	if next.Challenge != nil && !e.game.ChallengeCompleted(next.Challenge.ID()) {
		if err := next.Challenge.Setup(ctx, e.workDir, e.git); err != nil {
			e.logger.Error("challenge.setup_failed", map[string]any{"room": next.ID, "error": err.Error()})
			return Result{Success: false, Message: msg + fmt.Sprintf("\n\nThe challenge could not be prepared: %v", err)}
		}
	}
	if next.IsEnd {
		msg += "\n\nYou have escaped the grotto. Your history is complete, congratulations!"
	}
	return Result{Success: true, Message: msg}
}

func (e *Engine) answer(ctx context.Context, args []string) Result {
	ch := e.game.CurrentRoom().Challenge
	if ch == nil || ch.Kind() != challenge.KindQuiz {
		return Result{Success: false, Message: "There is no question to answer here."}
	}
	if e.game.ChallengeCompleted(ch.ID()) {
		return Result{Success: false, Message: "You already answered this one. Move along."}
	}
	if len(args) != 1 {
		return Result{Success: false, Message: "Answer with a number, e.g. 'answer 1'."}
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return Result{Success: false, Message: fmt.Sprintf("%q is not a number. Answer with e.g. 'answer 1'.", args[0])}
	}
	if err := ch.SubmitAnswer(n - 1); err != nil {
		return Result{Success: false, Message: fmt.Sprintf("Pick a number between 1 and %d.", len(ch.Options()))}
	}

	vr := ch.Validate(ctx, e.workDir, e.git)
	msg := vr.Message
	if vr.Successful {
		e.game.CompleteCurrentChallenge()
		e.logger.Info("challenge.completed", map[string]any{"challenge": ch.ID()})
		msg += "\n" + e.exitsLine()
	} else if vr.Hint != "" {
		msg += "\nHint: " + vr.Hint
	}
	return Result{Success: vr.Successful, Message: msg}
}

func (e *Engine) hint() Result {
	ch := e.game.CurrentRoom().Challenge
	if ch == nil {
		return Result{Success: false, Message: "There is no challenge in this room."}
	}
	if e.game.ChallengeCompleted(ch.ID()) {
		return Result{Success: false, Message: "You already solved this room's challenge."}
	}
	return Result{Success: true, Message: "Hint: " + ch.DefaultHint()}
}

func (e *Engine) saveGame(ctx context.Context) Result {
	if e.save == nil {
		return Result{Success: false, Message: "Saving is not available in this session."}
	}
	if err := e.save(ctx, e.game.Snapshot()); err != nil {
		return Result{Success: false, Message: "Save failed: " + err.Error()}
	}
	return Result{Success: true, Message: "Game saved."}
}

func (e *Engine) statusReport() Result {
	p := e.game.Player()
	room := e.game.CurrentRoom()
	var b strings.Builder
	fmt.Fprintf(&b, "Player: %s\n", p.Name)
	fmt.Fprintf(&b, "Room: %s\n", room.Name)
	fmt.Fprintf(&b, "Moves: %d\n", p.MoveCount)
	fmt.Fprintf(&b, "Rooms visited: %d\n", len(p.CompletedRooms))
	fmt.Fprintf(&b, "Challenges completed: %d", len(p.CompletedChallenges))
	if done, ok := e.game.CompletedAt(); ok {
		fmt.Fprintf(&b, "\nEscaped the grotto at %s", done.Format("15:04:05"))
	}
	return Result{Success: true, Message: b.String()}
}

func (e *Engine) describeRoom() string {
	room := e.game.CurrentRoom()
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n%s", room.Name, strings.TrimRight(room.Narrative, "\n"))
	if ch := room.Challenge; ch != nil && !e.game.ChallengeCompleted(ch.ID()) {
		fmt.Fprintf(&b, "\n\nChallenge: %s", ch.Description())
		if ch.Kind() == challenge.KindQuiz {
			fmt.Fprintf(&b, "\n%s", ch.Question())
			for i, opt := range ch.Options() {
				fmt.Fprintf(&b, "\n  %d. %s", i+1, opt)
			}
		}
	}
	if len(room.Exits) > 0 {
		fmt.Fprintf(&b, "\n\n%s", e.exitsLine())
	}
	return b.String()
}

func (e *Engine) exitsLine() string {
	names := e.game.CurrentRoom().ExitNames()
	if len(names) == 0 {
		return "There are no exits; your journey ends here."
	}
	return "Exits: " + strings.Join(names, ", ")
}

const helpText = `Commands:
  git <...>        run a git command in your working directory
  forward / back   move through the grotto
  go <direction>   move in a named direction
  look             describe the current room again
  answer <n>       answer the room's question
  hint             get a nudge for the current challenge
  status           show your progress
  save             save your game
  help             this list
  exit             leave the game`
