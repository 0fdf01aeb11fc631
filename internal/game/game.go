package game

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gitgrotto/internal/rooms"
)

// Game is one live session: a player, a position in the room graph, and
// an active flag that drops exactly once, on entering an end room.
type Game struct {
	player      *Player
	current     *rooms.Room
	rooms       map[string]*rooms.Room
	active      bool
	completedAt time.Time
}

// New starts a fresh game at the room map's start room.
func New(playerName string, roomMap map[string]*rooms.Room) (*Game, error) {
	if strings.TrimSpace(playerName) == "" {
		return nil, errors.New("player name is required")
	}
	start, err := rooms.StartRoom(roomMap)
	if err != nil {
		return nil, err
	}
	g := &Game{
		player:  newPlayer(playerName, time.Now()),
		current: start,
		rooms:   roomMap,
		active:  true,
	}
	g.player.CompletedRooms[start.ID] = struct{}{}
	return g, nil
}

// Restore rebuilds a Game from a saved snapshot. The snapshot's current
// room must exist in the loaded room map.
func Restore(p Progress, roomMap map[string]*rooms.Room) (*Game, error) {
	current, ok := roomMap[p.CurrentRoomID]
	if !ok {
		return nil, fmt.Errorf("saved room %q is not in the loaded room map", p.CurrentRoomID)
	}
	player := newPlayer(p.PlayerName, p.GameStarted)
	player.MoveCount = p.MoveCount
	for _, id := range p.CompletedRooms {
		player.CompletedRooms[id] = struct{}{}
	}
	for _, id := range p.CompletedChallenges {
		player.CompletedChallenges[id] = struct{}{}
	}
	return &Game{
		player:  player,
		current: current,
		rooms:   roomMap,
		active:  true,
	}, nil
}

func (g *Game) Player() *Player          { return g.player }
func (g *Game) CurrentRoom() *rooms.Room { return g.current }
func (g *Game) IsActive() bool           { return g.active }

// CompletedAt reports when the game finished; ok is false while active.
func (g *Game) CompletedAt() (time.Time, bool) {
	return g.completedAt, !g.completedAt.IsZero()
}

// MoveToRoom repositions the player. Unknown targets fail without side
// effects; revisiting a room increments MoveCount but the completed-room
// set is unchanged. Entering an end room ends the game exactly once.
func (g *Game) MoveToRoom(targetID string) error {
	target, ok := g.rooms[targetID]
	if !ok {
		return fmt.Errorf("unknown room %q", targetID)
	}
	g.current = target
	g.player.MoveCount++
	g.player.CompletedRooms[target.ID] = struct{}{}
	if target.IsEnd && g.active {
		g.active = false
		g.completedAt = time.Now()
	}
	return nil
}

func (g *Game) CanExitInDirection(direction string) bool {
	_, ok := g.current.ExitTo(direction)
	return ok
}

func (g *Game) RoomIDInDirection(direction string) (string, bool) {
	return g.current.ExitTo(direction)
}

// CompleteCurrentChallenge records the current room's challenge as done.
// Rooms without a challenge make this a no-op.
func (g *Game) CompleteCurrentChallenge() {
	if g.current.Challenge == nil {
		return
	}
	g.player.CompletedChallenges[g.current.Challenge.ID()] = struct{}{}
}

// ChallengeCompleted reports whether the challenge id is already done.
func (g *Game) ChallengeCompleted(id string) bool {
	_, ok := g.player.CompletedChallenges[id]
	return ok
}

// CurrentChallengePending reports whether the current room still gates
// movement: it has a challenge the player has not completed.
func (g *Game) CurrentChallengePending() bool {
	ch := g.current.Challenge
	return ch != nil && !g.ChallengeCompleted(ch.ID())
}

// Snapshot captures the session for persistence.
func (g *Game) Snapshot() Progress {
	return Progress{
		PlayerName:          g.player.Name,
		CurrentRoomID:       g.current.ID,
		CompletedRooms:      sortedKeys(g.player.CompletedRooms),
		CompletedChallenges: sortedKeys(g.player.CompletedChallenges),
		MoveCount:           g.player.MoveCount,
		GameStarted:         g.player.GameStarted,
		SavedAt:             time.Now(),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
