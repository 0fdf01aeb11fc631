package game

import "time"

// Player accumulates progression state for one session.
type Player struct {
	Name                string
	CompletedRooms      map[string]struct{}
	CompletedChallenges map[string]struct{}
	MoveCount           int
	GameStarted         time.Time
}

func newPlayer(name string, started time.Time) *Player {
	return &Player{
		Name:                name,
		CompletedRooms:      map[string]struct{}{},
		CompletedChallenges: map[string]struct{}{},
		GameStarted:         started,
	}
}

// Progress is the serializable snapshot of a Game. Reconstructing a Game
// from it reproduces identical set membership and counters.
type Progress struct {
	PlayerName          string    `json:"player_name"`
	CurrentRoomID       string    `json:"current_room_id"`
	CompletedRooms      []string  `json:"completed_rooms"`
	CompletedChallenges []string  `json:"completed_challenges"`
	MoveCount           int       `json:"move_count"`
	GameStarted         time.Time `json:"game_started"`
	SavedAt             time.Time `json:"saved_at"`
}
