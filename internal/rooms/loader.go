package rooms

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"gitgrotto/internal/challenge"
)

//go:embed campaign.yaml
var defaultCampaign []byte

// FSLoader reads room packs and memoizes them: loading the same path
// twice returns the identical in-memory map, so every session shares one
// immutable room graph.
type FSLoader struct {
	mu    sync.Mutex
	cache map[string]map[string]*Room
}

func NewLoader() *FSLoader {
	return &FSLoader{cache: map[string]map[string]*Room{}}
}

// Load reads the pack at path. An empty path loads the embedded default
// campaign.
func (l *FSLoader) Load(path string) (map[string]*Room, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if cached, ok := l.cache[path]; ok {
		return cached, nil
	}

	raw := defaultCampaign
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read room pack: %w", err)
		}
		raw = b
	}
	rooms, err := buildRooms(raw)
	if err != nil {
		if path != "" {
			return nil, fmt.Errorf("load room pack %s: %w", path, err)
		}
		return nil, fmt.Errorf("load default campaign: %w", err)
	}
	l.cache[path] = rooms
	return rooms, nil
}

func buildRooms(raw []byte) (map[string]*Room, error) {
	var spec PackSpec
	if err := yaml.Unmarshal(raw, &spec); err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	rooms := make(map[string]*Room, len(spec.Rooms))
	for _, rs := range spec.Rooms {
		room := &Room{
			ID:        rs.ID,
			Name:      rs.Name,
			Narrative: rs.NarrativeMD,
			Exits:     map[string]string{},
			IsStart:   rs.Start,
			IsEnd:     rs.End,
		}
		for dir, target := range rs.Exits {
			key := strings.ToLower(strings.TrimSpace(dir))
			if _, dup := room.Exits[key]; dup {
				return nil, fmt.Errorf("room %s: duplicate exit direction %q", rs.ID, key)
			}
			room.Exits[key] = target
		}
		if rs.Challenge != nil {
			ch, err := buildChallenge(rs.ID, *rs.Challenge)
			if err != nil {
				return nil, err
			}
			room.Challenge = ch
		}
		rooms[rs.ID] = room
	}
	return rooms, nil
}

func buildChallenge(roomID string, spec ChallengeSpec) (*challenge.Challenge, error) {
	if spec.Kind == "quiz" {
		ch, err := challenge.NewQuiz(spec.ID, spec.Description, spec.Question, spec.Options, spec.CorrectIndex, spec.Hint)
		if err != nil {
			return nil, fmt.Errorf("room %s: %w", roomID, err)
		}
		return ch, nil
	}

	criteria := challenge.Criteria{
		RequireInit:           spec.Criteria.RequireInit,
		RequiredFiles:         spec.Criteria.RequiredFiles,
		RequiredBranches:      spec.Criteria.RequiredBranches,
		RequiredCurrentBranch: spec.Criteria.RequiredCurrentBranch,
		RequiredCommitCount:   spec.Criteria.RequiredCommitCount,
		RequireCleanStatus:    spec.Criteria.RequireCleanStatus,
	}
	opts := []challenge.Option{}
	if spec.SuccessMD != "" {
		opts = append(opts, challenge.WithSuccessText(spec.SuccessMD))
	}
	if spec.SetupHook != "" {
		fn, ok := challenge.SetupHook(spec.SetupHook)
		if !ok {
			return nil, fmt.Errorf("room %s: unknown setup hook %q", roomID, spec.SetupHook)
		}
		opts = append(opts, challenge.WithSetup(fn))
	}
	if spec.ValidateHook != "" {
		fn, ok := challenge.ValidateHook(spec.ValidateHook)
		if !ok {
			return nil, fmt.Errorf("room %s: unknown validate hook %q", roomID, spec.ValidateHook)
		}
		opts = append(opts, challenge.WithValidate(fn))
	}

	var (
		ch  *challenge.Challenge
		err error
	)
	if spec.Kind == "scenario" {
		ch, err = challenge.NewScenario(spec.ID, spec.Description, criteria, spec.SetupFiles, opts...)
	} else {
		ch, err = challenge.NewRepository(spec.ID, spec.Description, criteria, opts...)
	}
	if err != nil {
		return nil, fmt.Errorf("room %s: %w", roomID, err)
	}
	return ch, nil
}

// StartRoom returns the room flagged as the entrance.
func StartRoom(rooms map[string]*Room) (*Room, error) {
	for _, r := range rooms {
		if r.IsStart {
			return r, nil
		}
	}
	return nil, fmt.Errorf("room map has no start room")
}
