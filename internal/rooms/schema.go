package rooms

import (
	"fmt"
	"regexp"
)

const (
	PackKind               = "room_pack"
	SupportedSchemaVersion = 1
)

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{1,63}$`)

// PackSpec is the YAML shape of a room pack. Specs are converted into
// runtime Rooms by the loader; nothing outside this package sees them.
type PackSpec struct {
	Kind          string     `yaml:"kind"`
	SchemaVersion int        `yaml:"schema_version"`
	PackID        string     `yaml:"pack_id"`
	Name          string     `yaml:"name"`
	Rooms         []RoomSpec `yaml:"rooms"`
}

type RoomSpec struct {
	ID          string            `yaml:"id"`
	Name        string            `yaml:"name"`
	NarrativeMD string            `yaml:"narrative_md"`
	Start       bool              `yaml:"start"`
	End         bool              `yaml:"end"`
	Exits       map[string]string `yaml:"exits"`
	Challenge   *ChallengeSpec    `yaml:"challenge"`
}

type ChallengeSpec struct {
	Kind        string       `yaml:"kind"`
	ID          string       `yaml:"id"`
	Description string       `yaml:"description"`
	SuccessMD   string       `yaml:"success_md"`
	Criteria    CriteriaSpec `yaml:"criteria"`

	Question     string   `yaml:"question"`
	Options      []string `yaml:"options"`
	CorrectIndex int      `yaml:"correct_index"`
	Hint         string   `yaml:"hint"`

	SetupFiles   map[string]string `yaml:"setup_files"`
	SetupHook    string            `yaml:"setup_hook"`
	ValidateHook string            `yaml:"validate_hook"`
}

type CriteriaSpec struct {
	RequireInit           bool     `yaml:"require_init"`
	RequiredFiles         []string `yaml:"required_files"`
	RequiredBranches      []string `yaml:"required_branches"`
	RequiredCurrentBranch string   `yaml:"required_current_branch"`
	RequiredCommitCount   int      `yaml:"required_commit_count"`
	RequireCleanStatus    bool     `yaml:"require_clean_status"`
}

func (p PackSpec) Validate() error {
	if p.Kind != PackKind {
		return fmt.Errorf("kind must be %q", PackKind)
	}
	if p.SchemaVersion == 0 {
		return fmt.Errorf("schema_version is required")
	}
	if p.SchemaVersion > SupportedSchemaVersion {
		return fmt.Errorf("unsupported schema_version %d (max supported %d)", p.SchemaVersion, SupportedSchemaVersion)
	}
	if !idPattern.MatchString(p.PackID) {
		return fmt.Errorf("invalid pack_id %q", p.PackID)
	}
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(p.Rooms) == 0 {
		return fmt.Errorf("rooms must contain at least one room")
	}

	seen := map[string]struct{}{}
	starts := 0
	for _, r := range p.Rooms {
		if err := r.validate(); err != nil {
			return err
		}
		if _, ok := seen[r.ID]; ok {
			return fmt.Errorf("duplicate room id %q", r.ID)
		}
		seen[r.ID] = struct{}{}
		if r.Start {
			starts++
		}
	}
	if starts != 1 {
		return fmt.Errorf("exactly one room must be flagged start, got %d", starts)
	}
	for _, r := range p.Rooms {
		for dir, target := range r.Exits {
			if _, ok := seen[target]; !ok {
				return fmt.Errorf("room %s: exit %q points to unknown room %q", r.ID, dir, target)
			}
		}
	}
	return nil
}

func (r RoomSpec) validate() error {
	if !idPattern.MatchString(r.ID) {
		return fmt.Errorf("invalid room id %q", r.ID)
	}
	if r.Name == "" {
		return fmt.Errorf("room %s: name is required", r.ID)
	}
	if r.NarrativeMD == "" {
		return fmt.Errorf("room %s: narrative_md is required", r.ID)
	}
	if r.End && len(r.Exits) > 0 {
		return fmt.Errorf("room %s: end rooms must not have exits", r.ID)
	}
	if !r.End && len(r.Exits) == 0 {
		return fmt.Errorf("room %s: non-end rooms need at least one exit", r.ID)
	}
	if r.Start && r.End {
		return fmt.Errorf("room %s: cannot be both start and end", r.ID)
	}
	if r.Challenge != nil {
		switch r.Challenge.Kind {
		case "repository", "quiz", "scenario":
		default:
			return fmt.Errorf("room %s: unknown challenge kind %q", r.ID, r.Challenge.Kind)
		}
	}
	return nil
}
