package rooms

import (
	"os"
	"path/filepath"
	"testing"

	"gitgrotto/internal/challenge"
)

func TestLoadDefaultCampaign(t *testing.T) {
	loader := NewLoader()
	rooms, err := loader.Load("")
	if err != nil {
		t.Fatalf("load default campaign: %v", err)
	}
	if len(rooms) == 0 {
		t.Fatal("default campaign has no rooms")
	}

	start, err := StartRoom(rooms)
	if err != nil {
		t.Fatal(err)
	}
	if start.Challenge != nil {
		t.Fatal("start room should not be gated")
	}

	ends := 0
	for _, r := range rooms {
		if r.IsEnd {
			ends++
			if len(r.Exits) != 0 {
				t.Fatalf("end room %s has exits", r.ID)
			}
		} else if len(r.Exits) == 0 {
			t.Fatalf("non-end room %s has no exits", r.ID)
		}
		for _, target := range r.Exits {
			if _, ok := rooms[target]; !ok {
				t.Fatalf("room %s exits to unknown room %s", r.ID, target)
			}
		}
	}
	if ends == 0 {
		t.Fatal("default campaign has no end room")
	}
}

func TestLoadCachesRoomMap(t *testing.T) {
	loader := NewLoader()
	first, err := loader.Load("")
	if err != nil {
		t.Fatal(err)
	}
	second, err := loader.Load("")
	if err != nil {
		t.Fatal(err)
	}
	// Cache-on-first-load: the identical map, not an equal copy.
	for id, room := range first {
		if second[id] != room {
			t.Fatalf("room %s reloaded instead of cached", id)
		}
	}
}

func TestLoadCustomPack(t *testing.T) {
	pack := `
kind: room_pack
schema_version: 1
pack_id: tiny
name: Tiny
rooms:
  - id: a
    name: A
    start: true
    narrative_md: "first room"
    exits:
      Forward: b
  - id: b
    name: B
    end: true
    narrative_md: "last room"
`
	path := filepath.Join(t.TempDir(), "rooms.yaml")
	if err := os.WriteFile(path, []byte(pack), 0o644); err != nil {
		t.Fatal(err)
	}
	rooms, err := NewLoader().Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(rooms))
	}
	// Direction keys are normalized to lower case at load time.
	if _, ok := rooms["a"].ExitTo("FORWARD"); !ok {
		t.Fatal("case-insensitive exit lookup failed")
	}
}

func TestLoadRejectsBadGraphs(t *testing.T) {
	cases := []struct {
		name string
		pack string
	}{
		{"no start", `
kind: room_pack
schema_version: 1
pack_id: bad
name: Bad
rooms:
  - id: a
    name: A
    end: true
    narrative_md: "x"
`},
		{"end with exits", `
kind: room_pack
schema_version: 1
pack_id: bad
name: Bad
rooms:
  - id: a
    name: A
    start: true
    end: true
    narrative_md: "x"
    exits:
      forward: a
`},
		{"dangling exit", `
kind: room_pack
schema_version: 1
pack_id: bad
name: Bad
rooms:
  - id: a
    name: A
    start: true
    narrative_md: "x"
    exits:
      forward: ghost
`},
		{"duplicate ids", `
kind: room_pack
schema_version: 1
pack_id: bad
name: Bad
rooms:
  - id: a
    name: A
    start: true
    narrative_md: "x"
    exits:
      forward: a
  - id: a
    name: A again
    narrative_md: "x"
    exits:
      forward: a
`},
		{"quiz with one option", `
kind: room_pack
schema_version: 1
pack_id: bad
name: Bad
rooms:
  - id: a
    name: A
    start: true
    narrative_md: "x"
    exits:
      forward: b
    challenge:
      kind: quiz
      id: q
      description: d
      question: q?
      options: ["only"]
      correct_index: 0
  - id: b
    name: B
    end: true
    narrative_md: "x"
`},
		{"unknown hook", `
kind: room_pack
schema_version: 1
pack_id: bad
name: Bad
rooms:
  - id: a
    name: A
    start: true
    narrative_md: "x"
    exits:
      forward: b
    challenge:
      kind: repository
      id: c
      description: d
      setup_hook: no_such_hook
  - id: b
    name: B
    end: true
    narrative_md: "x"
`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "rooms.yaml")
			if err := os.WriteFile(path, []byte(tc.pack), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := NewLoader().Load(path); err == nil {
				t.Fatal("expected load error")
			}
		})
	}
}

func TestDefaultCampaignChallengeKinds(t *testing.T) {
	rooms, err := NewLoader().Load("")
	if err != nil {
		t.Fatal(err)
	}
	kinds := map[challenge.Kind]int{}
	for _, r := range rooms {
		if r.Challenge != nil {
			kinds[r.Challenge.Kind()]++
		}
	}
	for _, k := range []challenge.Kind{challenge.KindRepository, challenge.KindQuiz, challenge.KindScenario} {
		if kinds[k] == 0 {
			t.Fatalf("default campaign exercises no %s challenge", k)
		}
	}
}
