package hunt

import (
	"encoding/json"
	"testing"
)

func TestNewSeedState(t *testing.T) {
	s := NewSeedState()

	if s.Total() != SeedItemCount {
		t.Fatalf("expected %d items, got %d", SeedItemCount, s.Total())
	}
	if s.FoundCount() != 0 {
		t.Errorf("fresh seed should have no found items, got %d", s.FoundCount())
	}

	seen := make(map[string]bool)
	for _, it := range s.Items {
		if it.ID == "" {
			t.Error("seed item missing ID")
		}
		if seen[it.ID] {
			t.Errorf("duplicate seed ID %s", it.ID)
		}
		seen[it.ID] = true
		if it.Title == "" || it.Clue == "" {
			t.Errorf("seed item %s missing title or clue", it.ID)
		}
		if it.Found || it.Photo != nil {
			t.Errorf("seed item %s should start unfound without photo", it.ID)
		}
	}
}

func TestStateJSONRoundTrip(t *testing.T) {
	s := NewSeedState()
	s.Items[2].Found = true
	s.Items[2].Photo = []byte{0xff, 0xd8, 0x01, 0x02}

	data, err := json.Marshal(&s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back State
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(back.Items) != len(s.Items) {
		t.Fatalf("expected %d items after round trip, got %d", len(s.Items), len(back.Items))
	}
	for i := range s.Items {
		if back.Items[i].ID != s.Items[i].ID {
			t.Errorf("item %d: ID changed across round trip", i)
		}
		if back.Items[i].Title != s.Items[i].Title || back.Items[i].Clue != s.Items[i].Clue {
			t.Errorf("item %d: title/clue changed across round trip", i)
		}
		if back.Items[i].Found != s.Items[i].Found {
			t.Errorf("item %d: found flag changed across round trip", i)
		}
	}
	if string(back.Items[2].Photo) != string(s.Items[2].Photo) {
		t.Error("photo bytes changed across round trip")
	}
}

func TestCloneDoesNotAliasPhotos(t *testing.T) {
	s := NewSeedState()
	s.Items[0].Found = true
	s.Items[0].Photo = []byte{1, 2, 3}

	c := s.Clone()
	c.Items[0].Photo[0] = 99

	if s.Items[0].Photo[0] != 1 {
		t.Error("Clone aliased the photo buffer")
	}
}

func TestIndexOf(t *testing.T) {
	s := NewSeedState()
	if got := s.IndexOf(s.Items[4].ID); got != 4 {
		t.Errorf("IndexOf known ID = %d, want 4", got)
	}
	if got := s.IndexOf("no-such-id"); got != -1 {
		t.Errorf("IndexOf unknown ID = %d, want -1", got)
	}
}
