package catalog

import (
	"testing"
)

func snapshotFixture() *Snapshot {
	return NewSnapshot([]*Video{
		{
			ID:          1,
			Title:       "Blinding Lights",
			Artist:      "The Weeknd",
			Year:        2019,
			Duration:    261,
			Width:       1920,
			Height:      1080,
			FilePath:    `Library\Pop\The Weeknd - Blinding Lights.mp4`,
			ContentHash: "AABBCC",
		},
		{
			ID:       2,
			Title:    "Levitating",
			Artist:   "Dua Lipa",
			FilePath: "library/dua lipa - levitating.mp4",
		},
		{
			ID:    3,
			Title: "No File Yet",
		},
	})
}

func TestSnapshot_ByHash(t *testing.T) {
	s := snapshotFixture()

	if v := s.ByHash("aabbcc"); v == nil || v.ID != 1 {
		t.Errorf("ByHash(lower) = %v, want video 1", v)
	}
	if v := s.ByHash("AABBCC"); v == nil || v.ID != 1 {
		t.Errorf("ByHash(upper) = %v, want video 1", v)
	}
	if v := s.ByHash("unknown"); v != nil {
		t.Errorf("ByHash(unknown) = %v, want nil", v)
	}
	if v := s.ByHash(""); v != nil {
		t.Errorf("ByHash(empty) = %v, want nil", v)
	}
}

func TestSnapshot_ByPath(t *testing.T) {
	s := snapshotFixture()

	// Backslashes and case differences normalize to the same form.
	if v := s.ByPath("library/pop/the weeknd - blinding lights.mp4"); v == nil || v.ID != 1 {
		t.Errorf("ByPath = %v, want video 1", v)
	}
	if v := s.ByPath(`LIBRARY\Pop\The Weeknd - Blinding Lights.mp4`); v == nil || v.ID != 1 {
		t.Errorf("ByPath with backslashes = %v, want video 1", v)
	}
	if v := s.ByPath("library/other.mp4"); v != nil {
		t.Errorf("ByPath(miss) = %v, want nil", v)
	}
}

func TestSnapshot_Entries(t *testing.T) {
	s := snapshotFixture()

	entries := s.Entries()
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}
	if entries[0].Key != "the weeknd blinding lights" {
		t.Errorf("Key = %q", entries[0].Key)
	}
	if entries[0].Label != "The Weeknd - Blinding Lights" {
		t.Errorf("Label = %q", entries[0].Label)
	}
	if entries[0].Notes != "2019, 1920x1080, 4m21s" {
		t.Errorf("Notes = %q", entries[0].Notes)
	}
	// Video without artist labels by title alone.
	if entries[2].Label != "No File Yet" {
		t.Errorf("Label = %q", entries[2].Label)
	}
}

func TestSnapshot_ByID(t *testing.T) {
	s := snapshotFixture()
	if v := s.ByID(2); v == nil || v.Title != "Levitating" {
		t.Errorf("ByID(2) = %v", v)
	}
	if v := s.ByID(99); v != nil {
		t.Errorf("ByID(99) = %v, want nil", v)
	}
}
