package catalog

import (
	"fmt"
	"strings"

	"github.com/vjockey/vjockey/pkg/match"
	"github.com/vjockey/vjockey/pkg/videoname"
)

// Snapshot is a read-only index over the catalog, built once per import
// scan. It is not updated when the catalog changes; callers that need
// fresh data build a new one.
type Snapshot struct {
	videos  []*Video
	byID    map[int64]*Video
	byHash  map[string]*Video
	byPath  map[string]*Video
	entries []match.Entry
}

// NewSnapshot indexes the given videos by id, content hash (lower-case),
// and normalized file path, and precomputes the fuzzy-match entries.
func NewSnapshot(videos []*Video) *Snapshot {
	s := &Snapshot{
		videos: videos,
		byID:   make(map[int64]*Video, len(videos)),
		byHash: make(map[string]*Video),
		byPath: make(map[string]*Video),
	}
	for _, v := range videos {
		s.byID[v.ID] = v
		if v.ContentHash != "" {
			s.byHash[strings.ToLower(v.ContentHash)] = v
		}
		if v.FilePath != "" {
			s.byPath[videoname.NormalizePath(v.FilePath)] = v
		}
		s.entries = append(s.entries, match.Entry{
			ID:    v.ID,
			Key:   videoname.SearchKey(v.Artist, v.Title),
			Label: v.Label(),
			Notes: entryNotes(v),
		})
	}
	return s
}

// Len returns the number of indexed videos.
func (s *Snapshot) Len() int { return len(s.videos) }

// ByID returns the indexed video with the given id, or nil.
func (s *Snapshot) ByID(id int64) *Video { return s.byID[id] }

// ByHash returns the video with the given content hash, or nil. Lookup
// is case-insensitive.
func (s *Snapshot) ByHash(hash string) *Video {
	if hash == "" {
		return nil
	}
	return s.byHash[strings.ToLower(hash)]
}

// ByPath returns the video whose stored file path normalizes to the same
// form as the given path, or nil.
func (s *Snapshot) ByPath(path string) *Video {
	if path == "" {
		return nil
	}
	return s.byPath[videoname.NormalizePath(path)]
}

// Entries returns the precomputed match index for candidate scoring.
func (s *Snapshot) Entries() []match.Entry { return s.entries }

// entryNotes builds the human-readable disambiguation string shown next
// to a candidate: year, resolution, and duration when known.
func entryNotes(v *Video) string {
	var parts []string
	if v.Year > 0 {
		parts = append(parts, fmt.Sprintf("%d", v.Year))
	}
	if res := v.Resolution(); res != "" {
		parts = append(parts, res)
	}
	if v.Duration > 0 {
		parts = append(parts, fmt.Sprintf("%dm%02ds", v.Duration/60, v.Duration%60))
	}
	return strings.Join(parts, ", ")
}
