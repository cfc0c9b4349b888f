package match

import (
	"math"
	"sort"
)

// DefaultLimit is the candidate list size used when none is configured.
const DefaultLimit = 5

// Entry is one catalog row in the match index: its id, the normalized
// search key it is matched under, and display metadata carried through
// to candidates.
type Entry struct {
	ID    int64
	Key   string
	Label string
	Notes string
}

// Candidate is a scored reference to a catalog entry. Confidence is in
// [0,1], rounded to 4 decimals.
type Candidate struct {
	VideoID    int64   `json:"video_id"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Notes      string  `json:"notes,omitempty"`
}

// Matcher ranks catalog entries against a search key.
type Matcher struct {
	scorer Scorer
	limit  int
}

// NewMatcher creates a matcher using the given scorer. A limit <= 0
// falls back to DefaultLimit.
func NewMatcher(scorer Scorer, limit int) *Matcher {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Matcher{scorer: scorer, limit: limit}
}

// Top scores key against every entry and returns the highest-scoring
// candidates in descending confidence order, at most the configured
// limit. Zero scores are dropped. An empty key returns nil without
// scoring anything.
func (m *Matcher) Top(key string, entries []Entry) []Candidate {
	if key == "" {
		return nil
	}

	var candidates []Candidate
	for _, e := range entries {
		score := m.scorer.Score(key, e.Key)
		if score <= 0 {
			continue
		}
		candidates = append(candidates, Candidate{
			VideoID:    e.ID,
			Label:      e.Label,
			Confidence: roundConfidence(float64(score) / 100),
			Notes:      e.Notes,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
	if len(candidates) > m.limit {
		candidates = candidates[:m.limit]
	}
	return candidates
}

func roundConfidence(c float64) float64 {
	return math.Round(c*10000) / 10000
}
