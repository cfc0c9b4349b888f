package imports

import (
	"fmt"
	"strings"

	"github.com/vjockey/vjockey/internal/catalog"
	"github.com/vjockey/vjockey/pkg/videoname"
)

const (
	// highConfidence is the fuzzy-match threshold above which a candidate
	// is trusted without review corroboration.
	highConfidence = 0.9

	// durationToleranceSec is the maximum duration delta for a fuzzy
	// match to be corroborated as a potential duplicate.
	durationToleranceSec = 3
)

// scanSeen tracks content hashes and normalized relative paths already
// encountered earlier in the same scan, mapped to the first file that
// carried them.
type scanSeen struct {
	hashes map[string]string
	paths  map[string]string
}

func newScanSeen() *scanSeen {
	return &scanSeen{
		hashes: make(map[string]string),
		paths:  make(map[string]string),
	}
}

func (s *scanSeen) record(it *Item) {
	if it.ContentHash != nil {
		hash := strings.ToLower(*it.ContentHash)
		if _, ok := s.hashes[hash]; !ok {
			s.hashes[hash] = it.RelPath
		}
	}
	normPath := videoname.NormalizePath(it.RelPath)
	if _, ok := s.paths[normPath]; !ok {
		s.paths[normPath] = it.RelPath
	}
}

// classifyDuplicate applies the duplicate decision order to an already
// fingerprinted and candidate-matched item. Catalog-wide signals win
// over within-session signals, which win over fuzzy corroboration.
func classifyDuplicate(it *Item, snap *catalog.Snapshot, seen *scanSeen) {
	// 1. Content hash collision against the catalog.
	if it.ContentHash != nil {
		if v := snap.ByHash(*it.ContentHash); v != nil {
			it.DuplicateStatus = DuplicateConfirmed
			it.DuplicateOfID = &v.ID
			it.appendNote(fmt.Sprintf("identical content to catalog entry %q", v.Label()))
			return
		}
	}

	// 2. Normalized path collision against the catalog.
	if v := snap.ByPath(it.RelPath); v != nil {
		it.DuplicateStatus = DuplicateConfirmed
		it.DuplicateOfID = &v.ID
		it.appendNote(fmt.Sprintf("path already cataloged as %q", v.Label()))
		return
	}

	// 3. Content hash seen earlier in this scan.
	if it.ContentHash != nil {
		if first, ok := seen.hashes[strings.ToLower(*it.ContentHash)]; ok {
			it.DuplicateStatus = DuplicateConfirmed
			it.appendNote(fmt.Sprintf("identical content to %q in this scan", first))
			return
		}
	}

	// 4. Normalized path seen earlier in this scan.
	if first, ok := seen.paths[videoname.NormalizePath(it.RelPath)]; ok {
		it.DuplicateStatus = DuplicatePotential
		it.appendNote(fmt.Sprintf("path collides with %q in this scan", first))
		return
	}

	// 5. High-confidence fuzzy match corroborated by duration.
	if it.SuggestedVideoID != nil && it.Confidence >= highConfidence && it.Duration != nil {
		if v := snap.ByID(*it.SuggestedVideoID); v != nil && v.Duration > 0 {
			delta := *it.Duration - v.Duration
			if delta < 0 {
				delta = -delta
			}
			if delta <= durationToleranceSec {
				it.DuplicateStatus = DuplicatePotential
				it.DuplicateOfID = &v.ID
				it.appendNote(fmt.Sprintf("close match to %q (duration within %ds)", v.Label(), durationToleranceSec))
				return
			}
		}
	}

	it.DuplicateStatus = DuplicateNone
}
