// Package imports implements the folder-import engine: scanning a root
// directory into a review session, detecting duplicates against the
// catalog, and committing or rolling back accepted items.
package imports

import (
	"time"

	"github.com/vjockey/vjockey/pkg/match"
)

// SessionStatus tracks the lifecycle of an import session.
type SessionStatus string

const (
	SessionScanning       SessionStatus = "scanning"
	SessionReadyForReview SessionStatus = "ready_for_review"
	SessionCommitting     SessionStatus = "committing"
	SessionCompleted      SessionStatus = "completed"
	SessionRolledBack     SessionStatus = "rolled_back"
)

// ItemStatus tracks the review state of a discovered file.
type ItemStatus string

const (
	ItemPendingReview  ItemStatus = "pending_review"
	ItemApproved       ItemStatus = "approved"
	ItemRejected       ItemStatus = "rejected"
	ItemNeedsAttention ItemStatus = "needs_attention"
)

// DuplicateStatus is the classifier's verdict for an item.
type DuplicateStatus string

const (
	DuplicateNone      DuplicateStatus = "none"
	DuplicatePotential DuplicateStatus = "potential"
	DuplicateConfirmed DuplicateStatus = "confirmed"
)

// Session is one import run rooted at a directory.
type Session struct {
	ID        int64
	RootPath  string
	StartedBy string
	Status    SessionStatus
	StartedAt time.Time
	// CompletedAt is set when the session reaches Completed.
	CompletedAt *time.Time
	// CreatedVideoIDs is the undo log: ids of catalog entries created by
	// Commit, in creation order. Rollback deletes exactly these.
	CreatedVideoIDs []int64
	Summary         string
	Notes           string
	ErrorMessage    string
}

// Item is one discovered file within a session, with derived metadata
// and match state. Nil pointer fields mean unknown.
type Item struct {
	ID        int64
	SessionID int64
	Path      string // absolute
	RelPath   string // relative to the session root, forward slashes
	FileName  string
	Extension string
	SizeBytes int64

	ContentHash *string
	Duration    *int // seconds
	Width       *int
	Height      *int
	VideoCodec  *string
	AudioCodec  *string
	Bitrate     *int // kbps
	FrameRate   *float64
	Title       *string
	Artist      *string
	Album       *string
	Year        *int

	Status          ItemStatus
	DuplicateStatus DuplicateStatus
	// DuplicateOfID references the catalog entry an item duplicates,
	// when known.
	DuplicateOfID *int64
	// SuggestedVideoID is the top candidate, when the list is non-empty.
	SuggestedVideoID *int64
	// ManualVideoID is a reviewer-chosen target, overriding the suggestion.
	ManualVideoID *int64
	// Confidence of the top candidate, in [0,1].
	Confidence float64
	Candidates []match.Candidate

	ReviewNotes string
	Committed   bool
	ReviewedAt  *time.Time
}

// appendNote adds a line to the item's review notes.
func (it *Item) appendNote(note string) {
	if note == "" {
		return
	}
	if it.ReviewNotes == "" {
		it.ReviewNotes = note
		return
	}
	it.ReviewNotes += "\n" + note
}
