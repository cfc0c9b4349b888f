package imports

import "time"

// decisionKind is the closed set of review outcomes.
type decisionKind int

const (
	decisionApprove decisionKind = iota
	decisionReject
	decisionFlag
)

// Decision is a reviewer's verdict on an import item. Construct one
// with Approve, ApproveMatch, Reject, or Flag.
type Decision struct {
	kind    decisionKind
	videoID *int64
	notes   string
}

// Approve accepts the item for commit with whatever target resolution
// the commit phase derives (suggestion, confirmed duplicate, or a new
// catalog entry).
func Approve(notes string) Decision {
	return Decision{kind: decisionApprove, notes: notes}
}

// ApproveMatch accepts the item and pins it to a manually chosen catalog
// entry, overriding the suggested match.
func ApproveMatch(videoID int64, notes string) Decision {
	return Decision{kind: decisionApprove, videoID: &videoID, notes: notes}
}

// Reject excludes the item from commit and clears any manual target.
func Reject(notes string) Decision {
	return Decision{kind: decisionReject, notes: notes}
}

// Flag marks the item as needing attention without deciding it.
func Flag(notes string) Decision {
	return Decision{kind: decisionFlag, notes: notes}
}

// apply mutates the item per the decision kind and records the review.
func (d Decision) apply(it *Item, now time.Time) {
	switch d.kind {
	case decisionApprove:
		it.Status = ItemApproved
		if d.videoID != nil {
			it.ManualVideoID = d.videoID
		}
	case decisionReject:
		it.Status = ItemRejected
		it.ManualVideoID = nil
	case decisionFlag:
		it.Status = ItemNeedsAttention
	}
	if d.notes != "" {
		it.appendNote(d.notes)
	}
	it.ReviewedAt = &now
}
