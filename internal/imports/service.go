package imports

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/vjockey/vjockey/internal/catalog"
	"github.com/vjockey/vjockey/internal/metadata"
	"github.com/vjockey/vjockey/pkg/match"
)

// Service owns the import session lifecycle: scanning, review decisions,
// commit, and rollback.
type Service struct {
	catalog     *catalog.Store
	store       *Store
	extractor   metadata.Extractor // nil if not configured
	matcher     *match.Matcher
	libraryRoot string
	log         *slog.Logger
}

// Config for the import service.
type Config struct {
	// LibraryRoot is the default scan root when a caller supplies none.
	LibraryRoot string
	// CandidateLimit caps the per-item candidate list (0 = default).
	CandidateLimit int
}

// NewService creates a new import service. The extractor may be nil, in
// which case metadata comes from filename inference only.
func NewService(db *sql.DB, cfg Config, extractor metadata.Extractor, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		catalog:     catalog.NewStore(db),
		store:       NewStore(db),
		extractor:   extractor,
		matcher:     match.NewMatcher(match.NewTokenScorer(), cfg.CandidateLimit),
		libraryRoot: cfg.LibraryRoot,
		log:         log,
	}
}

// GetSession retrieves a session by id.
func (s *Service) GetSession(id int64) (*Session, error) {
	return s.store.GetSession(id)
}

// ListSessions returns all sessions, newest first.
func (s *Service) ListSessions() ([]*Session, error) {
	return s.store.ListSessions()
}

// ListItems returns a session's items in discovery order.
func (s *Service) ListItems(sessionID int64) ([]*Item, error) {
	if _, err := s.store.GetSession(sessionID); err != nil {
		return nil, err
	}
	return s.store.ListItems(sessionID)
}

// UpdateItemDecision records a review decision on one item. The item
// must belong to the named session.
func (s *Service) UpdateItemDecision(sessionID, itemID int64, d Decision) (*Item, error) {
	if _, err := s.store.GetSession(sessionID); err != nil {
		return nil, err
	}
	it, err := s.store.GetItem(itemID)
	if err != nil {
		return nil, err
	}
	if it.SessionID != sessionID {
		return nil, fmt.Errorf("item %d: %w", itemID, ErrItemNotInSession)
	}

	d.apply(it, time.Now())
	if err := s.store.UpdateItem(it); err != nil {
		return nil, err
	}
	s.log.Debug("item decision recorded", "session_id", sessionID, "item_id", itemID, "status", it.Status)
	return it, nil
}

// Commit applies every approved item in the session to the catalog.
//
// Calling Commit on a Completed session is a no-op returning the current
// session. A failure on one item flags that item NeedsAttention and the
// commit continues; newly created catalog ids are recorded on the
// session for rollback.
func (s *Service) Commit(sessionID int64) (*Session, error) {
	sess, err := s.store.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status == SessionCompleted {
		return sess, nil
	}
	// ReadyForReview is the normal entry; Committing means a previous
	// attempt was interrupted and is resumed.
	if sess.Status != SessionReadyForReview && sess.Status != SessionCommitting {
		return nil, fmt.Errorf("commit session %d in status %s: %w", sessionID, sess.Status, ErrInvalidState)
	}

	sess.Status = SessionCommitting
	if err := s.store.UpdateSession(sess); err != nil {
		return nil, err
	}
	s.log.Info("commit started", "session_id", sessionID)

	items, err := s.store.ListItems(sessionID)
	if err != nil {
		return nil, err
	}

	committed := 0
	for _, it := range items {
		if it.Status != ItemApproved || it.Committed {
			continue
		}
		createdID, err := s.commitItem(it)
		if createdID != nil {
			// Record the new entry even when a later step failed, so the
			// undo log covers every row this commit created.
			sess.CreatedVideoIDs = append(sess.CreatedVideoIDs, *createdID)
			if uerr := s.store.UpdateSession(sess); uerr != nil {
				s.log.Warn("persist created ids", "session_id", sessionID, "error", uerr)
			}
		}
		if err != nil {
			s.log.Warn("item commit failed", "session_id", sessionID, "item_id", it.ID, "error", err)
			it.Status = ItemNeedsAttention
			it.Committed = false
			it.appendNote("commit failed: " + err.Error())
			if uerr := s.store.UpdateItem(it); uerr != nil {
				s.log.Warn("flag failed item", "item_id", it.ID, "error", uerr)
			}
			continue
		}
		committed++
	}

	now := time.Now()
	sess.Status = SessionCompleted
	sess.CompletedAt = &now
	if err := s.refreshSummary(sess); err != nil {
		s.log.Warn("refresh summary", "session_id", sessionID, "error", err)
	}
	if err := s.store.UpdateSession(sess); err != nil {
		return nil, err
	}

	s.log.Info("commit complete", "session_id", sessionID,
		"committed", committed, "created", len(sess.CreatedVideoIDs))
	return sess, nil
}

// commitItem applies one approved item to the catalog. It returns the
// id of a newly created catalog entry, or nil when an existing entry was
// updated instead. The id is returned alongside an error so the caller
// can record the entry for rollback even when a later step failed.
func (s *Service) commitItem(it *Item) (*int64, error) {
	targetID := resolveTarget(it)

	now := time.Now()
	var createdID *int64
	if targetID == nil {
		v := videoFromItem(it)
		if err := s.catalog.AddVideo(v); err != nil {
			return nil, fmt.Errorf("add video: %w", err)
		}
		createdID = &v.ID
	} else {
		tx, err := s.catalog.Begin()
		if err != nil {
			return nil, fmt.Errorf("begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		v, err := tx.GetVideo(*targetID)
		if err != nil {
			return nil, fmt.Errorf("get video %d: %w", *targetID, err)
		}
		mergeItem(v, it)
		if err := tx.UpdateVideo(v); err != nil {
			return nil, fmt.Errorf("update video %d: %w", v.ID, err)
		}
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("commit transaction: %w", err)
		}
	}

	it.Committed = true
	it.ReviewedAt = &now
	if err := s.store.UpdateItem(it); err != nil {
		return createdID, fmt.Errorf("mark item committed: %w", err)
	}
	return createdID, nil
}

// resolveTarget picks the catalog entry an approved item applies to:
// manual choice first, then a high-confidence suggestion, then a
// confirmed duplicate target. Nil means create a new entry.
func resolveTarget(it *Item) *int64 {
	if it.ManualVideoID != nil {
		return it.ManualVideoID
	}
	if it.SuggestedVideoID != nil && it.Confidence >= highConfidence {
		return it.SuggestedVideoID
	}
	if it.DuplicateStatus == DuplicateConfirmed && it.DuplicateOfID != nil {
		return it.DuplicateOfID
	}
	return nil
}

// videoFromItem builds a new catalog entry from an item's extracted
// fields. The filename stem stands in for a missing title.
func videoFromItem(it *Item) *catalog.Video {
	v := &catalog.Video{
		Title:    strValue(it.Title),
		Artist:   strValue(it.Artist),
		Album:    strValue(it.Album),
		FilePath: it.RelPath,
	}
	if v.Title == "" {
		v.Title = it.FileName
	}
	mergeItem(v, it)
	return v
}

// mergeItem applies an item's fields onto a catalog entry. A non-empty
// item field overwrites; an empty item field never clears the target.
func mergeItem(v *catalog.Video, it *Item) {
	if s := strValue(it.Title); s != "" {
		v.Title = s
	}
	if s := strValue(it.Artist); s != "" {
		v.Artist = s
	}
	if s := strValue(it.Album); s != "" {
		v.Album = s
	}
	if it.Year != nil && *it.Year > 0 {
		v.Year = *it.Year
	}
	if it.RelPath != "" {
		v.FilePath = it.RelPath
	}
	if it.SizeBytes > 0 {
		v.SizeBytes = it.SizeBytes
	}
	if it.Duration != nil && *it.Duration > 0 {
		v.Duration = *it.Duration
	}
	if it.Width != nil && *it.Width > 0 {
		v.Width = *it.Width
	}
	if it.Height != nil && *it.Height > 0 {
		v.Height = *it.Height
	}
	if s := strValue(it.VideoCodec); s != "" {
		v.VideoCodec = s
	}
	if s := strValue(it.AudioCodec); s != "" {
		v.AudioCodec = s
	}
	if it.Bitrate != nil && *it.Bitrate > 0 {
		v.Bitrate = *it.Bitrate
	}
	if it.FrameRate != nil && *it.FrameRate > 0 {
		v.FrameRate = *it.FrameRate
	}
	if it.ContentHash != nil && *it.ContentHash != "" {
		v.ContentHash = *it.ContentHash
	}
}

// Rollback deletes every catalog entry the session created and marks the
// session RolledBack. Entries that predate the import are left alone,
// even when the commit updated them. Safe to call repeatedly.
func (s *Service) Rollback(sessionID int64) (*Session, error) {
	sess, err := s.store.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status == SessionRolledBack {
		return sess, nil
	}

	for _, id := range sess.CreatedVideoIDs {
		if err := s.catalog.DeleteVideo(id); err != nil {
			return nil, fmt.Errorf("rollback session %d: %w", sessionID, err)
		}
	}
	if err := s.store.ClearCommitted(sessionID); err != nil {
		return nil, err
	}

	sess.Status = SessionRolledBack
	if err := s.refreshSummary(sess); err != nil {
		s.log.Warn("refresh summary", "session_id", sessionID, "error", err)
	}
	if err := s.store.UpdateSession(sess); err != nil {
		return nil, err
	}

	s.log.Info("rollback complete", "session_id", sessionID, "deleted", len(sess.CreatedVideoIDs))
	return sess, nil
}

// RefreshSession recomputes the session's item-count summary without
// changing its status.
func (s *Service) RefreshSession(sessionID int64) (*Session, error) {
	sess, err := s.store.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.refreshSummary(sess); err != nil {
		return nil, err
	}
	if err := s.store.UpdateSession(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Service) refreshSummary(sess *Session) error {
	items, err := s.store.ListItems(sess.ID)
	if err != nil {
		return err
	}

	var pending, approved, rejected, attention, duplicates int
	for _, it := range items {
		switch it.Status {
		case ItemPendingReview:
			pending++
		case ItemApproved:
			approved++
		case ItemRejected:
			rejected++
		case ItemNeedsAttention:
			attention++
		}
		if it.DuplicateStatus != DuplicateNone {
			duplicates++
		}
	}
	sess.Summary = fmt.Sprintf("%d items: %d pending, %d approved, %d rejected, %d need attention, %d duplicates",
		len(items), pending, approved, rejected, attention, duplicates)
	return nil
}

func strValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
