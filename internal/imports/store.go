package imports

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vjockey/vjockey/pkg/match"
)

// querier abstracts *sql.DB and *sql.Tx for shared query logic.
type querier interface {
	QueryRow(query string, args ...any) *sql.Row
	Query(query string, args ...any) (*sql.Rows, error)
	Exec(query string, args ...any) (sql.Result, error)
}

// Store persists import sessions and their items.
type Store struct {
	db *sql.DB
}

// NewStore creates a new import session store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// mapSQLiteError converts SQLite errors to custom error types.
func mapSQLiteError(err error) error {
	if err == nil {
		return nil
	}
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if strings.Contains(err.Error(), "constraint failed") {
		return fmt.Errorf("constraint violation: %w", err)
	}
	return err
}

const sessionColumns = `id, root_path, started_by, status, started_at, completed_at,
	created_video_ids, summary, notes, error_message`

// CreateSession inserts a new session row. Sets ID on the struct.
func (s *Store) CreateSession(sess *Session) error {
	ids, err := json.Marshal(idsOrEmpty(sess.CreatedVideoIDs))
	if err != nil {
		return fmt.Errorf("marshal created ids: %w", err)
	}
	result, err := s.db.Exec(`
		INSERT INTO import_sessions (root_path, started_by, status, started_at, completed_at,
			created_video_ids, summary, notes, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.RootPath, sess.StartedBy, sess.Status, sess.StartedAt, sess.CompletedAt,
		string(ids), sess.Summary, sess.Notes, sess.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	sess.ID = id
	return nil
}

func scanSession(row interface{ Scan(...any) error }) (*Session, error) {
	sess := &Session{}
	var ids string
	err := row.Scan(&sess.ID, &sess.RootPath, &sess.StartedBy, &sess.Status, &sess.StartedAt,
		&sess.CompletedAt, &ids, &sess.Summary, &sess.Notes, &sess.ErrorMessage)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(ids), &sess.CreatedVideoIDs); err != nil {
		return nil, fmt.Errorf("unmarshal created ids: %w", err)
	}
	return sess, nil
}

// GetSession retrieves a session by ID.
// Returns ErrNotFound if the session does not exist.
func (s *Store) GetSession(id int64) (*Session, error) {
	sess, err := scanSession(s.db.QueryRow(
		`SELECT `+sessionColumns+` FROM import_sessions WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get session %d: %w", id, mapSQLiteError(err))
	}
	return sess, nil
}

// ListSessions returns all sessions, newest first.
func (s *Store) ListSessions() ([]*Session, error) {
	rows, err := s.db.Query(`SELECT ` + sessionColumns + ` FROM import_sessions ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		results = append(results, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return results, nil
}

// UpdateSession updates an existing session.
// Returns ErrNotFound if the session does not exist.
func (s *Store) UpdateSession(sess *Session) error {
	ids, err := json.Marshal(idsOrEmpty(sess.CreatedVideoIDs))
	if err != nil {
		return fmt.Errorf("marshal created ids: %w", err)
	}
	result, err := s.db.Exec(`
		UPDATE import_sessions SET root_path = ?, started_by = ?, status = ?, started_at = ?,
			completed_at = ?, created_video_ids = ?, summary = ?, notes = ?, error_message = ?
		WHERE id = ?`,
		sess.RootPath, sess.StartedBy, sess.Status, sess.StartedAt, sess.CompletedAt,
		string(ids), sess.Summary, sess.Notes, sess.ErrorMessage, sess.ID,
	)
	if err != nil {
		return fmt.Errorf("update session %d: %w", sess.ID, mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update session %d: %w", sess.ID, ErrNotFound)
	}
	return nil
}

const itemColumns = `id, session_id, path, rel_path, file_name, extension, size_bytes,
	content_hash, duration, width, height, video_codec, audio_codec, bitrate, frame_rate,
	title, artist, album, year, status, duplicate_status, duplicate_of_id,
	suggested_video_id, manual_video_id, confidence, candidates, review_notes,
	committed, reviewed_at`

// AddItem inserts a new item row. Sets ID on the struct.
func (s *Store) AddItem(it *Item) error {
	candidates, err := json.Marshal(candidatesOrEmpty(it.Candidates))
	if err != nil {
		return fmt.Errorf("marshal candidates: %w", err)
	}
	result, err := s.db.Exec(`
		INSERT INTO import_items (session_id, path, rel_path, file_name, extension, size_bytes,
			content_hash, duration, width, height, video_codec, audio_codec, bitrate, frame_rate,
			title, artist, album, year, status, duplicate_status, duplicate_of_id,
			suggested_video_id, manual_video_id, confidence, candidates, review_notes,
			committed, reviewed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		it.SessionID, it.Path, it.RelPath, it.FileName, it.Extension, it.SizeBytes,
		it.ContentHash, it.Duration, it.Width, it.Height, it.VideoCodec, it.AudioCodec,
		it.Bitrate, it.FrameRate, it.Title, it.Artist, it.Album, it.Year,
		it.Status, it.DuplicateStatus, it.DuplicateOfID, it.SuggestedVideoID,
		it.ManualVideoID, it.Confidence, string(candidates), it.ReviewNotes,
		it.Committed, it.ReviewedAt,
	)
	if err != nil {
		return fmt.Errorf("insert item: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	it.ID = id
	return nil
}

func scanItem(row interface{ Scan(...any) error }) (*Item, error) {
	it := &Item{}
	var candidates string
	err := row.Scan(&it.ID, &it.SessionID, &it.Path, &it.RelPath, &it.FileName, &it.Extension,
		&it.SizeBytes, &it.ContentHash, &it.Duration, &it.Width, &it.Height, &it.VideoCodec,
		&it.AudioCodec, &it.Bitrate, &it.FrameRate, &it.Title, &it.Artist, &it.Album, &it.Year,
		&it.Status, &it.DuplicateStatus, &it.DuplicateOfID, &it.SuggestedVideoID,
		&it.ManualVideoID, &it.Confidence, &candidates, &it.ReviewNotes,
		&it.Committed, &it.ReviewedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(candidates), &it.Candidates); err != nil {
		return nil, fmt.Errorf("unmarshal candidates: %w", err)
	}
	return it, nil
}

// GetItem retrieves an item by ID.
// Returns ErrNotFound if the item does not exist.
func (s *Store) GetItem(id int64) (*Item, error) {
	it, err := scanItem(s.db.QueryRow(
		`SELECT `+itemColumns+` FROM import_items WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get item %d: %w", id, mapSQLiteError(err))
	}
	return it, nil
}

// ListItems returns a session's items in discovery order.
func (s *Store) ListItems(sessionID int64) ([]*Item, error) {
	rows, err := s.db.Query(
		`SELECT `+itemColumns+` FROM import_items WHERE session_id = ? ORDER BY id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		results = append(results, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return results, nil
}

// UpdateItem updates an existing item.
// Returns ErrNotFound if the item does not exist.
func (s *Store) UpdateItem(it *Item) error {
	candidates, err := json.Marshal(candidatesOrEmpty(it.Candidates))
	if err != nil {
		return fmt.Errorf("marshal candidates: %w", err)
	}
	result, err := s.db.Exec(`
		UPDATE import_items SET content_hash = ?, duration = ?, width = ?, height = ?,
			video_codec = ?, audio_codec = ?, bitrate = ?, frame_rate = ?,
			title = ?, artist = ?, album = ?, year = ?, status = ?, duplicate_status = ?,
			duplicate_of_id = ?, suggested_video_id = ?, manual_video_id = ?, confidence = ?,
			candidates = ?, review_notes = ?, committed = ?, reviewed_at = ?
		WHERE id = ?`,
		it.ContentHash, it.Duration, it.Width, it.Height, it.VideoCodec, it.AudioCodec,
		it.Bitrate, it.FrameRate, it.Title, it.Artist, it.Album, it.Year,
		it.Status, it.DuplicateStatus, it.DuplicateOfID, it.SuggestedVideoID,
		it.ManualVideoID, it.Confidence, string(candidates), it.ReviewNotes,
		it.Committed, it.ReviewedAt, it.ID,
	)
	if err != nil {
		return fmt.Errorf("update item %d: %w", it.ID, mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update item %d: %w", it.ID, ErrNotFound)
	}
	return nil
}

// ClearCommitted resets the committed flag on every item in a session.
func (s *Store) ClearCommitted(sessionID int64) error {
	_, err := s.db.Exec(`UPDATE import_items SET committed = 0 WHERE session_id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("clear committed for session %d: %w", sessionID, mapSQLiteError(err))
	}
	return nil
}

func idsOrEmpty(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}

func candidatesOrEmpty(c []match.Candidate) []match.Candidate {
	if c == nil {
		return []match.Candidate{}
	}
	return c
}
