package catalog

import (
	"fmt"
	"strings"
	"time"
)

const videoColumns = `id, title, artist, album, year, file_path, size_bytes, duration, width, height,
	video_codec, audio_codec, bitrate, frame_rate, content_hash, added_at, updated_at`

func scanVideo(row interface{ Scan(...any) error }) (*Video, error) {
	v := &Video{}
	err := row.Scan(&v.ID, &v.Title, &v.Artist, &v.Album, &v.Year, &v.FilePath, &v.SizeBytes,
		&v.Duration, &v.Width, &v.Height, &v.VideoCodec, &v.AudioCodec, &v.Bitrate,
		&v.FrameRate, &v.ContentHash, &v.AddedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func addVideo(q querier, v *Video) error {
	now := time.Now()
	result, err := q.Exec(`
		INSERT INTO videos (title, artist, album, year, file_path, size_bytes, duration, width, height,
			video_codec, audio_codec, bitrate, frame_rate, content_hash, added_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.Title, v.Artist, v.Album, v.Year, v.FilePath, v.SizeBytes, v.Duration, v.Width, v.Height,
		v.VideoCodec, v.AudioCodec, v.Bitrate, v.FrameRate, strings.ToLower(v.ContentHash), now, now,
	)
	if err != nil {
		return fmt.Errorf("insert video: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	v.ID = id
	v.AddedAt = now
	v.UpdatedAt = now
	return nil
}

// AddVideo inserts a new video into the catalog.
// Sets ID, AddedAt, and UpdatedAt on the struct.
func (s *Store) AddVideo(v *Video) error { return addVideo(s.db, v) }

// AddVideo inserts a new video within a transaction.
func (t *Tx) AddVideo(v *Video) error { return addVideo(t.tx, v) }

func getVideo(q querier, id int64) (*Video, error) {
	v, err := scanVideo(q.QueryRow(`SELECT `+videoColumns+` FROM videos WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get video %d: %w", id, mapSQLiteError(err))
	}
	return v, nil
}

// GetVideo retrieves a video by ID.
// Returns ErrNotFound if the video does not exist.
func (s *Store) GetVideo(id int64) (*Video, error) { return getVideo(s.db, id) }

// GetVideo retrieves a video by ID within a transaction.
func (t *Tx) GetVideo(id int64) (*Video, error) { return getVideo(t.tx, id) }

func listVideos(q querier) ([]*Video, error) {
	rows, err := q.Query(`SELECT ` + videoColumns + ` FROM videos ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		results = append(results, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}
	return results, nil
}

// ListVideos returns every catalog entry ordered by id. Import scans use
// this once per scan to build an in-memory Snapshot.
func (s *Store) ListVideos() ([]*Video, error) { return listVideos(s.db) }

// ListVideos returns every catalog entry within a transaction.
func (t *Tx) ListVideos() ([]*Video, error) { return listVideos(t.tx) }

func updateVideo(q querier, v *Video) error {
	now := time.Now()
	result, err := q.Exec(`
		UPDATE videos SET title = ?, artist = ?, album = ?, year = ?, file_path = ?, size_bytes = ?,
			duration = ?, width = ?, height = ?, video_codec = ?, audio_codec = ?, bitrate = ?,
			frame_rate = ?, content_hash = ?, updated_at = ?
		WHERE id = ?`,
		v.Title, v.Artist, v.Album, v.Year, v.FilePath, v.SizeBytes, v.Duration, v.Width, v.Height,
		v.VideoCodec, v.AudioCodec, v.Bitrate, v.FrameRate, strings.ToLower(v.ContentHash), now, v.ID,
	)
	if err != nil {
		return fmt.Errorf("update video %d: %w", v.ID, mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update video %d: %w", v.ID, ErrNotFound)
	}
	v.UpdatedAt = now
	return nil
}

// UpdateVideo updates an existing video.
// Sets UpdatedAt on the struct.
// Returns ErrNotFound if the video does not exist.
func (s *Store) UpdateVideo(v *Video) error { return updateVideo(s.db, v) }

// UpdateVideo updates an existing video within a transaction.
func (t *Tx) UpdateVideo(v *Video) error { return updateVideo(t.tx, v) }

func deleteVideo(q querier, id int64) error {
	_, err := q.Exec("DELETE FROM videos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete video %d: %w", id, mapSQLiteError(err))
	}
	return nil
}

// DeleteVideo removes a video by ID.
// This operation is idempotent - no error is returned if the video does not exist.
func (s *Store) DeleteVideo(id int64) error { return deleteVideo(s.db, id) }

// DeleteVideo removes a video by ID within a transaction.
func (t *Tx) DeleteVideo(id int64) error { return deleteVideo(t.tx, id) }
