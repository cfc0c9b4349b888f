package imports

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/vjockey/vjockey/internal/catalog"
	"github.com/vjockey/vjockey/internal/metadata"
	"github.com/vjockey/vjockey/pkg/videoname"
)

// DefaultExtensions are the file extensions scanned when a caller
// supplies none.
var DefaultExtensions = []string{".mp4", ".mkv", ".mov", ".avi", ".webm"}

// StartOptions configure one import scan.
type StartOptions struct {
	// RootPath to scan; empty means the configured library root.
	RootPath string
	// IncludeSubdirs walks the whole tree instead of one level.
	IncludeSubdirs bool
	// Extensions to accept; empty means DefaultExtensions. Entries are
	// normalized, so "MP4" and ".mp4" are equivalent.
	Extensions []string
	// ComputeHashes fingerprints each file's content.
	ComputeHashes bool
	// RefreshMetadata probes each file with the metadata extractor.
	RefreshMetadata bool
	// StartedBy is an opaque identifier recorded on the session.
	StartedBy string
	// Progress, when set, is called after each file is processed.
	Progress func(processed int, path string)
}

// StartImport scans a directory tree into a new review session. The
// catalog is read once up front; scanning performs no catalog writes.
// One unreadable file is logged and skipped, never failing the scan.
// Cancelling the context stops the scan between files; items already
// written remain and the session still becomes reviewable.
func (s *Service) StartImport(ctx context.Context, opts StartOptions) (*Session, error) {
	root := opts.RootPath
	if root == "" {
		root = s.libraryRoot
	}
	if root == "" {
		return nil, fmt.Errorf("%w: no root path given and no library root configured", ErrRootNotFound)
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
	}

	sess := &Session{
		RootPath:  root,
		StartedBy: opts.StartedBy,
		Status:    SessionScanning,
		StartedAt: time.Now(),
	}
	if err := s.store.CreateSession(sess); err != nil {
		return nil, err
	}
	s.log.Info("scan started", "session_id", sess.ID, "root", root,
		"recursive", opts.IncludeSubdirs, "hashes", opts.ComputeHashes)

	videos, err := s.catalog.ListVideos()
	if err != nil {
		sess.ErrorMessage = err.Error()
		_ = s.store.UpdateSession(sess)
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	snap := catalog.NewSnapshot(videos)

	files, err := enumerateFiles(root, opts.IncludeSubdirs, extensionSet(opts.Extensions), s.log)
	if err != nil {
		sess.ErrorMessage = err.Error()
		_ = s.store.UpdateSession(sess)
		return nil, fmt.Errorf("enumerate %s: %w", root, err)
	}

	seen := newScanSeen()
	processed := 0
	for _, path := range files {
		if ctx.Err() != nil {
			s.log.Warn("scan canceled", "session_id", sess.ID,
				"processed", processed, "total", len(files))
			sess.ErrorMessage = fmt.Sprintf("scan canceled after %d of %d files", processed, len(files))
			break
		}
		if err := s.processFile(ctx, sess, root, path, opts, snap, seen); err != nil {
			s.log.Warn("file skipped", "session_id", sess.ID, "path", path, "error", err)
			continue
		}
		processed++
		if opts.Progress != nil {
			opts.Progress(processed, path)
		}
	}

	sess.Status = SessionReadyForReview
	if err := s.refreshSummary(sess); err != nil {
		s.log.Warn("refresh summary", "session_id", sess.ID, "error", err)
	}
	if err := s.store.UpdateSession(sess); err != nil {
		return nil, err
	}

	s.log.Info("scan complete", "session_id", sess.ID, "files", processed)
	return sess, nil
}

// processFile builds and persists one import item: base file fields,
// optional fingerprint, metadata (probed or inferred from the name),
// candidate matches, and the duplicate verdict.
func (s *Service) processFile(ctx context.Context, sess *Session, root, path string, opts StartOptions, snap *catalog.Snapshot, seen *scanSeen) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return fmt.Errorf("relative path: %w", err)
	}

	base := filepath.Base(path)
	it := &Item{
		SessionID:       sess.ID,
		Path:            path,
		RelPath:         filepath.ToSlash(rel),
		FileName:        base,
		Extension:       videoname.NormalizeExt(filepath.Ext(base)),
		SizeBytes:       info.Size(),
		Status:          ItemPendingReview,
		DuplicateStatus: DuplicateNone,
	}

	if opts.ComputeHashes {
		hash, err := Fingerprint(ctx, path)
		if err != nil {
			// No hash is better than no item; duplicate detection falls
			// back to path and fuzzy signals.
			s.log.Warn("fingerprint failed", "path", path, "error", err)
		} else {
			it.ContentHash = &hash
		}
	}

	if opts.RefreshMetadata && s.extractor != nil {
		mi, err := s.extractor.Extract(ctx, path)
		if err != nil {
			s.log.Debug("metadata extraction failed", "path", path, "error", err)
		} else if mi != nil {
			applyMetadata(it, mi)
		}
	}

	// Fill whatever the extractor left blank from the filename.
	if it.Artist == nil || it.Title == nil {
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		parsed := videoname.Parse(stem)
		if it.Artist == nil && parsed.Artist != "" {
			it.Artist = &parsed.Artist
		}
		if it.Title == nil && parsed.Title != "" {
			it.Title = &parsed.Title
		}
		if it.Year == nil && parsed.Year > 0 {
			it.Year = &parsed.Year
		}
	}

	key := videoname.SearchKey(strValue(it.Artist), strValue(it.Title))
	it.Candidates = s.matcher.Top(key, snap.Entries())
	if len(it.Candidates) > 0 {
		it.SuggestedVideoID = &it.Candidates[0].VideoID
		it.Confidence = it.Candidates[0].Confidence
	}

	classifyDuplicate(it, snap, seen)
	seen.record(it)

	return s.store.AddItem(it)
}

// applyMetadata copies probed fields onto the item, skipping unknowns.
func applyMetadata(it *Item, mi *metadata.Info) {
	if mi.Title != "" {
		it.Title = &mi.Title
	}
	if mi.Artist != "" {
		it.Artist = &mi.Artist
	}
	if mi.Album != "" {
		it.Album = &mi.Album
	}
	if mi.Duration > 0 {
		it.Duration = &mi.Duration
	}
	if mi.Width > 0 {
		it.Width = &mi.Width
	}
	if mi.Height > 0 {
		it.Height = &mi.Height
	}
	if mi.FrameRate > 0 {
		it.FrameRate = &mi.FrameRate
	}
	if mi.VideoCodec != "" {
		it.VideoCodec = &mi.VideoCodec
	}
	if mi.AudioCodec != "" {
		it.AudioCodec = &mi.AudioCodec
	}
	if mi.Bitrate > 0 {
		it.Bitrate = &mi.Bitrate
	}
	if !mi.ReleaseDate.IsZero() {
		year := mi.ReleaseDate.Year()
		it.Year = &year
	}
}

// extensionSet normalizes the allowed extensions into a lookup set.
func extensionSet(exts []string) map[string]bool {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	set := make(map[string]bool, len(exts))
	for _, e := range exts {
		if n := videoname.NormalizeExt(e); n != "" {
			set[n] = true
		}
	}
	return set
}

// enumerateFiles lists matching files under root, sorted by path. An
// unreadable subdirectory is logged and skipped; only a failure on the
// root itself aborts the enumeration.
func enumerateFiles(root string, recursive bool, exts map[string]bool, log *slog.Logger) ([]string, error) {
	var files []string

	if recursive {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == root {
					return err
				}
				log.Warn("path skipped", "path", path, "error", err)
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if exts[videoname.NormalizeExt(filepath.Ext(path))] {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if exts[videoname.NormalizeExt(filepath.Ext(e.Name()))] {
				files = append(files, filepath.Join(root, e.Name()))
			}
		}
	}

	sort.Strings(files)
	return files, nil
}
