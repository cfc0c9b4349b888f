package imports

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vjockey/vjockey/internal/catalog"
	"github.com/vjockey/vjockey/internal/metadata"
	"github.com/vjockey/vjockey/internal/metadata/mocks"
)

func newTestService(t *testing.T, root string, extractor metadata.Extractor) (*Service, *catalog.Store) {
	t.Helper()
	db := setupTestDB(t)
	svc := NewService(db, Config{LibraryRoot: root}, extractor, testLogger())
	return svc, catalog.NewStore(db)
}

func hashOf(t *testing.T, path string) string {
	t.Helper()
	h, err := Fingerprint(context.Background(), path)
	require.NoError(t, err)
	return h
}

func TestStartImport_NewFileAndCatalogCopy(t *testing.T) {
	root := t.TempDir()
	copyPath := writeFile(t, root, "Old Song copy.mp4", []byte("existing video payload"))
	writeFile(t, root, "ArtistX - TrackY.mp4", []byte("fresh payload"))

	svc, cat := newTestService(t, root, nil)
	existing := &catalog.Video{
		Title:       "Old Song",
		Artist:      "ArtistZ",
		Duration:    180,
		FilePath:    "archive/artistz - old song.mp4",
		ContentHash: hashOf(t, copyPath),
	}
	require.NoError(t, cat.AddVideo(existing))

	sess, err := svc.StartImport(context.Background(), StartOptions{ComputeHashes: true})
	require.NoError(t, err)
	assert.Equal(t, SessionReadyForReview, sess.Status)

	items, err := svc.ListItems(sess.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Files are processed in path order.
	fresh, dup := items[0], items[1]
	require.Equal(t, "ArtistX - TrackY.mp4", fresh.FileName)

	assert.Equal(t, ItemPendingReview, fresh.Status)
	assert.Equal(t, DuplicateNone, fresh.DuplicateStatus)
	require.NotNil(t, fresh.Artist)
	assert.Equal(t, "ArtistX", *fresh.Artist)
	require.NotNil(t, fresh.Title)
	assert.Equal(t, "TrackY", *fresh.Title)
	assert.NotEmpty(t, fresh.Candidates)

	assert.Equal(t, DuplicateConfirmed, dup.DuplicateStatus)
	require.NotNil(t, dup.DuplicateOfID)
	assert.Equal(t, existing.ID, *dup.DuplicateOfID)
}

func TestStartImport_SessionLocalDuplicate(t *testing.T) {
	root := t.TempDir()
	content := []byte("the same bytes twice")
	writeFile(t, root, "a.mp4", content)
	writeFile(t, root, "b.mp4", content)

	svc, _ := newTestService(t, root, nil)
	sess, err := svc.StartImport(context.Background(), StartOptions{ComputeHashes: true})
	require.NoError(t, err)

	items, err := svc.ListItems(sess.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, DuplicateNone, items[0].DuplicateStatus)
	assert.Equal(t, DuplicateConfirmed, items[1].DuplicateStatus)
	assert.Nil(t, items[1].DuplicateOfID, "session-local duplicate has no catalog target")
}

func TestStartImport_ExtractorMetadata(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Some_Clip.mp4", []byte("payload"))

	ctrl := gomock.NewController(t)
	ext := mocks.NewMockExtractor(ctrl)
	ext.EXPECT().Extract(gomock.Any(), gomock.Any()).Return(&metadata.Info{
		Title:       "Real Title",
		Artist:      "Real Artist",
		Duration:    200,
		Width:       1920,
		Height:      1080,
		VideoCodec:  "h264",
		ReleaseDate: time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC),
	}, nil)

	svc, _ := newTestService(t, root, ext)
	sess, err := svc.StartImport(context.Background(), StartOptions{RefreshMetadata: true})
	require.NoError(t, err)

	items, err := svc.ListItems(sess.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	it := items[0]
	require.NotNil(t, it.Title)
	assert.Equal(t, "Real Title", *it.Title, "probed title wins over filename inference")
	require.NotNil(t, it.Artist)
	assert.Equal(t, "Real Artist", *it.Artist)
	require.NotNil(t, it.Duration)
	assert.Equal(t, 200, *it.Duration)
	require.NotNil(t, it.Year)
	assert.Equal(t, 2019, *it.Year)
}

func TestStartImport_ExtractorFailureTolerated(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "ArtistX - TrackY.mp4", []byte("payload"))

	ctrl := gomock.NewController(t)
	ext := mocks.NewMockExtractor(ctrl)
	ext.EXPECT().Extract(gomock.Any(), gomock.Any()).Return(nil, errors.New("probe failed"))

	svc, _ := newTestService(t, root, ext)
	sess, err := svc.StartImport(context.Background(), StartOptions{RefreshMetadata: true})
	require.NoError(t, err)

	items, err := svc.ListItems(sess.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Artist, "filename inference still applies")
	assert.Equal(t, "ArtistX", *items[0].Artist)
}

func TestStartImport_NoRecurse(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "top.mp4", []byte("a"))
	sub := filepath.Join(root, "nested")
	require.NoError(t, os.Mkdir(sub, 0755))
	writeFile(t, sub, "deep.mp4", []byte("b"))
	writeFile(t, root, "notes.txt", []byte("not a video"))

	svc, _ := newTestService(t, root, nil)

	flat, err := svc.StartImport(context.Background(), StartOptions{})
	require.NoError(t, err)
	flatItems, err := svc.ListItems(flat.ID)
	require.NoError(t, err)
	require.Len(t, flatItems, 1)
	assert.Equal(t, "top.mp4", flatItems[0].FileName)

	deep, err := svc.StartImport(context.Background(), StartOptions{IncludeSubdirs: true})
	require.NoError(t, err)
	deepItems, err := svc.ListItems(deep.ID)
	require.NoError(t, err)
	assert.Len(t, deepItems, 2)
}

func TestStartImport_RootNotFound(t *testing.T) {
	svc, _ := newTestService(t, "", nil)

	_, err := svc.StartImport(context.Background(), StartOptions{RootPath: "/does/not/exist"})
	assert.ErrorIs(t, err, ErrRootNotFound)

	_, err = svc.StartImport(context.Background(), StartOptions{})
	assert.ErrorIs(t, err, ErrRootNotFound, "no root and no configured library root")
}

func TestStartImport_Canceled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.mp4", []byte("a"))
	writeFile(t, root, "b.mp4", []byte("b"))

	svc, _ := newTestService(t, root, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sess, err := svc.StartImport(ctx, StartOptions{})
	require.NoError(t, err)
	assert.Equal(t, SessionReadyForReview, sess.Status, "partial session still reviewable")
	assert.Contains(t, sess.ErrorMessage, "canceled")
}

func TestUpdateItemDecision(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "ArtistX - TrackY.mp4", []byte("payload"))

	svc, _ := newTestService(t, root, nil)
	sess, err := svc.StartImport(context.Background(), StartOptions{})
	require.NoError(t, err)
	items, err := svc.ListItems(sess.ID)
	require.NoError(t, err)
	itemID := items[0].ID

	it, err := svc.UpdateItemDecision(sess.ID, itemID, Flag("needs a closer look"))
	require.NoError(t, err)
	assert.Equal(t, ItemNeedsAttention, it.Status)
	assert.Contains(t, it.ReviewNotes, "closer look")
	assert.NotNil(t, it.ReviewedAt)

	it, err = svc.UpdateItemDecision(sess.ID, itemID, ApproveMatch(42, ""))
	require.NoError(t, err)
	assert.Equal(t, ItemApproved, it.Status)
	require.NotNil(t, it.ManualVideoID)
	assert.Equal(t, int64(42), *it.ManualVideoID)

	it, err = svc.UpdateItemDecision(sess.ID, itemID, Reject("wrong cut"))
	require.NoError(t, err)
	assert.Equal(t, ItemRejected, it.Status)
	assert.Nil(t, it.ManualVideoID, "reject clears the manual target")
}

func TestUpdateItemDecision_WrongSession(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.mp4", []byte("a"))

	svc, _ := newTestService(t, root, nil)
	first, err := svc.StartImport(context.Background(), StartOptions{})
	require.NoError(t, err)
	second, err := svc.StartImport(context.Background(), StartOptions{})
	require.NoError(t, err)

	items, err := svc.ListItems(first.ID)
	require.NoError(t, err)

	_, err = svc.UpdateItemDecision(second.ID, items[0].ID, Approve(""))
	assert.ErrorIs(t, err, ErrItemNotInSession)

	_, err = svc.UpdateItemDecision(999, items[0].ID, Approve(""))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCommit_Idempotent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "ArtistX - TrackY.mp4", []byte("fresh payload"))

	svc, cat := newTestService(t, root, nil)
	sess, err := svc.StartImport(context.Background(), StartOptions{ComputeHashes: true})
	require.NoError(t, err)
	items, err := svc.ListItems(sess.ID)
	require.NoError(t, err)
	_, err = svc.UpdateItemDecision(sess.ID, items[0].ID, Approve(""))
	require.NoError(t, err)

	sess, err = svc.Commit(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, SessionCompleted, sess.Status)
	assert.NotNil(t, sess.CompletedAt)
	require.Len(t, sess.CreatedVideoIDs, 1)

	videos, err := cat.ListVideos()
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "TrackY", videos[0].Title)
	assert.Equal(t, "ArtistX", videos[0].Artist)
	assert.Equal(t, "ArtistX - TrackY.mp4", videos[0].FilePath)
	assert.NotEmpty(t, videos[0].ContentHash)

	// A second commit is a no-op.
	again, err := svc.Commit(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, SessionCompleted, again.Status)
	assert.Equal(t, sess.CreatedVideoIDs, again.CreatedVideoIDs)

	videos, err = cat.ListVideos()
	require.NoError(t, err)
	assert.Len(t, videos, 1, "re-commit must not duplicate catalog entries")
}

func TestCommit_ManualMatchMerges(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "better rip.mp4", []byte("remastered payload"))

	svc, cat := newTestService(t, root, nil)
	existing := &catalog.Video{Title: "Old Song", Artist: "ArtistZ", FilePath: "archive/old.mp4"}
	require.NoError(t, cat.AddVideo(existing))

	sess, err := svc.StartImport(context.Background(), StartOptions{ComputeHashes: true})
	require.NoError(t, err)
	items, err := svc.ListItems(sess.ID)
	require.NoError(t, err)
	_, err = svc.UpdateItemDecision(sess.ID, items[0].ID, ApproveMatch(existing.ID, "replacing old rip"))
	require.NoError(t, err)

	sess, err = svc.Commit(sess.ID)
	require.NoError(t, err)
	assert.Empty(t, sess.CreatedVideoIDs, "merging into an existing entry creates nothing")

	got, err := cat.GetVideo(existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "better rip.mp4", got.FilePath)
	assert.Equal(t, "ArtistZ", got.Artist, "empty item fields never clear the target")
	assert.NotEmpty(t, got.ContentHash)
}

func TestCommit_InvalidState(t *testing.T) {
	svc, _ := newTestService(t, t.TempDir(), nil)

	sess := &Session{RootPath: "/in", Status: SessionScanning, StartedAt: time.Now()}
	require.NoError(t, svc.store.CreateSession(sess))

	_, err := svc.Commit(sess.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestCommit_ResumesFromCommitting(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "ArtistX - TrackY.mp4", []byte("payload"))

	svc, cat := newTestService(t, root, nil)
	sess, err := svc.StartImport(context.Background(), StartOptions{})
	require.NoError(t, err)
	items, err := svc.ListItems(sess.ID)
	require.NoError(t, err)
	_, err = svc.UpdateItemDecision(sess.ID, items[0].ID, Approve(""))
	require.NoError(t, err)

	// Simulate an interrupted earlier attempt.
	sess.Status = SessionCommitting
	require.NoError(t, svc.store.UpdateSession(sess))

	sess, err = svc.Commit(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, SessionCompleted, sess.Status)

	videos, err := cat.ListVideos()
	require.NoError(t, err)
	assert.Len(t, videos, 1)
}

func TestRollback_DeletesOnlyCreated(t *testing.T) {
	root := t.TempDir()
	copyPath := writeFile(t, root, "Old Song copy.mp4", []byte("existing video payload"))
	writeFile(t, root, "ArtistQ - Brand New.mp4", []byte("fresh payload"))

	svc, cat := newTestService(t, root, nil)
	existing := &catalog.Video{
		Title:       "Old Song",
		Artist:      "ArtistZ",
		FilePath:    "archive/artistz - old song.mp4",
		ContentHash: hashOf(t, copyPath),
	}
	require.NoError(t, cat.AddVideo(existing))

	sess, err := svc.StartImport(context.Background(), StartOptions{ComputeHashes: true})
	require.NoError(t, err)
	items, err := svc.ListItems(sess.ID)
	require.NoError(t, err)
	for _, it := range items {
		_, err = svc.UpdateItemDecision(sess.ID, it.ID, Approve(""))
		require.NoError(t, err)
	}

	sess, err = svc.Commit(sess.ID)
	require.NoError(t, err)
	require.Len(t, sess.CreatedVideoIDs, 1, "the copy merges, the new file creates")
	createdID := sess.CreatedVideoIDs[0]

	sess, err = svc.Rollback(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, SessionRolledBack, sess.Status)

	_, err = cat.GetVideo(createdID)
	assert.ErrorIs(t, err, catalog.ErrNotFound, "created entry is gone")

	got, err := cat.GetVideo(existing.ID)
	require.NoError(t, err, "pre-existing entry survives rollback")
	assert.NotNil(t, got)

	items, err = svc.ListItems(sess.ID)
	require.NoError(t, err)
	for _, it := range items {
		assert.False(t, it.Committed)
	}

	// Rollback is safe to repeat.
	again, err := svc.Rollback(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, SessionRolledBack, again.Status)
}

func TestCommit_FailedItemStillRecordsCreatedEntry(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "ArtistX - TrackY.mp4", []byte("payload"))

	db := setupTestDB(t)
	svc := NewService(db, Config{LibraryRoot: root}, nil, testLogger())
	cat := catalog.NewStore(db)

	sess, err := svc.StartImport(context.Background(), StartOptions{})
	require.NoError(t, err)
	items, err := svc.ListItems(sess.ID)
	require.NoError(t, err)
	_, err = svc.UpdateItemDecision(sess.ID, items[0].ID, Approve(""))
	require.NoError(t, err)

	// Fail the item update that follows the catalog insert.
	_, err = db.Exec(`CREATE TRIGGER block_committed BEFORE UPDATE ON import_items
		WHEN NEW.committed = 1
		BEGIN SELECT RAISE(ABORT, 'committed update blocked'); END`)
	require.NoError(t, err)

	sess, err = svc.Commit(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, SessionCompleted, sess.Status)

	videos, err := cat.ListVideos()
	require.NoError(t, err)
	require.Len(t, videos, 1)
	require.Len(t, sess.CreatedVideoIDs, 1, "created entry must land in the undo log")
	assert.Equal(t, videos[0].ID, sess.CreatedVideoIDs[0])

	items, err = svc.ListItems(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, ItemNeedsAttention, items[0].Status)
	assert.Contains(t, items[0].ReviewNotes, "commit failed")

	_, err = db.Exec(`DROP TRIGGER block_committed`)
	require.NoError(t, err)

	sess, err = svc.Rollback(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, SessionRolledBack, sess.Status)

	videos, err = cat.ListVideos()
	require.NoError(t, err)
	assert.Empty(t, videos, "rollback removes the entry the failed item created")
}

func TestStartImport_UnreadableSubdirSkipped(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	root := t.TempDir()
	writeFile(t, root, "top.mp4", []byte("a"))
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Mkdir(locked, 0755))
	writeFile(t, locked, "hidden.mp4", []byte("b"))
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	svc, _ := newTestService(t, root, nil)
	sess, err := svc.StartImport(context.Background(), StartOptions{IncludeSubdirs: true})
	require.NoError(t, err, "an unreadable subdirectory must not fail the scan")

	items, err := svc.ListItems(sess.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "top.mp4", items[0].FileName)
}

func TestRefreshSession(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.mp4", []byte("a"))
	writeFile(t, root, "b.mp4", []byte("b"))

	svc, _ := newTestService(t, root, nil)
	sess, err := svc.StartImport(context.Background(), StartOptions{})
	require.NoError(t, err)
	items, err := svc.ListItems(sess.ID)
	require.NoError(t, err)
	_, err = svc.UpdateItemDecision(sess.ID, items[0].ID, Approve(""))
	require.NoError(t, err)
	_, err = svc.UpdateItemDecision(sess.ID, items[1].ID, Reject(""))
	require.NoError(t, err)

	sess, err = svc.RefreshSession(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "2 items: 0 pending, 1 approved, 1 rejected, 0 need attention, 0 duplicates", sess.Summary)
	assert.Equal(t, SessionReadyForReview, sess.Status, "refresh never changes status")
}
