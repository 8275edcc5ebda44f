package jobs

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MimeLyc/srtrans/pkg/file"
)

func testFiles() []file.SubtitleFile {
	return []file.SubtitleFile{
		{Path: "/subs/a.srt", Name: "a.srt", Size: 10},
		{Path: "/subs/b.srt", Name: "b.srt", Size: 20},
	}
}

func TestBoard_StartsPending(t *testing.T) {
	board := NewBoard("/subs", testFiles())

	_, err := uuid.Parse(board.ID())
	require.NoError(t, err)
	assert.Equal(t, []string{"/subs/a.srt", "/subs/b.srt"}, board.Paths())

	snap := board.Snapshot()
	assert.Equal(t, "/subs", snap.Folder)
	assert.Equal(t, 2, snap.Total)
	assert.False(t, snap.Done)
	for _, s := range snap.Files {
		assert.Equal(t, StatusPending, s.Status)
		assert.Zero(t, s.Progress)
	}
}

func TestBoard_Transitions(t *testing.T) {
	board := NewBoard("/subs", testFiles())

	board.MarkProgress(0, 10)
	board.MarkProgress(0, 60)
	board.MarkProgress(0, 25) // ignored, progress never decreases
	snap := board.Snapshot()
	assert.Equal(t, StatusTranslating, snap.Files[0].Status)
	assert.Equal(t, 60, snap.Files[0].Progress)

	board.MarkCompleted(0)
	board.SetCompleted(1)
	board.MarkProgress(1, 10)
	board.MarkFailed(1, "boom")
	board.SetCompleted(2)
	board.Finish()

	snap = board.Snapshot()
	assert.Equal(t, StatusCompleted, snap.Files[0].Status)
	assert.Equal(t, 100, snap.Files[0].Progress)
	assert.Equal(t, StatusError, snap.Files[1].Status)
	assert.Equal(t, 10, snap.Files[1].Progress)
	assert.Equal(t, "boom", snap.Files[1].Error)
	assert.Equal(t, 2, snap.Completed)
	assert.True(t, snap.Done)
}

func TestBoard_IgnoresOutOfRange(t *testing.T) {
	board := NewBoard("/subs", testFiles())

	assert.NotPanics(t, func() {
		board.MarkProgress(-1, 10)
		board.MarkCompleted(5)
		board.MarkFailed(2, "x")
	})
	for _, s := range board.Snapshot().Files {
		assert.Equal(t, StatusPending, s.Status)
	}
}

func TestBoard_SnapshotIsACopy(t *testing.T) {
	board := NewBoard("/subs", testFiles())
	snap := board.Snapshot()
	snap.Files[0].Status = StatusError

	assert.Equal(t, StatusPending, board.Snapshot().Files[0].Status)
}
