package jobs

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MimeLyc/srtrans/pkg/file"
)

// Board is the ordered list of file states of one batch, indexed by file position.
// The batch orchestrator is its only writer; the lock exists so status readers
// (HTTP API, CLI) can take snapshots while a batch runs.
type Board struct {
	id     string
	folder string

	mu        sync.RWMutex
	states    []FileState
	completed int
	done      bool
	startedAt time.Time
	updatedAt time.Time
}

// NewBoard creates a board with every file pending.
func NewBoard(folder string, files []file.SubtitleFile) *Board {
	now := time.Now()
	states := make([]FileState, len(files))
	for i, f := range files {
		states[i] = FileState{
			File:   f,
			Status: StatusPending,
		}
	}
	return &Board{
		id:        uuid.NewString(),
		folder:    folder,
		states:    states,
		startedAt: now,
		updatedAt: now,
	}
}

func (b *Board) ID() string {
	return b.id
}

func (b *Board) Folder() string {
	return b.folder
}

// Paths returns the file paths in batch order.
func (b *Board) Paths() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ret := make([]string, len(b.states))
	for i, s := range b.states {
		ret[i] = s.File.Path
	}
	return ret
}

// MarkProgress moves file i to translating. Progress never goes backwards.
func (b *Board) MarkProgress(i, progress int) {
	b.update(i, func(s *FileState) {
		s.Status = StatusTranslating
		if progress > s.Progress {
			s.Progress = min(progress, 100)
		}
	})
}

func (b *Board) MarkCompleted(i int) {
	b.update(i, func(s *FileState) {
		s.Status = StatusCompleted
		s.Progress = 100
		s.Error = ""
	})
}

func (b *Board) MarkFailed(i int, message string) {
	b.update(i, func(s *FileState) {
		s.Status = StatusError
		s.Error = message
	})
}

// SetCompleted records how many files have been attempted so far.
func (b *Board) SetCompleted(completed int) {
	b.mu.Lock()
	b.completed = completed
	b.updatedAt = time.Now()
	b.mu.Unlock()
}

// Finish marks the batch as over, whether or not every file was attempted.
func (b *Board) Finish() {
	b.mu.Lock()
	b.done = true
	b.updatedAt = time.Now()
	b.mu.Unlock()
}

func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return Snapshot{
		ID:        b.id,
		Folder:    b.folder,
		Files:     append([]FileState(nil), b.states...),
		Completed: b.completed,
		Total:     len(b.states),
		Done:      b.done,
		StartedAt: b.startedAt,
		UpdatedAt: b.updatedAt,
	}
}

func (b *Board) update(i int, fn func(s *FileState)) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if i < 0 || i >= len(b.states) {
		return
	}
	fn(&b.states[i])
	b.updatedAt = time.Now()
}
