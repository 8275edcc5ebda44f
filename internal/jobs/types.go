package jobs

import (
	"time"

	"github.com/MimeLyc/srtrans/pkg/file"
)

type Status string

const (
	StatusPending     Status = "pending"
	StatusTranslating Status = "translating"
	StatusCompleted   Status = "completed"
	StatusError       Status = "error"
)

// FileState tracks one file of a batch.
type FileState struct {
	File     file.SubtitleFile `json:"file"`
	Status   Status            `json:"status"`
	Progress int               `json:"progress"`
	Error    string            `json:"error,omitempty"`
}

// Snapshot is a point-in-time copy of a Board.
type Snapshot struct {
	ID        string      `json:"id"`
	Folder    string      `json:"folder"`
	Files     []FileState `json:"files"`
	Completed int         `json:"completed"`
	Total     int         `json:"total"`
	Done      bool        `json:"done"`
	StartedAt time.Time   `json:"started_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
