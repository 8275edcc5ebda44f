package persistence

import "time"

// FileRecord is the final state of one file of a finished batch.
type FileRecord struct {
	Path   string `json:"path"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// BatchRecord is the history entry written once a batch is over.
// It is a report only; nothing reads it back to resume work.
type BatchRecord struct {
	ID         string       `json:"id"`
	Folder     string       `json:"folder"`
	SourceLang string       `json:"source_lang"`
	TargetLang string       `json:"target_lang"`
	Total      int          `json:"total"`
	Succeeded  int          `json:"succeeded"`
	Failed     int          `json:"failed"`
	Canceled   bool         `json:"canceled"`
	Files      []FileRecord `json:"files"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
}
