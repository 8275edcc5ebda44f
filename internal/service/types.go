package service

// FileProgressFunc receives the progress (0-100) of the file being translated.
type FileProgressFunc func(progress int)

// BatchFileProgressFunc receives the batch index of the current file and its progress.
type BatchFileProgressFunc func(index, progress int)

// OverallProgressFunc receives the number of files attempted so far and the batch size.
type OverallProgressFunc func(completed, total int)

// FailedFile records a file that could not be translated.
type FailedFile struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// BatchResult is the outcome of one batch. Every input path ends up in exactly
// one of the two lists unless the batch was canceled.
type BatchResult struct {
	Success []string     `json:"success"`
	Failed  []FailedFile `json:"failed"`
}

// Attempted is the number of files the batch got to.
func (r *BatchResult) Attempted() int {
	if r == nil {
		return 0
	}
	return len(r.Success) + len(r.Failed)
}

// Progress milestones of a single file
const (
	progressRead      = 10
	progressParse     = 20
	progressPlan      = 25
	progressTranslate = 30
	progressChunkBase = 35
	progressChunkSpan = 50
	progressWrite     = 90
	progressDelete    = 95
	progressDone      = 100
)

// chunkProgress is the progress reported after chunk i of k has been translated.
func chunkProgress(i, k int) int {
	if k <= 0 {
		return progressChunkBase + progressChunkSpan
	}
	return progressChunkBase + progressChunkSpan*(i+1)/k
}
