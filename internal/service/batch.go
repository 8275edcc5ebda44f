package service

import (
	"context"
	"errors"

	"github.com/MimeLyc/srtrans/internal/config"
	"github.com/MimeLyc/srtrans/internal/jobs"
	"github.com/MimeLyc/srtrans/pkg/log"
)

// BatchTranslator translates a list of files one after another.
// A failing file is recorded and the batch moves on.
type BatchTranslator struct {
	files *FileTranslator
	board *jobs.Board
}

func NewBatchTranslator(files *FileTranslator) *BatchTranslator {
	return &BatchTranslator{files: files}
}

// WithBoard makes the batch publish per-file state to board.
// The board must list the same paths in the same order.
func (b *BatchTranslator) WithBoard(board *jobs.Board) *BatchTranslator {
	b.board = board
	return b
}

// Translate runs the batch. Both callbacks may be nil and are called
// synchronously from the calling goroutine.
//
// The returned error is non-nil only when cfg is invalid (no file is touched)
// or when ctx is canceled, in which case the partial result is returned too.
func (b *BatchTranslator) Translate(
	ctx context.Context,
	paths []string,
	cfg config.JobConfig,
	onFileProgress BatchFileProgressFunc,
	onOverallProgress OverallProgressFunc,
) (*BatchResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, WrapError(err, ErrConfig, "invalid job configuration")
	}

	result := &BatchResult{
		Success: make([]string, 0, len(paths)),
		Failed:  make([]FailedFile, 0),
	}
	defer func() {
		if b.board != nil {
			b.board.Finish()
		}
	}()

	log.Info("Starting batch of %d files (%s -> %s)", len(paths), cfg.SourceLang, cfg.TargetLang)
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			log.Warn("Batch canceled after %d of %d files", i, len(paths))
			return result, err
		}

		err := b.files.TranslateFile(ctx, path, cfg, func(progress int) {
			if b.board != nil {
				b.board.MarkProgress(i, progress)
			}
			if onFileProgress != nil {
				onFileProgress(i, progress)
			}
		})
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			// the interrupted file is neither a success nor a failure
			log.Warn("Batch canceled while translating %s", path)
			return result, ctxErr
		}
		if err != nil {
			logFailure(path, err)
			result.Failed = append(result.Failed, FailedFile{Path: path, Error: err.Error()})
			if b.board != nil {
				b.board.MarkFailed(i, err.Error())
			}
		} else {
			result.Success = append(result.Success, path)
			if b.board != nil {
				b.board.MarkCompleted(i)
			}
		}

		if b.board != nil {
			b.board.SetCompleted(i + 1)
		}
		if onOverallProgress != nil {
			onOverallProgress(i+1, len(paths))
		}
	}

	log.Info("Batch finished: %d succeeded, %d failed", len(result.Success), len(result.Failed))
	return result, nil
}
