package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/singleflight"

	"github.com/MimeLyc/srtrans/internal/chunk"
	"github.com/MimeLyc/srtrans/internal/config"
	"github.com/MimeLyc/srtrans/internal/jobs"
	"github.com/MimeLyc/srtrans/internal/persistence"
	"github.com/MimeLyc/srtrans/internal/translator"
	"github.com/MimeLyc/srtrans/pkg/file"
	"github.com/MimeLyc/srtrans/pkg/icron"
	"github.com/MimeLyc/srtrans/pkg/log"
)

// ErrBusy is returned when a batch is requested while another one runs.
var ErrBusy = errors.New("a batch is already running")

// HistoryStore receives a record of every finished batch.
type HistoryStore interface {
	SaveBatch(ctx context.Context, rec persistence.BatchRecord) error
}

// TranslatorFactory builds the remote translator for one batch.
type TranslatorFactory func(cfg config.TranslateConfig) (translator.Translator, error)

// NewRemoteTranslator is the default TranslatorFactory.
func NewRemoteTranslator(cfg config.TranslateConfig) (translator.Translator, error) {
	client, err := translator.NewClient(&translator.Config{
		APIKey:  cfg.APIKey,
		APIURL:  cfg.APIURL,
		Timeout: time.Duration(cfg.Timeout) * time.Second,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// TransService runs batches over folders, either on demand or on a cron schedule.
// Only one batch runs at a time; the board of the latest batch stays readable.
type TransService struct {
	cfg           config.Config
	cron          *cron.Cron
	access        file.Access
	store         HistoryStore
	newTranslator TranslatorFactory

	group   singleflight.Group
	running atomic.Bool
	// background batches from Start
	wg sync.WaitGroup

	mu      sync.RWMutex
	current *jobs.Board
}

type ServiceOption func(*TransService)

func WithHistoryStore(store HistoryStore) ServiceOption {
	return func(s *TransService) {
		s.store = store
	}
}

func WithFileAccess(access file.Access) ServiceOption {
	return func(s *TransService) {
		s.access = access
	}
}

func WithTranslatorFactory(f TranslatorFactory) ServiceOption {
	return func(s *TransService) {
		s.newTranslator = f
	}
}

func NewTransService(
	cfg config.Config,
	cron *cron.Cron,
	opts ...ServiceOption,
) *TransService {
	s := &TransService{
		cfg:           cfg,
		cron:          cron,
		access:        file.NewOSAccess(),
		newTranslator: NewRemoteTranslator,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule registers the watch folder on the cron. Triggers that fire while a
// run of the folder is still going join that run instead of starting another.
func (s *TransService) Schedule(ctx context.Context) error {
	dir := s.cfg.Watch.Dir
	if dir == "" {
		log.Info("No watch folder configured, scheduled runs disabled")
		return nil
	}

	runFunc := func() {
		_, _, _ = s.group.Do("watch:"+dir, func() (any, error) {
			log.Info("Run in dir %s", dir)
			if _, err := s.RunOnce(ctx, dir); err != nil && !errors.Is(err, ErrBusy) {
				log.Error("Failed to run in dir %s: %v", dir, err)
			}
			return nil, nil
		})
	}
	if _, err := s.cron.AddFunc(s.cfg.Watch.CronExpr, runFunc); err != nil {
		return fmt.Errorf("failed to schedule %q: %w", s.cfg.Watch.CronExpr, err)
	}

	if info, err := icron.Describe(s.cfg.Watch.CronExpr, time.Now()); err == nil {
		log.Info("Watching %s (%s)", dir, info)
	}
	return nil
}

// Current returns the board of the running or last finished batch, nil before the first one.
func (s *TransService) Current() *jobs.Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Running reports whether a batch is in progress.
func (s *TransService) Running() bool {
	return s.running.Load()
}

// PendingFiles lists the subtitle files of dir that still need translating.
// Outputs of earlier runs are left alone.
func PendingFiles(dir string) ([]file.SubtitleFile, error) {
	all, err := file.ListSubtitleFiles(dir)
	if err != nil {
		return nil, err
	}
	ret := make([]file.SubtitleFile, 0, len(all))
	for _, f := range all {
		if file.IsTranslated(f.Path) {
			continue
		}
		ret = append(ret, f)
	}
	return ret, nil
}

// RunOnce translates every pending file of dir and waits for the batch to finish.
func (s *TransService) RunOnce(ctx context.Context, dir string) (*BatchResult, error) {
	files, err := PendingFiles(dir)
	if err != nil {
		return nil, WrapError(err, ErrFileRead, "failed to list subtitle files").WithContext("dir", dir)
	}
	log.Info("Found %d subtitle files to translate in %s", len(files), dir)
	if len(files) == 0 {
		return &BatchResult{Success: []string{}, Failed: []FailedFile{}}, nil
	}
	return s.RunFiles(ctx, dir, files, nil)
}

// RunFiles translates the given files as one batch. onProgress may be nil.
func (s *TransService) RunFiles(
	ctx context.Context,
	folder string,
	files []file.SubtitleFile,
	onProgress BatchFileProgressFunc,
) (*BatchResult, error) {
	board, err := s.begin(folder, files)
	if err != nil {
		return nil, err
	}
	return s.execute(ctx, board, onProgress)
}

// Start lists folder and runs its pending files in the background.
// It returns the id of the new batch.
func (s *TransService) Start(ctx context.Context, folder string) (string, error) {
	files, err := PendingFiles(folder)
	if err != nil {
		return "", WrapError(err, ErrFileRead, "failed to list subtitle files").WithContext("dir", folder)
	}
	board, err := s.begin(folder, files)
	if err != nil {
		return "", err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if _, err := s.execute(ctx, board, nil); err != nil {
			log.Error("Batch %s ended with error: %v", board.ID(), err)
		}
	}()
	return board.ID(), nil
}

// Wait blocks until every batch started with Start has finished, including
// writing its history record.
func (s *TransService) Wait() {
	s.wg.Wait()
}

func (s *TransService) begin(folder string, files []file.SubtitleFile) (*jobs.Board, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	board := jobs.NewBoard(folder, files)

	s.mu.Lock()
	s.current = board
	s.mu.Unlock()
	return board, nil
}

func (s *TransService) execute(
	ctx context.Context,
	board *jobs.Board,
	onProgress BatchFileProgressFunc,
) (*BatchResult, error) {
	defer s.running.Store(false)

	job := s.cfg.Translate.Job()
	if err := job.Validate(); err != nil {
		board.Finish()
		return nil, WrapError(err, ErrConfig, "invalid job configuration")
	}
	tr, err := s.newTranslator(s.cfg.Translate)
	if err != nil {
		board.Finish()
		return nil, WrapError(err, ErrConfig, "failed to create translator")
	}

	planner := chunk.NewPlanner(s.cfg.Chunk.Count, s.cfg.Chunk.MaxCount, s.cfg.Chunk.MaxChars)
	batch := NewBatchTranslator(NewFileTranslator(s.access, tr, planner)).WithBoard(board)

	result, runErr := batch.Translate(ctx, board.Paths(), job, onProgress, func(completed, total int) {
		log.Info("Batch %s: %d/%d files done", board.ID(), completed, total)
	})

	if s.store != nil && result != nil {
		rec := historyRecord(board.Snapshot(), job, runErr != nil)
		// the batch context may already be canceled; the record is still wanted
		saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := s.store.SaveBatch(saveCtx, rec); err != nil {
			log.Error("Failed to save history of batch %s: %v", board.ID(), err)
		}
	}
	return result, runErr
}

func historyRecord(snap jobs.Snapshot, job config.JobConfig, canceled bool) persistence.BatchRecord {
	rec := persistence.BatchRecord{
		ID:         snap.ID,
		Folder:     snap.Folder,
		SourceLang: job.SourceLang,
		TargetLang: job.TargetLang,
		Total:      snap.Total,
		Canceled:   canceled,
		Files:      make([]persistence.FileRecord, len(snap.Files)),
		StartedAt:  snap.StartedAt,
		FinishedAt: snap.UpdatedAt,
	}
	for i, st := range snap.Files {
		switch st.Status {
		case jobs.StatusCompleted:
			rec.Succeeded++
		case jobs.StatusError:
			rec.Failed++
		}
		rec.Files[i] = persistence.FileRecord{
			Path:   st.File.Path,
			Status: string(st.Status),
			Error:  st.Error,
		}
	}
	return rec
}
