package persistence

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"
)

const defaultListLimit = 50

//go:embed migrations/*.sql
var migrationFiles embed.FS

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &SQLiteStore{db: db}
	if err := store.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	for _, pragma := range []string{"PRAGMA journal_mode = WAL;", "PRAGMA busy_timeout = 5000;"} {
		if _, err := s.db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("apply %q: %w", pragma, err)
		}
	}
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	entries, err := migrationFiles.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		version := migrationVersion(entry.Name())
		if entry.IsDir() || version <= 0 {
			continue
		}

		var applied int
		if err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, version,
		).Scan(&applied); err != nil {
			return fmt.Errorf("check migration %s: %w", entry.Name(), err)
		}
		if applied > 0 {
			continue
		}

		// embed.FS paths always use forward slashes
		content, err := migrationFiles.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		if _, err := s.db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("apply migration %s: %w", entry.Name(), err)
		}
		if _, err := s.db.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
			return fmt.Errorf("record migration %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// migrationVersion extracts the leading integer of a migration file name, "001_init.sql" is 1.
func migrationVersion(name string) int {
	end := strings.IndexFunc(name, func(r rune) bool { return r < '0' || r > '9' })
	if end == 0 {
		return 0
	}
	if end < 0 {
		end = len(name)
	}
	n, _ := strconv.Atoi(name[:end])
	return n
}

// SaveBatch inserts or replaces the history record of a batch.
func (s *SQLiteStore) SaveBatch(ctx context.Context, rec BatchRecord) error {
	if strings.TrimSpace(rec.ID) == "" {
		return fmt.Errorf("batch id is required")
	}
	files := rec.Files
	if files == nil {
		files = []FileRecord{}
	}
	filesJSON, err := json.Marshal(files)
	if err != nil {
		return fmt.Errorf("encode files: %w", err)
	}

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO batches (
			id, folder, source_lang, target_lang, total, succeeded, failed, canceled, files_json, started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			folder=excluded.folder,
			source_lang=excluded.source_lang,
			target_lang=excluded.target_lang,
			total=excluded.total,
			succeeded=excluded.succeeded,
			failed=excluded.failed,
			canceled=excluded.canceled,
			files_json=excluded.files_json,
			started_at=excluded.started_at,
			finished_at=excluded.finished_at`,
		rec.ID,
		rec.Folder,
		rec.SourceLang,
		rec.TargetLang,
		rec.Total,
		rec.Succeeded,
		rec.Failed,
		rec.Canceled,
		string(filesJSON),
		rec.StartedAt.UTC(),
		rec.FinishedAt.UTC(),
	)
	return err
}

// ListBatches returns the most recent batches first. limit <= 0 uses a default.
func (s *SQLiteStore) ListBatches(ctx context.Context, limit int) ([]BatchRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, folder, source_lang, target_lang, total, succeeded, failed, canceled, files_json, started_at, finished_at
		 FROM batches
		 ORDER BY finished_at DESC, id ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ret := make([]BatchRecord, 0)
	for rows.Next() {
		rec, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		ret = append(ret, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ret, nil
}

// GetBatch looks up a batch by id. ok is false when there is no such batch.
func (s *SQLiteStore) GetBatch(ctx context.Context, id string) (*BatchRecord, bool, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, folder, source_lang, target_lang, total, succeeded, failed, canceled, files_json, started_at, finished_at
		 FROM batches
		 WHERE id = ?`,
		id,
	)
	rec, err := scanBatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBatch(row scanner) (*BatchRecord, error) {
	var rec BatchRecord
	var filesJSON string
	if err := row.Scan(
		&rec.ID,
		&rec.Folder,
		&rec.SourceLang,
		&rec.TargetLang,
		&rec.Total,
		&rec.Succeeded,
		&rec.Failed,
		&rec.Canceled,
		&filesJSON,
		&rec.StartedAt,
		&rec.FinishedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(filesJSON), &rec.Files); err != nil {
		return nil, fmt.Errorf("decode files of batch %s: %w", rec.ID, err)
	}
	return &rec, nil
}
