package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/qpaper/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

var _ Storage = (*SQLiteStorage)(nil)

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: concurrent writers would otherwise race for the file lock.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS papers (
		id TEXT PRIMARY KEY,
		subject TEXT NOT NULL,
		course_code TEXT,
		exam_type TEXT,
		source TEXT NOT NULL,
		questions INTEGER NOT NULL DEFAULT 0,
		topics TEXT,
		parameters TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_papers_created_at ON papers(created_at);
	CREATE INDEX IF NOT EXISTS idx_papers_course_code ON papers(course_code);
	`
	_, err := db.Exec(schema)
	return err
}

// SavePaper inserts or replaces a paper. CreatedAt is set when zero.
func (s *SQLiteStorage) SavePaper(ctx context.Context, rec *models.PaperRecord) error {
	params, err := json.Marshal(rec.Parameters)
	if err != nil {
		return fmt.Errorf("failed to marshal parameters: %w", err)
	}
	topics, err := json.Marshal(rec.Topics)
	if err != nil {
		return fmt.Errorf("failed to marshal topics: %w", err)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO papers (id, subject, course_code, exam_type, source, questions, topics, parameters, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   subject = excluded.subject,
		   course_code = excluded.course_code,
		   exam_type = excluded.exam_type,
		   source = excluded.source,
		   questions = excluded.questions,
		   topics = excluded.topics,
		   parameters = excluded.parameters,
		   created_at = excluded.created_at`,
		rec.ID, rec.Parameters.Subject, rec.Parameters.CourseCode, rec.Parameters.ExamType,
		string(rec.Source), rec.Questions, string(topics), string(params), rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save paper %s: %w", rec.ID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPaper(row rowScanner) (*models.PaperRecord, error) {
	var (
		rec    models.PaperRecord
		source string
		topics sql.NullString
		params string
	)
	if err := row.Scan(&rec.ID, &source, &rec.Questions, &topics, &params, &rec.CreatedAt); err != nil {
		return nil, err
	}
	rec.Source = models.Source(source)
	if err := json.Unmarshal([]byte(params), &rec.Parameters); err != nil {
		return nil, fmt.Errorf("failed to unmarshal parameters: %w", err)
	}
	if topics.Valid && topics.String != "" {
		if err := json.Unmarshal([]byte(topics.String), &rec.Topics); err != nil {
			return nil, fmt.Errorf("failed to unmarshal topics: %w", err)
		}
	}
	return &rec, nil
}

// GetPaper returns a paper by ID, or ErrNotFound.
func (s *SQLiteStorage) GetPaper(ctx context.Context, id string) (*models.PaperRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source, questions, topics, parameters, created_at
		 FROM papers WHERE id = ?`, id,
	)
	rec, err := scanPaper(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// DeletePaper removes a paper by ID, or returns ErrNotFound.
func (s *SQLiteStorage) DeletePaper(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM papers WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// ListPapers returns papers with offset and limit, newest first.
func (s *SQLiteStorage) ListPapers(ctx context.Context, offset, limit int) ([]*models.PaperRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, questions, topics, parameters, created_at
		 FROM papers ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*models.PaperRecord
	for rows.Next() {
		rec, err := scanPaper(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// CountPapers returns the number of archived papers.
func (s *SQLiteStorage) CountPapers(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM papers`).Scan(&n)
	return n, err
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
