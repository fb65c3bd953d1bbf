package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/nijaru/autocaption/errors"
	"github.com/nijaru/autocaption/models"
	"github.com/sirupsen/logrus"
)

// Record is one ledger row: a submission as the presentation layer saw it.
type Record struct {
	ID          string
	Filename    string
	Size        int64
	MIMEType    string
	Email       string
	JobID       string
	Status      models.Status
	DownloadURL string
	Message     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FromJob snapshots an UploadJob into a ledger record.
func FromJob(job *models.UploadJob) Record {
	return Record{
		ID:          job.ID,
		Filename:    job.Source.Name,
		Size:        job.Source.Size,
		MIMEType:    job.Source.ContentType(),
		Email:       job.Email,
		JobID:       job.JobID,
		Status:      job.Status,
		DownloadURL: job.DownloadURL,
		Message:     job.Message,
		CreatedAt:   job.CreatedAt,
		UpdatedAt:   job.UpdatedAt,
	}
}

// Store is a local SQLite history of submissions.
type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	logrus.WithField("path", dbPath).Debug("Opening job ledger")

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("error creating directory for database: %v", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %v", err)
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(30 * time.Minute)

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS jobs (
                    id TEXT PRIMARY KEY,
                    filename TEXT NOT NULL,
                    size INTEGER NOT NULL DEFAULT 0,
                    mime_type TEXT NOT NULL DEFAULT '',
                    email TEXT NOT NULL DEFAULT '',
                    job_id TEXT NOT NULL DEFAULT '',
                    status TEXT NOT NULL,
                    download_url TEXT NOT NULL DEFAULT '',
                    message TEXT NOT NULL DEFAULT '',
                    created_at DATETIME NOT NULL,
                    updated_at DATETIME NOT NULL
)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating table: %v", err)
	}

	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_jobs_job_id ON jobs(job_id)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating index: %v", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts or replaces a record.
func (s *Store) Save(ctx context.Context, r Record) error {
	now := time.Now().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = now
	}

	return s.exec(ctx, `INSERT INTO jobs (id, filename, size, mime_type, email, job_id, status, download_url, message, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            filename=excluded.filename, size=excluded.size, mime_type=excluded.mime_type,
            email=excluded.email, job_id=excluded.job_id, status=excluded.status,
            download_url=excluded.download_url, message=excluded.message, updated_at=excluded.updated_at`,
		r.ID, r.Filename, r.Size, r.MIMEType, r.Email, r.JobID, string(r.Status),
		r.DownloadURL, r.Message, r.CreatedAt.UTC(), r.UpdatedAt.UTC())
}

// UpdateStatus records the outcome of a poll for the job with backend id jobID.
func (s *Store) UpdateStatus(ctx context.Context, jobID string, status models.Status, downloadURL, message string) error {
	return s.exec(ctx, `UPDATE jobs SET status = ?, download_url = ?, message = ?, updated_at = ? WHERE job_id = ?`,
		string(status), downloadURL, message, time.Now().UTC(), jobID)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.exec(ctx, "DELETE FROM jobs WHERE id = ?", id)
}

func (s *Store) exec(ctx context.Context, query string, args ...any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %v", err)
	}

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("error preparing statement: %v", err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, args...); err != nil {
		tx.Rollback()
		return fmt.Errorf("error executing statement: %v", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %v", err)
	}
	return nil
}

const selectColumns = `SELECT id, filename, size, mime_type, email, job_id, status, download_url, message, created_at, updated_at FROM jobs`

// Get returns the record with the given local id.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	return s.one(ctx, selectColumns+" WHERE id = ?", id)
}

// GetByJobID returns the record for a backend job id.
func (s *Store) GetByJobID(ctx context.Context, jobID string) (Record, error) {
	return s.one(ctx, selectColumns+" WHERE job_id = ? ORDER BY created_at DESC LIMIT 1", jobID)
}

func (s *Store) one(ctx context.Context, query string, arg string) (Record, error) {
	r, err := scan(s.db.QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return Record{}, errors.NotFound("db.Get", nil, "job not found")
	}
	if err != nil {
		return Record{}, fmt.Errorf("error querying database: %v", err)
	}
	return r, nil
}

// List returns up to limit records, most recent first.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, selectColumns+" ORDER BY created_at DESC, rowid DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("error querying database: %v", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		r, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %v", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (Record, error) {
	var (
		r      Record
		status string
	)
	err := row.Scan(&r.ID, &r.Filename, &r.Size, &r.MIMEType, &r.Email, &r.JobID, &status,
		&r.DownloadURL, &r.Message, &r.CreatedAt, &r.UpdatedAt)
	r.Status = models.Status(status)
	return r, err
}
