// Package archive records scrape runs in SQLite so repeated runs of the
// one-shot scrapers stay inspectable: which job ran, when, against which
// URL, and how many records it produced. The archive is insert-only; the
// artifacts themselves live on disk as JSON files.
package archive

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Run is one recorded scrape execution.
type Run struct {
	RunID        uuid.UUID `json:"run_id"`
	Job          string    `json:"job"`
	Kind         string    `json:"kind"`
	SourceURL    string    `json:"source_url"`
	ArtifactPath string    `json:"artifact_path"`
	Records      int       `json:"records"`
	ScrapedAt    time.Time `json:"scraped_at"`
}

// Store manages the run archive using SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a run archive with the given database path.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the runs table if it doesn't exist.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		job TEXT NOT NULL,
		kind TEXT NOT NULL,
		source_url TEXT NOT NULL,
		artifact_path TEXT NOT NULL,
		records INTEGER NOT NULL,
		scraped_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts a run. The run id is generated here and returned.
func (s *Store) Record(run Run) (uuid.UUID, error) {
	run.RunID = uuid.New()
	if run.ScrapedAt.IsZero() {
		run.ScrapedAt = time.Now().UTC()
	}

	query := `
	INSERT INTO runs (run_id, job, kind, source_url, artifact_path, records, scraped_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.Exec(query,
		run.RunID.String(),
		run.Job,
		run.Kind,
		run.SourceURL,
		run.ArtifactPath,
		run.Records,
		run.ScrapedAt.Format(time.RFC3339),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert run: %w", err)
	}

	return run.RunID, nil
}

// List returns all recorded runs, most recent first.
func (s *Store) List() ([]Run, error) {
	query := `
	SELECT run_id, job, kind, source_url, artifact_path, records, scraped_at
	FROM runs
	ORDER BY scraped_at DESC
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var runID, scrapedAt string

		if err := rows.Scan(&runID, &run.Job, &run.Kind, &run.SourceURL,
			&run.ArtifactPath, &run.Records, &scrapedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		run.RunID, err = uuid.Parse(runID)
		if err != nil {
			return nil, fmt.Errorf("failed to parse run id: %w", err)
		}
		run.ScrapedAt, err = time.Parse(time.RFC3339, scrapedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse scraped_at: %w", err)
		}

		runs = append(runs, run)
	}

	return runs, rows.Err()
}
