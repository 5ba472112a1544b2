// Package store provides SQLite-backed persistence for dataset records.
//
// The store is intentionally narrow: it covers only what the recommendation
// engine and the CLI need (listing, lookup, creation). The wider hub schema
// (users, files, downloads) lives outside this module.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver
)

// ErrNotFound is returned when a requested dataset does not exist.
var ErrNotFound = errors.New("dataset not found")

// schema creates the dataset tables on first open.
const schema = `
CREATE TABLE IF NOT EXISTS datasets (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	title            TEXT NOT NULL,
	description      TEXT NOT NULL DEFAULT '',
	publication_type TEXT NOT NULL DEFAULT 'none',
	tags             TEXT NOT NULL DEFAULT '',
	dataset_doi      TEXT,
	created_at       DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS authors (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	dataset_id  INTEGER NOT NULL REFERENCES datasets(id) ON DELETE CASCADE,
	name        TEXT NOT NULL,
	affiliation TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_authors_dataset ON authors(dataset_id);
`

// Store is a SQLite-backed dataset store.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens a dataset store at the given file path. Parent
// directories are created as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	// WAL mode for better concurrency between the engine and writers
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// ListDatasets returns every dataset with its authors, ordered by id. The
// listing order is stable across calls and defines the corpus row order.
func (s *Store) ListDatasets(ctx context.Context) ([]Dataset, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, publication_type, tags, COALESCE(dataset_doi, '')
		FROM datasets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing datasets: %w", err)
	}
	defer rows.Close()

	var datasets []Dataset
	byID := make(map[int64]int)
	for rows.Next() {
		var ds Dataset
		var pt string
		if err := rows.Scan(&ds.ID, &ds.Title, &ds.Description, &pt, &ds.Tags, &ds.DatasetDOI); err != nil {
			return nil, fmt.Errorf("scanning dataset: %w", err)
		}
		ds.PublicationType = PublicationType(pt)
		byID[ds.ID] = len(datasets)
		datasets = append(datasets, ds)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating datasets: %w", err)
	}

	if len(datasets) == 0 {
		return nil, nil
	}

	authorRows, err := s.db.QueryContext(ctx, `
		SELECT dataset_id, name, affiliation FROM authors ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing authors: %w", err)
	}
	defer authorRows.Close()

	for authorRows.Next() {
		var datasetID int64
		var author Author
		if err := authorRows.Scan(&datasetID, &author.Name, &author.Affiliation); err != nil {
			return nil, fmt.Errorf("scanning author: %w", err)
		}
		if idx, ok := byID[datasetID]; ok {
			datasets[idx].Authors = append(datasets[idx].Authors, author)
		}
	}
	if err := authorRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating authors: %w", err)
	}

	return datasets, nil
}

// GetDataset returns a single dataset by id, or ErrNotFound.
func (s *Store) GetDataset(ctx context.Context, id int64) (*Dataset, error) {
	var ds Dataset
	var pt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, publication_type, tags, COALESCE(dataset_doi, '')
		FROM datasets WHERE id = ?`, id).
		Scan(&ds.ID, &ds.Title, &ds.Description, &pt, &ds.Tags, &ds.DatasetDOI)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading dataset %d: %w", id, err)
	}
	ds.PublicationType = PublicationType(pt)

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, affiliation FROM authors WHERE dataset_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("loading authors for dataset %d: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var author Author
		if err := rows.Scan(&author.Name, &author.Affiliation); err != nil {
			return nil, fmt.Errorf("scanning author: %w", err)
		}
		ds.Authors = append(ds.Authors, author)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating authors: %w", err)
	}

	return &ds, nil
}

// CreateDataset inserts a dataset with its authors in one transaction and
// fills in the assigned id.
func (s *Store) CreateDataset(ctx context.Context, ds *Dataset) error {
	if ds.Title == "" {
		return errors.New("dataset title is required")
	}
	if ds.PublicationType == "" {
		ds.PublicationType = PublicationNone
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	var doi any
	if ds.DatasetDOI != "" {
		doi = ds.DatasetDOI
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO datasets (title, description, publication_type, tags, dataset_doi)
		VALUES (?, ?, ?, ?, ?)`,
		ds.Title, ds.Description, string(ds.PublicationType), ds.Tags, doi)
	if err != nil {
		return fmt.Errorf("inserting dataset: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading dataset id: %w", err)
	}
	ds.ID = id

	for _, author := range ds.Authors {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO authors (dataset_id, name, affiliation)
			VALUES (?, ?, ?)`, id, author.Name, author.Affiliation); err != nil {
			return fmt.Errorf("inserting author %q: %w", author.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing dataset: %w", err)
	}

	return nil
}

// CountDatasets returns the number of stored datasets.
func (s *Store) CountDatasets(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM datasets`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting datasets: %w", err)
	}
	return count, nil
}
