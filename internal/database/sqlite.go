package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sha2-go/internal/database/migrations"
	"sha2-go/internal/ledger"
	"sha2-go/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteDatabase implements ledger.Database using SQLite.
type SQLiteDatabase struct {
	db   *sql.DB
	path string
}

// NewSQLiteDatabase opens the ledger at path.
// path can be a file path or ":memory:" for an in-memory database.
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	return &SQLiteDatabase{db: db, path: path}, nil
}

// NewSQLiteDatabaseFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteDatabaseFromDB(db *sql.DB) *SQLiteDatabase {
	return &SQLiteDatabase{db: db}
}

// OpenConnection opens and configures a SQLite database connection with appropriate PRAGMAs.
// This is exported for use in tools and tests that need a properly configured SQLite connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every pooled connection to ":memory:" would be a separate empty database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// Entry operations

func (s *SQLiteDatabase) CreateEntry(entry *model.Entry) error {
	if entry.ID == "" {
		return fmt.Errorf("creating entry: missing id")
	}
	_, err := s.db.ExecContext(context.Background(),
		`INSERT INTO entries (id, label, digest, tag, size, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Label, entry.Digest, entry.Tag, entry.Size, entry.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("creating entry: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) FindLatestEntryByLabel(label string) (*model.Entry, error) {
	row := s.db.QueryRowContext(context.Background(),
		`SELECT id, label, digest, tag, size, created_at FROM entries
		 WHERE label = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`, label)

	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding entry by label: %w", err)
	}
	return entry, nil
}

func (s *SQLiteDatabase) FindEntriesByDigest(digest string) ([]*model.Entry, error) {
	entries, err := s.queryEntries(
		`SELECT id, label, digest, tag, size, created_at FROM entries
		 WHERE digest = ? ORDER BY created_at, rowid`, digest)
	if err != nil {
		return nil, fmt.Errorf("finding entries by digest: %w", err)
	}
	return entries, nil
}

func (s *SQLiteDatabase) ListEntries(label string) ([]*model.Entry, error) {
	query := `SELECT id, label, digest, tag, size, created_at FROM entries ORDER BY created_at, rowid`
	args := []any{}
	if label != "" {
		query = `SELECT id, label, digest, tag, size, created_at FROM entries
		 WHERE label = ? ORDER BY created_at, rowid`
		args = append(args, label)
	}

	entries, err := s.queryEntries(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	return entries, nil
}

func (s *SQLiteDatabase) queryEntries(query string, args ...any) ([]*model.Entry, error) {
	rows, err := s.db.QueryContext(context.Background(), query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*model.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*model.Entry, error) {
	var e model.Entry
	if err := row.Scan(&e.ID, &e.Label, &e.Digest, &e.Tag, &e.Size, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// Operation tracking

func (s *SQLiteDatabase) CreateOperation(operation string, parameters string) (*model.Operation, error) {
	startedAt := time.Now().UTC()
	res, err := s.db.ExecContext(context.Background(),
		`INSERT INTO operations (started_at, operation, parameters) VALUES (?, ?, ?)`,
		startedAt, operation, parameters,
	)
	if err != nil {
		return nil, fmt.Errorf("creating operation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading operation id: %w", err)
	}
	return &model.Operation{
		ID:         id,
		StartedAt:  startedAt,
		Operation:  operation,
		Parameters: parameters,
		Status:     "running",
	}, nil
}

func (s *SQLiteDatabase) FinishOperation(id int64, status string) error {
	res, err := s.db.ExecContext(context.Background(),
		`UPDATE operations SET finished_at = ?, status = ? WHERE id = ?`,
		time.Now().UTC(), status, id,
	)
	if err != nil {
		return fmt.Errorf("finishing operation: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finishing operation: no operation with id %d", id)
	}
	return nil
}

func (s *SQLiteDatabase) ListOperations(limit int) ([]*model.Operation, error) {
	rows, err := s.db.QueryContext(context.Background(),
		`SELECT id, started_at, finished_at, operation, parameters, status
		 FROM operations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	defer rows.Close()

	var ops []*model.Operation
	for rows.Next() {
		var op model.Operation
		if err := rows.Scan(&op.ID, &op.StartedAt, &op.FinishedAt, &op.Operation, &op.Parameters, &op.Status); err != nil {
			return nil, fmt.Errorf("scanning operation: %w", err)
		}
		ops = append(ops, &op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	return ops, nil
}

// Path returns the database file path (or ":memory:" for in-memory databases).
func (s *SQLiteDatabase) Path() string {
	return s.path
}

// Migrate brings the schema to the latest version.
func (s *SQLiteDatabase) Migrate() error {
	return migrations.MigrateUp(s.db)
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// BackupTo creates a complete copy of the database at destPath using VACUUM INTO.
func (s *SQLiteDatabase) BackupTo(destPath string) error {
	_, err := s.db.Exec("VACUUM INTO ?", destPath)
	if err != nil {
		return fmt.Errorf("backing up database: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Compile-time check that SQLiteDatabase implements ledger.Database interface
var _ ledger.Database = (*SQLiteDatabase)(nil)
