package ledger

import "sha2-go/internal/model"

// Database provides an interface for ledger storage operations.
type Database interface {
	// Entry operations

	// CreateEntry stores a new digest entry. entry.ID must be set.
	CreateEntry(entry *model.Entry) error

	// FindLatestEntryByLabel returns the most recently created entry for label,
	// or nil if the label has never been recorded.
	FindLatestEntryByLabel(label string) (*model.Entry, error)

	// FindEntriesByDigest returns every entry whose digest equals the given
	// lowercase hex string, oldest first.
	FindEntriesByDigest(digest string) ([]*model.Entry, error)

	// ListEntries returns entries oldest first. An empty label lists all entries.
	ListEntries(label string) ([]*model.Entry, error)

	// Operation tracking

	// CreateOperation records the start of a mutating command.
	CreateOperation(operation string, parameters string) (*model.Operation, error)

	// FinishOperation stamps the finish time and final status.
	FinishOperation(id int64, status string) error

	// ListOperations returns the most recent operations, newest first.
	ListOperations(limit int) ([]*model.Operation, error)

	// CheckMigrations verifies the schema is at the latest version.
	CheckMigrations() error

	// BackupTo writes a consistent copy of the ledger to destPath.
	BackupTo(destPath string) error

	// Close closes the database connection.
	Close() error
}
