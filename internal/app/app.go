package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"sha2-go/internal/config"
	"sha2-go/internal/database"
	"sha2-go/internal/ledger"
	"sha2-go/internal/model"
	"sha2-go/internal/sha2"
)

// LedgerApp is the application layer between the CLI and the ledger service.
// It constructs all dependencies from config, exposes high-level operations,
// and manages the DB lifecycle on Close.
type LedgerApp struct {
	cfg     *config.Config
	db      *database.SQLiteDatabase
	service *ledger.Service
	op      *LedgerOperation
	logFile *os.File
}

// NewLedgerApp creates a fully wired LedgerApp from the given config.
// operation identifies the CLI command being run (e.g. "Record", "Verify").
// Warnings and errors are echoed to console in addition to the log file.
// The caller must call Close when done.
func NewLedgerApp(cfg *config.Config, operation string, console io.Writer) (*LedgerApp, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	db, err := database.NewDatabaseFromConfig(cfg.Database, cfg.HostID)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	if err := db.CheckMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ledger schema out of date (run 'sha2 ledger migrate'): %w", err)
	}

	opID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, opID, console)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	svc := ledger.NewService(db, &slogAdapter{l: logger}, ledger.RealClock{}, ledger.UUIDGenerator{}, ledger.Options{
		Tag:       cfg.Hash.Tag,
		ChunkSize: cfg.Hash.ReadChunkSize,
	})

	return &LedgerApp{
		cfg:     cfg,
		db:      db,
		service: svc,
		op:      NewLedgerOperation(operation, ""),
		logFile: logFile,
	}, nil
}

// MigrateLedger opens the ledger described by cfg and applies pending migrations.
func MigrateLedger(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	db, err := database.NewDatabaseFromConfig(cfg.Database, cfg.HostID)
	if err != nil {
		return fmt.Errorf("creating database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrating ledger: %w", err)
	}
	return nil
}

// persistOperation saves the operation to the database, giving it an auto-increment ID.
// This should only be called for ledger-mutating commands.
func (a *LedgerApp) persistOperation(parameters string) error {
	if a.op.Persisted() {
		return nil
	}
	a.op.Parameters = parameters
	dbOp, err := a.db.CreateOperation(a.op.Operation, a.op.Parameters)
	if err != nil {
		return fmt.Errorf("persisting operation: %w", err)
	}
	a.op.ID = dbOp.ID
	return nil
}

// Hash digests r with the configured tag without touching the ledger.
func (a *LedgerApp) Hash(r io.Reader) (sha2.Digest, int64, error) {
	return a.service.Hash(r)
}

// Record hashes r and stores the digest under label.
func (a *LedgerApp) Record(label string, r io.Reader) (*model.Entry, error) {
	if err := a.persistOperation("label=" + label); err != nil {
		return nil, err
	}
	entry, err := a.service.Record(label, r)
	return entry, a.op.Observe(err)
}

// Verify compares r against the newest entry recorded under label.
func (a *LedgerApp) Verify(label string, r io.Reader) (*ledger.VerifyResult, error) {
	return a.service.Verify(label, r)
}

// Lookup returns the entries recorded with the given hex digest.
func (a *LedgerApp) Lookup(digest string) ([]*model.Entry, error) {
	return a.service.Lookup(digest)
}

// List returns entries for label, or every entry when label is empty.
func (a *LedgerApp) List(label string) ([]*model.Entry, error) {
	return a.service.List(label)
}

// GetHistory returns the most recent ledger operations.
func (a *LedgerApp) GetHistory(limit int) ([]*model.Operation, error) {
	return a.service.GetHistory(limit)
}

// Backup copies the ledger database to destPath.
func (a *LedgerApp) Backup(destPath string) error {
	if err := a.persistOperation("dest=" + destPath); err != nil {
		return err
	}
	return a.op.Observe(a.service.Backup(destPath))
}

// Close finalizes the operation and closes all resources.
func (a *LedgerApp) Close() error {
	var firstErr error

	if a.op.Persisted() {
		if err := a.db.FinishOperation(a.op.ID, a.op.Status); err != nil {
			firstErr = fmt.Errorf("finishing operation: %w", err)
		}
	}

	if err := a.db.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("closing database: %w", err)
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}
