package ledger

import (
	"fmt"

	"sha2-go/internal/model"
)

// GetHistory returns the most recent ledger operations, newest first.
func (s *Service) GetHistory(limit int) ([]*model.Operation, error) {
	if limit <= 0 {
		limit = 20
	}
	s.logger.Debug("fetching operation history", "limit", limit)

	ops, err := s.database.ListOperations(limit)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	return ops, nil
}

// Backup writes a copy of the ledger database to destPath.
func (s *Service) Backup(destPath string) error {
	if err := s.database.BackupTo(destPath); err != nil {
		return err
	}
	s.logger.Info("ledger backed up", "dest", destPath)
	return nil
}
