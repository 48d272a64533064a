package model

import (
	"database/sql"
	"time"
)

// Entry is one recorded digest in the ledger.
type Entry struct {
	ID        string // UUID
	Label     string // caller-chosen name, not unique; newest entry wins on verify
	Digest    string // 64-char lowercase hex SHA-256
	Tag       string // tagged-hash domain, empty for plain SHA-256
	Size      int64  // input length in bytes
	CreatedAt time.Time
}

// Operation is one CLI invocation that mutated the ledger.
type Operation struct {
	ID         int64 // auto-increment
	StartedAt  time.Time
	FinishedAt sql.NullTime
	Operation  string
	Parameters string
	Status     string // "success" or "error"
}
