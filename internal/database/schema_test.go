package database

import (
	"strings"
	"testing"

	"sha2-go/internal/database/migrations"
)

func TestSchema_MatchesMigrations(t *testing.T) {
	db, err := OpenConnection(":memory:")
	if err != nil {
		t.Fatalf("OpenConnection() error = %v", err)
	}
	defer db.Close()

	if err := migrations.MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}

	got, err := DumpSchema(db)
	if err != nil {
		t.Fatalf("DumpSchema() error = %v", err)
	}

	if strings.TrimSpace(got) != strings.TrimSpace(Schema) {
		t.Errorf("schema.sql is stale, run go generate ./internal/database\ngot:\n%s\nwant:\n%s", got, Schema)
	}
}

func TestDumpSchema_SkipsMigrationTable(t *testing.T) {
	db, err := OpenConnection(":memory:")
	if err != nil {
		t.Fatalf("OpenConnection() error = %v", err)
	}
	defer db.Close()

	if err := migrations.MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}

	got, err := DumpSchema(db)
	if err != nil {
		t.Fatalf("DumpSchema() error = %v", err)
	}
	if strings.Contains(got, "schema_migrations") {
		t.Error("DumpSchema() includes schema_migrations")
	}
	if strings.Contains(got, "sqlite_sequence") {
		t.Error("DumpSchema() includes sqlite_sequence")
	}
}
