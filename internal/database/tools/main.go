// Command tools regenerates internal/database/schema.sql from the embedded
// migrations. Run it from the repository root.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"sha2-go/internal/database"
	"sha2-go/internal/database/migrations"
)

func main() {
	if err := run(filepath.Join("internal", "database", "schema.sql")); err != nil {
		fmt.Fprintf(os.Stderr, "generate schema: %v\n", err)
		os.Exit(1)
	}
}

func run(outPath string) error {
	db, err := database.OpenConnection(":memory:")
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrations.MigrateUp(db); err != nil {
		return err
	}

	schema, err := database.DumpSchema(db)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outPath, []byte(schema), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	fmt.Printf("Generated %s from migrations\n", outPath)
	return nil
}
