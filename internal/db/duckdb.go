package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

const schema = `
CREATE TABLE IF NOT EXISTS journal (
	resource    VARCHAR   NOT NULL,
	action      VARCHAR   NOT NULL,
	entity_id   BIGINT    NOT NULL,
	outcome     VARCHAR   NOT NULL,
	detail      VARCHAR,
	recorded_at TIMESTAMP NOT NULL
)`

// Open opens the DuckDB file at path, creating it and its directory if needed,
// and makes sure the journal table exists. An empty path opens an in-memory database.
func Open(path string) (*sql.DB, error) {
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open DuckDB: %w", err)
	}

	// DuckDB works best with single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create journal table: %w", err)
	}

	return db, nil
}
