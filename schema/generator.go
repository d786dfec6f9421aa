// Package schema generates the SQL DDL for the events and snapshots
// tables each recorder adapter expects.
package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config configures schema generation.
type Config struct {
	// OutputFolder is the directory where the migration file will be written.
	OutputFolder string

	// OutputFilename is the name of the migration file.
	OutputFilename string

	// EventsTable is the name of the event log table.
	EventsTable string

	// SnapshotsTable is the name of the snapshot table.
	SnapshotsTable string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	timestamp := time.Now().Format("20060102150405")
	return Config{
		OutputFolder:   "migrations",
		OutputFilename: fmt.Sprintf("%s_init_event_sourcing.sql", timestamp),
		EventsTable:    "events",
		SnapshotsTable: "snapshots",
	}
}

// GeneratePostgres writes a PostgreSQL migration file.
func GeneratePostgres(config *Config) error {
	return write(config, generatePostgresSQL(config))
}

// GenerateSQLite writes a SQLite migration file.
func GenerateSQLite(config *Config) error {
	return write(config, generateSQLiteSQL(config))
}

// GenerateMySQL writes a MySQL/MariaDB migration file.
func GenerateMySQL(config *Config) error {
	return write(config, generateMySQLSQL(config))
}

func write(config *Config, sql string) error {
	if err := os.MkdirAll(config.OutputFolder, 0o755); err != nil {
		return fmt.Errorf("failed to create output folder: %w", err)
	}
	outputPath := filepath.Join(config.OutputFolder, config.OutputFilename)
	if err := os.WriteFile(outputPath, []byte(sql), 0o600); err != nil {
		return fmt.Errorf("failed to write migration file: %w", err)
	}
	return nil
}

func generatePostgresSQL(config *Config) string {
	return fmt.Sprintf(`-- Event Sourcing Infrastructure Migration
-- Generated: %s

-- Events table is the append-only global event log. notification_id
-- is the globally unique, strictly increasing notification sequence;
-- the unique constraint on (originator_id, originator_version) is the
-- optimistic-concurrency-control primitive.
CREATE TABLE IF NOT EXISTS %s (
    notification_id BIGSERIAL PRIMARY KEY,
    originator_id UUID NOT NULL,
    originator_version BIGINT NOT NULL,
    topic TEXT NOT NULL,
    state BYTEA NOT NULL,

    UNIQUE (originator_id, originator_version)
);

-- Index for versioned range reads of a single originator.
CREATE INDEX IF NOT EXISTS idx_%s_originator
    ON %s (originator_id, originator_version);

-- Snapshots table is a separate store keyed by (originator_id,
-- originator_version); it never assigns notification ids and never
-- participates in the global stream.
CREATE TABLE IF NOT EXISTS %s (
    originator_id UUID NOT NULL,
    originator_version BIGINT NOT NULL,
    topic TEXT NOT NULL,
    state BYTEA NOT NULL,

    PRIMARY KEY (originator_id, originator_version)
);
`,
		time.Now().Format(time.RFC3339),
		config.EventsTable,
		config.EventsTable, config.EventsTable,
		config.SnapshotsTable,
	)
}

func generateSQLiteSQL(config *Config) string {
	return fmt.Sprintf(`-- Event Sourcing Infrastructure Migration for SQLite
-- Generated: %s

CREATE TABLE IF NOT EXISTS %s (
    notification_id INTEGER PRIMARY KEY AUTOINCREMENT,
    originator_id TEXT NOT NULL,
    originator_version INTEGER NOT NULL,
    topic TEXT NOT NULL,
    state BLOB NOT NULL,

    UNIQUE (originator_id, originator_version)
);

CREATE INDEX IF NOT EXISTS idx_%s_originator
    ON %s (originator_id, originator_version);

CREATE TABLE IF NOT EXISTS %s (
    originator_id TEXT NOT NULL,
    originator_version INTEGER NOT NULL,
    topic TEXT NOT NULL,
    state BLOB NOT NULL,

    PRIMARY KEY (originator_id, originator_version)
);
`,
		time.Now().Format(time.RFC3339),
		config.EventsTable,
		config.EventsTable, config.EventsTable,
		config.SnapshotsTable,
	)
}

func generateMySQLSQL(config *Config) string {
	return fmt.Sprintf(`-- Event Sourcing Infrastructure Migration for MySQL/MariaDB
-- Generated: %s

CREATE TABLE IF NOT EXISTS %s (
    notification_id BIGINT AUTO_INCREMENT PRIMARY KEY,
    originator_id CHAR(36) NOT NULL,
    originator_version BIGINT NOT NULL,
    topic VARCHAR(255) NOT NULL,
    state LONGBLOB NOT NULL,

    UNIQUE KEY unique_originator_version (originator_id, originator_version)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;

CREATE INDEX idx_%s_originator
    ON %s (originator_id, originator_version);

CREATE TABLE IF NOT EXISTS %s (
    originator_id CHAR(36) NOT NULL,
    originator_version BIGINT NOT NULL,
    topic VARCHAR(255) NOT NULL,
    state LONGBLOB NOT NULL,

    PRIMARY KEY (originator_id, originator_version)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`,
		time.Now().Format(time.RFC3339),
		config.EventsTable,
		config.EventsTable, config.EventsTable,
		config.SnapshotsTable,
	)
}
