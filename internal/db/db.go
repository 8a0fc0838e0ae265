package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS sources (
    fingerprint  TEXT PRIMARY KEY,
    path         TEXT NOT NULL,
    size         INTEGER NOT NULL,
    mod_time     TEXT NOT NULL,
    version      INTEGER NOT NULL,
    row_count    INTEGER NOT NULL,
    created_at   TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
);

CREATE TABLE IF NOT EXISTS listings (
    fingerprint         TEXT NOT NULL,
    row_index           INTEGER NOT NULL,
    listing_id          TEXT,
    name                TEXT NOT NULL,
    host_name           TEXT NOT NULL,
    neighbourhood_group TEXT NOT NULL,
    neighbourhood       TEXT NOT NULL,
    room_type           TEXT NOT NULL,
    price               REAL,
    cancellation_policy TEXT NOT NULL,
    latitude            REAL,
    longitude           REAL,
    number_of_reviews   INTEGER,
    review_rate         REAL,
    availability_365    INTEGER CHECK(availability_365 BETWEEN 0 AND 365 OR availability_365 IS NULL),
    no_smoking          INTEGER CHECK(no_smoking IN (0,1) OR no_smoking IS NULL),
    no_party            INTEGER CHECK(no_party IN (0,1) OR no_party IS NULL),
    no_pet              INTEGER CHECK(no_pet IN (0,1) OR no_pet IS NULL),
    house_rules         TEXT,
    PRIMARY KEY (fingerprint, row_index)
);

CREATE INDEX IF NOT EXISTS idx_sources_path ON sources(path);
`

// Open opens or creates the SQLite cache database and initializes the schema.
func Open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}
