package db

import (
	"database/sql"
)

// schemaSQL mirrors the subset of the slackdump archive schema that the
// loader reads. Real archives carry more columns; queries name theirs
// explicitly so extra columns are harmless.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS S_USER (
  ID TEXT NOT NULL,
  LOAD_DTTM TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
  USERNAME TEXT,
  DATA BLOB
);

CREATE TABLE IF NOT EXISTS CHANNEL (
  ID TEXT NOT NULL,
  LOAD_DTTM TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
  NAME TEXT,
  DATA BLOB
);

CREATE TABLE IF NOT EXISTS CHANNEL_USER (
  CHANNEL_ID TEXT NOT NULL,
  USER_ID TEXT NOT NULL,
  LOAD_DTTM TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS MESSAGE (
  ID INTEGER NOT NULL,
  LOAD_DTTM TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
  CHANNEL_ID TEXT NOT NULL,
  TS TEXT NOT NULL,
  PARENT_ID INTEGER,
  DATA BLOB NOT NULL
);

CREATE INDEX IF NOT EXISTS IDX_MESSAGE_CHANNEL_TS ON MESSAGE(CHANNEL_ID, TS);
`

// DBTX is the subset of *sql.DB and *sql.Tx used for writes.
type DBTX interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// InitSchema creates the archive tables in an empty database.
func InitSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(schemaSQL); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// SchemaExists reports whether the archive tables are present.
func SchemaExists(db DBTX) (bool, error) {
	row := db.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type='table' AND UPPER(name) IN ('S_USER', 'CHANNEL', 'CHANNEL_USER', 'MESSAGE')
	`)
	var count int
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count == 4, nil
}
