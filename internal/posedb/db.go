// Package posedb persists a catalog of imported stable pose sets in SQLite,
// so a fleet of converted mesh files can be queried without re-parsing the
// .stp files on disk.
package posedb

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
}

// NewDB opens (creating if necessary) the catalog database at path and
// applies any pending schema migrations. Foreign keys are enabled through
// the DSN so every pooled connection gets the pragma.
func NewDB(path string) (*DB, error) {
	sdb, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}

	db := &DB{sdb}
	if err := db.MigrateUp(); err != nil {
		sdb.Close()
		return nil, err
	}

	return db, nil
}
