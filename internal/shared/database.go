package shared

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-sqlite3"
)

// DriverName is the sqlite3 driver registered with the fold() SQL function.
const DriverName = "sqlite3_fsh"

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("fold", foldValue, true)
		},
	})
}

// NewDatabase opens a connection to a SQLite database at the specified path, creating the file when needed.
// The path can be ":memory:" for an in-memory database, which is pinned to a single pooled connection
// so every caller sees the same schema.
func NewDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %v", ErrStoreUnavailable, err)
	}

	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to ping database: %v", ErrStoreUnavailable, err)
	}

	return db, nil
}

// OpenDatabase opens an existing SQLite database. Unlike [NewDatabase] it never creates the file:
// a missing database means setup has not run and is reported as [ErrStoreUnavailable].
func OpenDatabase(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: database %s does not exist (run 'fsh setup database')", ErrStoreUnavailable, path)
		}
	}
	return NewDatabase(path)
}

// ConfigureDatabase sets connection pool settings for the database.
// Non-positive values leave the driver defaults untouched.
func ConfigureDatabase(db *sql.DB, maxOpenConns, maxIdleConns int) {
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}
	if maxIdleConns > 0 {
		db.SetMaxIdleConns(maxIdleConns)
	}
}
