package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/martium/fsh/internal/shared"
)

// conner is satisfied by [*sql.DB]; it hands out dedicated connections.
type conner interface {
	Conn(ctx context.Context) (*sql.Conn, error)
}

// withConn acquires one connection for the duration of fn and always releases it.
func withConn(ctx context.Context, db conner, fn func(conn *sql.Conn) error) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to acquire connection: %v", shared.ErrStoreUnavailable, err)
	}
	defer conn.Close()

	return fn(conn)
}

// exactlyOne reports whether a write statement touched a single row.
func exactlyOne(result sql.Result) (bool, error) {
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows == 1, nil
}
