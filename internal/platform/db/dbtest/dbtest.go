// Package dbtest provides a capturing transaction for repository tests: it
// records the SQL text and arguments a repository emits without talking to a
// database.
package dbtest

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/medjournal/journal/internal/platform/db"
)

// ErrCaptured short-circuits row iteration once the SQL has been recorded.
var ErrCaptured = errors.New("query captured")

// CaptureTx satisfies pgx.Tx through the embedded interface; only Exec,
// Query and QueryRow are implemented. QueryRow scans zero values so callers
// that read a COUNT before their data query proceed to emit it.
type CaptureTx struct {
	pgx.Tx
	Queries []string
	Args    [][]interface{}
}

func (t *CaptureTx) record(sql string, args []interface{}) {
	t.Queries = append(t.Queries, sql)
	t.Args = append(t.Args, args)
}

func (t *CaptureTx) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	t.record(sql, args)
	return pgconn.CommandTag{}, nil
}

func (t *CaptureTx) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	t.record(sql, args)
	return nil, ErrCaptured
}

func (t *CaptureTx) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	t.record(sql, args)
	return zeroRow{}
}

type zeroRow struct{}

func (zeroRow) Scan(dest ...interface{}) error { return nil }

// Context returns a context carrying the capture transaction, so repository
// connections join it instead of a pool.
func Context(tx *CaptureTx) context.Context {
	return context.WithValue(context.Background(), db.DBTxKey, tx)
}
