// Package dbtest opens throwaway in-memory databases for tests.
package dbtest

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/lendhub/leaddesk/pkg/database"
)

var seq atomic.Int64

// Open returns a migrated client backed by a private in-memory SQLite
// database. The database is closed when the test ends.
func Open(t testing.TB) *database.Client {
	t.Helper()

	dsn := fmt.Sprintf("file:leaddesk_%d?mode=memory&cache=shared&_fk=1", seq.Add(1))
	db, err := sqlx.Open(database.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("dbtest: open: %v", err)
	}
	// a single connection keeps the shared-cache database alive and serialises writers
	db.SetMaxOpenConns(1)

	client := &database.Client{DB: db, Driver: database.DriverSQLite}
	if err := client.Migrate(context.Background()); err != nil {
		db.Close()
		t.Fatalf("dbtest: migrate: %v", err)
	}

	t.Cleanup(func() { client.Close() })
	return client
}
