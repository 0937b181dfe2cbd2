package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/sommia/sommelier/pkg/plugin"
)

func newMemStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testMigrations() []plugin.Migration {
	return []plugin.Migration{
		{
			Version:     1,
			Description: "create t",
			Up: func(tx *sql.Tx) error {
				_, err := tx.Exec("CREATE TABLE t (v TEXT)")
				return err
			},
		},
		{
			Version:     2,
			Description: "seed t",
			Up: func(tx *sql.Tx) error {
				_, err := tx.Exec("INSERT INTO t VALUES ('seed')")
				return err
			},
		},
	}
}

func TestMigrateAppliesInOrder(t *testing.T) {
	s := newMemStore(t)
	ctx := context.Background()

	if err := s.Migrate(ctx, "test", testMigrations()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	var v string
	if err := s.DB().QueryRow("SELECT v FROM t").Scan(&v); err != nil {
		t.Fatalf("query: %v", err)
	}
	if v != "seed" {
		t.Errorf("v = %q, want seed", v)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := newMemStore(t)
	ctx := context.Background()

	if err := s.Migrate(ctx, "test", testMigrations()); err != nil {
		t.Fatalf("first Migrate: %v", err)
	}
	// Re-running must skip applied versions: the seed row stays unique.
	if err := s.Migrate(ctx, "test", testMigrations()); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}

	var n int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM t").Scan(&n); err != nil {
		t.Fatalf("query: %v", err)
	}
	if n != 1 {
		t.Errorf("rows = %d, want 1", n)
	}
}

func TestMigrateTracksPerModule(t *testing.T) {
	s := newMemStore(t)
	ctx := context.Background()

	if err := s.Migrate(ctx, "alpha", testMigrations()[:1]); err != nil {
		t.Fatalf("Migrate alpha: %v", err)
	}
	other := []plugin.Migration{
		{
			Version:     1,
			Description: "create u",
			Up: func(tx *sql.Tx) error {
				_, err := tx.Exec("CREATE TABLE u (v TEXT)")
				return err
			},
		},
	}
	if err := s.Migrate(ctx, "beta", other); err != nil {
		t.Fatalf("Migrate beta: %v", err)
	}

	var n int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM _migrations").Scan(&n); err != nil {
		t.Fatalf("query migrations: %v", err)
	}
	if n != 2 {
		t.Errorf("tracked migrations = %d, want 2", n)
	}
}

func TestTxRollsBackOnError(t *testing.T) {
	s := newMemStore(t)
	ctx := context.Background()

	if _, err := s.DB().Exec("CREATE TABLE t (v TEXT)"); err != nil {
		t.Fatalf("create: %v", err)
	}

	boom := errors.New("boom")
	err := s.Tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec("INSERT INTO t VALUES ('x')"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Tx err = %v, want boom", err)
	}

	var n int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM t").Scan(&n); err != nil {
		t.Fatalf("query: %v", err)
	}
	if n != 0 {
		t.Errorf("rows = %d, want 0 after rollback", n)
	}
}
