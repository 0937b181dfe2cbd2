package plugin

import (
	"context"
	"database/sql"
)

// Migration is a single versioned schema change owned by a module.
// Migrations must be provided in ascending Version order.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

// Store is the shared persistence handle plugins receive via StoreConsumer.
type Store interface {
	// DB returns the underlying database for direct queries.
	DB() *sql.DB

	// Tx runs fn inside a transaction, committing on nil error.
	Tx(ctx context.Context, fn func(tx *sql.Tx) error) error

	// Migrate applies the module's pending migrations. Already-applied
	// versions (tracked in the shared _migrations table) are skipped.
	Migrate(ctx context.Context, module string, migrations []Migration) error

	// Close releases the database connection.
	Close() error
}
