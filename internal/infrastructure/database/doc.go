// Package database provides SQLite connectivity for the device snapshot
// store.
//
// The connection is opened with WAL mode (unless disabled), a busy timeout,
// and foreign keys enforced, and the pool is pinned to a single connection:
// SQLite has one writer, and the snapshot write-through path is the only
// writer this process has. The database file is created with 0600
// permissions.
//
// Schema migrations are embedded SQL files named
// {version}_{name}.up.sql and applied in version order, each inside its own
// transaction, with bookkeeping in schema_migrations. The schema is
// forward-only: there is no rollback path, so new columns must be NULLABLE
// or carry a DEFAULT, and a bad migration is fixed by shipping the next one.
//
// Usage:
//
//	db, err := database.Open(cfg.Database)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
package database
