//go:build !cgo_sqlite

package database

// Pure Go SQLite, no C toolchain needed.
//
//	CGO_ENABLED=0 go build ./...

import (
	_ "modernc.org/sqlite"
)

const (
	// SQLiteDriverName is the database/sql driver registered for SQLite.
	SQLiteDriverName = "sqlite"

	// SQLiteBuildMode describes the SQLite driver compiled in.
	SQLiteBuildMode = "purego"
)

// sqlitePragmas are applied by the driver to every new connection.
const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
