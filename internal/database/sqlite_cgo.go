//go:build cgo_sqlite

package database

// CGO SQLite through mattn/go-sqlite3.
//
//	CGO_ENABLED=1 go build -tags cgo_sqlite ./...

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	// SQLiteDriverName is the database/sql driver registered for SQLite.
	SQLiteDriverName = "sqlite3"

	// SQLiteBuildMode describes the SQLite driver compiled in.
	SQLiteBuildMode = "cgo"
)

// sqlitePragmas are applied by the driver to every new connection.
const sqlitePragmas = "_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL"
