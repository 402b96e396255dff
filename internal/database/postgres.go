package database

import (
	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresDriverName is the name pgx registers with database/sql.
const PostgresDriverName = "pgx"
