package migrations

import "embed"

// Files holds the schema migrations applied by db.OpenSQLite, in file-name version order.
//
//go:embed *.sql
var Files embed.FS
