package migrations

import "embed"

// FS contains embedded SQLite migrations for detection storage.
//
//go:embed *.sql
var FS embed.FS
