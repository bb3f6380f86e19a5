// Package migrations embeds the SQL schema so the binaries carry it with them.
package migrations

import "embed"

// Dir is the directory inside FS that holds the migration files.
const Dir = "postgres"

//go:embed postgres/*.sql
var FS embed.FS
