// Package migrations holds the goose SQL migrations, embedded into cmd/migrate.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
