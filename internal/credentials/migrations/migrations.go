// Package migrations embeds the goose SQL migrations for the accounts
// table consumed by credentials.PostgresSource.
package migrations

import "embed"

// FS holds the embedded .sql migration files.
//
//go:embed *.sql
var FS embed.FS
