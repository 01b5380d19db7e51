// Package migrations holds the postgres schema of the house store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
