// Package migrations holds the ordered postgres schema files.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
