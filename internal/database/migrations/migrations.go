package migrations

import "embed"

// Files contém as migrations SQL embutidas no binário.
//
//go:embed *.sql
var Files embed.FS
