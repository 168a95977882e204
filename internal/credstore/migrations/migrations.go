// Package migrations embeds the credential store's schema migrations so the
// binary is self-contained.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
