package db

import "embed"

// EmbedMigrations holds the registration schema migrations compiled into the
// binary, so server and meetctl never depend on files on disk.
//
//go:embed migrations/*.sql
var EmbedMigrations embed.FS
