package repository

import "embed"

// Migrations holds the goose migrations for the Postgres backend.
//
//go:embed migrations/*.sql
var Migrations embed.FS
