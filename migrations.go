// Package userservice holds assets embedded into the binaries.
package userservice

import "embed"

// Migrations contains the goose SQL migrations.
//
//go:embed migrations/*.sql
var Migrations embed.FS
