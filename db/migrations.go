// Package db ships the realm schema with the binaries.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
