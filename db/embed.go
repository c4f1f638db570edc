// Package db carries the embedded schema applied at startup.
package db

import _ "embed"

// Schema holds the DDL for every table the service owns. It is executed
// verbatim by the migration runner; all statements are idempotent.
//
//go:embed migrations/001_schema.sql
var Schema string
