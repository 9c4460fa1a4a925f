// Package appfs embeds static application files: email templates and SQL migrations.
package appfs

import "embed"

//go:embed all:assets migrations
var FS embed.FS

const (
	EmailTemplatesDir = "assets/templates/email"
	MigrationsDir     = "migrations"
)
