package repository

import "embed"

// Migrations holds the versioned SQL schema for the service tables.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// Models lists the GORM models for development auto-migration.
func Models() []interface{} {
	return []interface{}{&CreatorPricingModel{}, &QuoteModel{}}
}
