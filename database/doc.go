// Package database provides the SQL datastore component: a GORM connection to
// SQLite with retrying connect, pool settings, query logging through
// logger.Logger, and versioned schema migrations (see database/migration).
//
//	comp := database.NewComponent(cfg, log).WithMigrations(migrationsFS, "migrations")
//	app.RegisterComponent(comp)
//	// after Start:
//	db := comp.DB()
//
// Open enables gorm's TranslateError, so unique-constraint violations surface
// as gorm.ErrDuplicatedKey (see IsDuplicateError).
package database
