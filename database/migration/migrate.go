// Package migration versions the SQLite account schema with golang-migrate.
//
// Files follow golang-migrate naming (VERSION_name.up.sql and
// VERSION_name.down.sql) and are read from an fs.FS, usually embedded:
//
//	m, err := migration.New(gormDB, sqlstore.Migrations, sqlstore.MigrationsPath)
//	if err == nil {
//		err = m.Up()
//	}
package migration

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

// Migrator applies one schema directory to one database.
type Migrator struct {
	m *migrate.Migrate
}

// New binds the migrations under path in fsys to the connection pool behind
// gormDB. The Migrator must not be closed: that would close the shared pool.
func New(gormDB *gorm.DB, fsys fs.FS, path string) (*Migrator, error) {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	driver, err := migratesqlite.WithInstance(sqlDB, &migratesqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("sqlite migrate driver: %w", err)
	}
	source, err := iofs.New(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read migrations %q: %w", path, err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return &Migrator{m: m}, nil
}

// Up applies pending migrations. An up-to-date schema is not an error.
func (g *Migrator) Up() error {
	return ignoreNoChange("up", g.m.Up())
}

// Down reverts every migration.
func (g *Migrator) Down() error {
	return ignoreNoChange("down", g.m.Down())
}

// Version reports the applied version. A fresh database reports 0.
func (g *Migrator) Version() (version uint, dirty bool, err error) {
	version, dirty, err = g.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

func ignoreNoChange(direction string, err error) error {
	if err == nil || errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return fmt.Errorf("migrate %s: %w", direction, err)
}
