package main

import (
	"context"

	"github.com/kbukum/userauth/component"
	"github.com/kbukum/userauth/database"
	"github.com/kbukum/userauth/logger"
	"github.com/kbukum/userauth/mongodb"
	"github.com/kbukum/userauth/user"
	"github.com/kbukum/userauth/user/mongostore"
	"github.com/kbukum/userauth/user/sqlstore"
)

// storeBackend holds the infrastructure component of the configured driver
// and builds the account store once it has started.
type storeBackend struct {
	driver string
	log    *logger.Logger
	mongo  *mongodb.Component
	sqlite *database.Component
}

func newStoreBackend(cfg StoreConfig, log *logger.Logger) *storeBackend {
	b := &storeBackend{driver: cfg.Driver, log: log}
	switch cfg.Driver {
	case DriverSQLite:
		b.sqlite = database.NewComponent(cfg.SQLite, log).
			WithMigrations(sqlstore.Migrations, sqlstore.MigrationsPath)
	default:
		b.mongo = mongodb.NewComponent(cfg.Mongo, log)
	}
	return b
}

func (b *storeBackend) component() component.Component {
	if b.sqlite != nil {
		return b.sqlite
	}
	return b.mongo
}

// open returns the store over the started component.
func (b *storeBackend) open(ctx context.Context) (user.Store, error) {
	if b.sqlite != nil {
		return sqlstore.New(b.sqlite.DB()), nil
	}
	store := mongostore.New(b.mongo.Client(), b.log)
	if err := store.EnsureIndexes(ctx); err != nil {
		return nil, err
	}
	return store, nil
}
