package config

import (
	"context"
	"fmt"

	"todo-app/app/services"
	"todo-app/app/store"
)

// InitStore connects to the configured backend and verifies the connection.
func InitStore(ctx context.Context, cfg StoreConfig) (services.TaskStore, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	var (
		taskStore services.TaskStore
		err       error
	)
	switch cfg.Driver {
	case DriverMongo:
		taskStore, err = newStore(store.NewMongoStore(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection))
	case DriverNeo4j:
		taskStore, err = newStore(store.NewNeo4jStore(ctx, cfg.Neo4j.URI, cfg.Neo4j.Username, cfg.Neo4j.Password, cfg.Neo4j.Database))
	case DriverSQLite:
		taskStore, err = newStore(store.NewSQLiteStore(ctx, cfg.SQLite.Path))
	default:
		err = fmt.Errorf("unknown store driver: %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s store: %w", cfg.Driver, err)
	}
	return taskStore, nil
}

// newStore keeps a failed constructor from producing a non-nil interface
// around a nil pointer.
func newStore[S services.TaskStore](s S, err error) (services.TaskStore, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}
