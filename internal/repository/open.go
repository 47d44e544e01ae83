package repository

import (
	"context"
	"fmt"

	"storefront/internal/config"
	"storefront/internal/database"

	"go.uber.org/zap"
)

// OpenStore connects to the configured backend and prepares its schema:
// migrations for Postgres, indexes for Mongo. The caller must Close the store.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		db, err := database.OpenPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		logger.Info("Database health check", zap.Any("health", database.PostgresHealth(ctx, db)))

		if err := database.RunMigrations(db, logger); err != nil {
			db.Close()
			return nil, err
		}

		store := NewPostgresStore(db)
		store.close = func(context.Context) error { return db.Close() }
		return store, nil

	case config.BackendMongo:
		client, err := database.ConnectMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}

		db := client.Database(cfg.Mongo.Database)
		if err := database.EnsureMongoIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		logger.Info("Mongo indexes ensured", zap.String("database", cfg.Mongo.Database))

		store := NewMongoStore(db)
		store.close = client.Disconnect
		return store, nil

	case config.BackendMemory:
		logger.Warn("Using in-memory store; data is lost on exit")
		return NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
