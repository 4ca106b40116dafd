package server

import (
	"context"
	"fmt"
	"log/slog"

	"shugly/internal/config"
	"shugly/internal/database"
	"shugly/internal/repository"
	"shugly/internal/repository/mongostore"
)

// OpenStores connects the configured backend and prepares its schema or indexes. The
// returned close func releases the connection.
func OpenStores(ctx context.Context, cfg config.StoreConfig) (repository.Stores, func(), error) {
	switch cfg.Driver {
	case "mongo":
		client, err := mongostore.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return repository.Stores{}, nil, err
		}
		db := client.Database(cfg.MongoDatabase)
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return repository.Stores{}, nil, fmt.Errorf("ensure indexes: %w", err)
		}
		slog.Info("store ready", "driver", "mongo", "database", cfg.MongoDatabase)
		return mongostore.NewStores(db), func() {
			if err := client.Disconnect(context.Background()); err != nil {
				slog.Warn("mongo disconnect failed", "error", err)
			}
		}, nil

	default:
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			return repository.Stores{}, nil, err
		}
		if err := repository.AutoMigrate(db); err != nil {
			return repository.Stores{}, nil, fmt.Errorf("auto migrate: %w", err)
		}
		slog.Info("store ready", "driver", "sql", "dialect", db.Dialector.Name())
		return repository.NewSQLStores(db), func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}, nil
	}
}
