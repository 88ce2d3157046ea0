package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/user-directory/internal/api/http/handlers"
	"github.com/spec-kit/user-directory/internal/config"
	"github.com/spec-kit/user-directory/internal/persistence"
	"github.com/spec-kit/user-directory/internal/repository"
)

// userStore is the backend selected by STORE_DRIVER together with the
// connections readiness should check.
type userStore struct {
	users        repository.UserRepository
	dependencies map[string]handlers.Pinger
	close        func()
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*userStore, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMongo:
		mongo, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
		if err != nil {
			return nil, err
		}
		collection := mongo.Collection(cfg.Mongo.Collection)
		if err := repository.EnsureUserIndexes(ctx, collection); err != nil {
			mongo.Close(context.Background())
			return nil, fmt.Errorf("ensure user indexes: %w", err)
		}
		return &userStore{
			users:        repository.NewMongoUserRepository(collection),
			dependencies: map[string]handlers.Pinger{"mongo": mongo},
			close:        func() { mongo.Close(context.Background()) },
		}, nil

	case config.StoreDriverPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, fmt.Errorf("run migrations: %w", err)
			}
		}
		return &userStore{
			users:        repository.NewUserRepository(pg.PoolHandle()),
			dependencies: map[string]handlers.Pinger{"postgres": pg},
			close:        pg.Close,
		}, nil

	case config.StoreDriverMemory:
		logger.Warn("using in-memory user store; data is lost on restart")
		return &userStore{
			users:        repository.NewMemoryUserRepository(),
			dependencies: map[string]handlers.Pinger{},
			close:        func() {},
		}, nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}
