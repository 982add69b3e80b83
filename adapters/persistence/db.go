package persistence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio/internal/config"
	"github.com/khoahotran/portfolio/internal/domain/content"
	"github.com/khoahotran/portfolio/pkg/logger"
)

func NewPostgresPool(ctx context.Context, cfg config.Config, log logger.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.DB.DSN)
	if err != nil {
		return nil, fmt.Errorf("do not create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database failed: %w", err)
	}

	log.Info("Connect PostgreSQL successfully.")
	return pool, nil
}

// NewStore opens the record store selected by store.driver. The returned
// close func is never nil.
func NewStore(ctx context.Context, cfg config.Config, log logger.Logger) (content.Store, func(), error) {
	log.Info("Opening record store", zap.String("driver", cfg.Store.Driver))

	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, err := NewMongoClient(ctx, cfg, log)
		if err != nil {
			return nil, func() {}, err
		}
		store := NewMongoStore(client, cfg.Mongo.Database, log)
		return store, func() { store.Close(context.Background()) }, nil

	case config.DriverPostgres:
		pool, err := NewPostgresPool(ctx, cfg, log)
		if err != nil {
			return nil, func() {}, err
		}
		return NewPostgresStore(pool, log), pool.Close, nil

	case config.DriverMemory:
		return NewMemoryStore(), func() {}, nil
	}

	return nil, func() {}, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
