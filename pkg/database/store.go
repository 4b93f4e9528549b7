package database

import (
	"context"
	"fmt"
	"time"

	"necx-chat/config"
	"necx-chat/internal/repository"

	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Store bundles the repositories of the configured driver with its lifecycle hooks.
type Store struct {
	Driver   string
	Users    repository.UserRepository
	Messages repository.MessageRepository

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Open connects to the store named by cfg.StoreDriver and prepares it for use.
// Postgres migrations are applied; Mongo indexes are ensured.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		pool, err := ConnectPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := Migrate(ctx, pool, MigrateUp); err != nil {
			pool.Close()
			return nil, err
		}
		return &Store{
			Driver:   config.StorePostgres,
			Users:    repository.NewUserRepository(pool),
			Messages: repository.NewMessageRepository(pool),
			ping:     pool.Ping,
			close: func(context.Context) error {
				pool.Close()
				return nil
			},
		}, nil

	case config.StoreMongo:
		client, db, err := ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		if err := EnsureMongoIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &Store{
			Driver:   config.StoreMongo,
			Users:    repository.NewMongoUserRepository(db),
			Messages: repository.NewMongoMessageRepository(db),
			ping: func(ctx context.Context) error {
				return client.Ping(ctx, readpref.Primary())
			},
			close: client.Disconnect,
		}, nil
	}
	return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
}

// HealthCheck pings the underlying store.
func (s *Store) HealthCheck(ctx context.Context) error {
	if s == nil || s.ping == nil {
		return fmt.Errorf("database not initialized")
	}
	return s.ping(ctx)
}

// Close releases the store connections, waiting at most five seconds.
func (s *Store) Close() error {
	if s == nil || s.close == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.close(ctx)
}
