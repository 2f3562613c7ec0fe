package snapshot

import (
	"context"
	"fmt"

	"luxe-atelier/internal/config"
	"luxe-atelier/internal/db"
)

// Open connects the backend selected by cfg.SnapshotBackend. The returned
// close func releases the underlying client and is never nil.
func Open(ctx context.Context, cfg config.Config) (Repository, func(), error) {
	switch cfg.SnapshotBackend {
	case config.BackendMemory, "":
		return NewMemory(), func() {}, nil
	case config.BackendPostgres:
		pool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return NewPostgres(pool), pool.Close, nil
	case config.BackendRedis:
		client, err := ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return NewRedis(client, cfg.SnapshotTTL), func() { _ = client.Close() }, nil
	case config.BackendMongo:
		database, err := ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		return NewMongo(database), func() { _ = database.Client().Disconnect(context.Background()) }, nil
	default:
		return nil, nil, fmt.Errorf("unknown snapshot backend %q", cfg.SnapshotBackend)
	}
}
