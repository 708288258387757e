package cooldown

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"crypto_alert/internal/modules/config"
	"crypto_alert/internal/modules/cooldown/service"
	"crypto_alert/pkg/db"
)

// Module поднимает cooldown-стор по cooldown.backend и закрывает его на OnStop.
func Module() fx.Option {
	return fx.Module("cooldown",
		fx.Provide(
			func(lc fx.Lifecycle, cfg *config.Config) (service.Store, error) {
				store, err := New(context.Background(), cfg)
				if err != nil {
					return nil, err
				}
				lc.Append(fx.Hook{
					OnStop: func(ctx context.Context) error {
						return store.Close()
					},
				})
				return store, nil
			},
		),
	)
}

func New(ctx context.Context, cfg *config.Config) (service.Store, error) {
	c := cfg.Cooldown
	switch c.Backend {
	case config.BackendFile:
		return service.NewFile(c.Path, c.Retention), nil
	case config.BackendRedis:
		return service.NewRedis(ctx, service.RedisOptions{
			Addr:      c.RedisAddr,
			Password:  c.RedisPassword,
			DB:        c.RedisDB,
			Key:       c.RedisKey,
			Retention: c.Retention,
		})
	case config.BackendPostgres:
		pool, err := db.NewPool(ctx, db.PoolConfig{DSN: c.DSN})
		if err != nil {
			return nil, fmt.Errorf("failed to create poolMaster: %w", err)
		}
		return service.NewPostgres(ctx, db.NewPgTxManager(pool), c.Retention)
	}
	return nil, fmt.Errorf("unknown cooldown backend %q", c.Backend)
}
