package journal

import (
	"context"

	"go.uber.org/fx"

	"crypto_alert/internal/modules/config"
	"crypto_alert/internal/modules/journal/service"
	"crypto_alert/pkg/logger"
)

// Module собирает синки алертов: sqlite-журнал и kafka, если настроены.
func Module() fx.Option {
	return fx.Module("journal",
		fx.Provide(
			func(lc fx.Lifecycle, cfg *config.Config) (*service.Multi, error) {
				m, err := New(cfg)
				if err != nil {
					return nil, err
				}
				lc.Append(fx.Hook{
					OnStop: func(ctx context.Context) error {
						return m.Close()
					},
				})
				return m, nil
			},
		),
	)
}

// New: битый sqlite-путь считается ошибкой конфигурации, пустые секции просто пропускаются.
func New(cfg *config.Config) (*service.Multi, error) {
	var sinks []service.Sink

	if cfg.Journal.Path != "" {
		j, err := service.NewSQLite(cfg.Journal.Path)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, j)
		logger.Debug("journal: sqlite %s", cfg.Journal.Path)
	}
	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.Topic != "" {
		sinks = append(sinks, service.NewKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic))
		logger.Debug("journal: kafka %v topic=%s", cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}
	return service.NewMulti(sinks...), nil
}
