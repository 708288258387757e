package runner

import (
	"go.uber.org/fx"

	"crypto_alert/internal/modules/config"
	cooldown "crypto_alert/internal/modules/cooldown/service"
	journal "crypto_alert/internal/modules/journal/service"
	marketdata "crypto_alert/internal/modules/marketdata/service"
	"crypto_alert/internal/notify"
)

func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			NewFromConfig, // *Runner
		),
	)
}

func NewFromConfig(
	cfg *config.Config,
	loader marketdata.Loader,
	store cooldown.Store,
	n notify.Notifier,
	sinks *journal.Multi,
) *Runner {
	return New(Options{
		Symbols:      cfg.Symbols,
		Params:       cfg.IndicatorParams(),
		Thresholds:   cfg.Thresholds(),
		Gate:         cfg.GateConfig(),
		NotifyErrors: cfg.Alerts.NotifyErrors,
		Chart:        cfg.Alerts.Chart,
		ChartBars:    cfg.Alerts.ChartBars,
	}, loader, store, n, sinks)
}
