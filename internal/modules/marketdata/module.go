package marketdata

import (
	"go.uber.org/fx"

	"crypto_alert/internal/modules/config"
	"crypto_alert/internal/modules/marketdata/service"
)

// Module отдаёт service.Loader выбранного в конфиге провайдера.
func Module() fx.Option {
	return fx.Module("marketdata",
		fx.Provide(
			func(cfg *config.Config) (service.Loader, error) {
				return service.NewLoader(service.Options{
					Provider: cfg.Market.Provider,
					BaseURL:  cfg.Market.BaseURL,
					APIKey:   cfg.Market.APIKey,
					Lookback: cfg.Market.Lookback,
					Timeout:  cfg.Market.Timeout,
				})
			},
		),
	)
}
