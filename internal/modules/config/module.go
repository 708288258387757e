package config

import "go.uber.org/fx"

// Module регистрирует *Config как fx-провайдер. Пустой path: берём CONFIG_FILE.
func Module(path string) fx.Option {
	return fx.Module("config",
		fx.Provide(
			func() (*Config, error) {
				if path == "" {
					return NewConfig()
				}
				return Load(path)
			},
		),
	)
}
