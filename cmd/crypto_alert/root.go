package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"crypto_alert/internal/models"
	"crypto_alert/internal/modules/config"
	"crypto_alert/internal/modules/cooldown"
	"crypto_alert/internal/modules/journal"
	journalsvc "crypto_alert/internal/modules/journal/service"
	"crypto_alert/internal/modules/marketdata"
	"crypto_alert/internal/notify"
	"crypto_alert/internal/runner"
	"crypto_alert/pkg/logger"
	"crypto_alert/pkg/tracing"
)

const serviceName = "crypto_alert"

func newRootCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:          "crypto_alert",
		Short:        "Crypto indicator & alert job",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to yaml config (default $CONFIG_FILE or configs/values_local.yaml)")

	cmd.AddCommand(
		newRunCmd(&cfgPath),
		newSymbolsCmd(&cfgPath),
		newHistoryCmd(&cfgPath),
		newVersionCmd(),
	)
	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.NewConfig()
	}
	return config.Load(path)
}

func newRunCmd(cfgPath *string) *cobra.Command {
	var manual bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate every symbol once and send alerts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runOnce(ctx, *cfgPath, manual)
		},
	}
	cmd.Flags().BoolVar(&manual, "manual", false, "send a status digest for all symbols, ignore cooldowns")
	return cmd
}

// runOnce собирает граф через fx, делает один прогон и гасит приложение.
func runOnce(ctx context.Context, cfgPath string, manual bool) error {
	var (
		r   *runner.Runner
		cfg *config.Config
	)

	app := fx.New(
		fx.NopLogger,
		config.Module(cfgPath),
		fx.Invoke(setupObservability),
		marketdata.Module(),
		cooldown.Module(),
		journal.Module(),
		fx.Provide(
			// Notifier: если TELEGRAM_* нет, используем stdout
			func(cfg *config.Config) (notify.Notifier, error) {
				return notify.New(cfg.Telegram.Token, cfg.Telegram.ChatID)
			},
		),
		runner.Module(),
		fx.Populate(&r, &cfg),
	)
	if err := app.Err(); err != nil {
		return err
	}
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := app.Stop(context.Background()); err != nil {
			logger.Error("shutdown: %v", err)
		}
		logger.Sync()
	}()

	rep, err := r.Run(ctx, manual || cfg.Manual)
	if err != nil {
		logger.Error("run failed: %v", err)
		return err
	}
	logger.Info("run %s finished: %d symbols, %d alerts", rep.RunID, len(rep.Outcomes), rep.Count(models.StatusAlert))
	return nil
}

func setupObservability(lc fx.Lifecycle, cfg *config.Config) error {
	if err := logger.Init(cfg.Log.Level); err != nil {
		return err
	}
	logger.SetServiceName(serviceName)
	tracing.SetServiceName(serviceName)

	_, closer, err := tracing.InitTracer(tracing.Config{Host: cfg.Tracing.Host, Port: cfg.Tracing.Port})
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			closer()
			return nil
		},
	})
	return nil
}

func newSymbolsCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "symbols",
		Short: "Print the resolved symbol table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "SYMBOL\tNAME\tTHRESHOLD\n")
			for _, s := range cfg.Symbols {
				fmt.Fprintf(w, "%s\t%s\t%.2f%%\n", s.Symbol, s.DisplayName(), s.Threshold)
			}
			fmt.Fprintf(w, "\nprovider=%s interval=%s cooldown=%s backend=%s\n",
				cfg.Market.Provider, cfg.Market.Interval, cfg.Alerts.Cooldown, cfg.Cooldown.Backend)
			return w.Flush()
		},
	}
}

func newHistoryCmd(cfgPath *string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the latest alerts from the sqlite journal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			if cfg.Journal.Path == "" {
				return fmt.Errorf("journal.path is not configured")
			}
			j, err := journalsvc.NewSQLite(cfg.Journal.Path)
			if err != nil {
				return err
			}
			defer j.Close()

			alerts, err := j.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "FIRED_AT\tSYMBOL\tKIND\tSIGNAL\tLABEL\n")
			for _, a := range alerts {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					a.FiredAt.Format("2006-01-02 15:04"), a.Symbol, a.Kind, a.Classification, a.Label)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "how many alerts to show")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
