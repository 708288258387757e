package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"crypto_alert/internal/helper"
	"crypto_alert/internal/indicators"
	"crypto_alert/internal/models"
	"crypto_alert/internal/strategy"
)

const (
	configFilePathENV = "CONFIG_FILE"
	defaultConfigFile = "configs/values_local.yaml"
)

const (
	ProviderTwelveData = "twelvedata"
	ProviderOKX        = "okx"

	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config ...
type Config struct {
	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`

	Market struct {
		Provider string        `yaml:"provider"` // twelvedata | okx
		APIKey   string        `yaml:"api_key"`
		BaseURL  string        `yaml:"base_url"`
		Interval string        `yaml:"interval"`
		Lookback int           `yaml:"lookback"` // сколько свечей просим минимум
		Timeout  time.Duration `yaml:"timeout"`
	} `yaml:"market"`

	Symbols []models.SymbolConfig `yaml:"symbols"`

	Indicators struct {
		RSIPeriod        int     `yaml:"rsi_period"`
		RSIMode          string  `yaml:"rsi_mode"` // wilder | simple
		RSIOversold      float64 `yaml:"rsi_oversold"`
		RSIOverbought    float64 `yaml:"rsi_overbought"`
		MAPeriod         int     `yaml:"ma_period"`
		MACDFast         int     `yaml:"macd_fast"`
		MACDSlow         int     `yaml:"macd_slow"`
		MACDSignal       int     `yaml:"macd_signal"`
		BBPeriod         int     `yaml:"bb_period"`
		BBK              float64 `yaml:"bb_k"`
		ATRPeriod        int     `yaml:"atr_period"`
		ATRMultiplier    float64 `yaml:"atr_multiplier"`
		VolumeWindow     int     `yaml:"volume_window"`
		VolumeMultiplier float64 `yaml:"volume_multiplier"`
		ChangeBars       int     `yaml:"change_bars"` // основное окно Pump/Dump в свечах
	} `yaml:"indicators"`

	Alerts struct {
		Cooldown       time.Duration `yaml:"cooldown"`
		RSIOverride    bool          `yaml:"rsi_override"`
		RSIExtremeLow  float64       `yaml:"rsi_extreme_low"`
		RSIExtremeHigh float64       `yaml:"rsi_extreme_high"`
		NotifyErrors   bool          `yaml:"notify_errors"`
		Chart          bool          `yaml:"chart"`
		ChartBars      int           `yaml:"chart_bars"`
	} `yaml:"alerts"`

	Cooldown struct {
		Backend       string        `yaml:"backend"` // file | redis | postgres
		Path          string        `yaml:"path"`
		Retention     time.Duration `yaml:"retention"`
		RedisAddr     string        `yaml:"redis_addr"`
		RedisPassword string        `yaml:"redis_password"`
		RedisDB       int           `yaml:"redis_db"`
		RedisKey      string        `yaml:"redis_key"`
		DSN           string        `yaml:"db_dsn"`
	} `yaml:"cooldown"`

	Journal struct {
		Path string `yaml:"path"` // sqlite; пусто: журнал выключен
	} `yaml:"journal"`

	Kafka struct {
		Brokers []string `yaml:"brokers"`
		Topic   string   `yaml:"topic"`
	} `yaml:"kafka"`

	Tracing struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"tracing"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	// ручной запуск: сводка по всем монетам без cooldown
	Manual bool `yaml:"-"`
}

func defaults() Config {
	var c Config
	c.Market.Provider = ProviderTwelveData
	c.Market.Interval = "30min"
	c.Market.Lookback = 60
	c.Market.Timeout = 10 * time.Second

	c.Symbols = []models.SymbolConfig{
		{Symbol: "BTC/USD", Name: "Bitcoin", Threshold: 1.5},
		{Symbol: "SOL/USD", Name: "Solana", Threshold: 2.5},
		{Symbol: "LINK/USD", Name: "Chainlink", Threshold: 2.5},
	}

	p := indicators.DefaultParams()
	th := strategy.DefaultThresholds()
	c.Indicators.RSIPeriod = p.RSIPeriod
	c.Indicators.RSIMode = string(p.RSIMode)
	c.Indicators.RSIOversold = th.RSIOversold
	c.Indicators.RSIOverbought = th.RSIOverbought
	c.Indicators.MAPeriod = p.MAPeriod
	c.Indicators.MACDFast = p.MACDFast
	c.Indicators.MACDSlow = p.MACDSlow
	c.Indicators.MACDSignal = p.MACDSignal
	c.Indicators.BBPeriod = p.BBPeriod
	c.Indicators.BBK = p.BBK
	c.Indicators.ATRPeriod = p.ATRPeriod
	c.Indicators.ATRMultiplier = th.ATRMultiplier
	c.Indicators.VolumeWindow = p.VolumeWindow
	c.Indicators.VolumeMultiplier = th.VolumeMultiplier
	c.Indicators.ChangeBars = p.ChangeBars

	c.Alerts.Cooldown = time.Hour
	c.Alerts.RSIOverride = true
	c.Alerts.RSIExtremeLow = 20
	c.Alerts.RSIExtremeHigh = 80
	c.Alerts.NotifyErrors = true
	c.Alerts.Chart = true
	c.Alerts.ChartBars = 6

	c.Cooldown.Backend = BackendFile
	c.Cooldown.Path = "data/cooldown.json"
	c.Cooldown.Retention = 7 * 24 * time.Hour
	c.Cooldown.RedisKey = "cryptoalert:cooldown"

	c.Tracing.Port = 6831
	c.Log.Level = "info"
	return c
}

// NewConfig читает путь из CONFIG_FILE.
func NewConfig() (*Config, error) {
	return Load(getenvDefault(configFilePathENV, defaultConfigFile))
}

// Load: дефолты → yaml (если файл есть) → .env и переменные окружения.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	config := defaults()
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &config); err != nil {
				return nil, fmt.Errorf("decode config %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// без файла живём на дефолтах и env
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyEnv() {
	c.Market.APIKey = getenvDefault("TWELVE_API_KEY", c.Market.APIKey)
	c.Market.Provider = getenvDefault("MARKET_PROVIDER", c.Market.Provider)
	c.Market.Interval = getenvDefault("INTERVAL", c.Market.Interval)

	c.Telegram.Token = getenvDefault("TELEGRAM_TOKEN", getenvDefault("BOT_TOKEN", c.Telegram.Token))
	c.Telegram.ChatID = int64FromEnv("TELEGRAM_CHAT_ID", int64FromEnv("CHAT_ID", c.Telegram.ChatID))

	c.Alerts.Cooldown = durationFromEnv("ALERT_COOLDOWN", c.Alerts.Cooldown)
	c.Alerts.NotifyErrors = boolFromEnv("NOTIFY_ERRORS", c.Alerts.NotifyErrors)

	c.Cooldown.Backend = getenvDefault("COOLDOWN_BACKEND", c.Cooldown.Backend)
	c.Cooldown.Path = getenvDefault("COOLDOWN_PATH", c.Cooldown.Path)
	c.Cooldown.RedisAddr = getenvDefault("REDIS_ADDR", c.Cooldown.RedisAddr)
	c.Cooldown.RedisPassword = getenvDefault("REDIS_PASSWORD", c.Cooldown.RedisPassword)
	c.Cooldown.DSN = getenvDefault("DATABASE_DSN", c.Cooldown.DSN)

	c.Journal.Path = getenvDefault("JOURNAL_PATH", c.Journal.Path)
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	c.Kafka.Topic = getenvDefault("KAFKA_TOPIC", c.Kafka.Topic)

	c.Tracing.Host = getenvDefault("JAEGER_HOST", c.Tracing.Host)
	c.Tracing.Port = intFromEnv("JAEGER_PORT", c.Tracing.Port)

	c.Log.Level = getenvDefault("LOG_LEVEL", c.Log.Level)

	c.Manual = boolFromEnv("MANUAL_RUN", false) || os.Getenv("GITHUB_EVENT_NAME") == "workflow_dispatch"
}

func (c *Config) Validate() error {
	if len(c.Symbols) == 0 {
		return fmt.Errorf("no symbols configured")
	}
	seen := make(map[string]struct{}, len(c.Symbols))
	for _, s := range c.Symbols {
		if s.Symbol == "" {
			return fmt.Errorf("symbol with empty id")
		}
		if _, dup := seen[s.Symbol]; dup {
			return fmt.Errorf("duplicate symbol %s", s.Symbol)
		}
		seen[s.Symbol] = struct{}{}
		if s.Threshold < 0 {
			return fmt.Errorf("symbol %s: negative threshold", s.Symbol)
		}
	}

	switch c.Market.Provider {
	case ProviderTwelveData:
		if c.Market.APIKey == "" {
			return fmt.Errorf("twelvedata provider requires TWELVE_API_KEY")
		}
	case ProviderOKX:
	default:
		return fmt.Errorf("unknown market provider %q", c.Market.Provider)
	}
	if helper.IntervalDuration(c.Market.Interval) == 0 {
		return fmt.Errorf("unsupported interval %q", c.Market.Interval)
	}
	if c.Market.Lookback < 2 {
		return fmt.Errorf("lookback must be >= 2, got %d", c.Market.Lookback)
	}

	in := c.Indicators
	for name, v := range map[string]int{
		"rsi_period": in.RSIPeriod, "ma_period": in.MAPeriod, "macd_fast": in.MACDFast,
		"macd_slow": in.MACDSlow, "macd_signal": in.MACDSignal, "bb_period": in.BBPeriod,
		"atr_period": in.ATRPeriod, "volume_window": in.VolumeWindow, "change_bars": in.ChangeBars,
	} {
		if v <= 0 {
			return fmt.Errorf("indicators.%s must be positive, got %d", name, v)
		}
	}
	if in.MACDFast >= in.MACDSlow {
		return fmt.Errorf("macd_fast must be < macd_slow")
	}
	if in.RSIOversold >= in.RSIOverbought {
		return fmt.Errorf("rsi_oversold must be < rsi_overbought")
	}
	if _, err := indicators.ParseRSIMode(in.RSIMode); err != nil {
		return err
	}
	if c.Alerts.Cooldown < 0 {
		return fmt.Errorf("alerts.cooldown must not be negative")
	}
	// иначе Save выкинет запись раньше, чем истечёт cooldown
	if c.Cooldown.Retention > 0 && c.Cooldown.Retention < c.Alerts.Cooldown {
		return fmt.Errorf("cooldown.retention (%s) must not be shorter than alerts.cooldown (%s)",
			c.Cooldown.Retention, c.Alerts.Cooldown)
	}

	switch c.Cooldown.Backend {
	case BackendFile:
		if c.Cooldown.Path == "" {
			return fmt.Errorf("file cooldown backend requires path")
		}
	case BackendRedis:
		if c.Cooldown.RedisAddr == "" {
			return fmt.Errorf("redis cooldown backend requires REDIS_ADDR")
		}
	case BackendPostgres:
		if c.Cooldown.DSN == "" {
			return fmt.Errorf("postgres cooldown backend requires DATABASE_DSN")
		}
	default:
		return fmt.Errorf("unknown cooldown backend %q", c.Cooldown.Backend)
	}
	return nil
}

// IndicatorParams: периоды для indicators.Compute.
func (c *Config) IndicatorParams() indicators.Params {
	mode, _ := indicators.ParseRSIMode(c.Indicators.RSIMode)
	return indicators.Params{
		Interval:     helper.NormInterval(c.Market.Interval),
		RSIPeriod:    c.Indicators.RSIPeriod,
		RSIMode:      mode,
		MAPeriod:     c.Indicators.MAPeriod,
		MACDFast:     c.Indicators.MACDFast,
		MACDSlow:     c.Indicators.MACDSlow,
		MACDSignal:   c.Indicators.MACDSignal,
		BBPeriod:     c.Indicators.BBPeriod,
		BBK:          c.Indicators.BBK,
		ATRPeriod:    c.Indicators.ATRPeriod,
		VolumeWindow: c.Indicators.VolumeWindow,
		ChangeBars:   c.Indicators.ChangeBars,
	}
}

func (c *Config) Thresholds() strategy.Thresholds {
	return strategy.Thresholds{
		RSIOversold:      c.Indicators.RSIOversold,
		RSIOverbought:    c.Indicators.RSIOverbought,
		ATRMultiplier:    c.Indicators.ATRMultiplier,
		VolumeMultiplier: c.Indicators.VolumeMultiplier,
		ChangeWindow:     changeWindowLabel(c.Market.Interval, c.Indicators.ChangeBars),
	}
}

func (c *Config) GateConfig() strategy.GateConfig {
	return strategy.GateConfig{
		Cooldown:       c.Alerts.Cooldown,
		RSIOverride:    c.Alerts.RSIOverride,
		RSIExtremeLow:  c.Alerts.RSIExtremeLow,
		RSIExtremeHigh: c.Alerts.RSIExtremeHigh,
	}
}

// changeWindowLabel: 1 × 30m → "30 min", 2 × 30m → "1h".
func changeWindowLabel(interval string, bars int) string {
	d := helper.IntervalDuration(interval) * time.Duration(bars)
	switch {
	case d <= 0:
		return ""
	case d < time.Hour:
		return fmt.Sprintf("%d min", int(d.Minutes()))
	case d%time.Hour == 0:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%d min", int(d.Minutes()))
	}
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func int64FromEnv(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func boolFromEnv(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if v == "1" || v == "true" || v == "TRUE" {
			return true
		}
		if v == "0" || v == "false" || v == "FALSE" {
			return false
		}
	}
	return def
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationFromEnv(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
