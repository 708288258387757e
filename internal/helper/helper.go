package helper

import (
	"strings"
	"time"
)

// NormInterval приводит интервал к виду 1m/5m/15m/30m/1h/2h/4h/1d.
// Понимает и формат Twelve Data (30min, 1day), и OKX (1H, 1D).
func NormInterval(raw string) string {
	s := strings.TrimSpace(strings.ToLower(raw))
	s = strings.TrimPrefix(s, "candle")
	switch s {
	case "1min", "1m":
		return "1m"
	case "5min", "5m":
		return "5m"
	case "15min", "15m":
		return "15m"
	case "30min", "30m":
		return "30m"
	case "45min", "45m":
		return "45m"
	case "60m", "60min", "1h":
		return "1h"
	case "2h":
		return "2h"
	case "4h":
		return "4h"
	case "1d", "1day", "24h":
		return "1d"
	default:
		return s
	}
}

// IntervalDuration: длительность нормализованного интервала, 0 если неизвестен.
func IntervalDuration(interval string) time.Duration {
	switch NormInterval(interval) {
	case "1m":
		return time.Minute
	case "5m":
		return 5 * time.Minute
	case "15m":
		return 15 * time.Minute
	case "30m":
		return 30 * time.Minute
	case "45m":
		return 45 * time.Minute
	case "1h":
		return time.Hour
	case "2h":
		return 2 * time.Hour
	case "4h":
		return 4 * time.Hour
	case "1d":
		return 24 * time.Hour
	default:
		return 0
	}
}

// TwelveInterval: имя интервала для Twelve Data.
func TwelveInterval(interval string) string {
	s := NormInterval(interval)
	switch {
	case s == "1d":
		return "1day"
	case strings.HasSuffix(s, "m"):
		return strings.TrimSuffix(s, "m") + "min"
	default:
		return s
	}
}

// BarsFor: сколько свечей интервала укладывается в окно (минимум 1).
// 0: если интервал неизвестен.
func BarsFor(window time.Duration, interval string) int {
	d := IntervalDuration(interval)
	if d <= 0 || window <= 0 {
		return 0
	}
	n := int(window / d)
	if n < 1 {
		n = 1
	}
	return n
}

func CooldownKey(symbol, kind string) string { return symbol + ":" + kind }

func SplitCooldownKey(key string) (symbol string, kind string, ok bool) {
	// ожидаем формат "symbol:kind"
	i := strings.LastIndexByte(key, ':')
	if i <= 0 || i >= len(key)-1 {
		return "", "", false
	}
	return key[:i], key[i+1:], true
}
