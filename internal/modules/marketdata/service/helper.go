package service

import (
	"fmt"

	"crypto_alert/internal/helper"
)

// okxBar: нормализованный интервал → имя бара OKX.
func okxBar(tf string) (string, error) {
	switch s := helper.NormInterval(tf); s {
	case "1m", "5m", "15m", "30m":
		return s, nil
	case "1h":
		return "1H", nil
	case "2h":
		return "2H", nil
	case "4h":
		return "4H", nil
	case "1d":
		return "1D", nil
	}
	return "", fmt.Errorf("unsupported timeframe for OKX bar: %q", tf)
}
