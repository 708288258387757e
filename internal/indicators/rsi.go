package indicators

import "fmt"

type RSIMode string

const (
	RSIWilder RSIMode = "wilder" // экспоненциальное сглаживание, как в TA-Lib
	RSISimple RSIMode = "simple" // простое среднее за period
)

const lossEpsilon = 1e-10

func ParseRSIMode(s string) (RSIMode, error) {
	switch RSIMode(s) {
	case RSIWilder, "":
		return RSIWilder, nil
	case RSISimple:
		return RSISimple, nil
	}
	return "", fmt.Errorf("unknown rsi mode %q", s)
}

// RSI по последним closes. Нужно period+1 значений.
func RSI(closes []float64, period int, mode RSIMode) (float64, error) {
	if err := need(len(closes), period+1, period); err != nil {
		return 0, err
	}

	var avgGain, avgLoss float64
	switch mode {
	case RSISimple:
		for i := len(closes) - period; i < len(closes); i++ {
			g, l := split(closes[i] - closes[i-1])
			avgGain += g
			avgLoss += l
		}
		avgGain /= float64(period)
		avgLoss /= float64(period)
	default:
		for i := 1; i <= period; i++ {
			g, l := split(closes[i] - closes[i-1])
			avgGain += g
			avgLoss += l
		}
		avgGain /= float64(period)
		avgLoss /= float64(period)
		for i := period + 1; i < len(closes); i++ {
			g, l := split(closes[i] - closes[i-1])
			avgGain = (avgGain*float64(period-1) + g) / float64(period)
			avgLoss = (avgLoss*float64(period-1) + l) / float64(period)
		}
	}

	// плоская серия
	if avgGain == 0 && avgLoss == 0 {
		return 50, nil
	}
	if avgLoss == 0 {
		avgLoss = lossEpsilon
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), nil
}

func split(change float64) (gain, loss float64) {
	if change > 0 {
		return change, 0
	}
	return 0, -change
}
