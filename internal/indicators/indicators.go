// Package indicators считает технические индикаторы по окну свечей.
// Все функции возвращают models.ErrIndicatorUndefined, если истории меньше, чем нужно периоду.
package indicators

import (
	"fmt"
	"math"

	"crypto_alert/internal/models"
)

func need(have, want, period int) error {
	if period <= 0 {
		return fmt.Errorf("period must be positive, got %d: %w", period, models.ErrIndicatorUndefined)
	}
	if have < want {
		return fmt.Errorf("not enough data: need %d, got %d: %w", want, have, models.ErrIndicatorUndefined)
	}
	return nil
}

// SMA: простое среднее последних period значений.
func SMA(xs []float64, period int) (float64, error) {
	if err := need(len(xs), period, period); err != nil {
		return 0, err
	}
	sum := 0.0
	for i := len(xs) - period; i < len(xs); i++ {
		sum += xs[i]
	}
	return sum / float64(period), nil
}

// StdDev: стандартное отклонение (по генеральной совокупности) последних period значений.
func StdDev(xs []float64, period int) (float64, error) {
	m, err := SMA(xs, period)
	if err != nil {
		return 0, err
	}
	s := 0.0
	for i := len(xs) - period; i < len(xs); i++ {
		d := xs[i] - m
		s += d * d
	}
	return math.Sqrt(s / float64(period)), nil
}

// Bollinger: средняя ± k стандартных отклонений.
func Bollinger(closes []float64, period int, k float64) (upper, middle, lower float64, err error) {
	middle, err = SMA(closes, period)
	if err != nil {
		return 0, 0, 0, err
	}
	sd, _ := StdDev(closes, period)
	return middle + k*sd, middle, middle - k*sd, nil
}

// MACD: линия (fast EMA − slow EMA) и сигнальная (EMA от линии) на последней свече.
func MACD(closes []float64, fast, slow, signal int) (macd, sig float64, err error) {
	if fast >= slow {
		return 0, 0, fmt.Errorf("macd fast %d must be < slow %d: %w", fast, slow, models.ErrIndicatorUndefined)
	}
	if err := need(len(closes), slow+signal-1, signal); err != nil {
		return 0, 0, err
	}
	fs, err := EMASeries(closes, fast)
	if err != nil {
		return 0, 0, err
	}
	ss, err := EMASeries(closes, slow)
	if err != nil {
		return 0, 0, err
	}

	// выравниваем по концу: ss[j] ↔ closes[slow-1+j], fs[j+slow-fast] ↔ то же место
	line := make([]float64, len(ss))
	for j := range ss {
		line[j] = fs[j+slow-fast] - ss[j]
	}
	sigs, err := EMASeries(line, signal)
	if err != nil {
		return 0, 0, err
	}
	return line[len(line)-1], sigs[len(sigs)-1], nil
}

// TrueRange свечи относительно закрытия предыдущей.
func TrueRange(cur, prev models.Candle) float64 {
	highLow := cur.High - cur.Low
	highClose := math.Abs(cur.High - prev.Close)
	lowClose := math.Abs(cur.Low - prev.Close)
	return math.Max(highLow, math.Max(highClose, lowClose))
}

// ATR по Уайлдеру: затравка SMA первых period TR, дальше сглаживание.
func ATR(candles []models.Candle, period int) (float64, error) {
	if err := need(len(candles), period+1, period); err != nil {
		return 0, err
	}
	atr := 0.0
	for i := 1; i <= period; i++ {
		atr += TrueRange(candles[i], candles[i-1])
	}
	atr /= float64(period)
	for i := period + 1; i < len(candles); i++ {
		tr := TrueRange(candles[i], candles[i-1])
		atr = (atr*float64(period-1) + tr) / float64(period)
	}
	return atr, nil
}

// PctChange: изменение последнего закрытия относительно закрытия n свечей назад, %.
func PctChange(closes []float64, n int) (float64, error) {
	if err := need(len(closes), n+1, n); err != nil {
		return 0, err
	}
	prev := closes[len(closes)-1-n]
	if prev == 0 {
		return 0, fmt.Errorf("zero base price: %w", models.ErrIndicatorUndefined)
	}
	cur := closes[len(closes)-1]
	return (cur - prev) / prev * 100, nil
}

// VolumeAvg: средний объём window свечей перед последней.
func VolumeAvg(vols []float64, window int) (cur, avg float64, err error) {
	if err := need(len(vols), window+1, window); err != nil {
		return 0, 0, err
	}
	prior := vols[len(vols)-1-window : len(vols)-1]
	for _, v := range prior {
		avg += v
	}
	avg /= float64(window)
	return vols[len(vols)-1], avg, nil
}
