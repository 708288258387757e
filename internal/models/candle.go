package models

import "time"

// Candle: одна свеча OHLCV. Серии всегда упорядочены от старой к новой.
type Candle struct {
	OpenTime  time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	HasVolume bool // часть провайдеров отдаёт пары без объёма
}

// Closes вытаскивает цены закрытия.
func Closes(cs []Candle) []float64 {
	out := make([]float64, len(cs))
	for i, c := range cs {
		out[i] = c.Close
	}
	return out
}

// Volumes возвращает объёмы и ok=false, если хоть у одной свечи объёма нет.
func Volumes(cs []Candle) ([]float64, bool) {
	out := make([]float64, len(cs))
	for i, c := range cs {
		if !c.HasVolume {
			return nil, false
		}
		out[i] = c.Volume
	}
	return out, true
}
