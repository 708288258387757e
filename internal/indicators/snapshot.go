package indicators

import (
	"time"

	"crypto_alert/internal/helper"
	"crypto_alert/internal/models"
)

// Params: периоды индикаторов.
type Params struct {
	Interval string

	RSIPeriod int
	RSIMode   RSIMode

	MAPeriod int

	MACDFast   int
	MACDSlow   int
	MACDSignal int

	BBPeriod int
	BBK      float64

	ATRPeriod int

	VolumeWindow int

	ChangeBars int // основное окно изменения цены, в свечах
}

func DefaultParams() Params {
	return Params{
		Interval:     "30m",
		RSIPeriod:    14,
		RSIMode:      RSIWilder,
		MAPeriod:     50,
		MACDFast:     12,
		MACDSlow:     26,
		MACDSignal:   9,
		BBPeriod:     20,
		BBK:          2,
		ATRPeriod:    14,
		VolumeWindow: 5,
		ChangeBars:   1,
	}
}

// MinBars: сколько свечей нужно, чтобы определились все индикаторы.
func (p Params) MinBars() int {
	n := p.MAPeriod
	for _, v := range []int{
		p.RSIPeriod + 1,
		p.MACDSlow + p.MACDSignal, // +1 свеча на пересечение
		p.BBPeriod + 1,
		p.ATRPeriod + 2,
		p.VolumeWindow + 1,
		p.ChangeBars + 1,
		helper.BarsFor(24*time.Hour, p.Interval) + 1,
	} {
		if v > n {
			n = v
		}
	}
	return n
}

// Compute считает снимок индикаторов на последней свече.
// Всё, на что не хватило истории, остаётся Undefined.
func Compute(candles []models.Candle, p Params) models.Snapshot {
	s := models.Snapshot{Bars: len(candles)}
	if len(candles) == 0 {
		return s
	}

	closes := models.Closes(candles)
	n := len(closes)
	s.Close = models.Defined(closes[n-1])
	if n > 1 {
		s.PrevClose = models.Defined(closes[n-2])
	}

	s.RSI = value(RSI(closes, p.RSIPeriod, p.RSIMode))

	s.MA = value(SMA(closes, p.MAPeriod))
	if s.MA.OK {
		if s.Close.V > s.MA.V {
			s.Trend = models.TrendUp
		} else {
			s.Trend = models.TrendDown
		}
	}

	if m, sig, err := MACD(closes, p.MACDFast, p.MACDSlow, p.MACDSignal); err == nil {
		s.MACD, s.MACDSignal = models.Defined(m), models.Defined(sig)
	}
	if n > 1 {
		if m, sig, err := MACD(closes[:n-1], p.MACDFast, p.MACDSlow, p.MACDSignal); err == nil {
			s.PrevMACD, s.PrevMACDSignal = models.Defined(m), models.Defined(sig)
		}
	}

	if up, _, low, err := Bollinger(closes, p.BBPeriod, p.BBK); err == nil {
		s.BBUpper, s.BBLower = models.Defined(up), models.Defined(low)
	}
	if n > 1 {
		if up, _, low, err := Bollinger(closes[:n-1], p.BBPeriod, p.BBK); err == nil {
			s.PrevBBUpper, s.PrevBBLower = models.Defined(up), models.Defined(low)
		}
	}

	// ATR берём на предыдущей свече, чтобы всплеск не размывал сам себя
	if n > 1 {
		s.ATR = value(ATR(candles[:n-1], p.ATRPeriod))
		s.TrueRange = models.Defined(TrueRange(candles[n-1], candles[n-2]))
	}

	s.Change = value(PctChange(closes, p.ChangeBars))
	s.Change1h = changeOver(closes, time.Hour, p.Interval)
	s.Change2h = changeOver(closes, 2*time.Hour, p.Interval)
	s.Change24h = changeOver(closes, 24*time.Hour, p.Interval)

	if vols, ok := models.Volumes(candles); ok {
		if cur, avg, err := VolumeAvg(vols, p.VolumeWindow); err == nil {
			s.Volume, s.VolumeAvg = models.Defined(cur), models.Defined(avg)
		}
	}

	return s
}

func changeOver(closes []float64, window time.Duration, interval string) models.Value {
	bars := helper.BarsFor(window, interval)
	if bars == 0 {
		return models.Undefined
	}
	return value(PctChange(closes, bars))
}

func value(v float64, err error) models.Value {
	if err != nil {
		return models.Undefined
	}
	return models.Defined(v)
}
