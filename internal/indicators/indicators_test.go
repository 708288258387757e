package indicators

import (
	"math"
	"testing"
	"time"

	"github.com/markcheno/go-talib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crypto_alert/internal/models"
)

// wave: детерминированная «пила с трендом», чтобы были и рост, и падение.
func wave(n int) []models.Candle {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Candle, n)
	prev := 100.0
	for i := 0; i < n; i++ {
		c := 100 + 8*math.Sin(float64(i)/3) + 0.15*float64(i)
		out[i] = models.Candle{
			OpenTime:  start.Add(time.Duration(i) * 30 * time.Minute),
			Open:      prev,
			High:      math.Max(prev, c) + 0.6 + 0.3*math.Abs(math.Cos(float64(i))),
			Low:       math.Min(prev, c) - 0.4 - 0.2*math.Abs(math.Sin(float64(i))),
			Close:     c,
			Volume:    1000 + 50*float64(i%7),
			HasVolume: true,
		}
		prev = c
	}
	return out
}

func columns(cs []models.Candle) (h, l, c []float64) {
	for _, x := range cs {
		h = append(h, x.High)
		l = append(l, x.Low)
		c = append(c, x.Close)
	}
	return
}

func TestSMA(t *testing.T) {
	ma, err := SMA([]float64{111, 113, 114, 116, 118}, 5)
	require.NoError(t, err)
	assert.InDelta(t, 114.4, ma, 1e-9)

	_, err = SMA([]float64{1, 2}, 5)
	assert.ErrorIs(t, err, models.ErrIndicatorUndefined)
}

func TestSMAMatchesTalib(t *testing.T) {
	_, _, closes := columns(wave(80))
	ref := talib.Sma(closes, 50)

	ma, err := SMA(closes, 50)
	require.NoError(t, err)
	assert.InDelta(t, ref[len(ref)-1], ma, 1e-9)
}

func TestRSIMatchesTalib(t *testing.T) {
	_, _, closes := columns(wave(80))
	ref := talib.Rsi(closes, 14)

	rsi, err := RSI(closes, 14, RSIWilder)
	require.NoError(t, err)
	assert.InDelta(t, ref[len(ref)-1], rsi, 1e-6)
}

func TestRSIBounded(t *testing.T) {
	series := [][]float64{
		{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
		{16, 15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1},
		{10, 12, 9, 14, 8, 15, 7, 16, 6, 17, 5, 18, 4, 19, 3, 20},
	}
	for _, closes := range series {
		for _, mode := range []RSIMode{RSIWilder, RSISimple} {
			rsi, err := RSI(closes, 14, mode)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, rsi, 0.0)
			assert.LessOrEqual(t, rsi, 100.0)
			assert.False(t, math.IsNaN(rsi))
		}
	}
}

func TestRSINoLossesDoesNotDivideByZero(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}
	rsi, err := RSI(closes, 14, RSIWilder)
	require.NoError(t, err)
	assert.InDelta(t, 100, rsi, 1e-6)
	assert.False(t, math.IsInf(rsi, 0))
}

func TestRSISimple(t *testing.T) {
	// 2 роста по 1 и 2 падения по 1 за период 4 → RS = 1 → RSI = 50
	closes := []float64{100, 10, 11, 12, 11, 10}
	rsi, err := RSI(closes, 4, RSISimple)
	require.NoError(t, err)
	assert.InDelta(t, 50, rsi, 1e-9)
}

func TestRSIShortSeriesUndefined(t *testing.T) {
	_, err := RSI([]float64{1, 2, 3}, 14, RSIWilder)
	assert.ErrorIs(t, err, models.ErrIndicatorUndefined)
}

func TestParseRSIMode(t *testing.T) {
	m, err := ParseRSIMode("")
	require.NoError(t, err)
	assert.Equal(t, RSIWilder, m)

	m, err = ParseRSIMode("simple")
	require.NoError(t, err)
	assert.Equal(t, RSISimple, m)

	_, err = ParseRSIMode("hull")
	assert.Error(t, err)
}

func TestBollingerMatchesTalib(t *testing.T) {
	_, _, closes := columns(wave(60))
	up, mid, low := talib.BBands(closes, 20, 2, 2, talib.SMA)

	u, m, l, err := Bollinger(closes, 20, 2)
	require.NoError(t, err)
	last := len(closes) - 1
	assert.InDelta(t, up[last], u, 1e-6)
	assert.InDelta(t, mid[last], m, 1e-6)
	assert.InDelta(t, low[last], l, 1e-6)
}

func TestATRMatchesTalib(t *testing.T) {
	cs := wave(60)
	h, l, c := columns(cs)
	ref := talib.Atr(h, l, c, 14)

	atr, err := ATR(cs, 14)
	require.NoError(t, err)
	assert.InDelta(t, ref[len(ref)-1], atr, 1e-6)
}

func TestATRShortSeriesUndefined(t *testing.T) {
	_, err := ATR(wave(14), 14)
	assert.ErrorIs(t, err, models.ErrIndicatorUndefined)
}

func TestTrueRange(t *testing.T) {
	cur := models.Candle{High: 110, Low: 100, Close: 105}
	prev := models.Candle{Close: 104}
	assert.Equal(t, 10.0, TrueRange(cur, prev))

	// гэп вверх: TR считается от прошлого закрытия
	gap := models.Candle{High: 120, Low: 115, Close: 118}
	assert.Equal(t, 16.0, TrueRange(gap, prev))
}

func TestEMASeries(t *testing.T) {
	s, err := EMASeries([]float64{1, 2, 3, 4, 5}, 3)
	require.NoError(t, err)
	require.Len(t, s, 3)
	assert.InDelta(t, 2.0, s[0], 1e-9) // затравка SMA(1,2,3)
	assert.InDelta(t, 3.0, s[1], 1e-9) // 0.5*4 + 0.5*2
	assert.InDelta(t, 4.0, s[2], 1e-9)
}

func TestMACD(t *testing.T) {
	up := make([]float64, 40)
	for i := range up {
		up[i] = 100 + float64(i)
	}
	m, sig, err := MACD(up, 12, 26, 9)
	require.NoError(t, err)
	// на линейном росте быстрая EMA выше медленной
	assert.Greater(t, m, 0.0)
	assert.Greater(t, sig, 0.0)

	_, _, err = MACD(up[:30], 12, 26, 9)
	assert.ErrorIs(t, err, models.ErrIndicatorUndefined)

	_, _, err = MACD(up, 26, 12, 9)
	assert.ErrorIs(t, err, models.ErrIndicatorUndefined)
}

func TestPctChange(t *testing.T) {
	ch, err := PctChange([]float64{100, 103}, 1)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, ch, 1e-9)

	ch, err = PctChange([]float64{100, 103, 97}, 2)
	require.NoError(t, err)
	assert.InDelta(t, -3.0, ch, 1e-9)

	_, err = PctChange([]float64{100, 103}, 2)
	assert.ErrorIs(t, err, models.ErrIndicatorUndefined)

	_, err = PctChange([]float64{0, 103}, 1)
	assert.ErrorIs(t, err, models.ErrIndicatorUndefined)
}

func TestVolumeAvg(t *testing.T) {
	cur, avg, err := VolumeAvg([]float64{10, 10, 20, 20, 30, 90}, 5)
	require.NoError(t, err)
	assert.Equal(t, 90.0, cur)
	assert.InDelta(t, 18.0, avg, 1e-9)

	_, _, err = VolumeAvg([]float64{1, 2}, 5)
	assert.ErrorIs(t, err, models.ErrIndicatorUndefined)
}
