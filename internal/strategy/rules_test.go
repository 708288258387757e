package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crypto_alert/internal/indicators"
	"crypto_alert/internal/models"
)

var btc = models.SymbolConfig{Symbol: "BTC/USD", Name: "Bitcoin", Threshold: 1.5}

func d(v float64) models.Value { return models.Defined(v) }

func TestPriceRulePump(t *testing.T) {
	s := models.Snapshot{Change: d(2.0)}
	m, ok := priceRule(btc, s, DefaultThresholds())
	require.True(t, ok)
	assert.Equal(t, models.Buy, m.Classification)
	assert.Equal(t, "Pump", m.Label)
	assert.Equal(t, "📈 *Bitcoin Pump!* +2.00%", m.Line)
}

func TestPriceRuleStrongDump(t *testing.T) {
	th := DefaultThresholds()
	th.ChangeWindow = "30 min"
	m, ok := priceRule(btc, models.Snapshot{Change: d(-3.2)}, th)
	require.True(t, ok)
	assert.Equal(t, models.StrongSell, m.Classification)
	assert.Equal(t, "Dump", m.Label)
	assert.Equal(t, "📉 *Bitcoin Dump!* -3.20% in 30 min", m.Line)
}

func TestPriceRuleBelowThreshold(t *testing.T) {
	_, ok := priceRule(btc, models.Snapshot{Change: d(1.49)}, DefaultThresholds())
	assert.False(t, ok)
	_, ok = priceRule(btc, models.Snapshot{}, DefaultThresholds())
	assert.False(t, ok)
}

func TestRSIRuleWithTrend(t *testing.T) {
	th := DefaultThresholds()

	m, ok := rsiRule(btc, models.Snapshot{RSI: d(25), Trend: models.TrendUp}, th)
	require.True(t, ok)
	assert.Equal(t, models.StrongBuy, m.Classification)

	m, ok = rsiRule(btc, models.Snapshot{RSI: d(25), Trend: models.TrendDown}, th)
	require.True(t, ok)
	assert.Equal(t, models.Buy, m.Classification)

	m, ok = rsiRule(btc, models.Snapshot{RSI: d(75), Trend: models.TrendDown}, th)
	require.True(t, ok)
	assert.Equal(t, models.StrongSell, m.Classification)

	m, ok = rsiRule(btc, models.Snapshot{RSI: d(75), Trend: models.TrendUp}, th)
	require.True(t, ok)
	assert.Equal(t, models.Sell, m.Classification)

	_, ok = rsiRule(btc, models.Snapshot{RSI: d(50), Trend: models.TrendUp}, th)
	assert.False(t, ok)

	// без MA тренд неизвестен: правило не срабатывает
	_, ok = rsiRule(btc, models.Snapshot{RSI: d(10)}, th)
	assert.False(t, ok)
}

func TestMACDRuleCross(t *testing.T) {
	th := DefaultThresholds()
	bull := models.Snapshot{PrevMACD: d(-0.1), PrevMACDSignal: d(0), MACD: d(0.2), MACDSignal: d(0.1)}
	m, ok := macdRule(btc, bull, th)
	require.True(t, ok)
	assert.Equal(t, models.Buy, m.Classification)

	bear := models.Snapshot{PrevMACD: d(0.2), PrevMACDSignal: d(0.1), MACD: d(-0.1), MACDSignal: d(0)}
	m, ok = macdRule(btc, bear, th)
	require.True(t, ok)
	assert.Equal(t, models.Sell, m.Classification)

	// нет сигнальной линии на прошлой свече
	partial := bull
	partial.PrevMACDSignal = models.Undefined
	_, ok = macdRule(btc, partial, th)
	assert.False(t, ok)
}

func TestBollingerRuleSnapshots(t *testing.T) {
	th := DefaultThresholds()
	breakout := models.Snapshot{
		PrevClose: d(100), Close: d(106),
		PrevBBUpper: d(104), PrevBBLower: d(96),
		BBUpper: d(105), BBLower: d(95),
	}
	m, ok := bollingerRule(btc, breakout, th)
	require.True(t, ok)
	assert.Equal(t, models.Buy, m.Classification)
	assert.Contains(t, m.Line, "Bullish upper band")

	// уже была снаружи: повторно не стреляем
	stay := breakout
	stay.PrevClose = d(105)
	_, ok = bollingerRule(btc, stay, th)
	assert.False(t, ok)

	down := models.Snapshot{
		PrevClose: d(97), Close: d(94),
		PrevBBUpper: d(104), PrevBBLower: d(96),
		BBUpper: d(105), BBLower: d(95),
	}
	m, ok = bollingerRule(btc, down, th)
	require.True(t, ok)
	assert.Equal(t, models.Sell, m.Classification)
}

func TestBollingerEdgeTriggeredOnSeries(t *testing.T) {
	p := indicators.DefaultParams()
	e := NewEngine(DefaultThresholds(), Rule{Kind: models.KindBollinger, Eval: bollingerRule})

	var candles []models.Candle
	for i := 0; i < 25; i++ {
		candles = append(candles, models.Candle{Open: 100, High: 100, Low: 100, Close: 100})
	}
	fires := 0
	for _, c := range []float64{110, 111, 112} {
		candles = append(candles, models.Candle{Open: c, High: c, Low: c, Close: c})
		s := indicators.Compute(candles, p)
		require.True(t, s.BBUpper.OK)
		require.Greater(t, s.Close.V, s.BBUpper.V, "price stays above the band")
		if m := e.Classify(btc, s); !m.Classification.IsNeutral() {
			fires++
		}
	}
	assert.Equal(t, 1, fires)
}

func TestATRRule(t *testing.T) {
	th := DefaultThresholds()
	s := models.Snapshot{ATR: d(1), TrueRange: d(2.5), Close: d(99), PrevClose: d(101)}
	m, ok := atrRule(btc, s, th)
	require.True(t, ok)
	assert.Equal(t, models.Sell, m.Classification)

	s.TrueRange = d(1.9)
	_, ok = atrRule(btc, s, th)
	assert.False(t, ok)
}

func TestVolumeRule(t *testing.T) {
	th := DefaultThresholds()
	s := models.Snapshot{Volume: d(1234567), VolumeAvg: d(100000), Close: d(101), PrevClose: d(100)}
	m, ok := volumeRule(btc, s, th)
	require.True(t, ok)
	assert.Equal(t, models.Buy, m.Classification)
	assert.Contains(t, m.Line, "1,234,567")

	// объёма нет в данных
	_, ok = volumeRule(btc, models.Snapshot{Close: d(101), PrevClose: d(100)}, th)
	assert.False(t, ok)
}

func TestClassifyFirstMatchWins(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	// срабатывают и price, и rsi, и volume: побеждает price
	s := models.Snapshot{
		Change: d(-4), RSI: d(20), Trend: models.TrendDown,
		Volume: d(500), VolumeAvg: d(100), Close: d(96), PrevClose: d(100),
	}
	m := e.Classify(btc, s)
	assert.Equal(t, models.KindPrice, m.Kind)
	assert.Equal(t, models.StrongSell, m.Classification)

	all := e.Matches(btc, s)
	require.Len(t, all, 3)
	assert.Equal(t, models.KindPrice, all[0].Kind)
	assert.Equal(t, models.KindRSI, all[1].Kind)
	assert.Equal(t, models.KindVolume, all[2].Kind)
}

func TestClassifyNeutral(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	m := e.Classify(btc, models.Snapshot{Change: d(0.3)})
	assert.Equal(t, models.Neutral, m.Classification)
	assert.Equal(t, "Neutral", m.Sentiment)
	assert.True(t, m.Classification.IsNeutral())
}

func TestKindsOrder(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	assert.Equal(t, []models.SignalKind{
		models.KindPrice, models.KindRSI, models.KindMACD,
		models.KindBollinger, models.KindATR, models.KindVolume,
	}, e.Kinds())
}

func TestThousands(t *testing.T) {
	assert.Equal(t, "0", thousands(0))
	assert.Equal(t, "999", thousands(999))
	assert.Equal(t, "1,000", thousands(1000))
	assert.Equal(t, "1,234,567", thousands(1234567))
	assert.Equal(t, "-12,345", thousands(-12345))
}
