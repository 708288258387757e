package strategy

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"crypto_alert/internal/models"
)

// DefaultRules: порядок и есть приоритет.
func DefaultRules() []Rule {
	return []Rule{
		{Kind: models.KindPrice, Eval: priceRule},
		{Kind: models.KindRSI, Eval: rsiRule},
		{Kind: models.KindMACD, Eval: macdRule},
		{Kind: models.KindBollinger, Eval: bollingerRule},
		{Kind: models.KindATR, Eval: atrRule},
		{Kind: models.KindVolume, Eval: volumeRule},
	}
}

func match(kind models.SignalKind, c models.Classification, label, line string) models.Match {
	return models.Match{
		Kind:           kind,
		Classification: c,
		Label:          label,
		Sentiment:      Sentiment(c),
		Line:           line,
	}
}

// priceRule: |изменение| ≥ порога → Pump/Dump, от двух порогов STRONG.
func priceRule(sym models.SymbolConfig, s models.Snapshot, th Thresholds) (models.Match, bool) {
	if !s.Change.OK || sym.Threshold <= 0 {
		return models.Match{}, false
	}
	ch := s.Change.V
	if math.Abs(ch) < sym.Threshold {
		return models.Match{}, false
	}
	strong := math.Abs(ch) >= 2*sym.Threshold

	arrow, word, c := "📈", "Pump", models.Buy
	if ch < 0 {
		arrow, word, c = "📉", "Dump", models.Sell
	}
	if strong {
		if c == models.Buy {
			c = models.StrongBuy
		} else {
			c = models.StrongSell
		}
	}
	line := fmt.Sprintf("%s *%s %s!* %+.2f%%", arrow, sym.DisplayName(), word, ch)
	if th.ChangeWindow != "" {
		line += " in " + th.ChangeWindow
	}
	return match(models.KindPrice, c, word, line), true
}

// rsiRule: экстремумы RSI с учётом тренда по MA.
func rsiRule(sym models.SymbolConfig, s models.Snapshot, th Thresholds) (models.Match, bool) {
	if !s.RSI.OK || s.Trend == models.TrendUnknown {
		return models.Match{}, false
	}
	rsi := s.RSI.V
	switch {
	case rsi <= th.RSIOversold:
		c := models.Buy
		if s.Trend == models.TrendUp {
			c = models.StrongBuy
		}
		line := fmt.Sprintf("🟢 *%s oversold* RSI %.1f (%s)", sym.DisplayName(), rsi, s.Trend)
		return match(models.KindRSI, c, "Oversold", line), true
	case rsi >= th.RSIOverbought:
		c := models.Sell
		if s.Trend == models.TrendDown {
			c = models.StrongSell
		}
		line := fmt.Sprintf("🔴 *%s overbought* RSI %.1f (%s)", sym.DisplayName(), rsi, s.Trend)
		return match(models.KindRSI, c, "Overbought", line), true
	}
	return models.Match{}, false
}

// macdRule: пересечение линии MACD и сигнальной между прошлой и текущей свечой.
func macdRule(sym models.SymbolConfig, s models.Snapshot, _ Thresholds) (models.Match, bool) {
	if !s.MACD.OK || !s.MACDSignal.OK || !s.PrevMACD.OK || !s.PrevMACDSignal.OK {
		return models.Match{}, false
	}
	prevAbove := s.PrevMACD.V > s.PrevMACDSignal.V
	curAbove := s.MACD.V > s.MACDSignal.V
	switch {
	case !prevAbove && curAbove:
		line := fmt.Sprintf("📊 *%s MACD bullish cross* %.4f > %.4f", sym.DisplayName(), s.MACD.V, s.MACDSignal.V)
		return match(models.KindMACD, models.Buy, "MACD bullish cross", line), true
	case prevAbove && !curAbove:
		line := fmt.Sprintf("📊 *%s MACD bearish cross* %.4f < %.4f", sym.DisplayName(), s.MACD.V, s.MACDSignal.V)
		return match(models.KindMACD, models.Sell, "MACD bearish cross", line), true
	}
	return models.Match{}, false
}

// bollingerRule срабатывает только на свече выхода из канала:
// прошлая внутри, текущая снаружи.
func bollingerRule(sym models.SymbolConfig, s models.Snapshot, _ Thresholds) (models.Match, bool) {
	if !s.Close.OK || !s.PrevClose.OK ||
		!s.BBUpper.OK || !s.BBLower.OK || !s.PrevBBUpper.OK || !s.PrevBBLower.OK {
		return models.Match{}, false
	}
	switch {
	case s.PrevClose.V <= s.PrevBBUpper.V && s.Close.V > s.BBUpper.V:
		line := fmt.Sprintf("📈 %s broke above upper BB (Bullish upper band)", sym.DisplayName())
		return match(models.KindBollinger, models.Buy, "Bollinger breakout up", line), true
	case s.PrevClose.V >= s.PrevBBLower.V && s.Close.V < s.BBLower.V:
		line := fmt.Sprintf("📉 %s fell below lower BB (Bearish lower band)", sym.DisplayName())
		return match(models.KindBollinger, models.Sell, "Bollinger breakout down", line), true
	}
	return models.Match{}, false
}

// atrRule: TR последней свечи больше ATR×multiplier.
func atrRule(sym models.SymbolConfig, s models.Snapshot, th Thresholds) (models.Match, bool) {
	if !s.ATR.OK || !s.TrueRange.OK || !s.Close.OK || !s.PrevClose.OK || s.ATR.V <= 0 || th.ATRMultiplier <= 0 {
		return models.Match{}, false
	}
	if s.TrueRange.V <= s.ATR.V*th.ATRMultiplier {
		return models.Match{}, false
	}
	c := direction(s)
	line := fmt.Sprintf("⚡ *%s volatility spike!* TR %.2f > %.1f×ATR %.2f",
		sym.DisplayName(), s.TrueRange.V, th.ATRMultiplier, s.ATR.V)
	return match(models.KindATR, c, "Volatility spike", line), true
}

// volumeRule: текущий объём больше multiplier × средний. Без объёма в данных не срабатывает.
func volumeRule(sym models.SymbolConfig, s models.Snapshot, th Thresholds) (models.Match, bool) {
	if !s.Volume.OK || !s.VolumeAvg.OK || !s.Close.OK || !s.PrevClose.OK || s.VolumeAvg.V <= 0 || th.VolumeMultiplier <= 0 {
		return models.Match{}, false
	}
	if s.Volume.V <= s.VolumeAvg.V*th.VolumeMultiplier {
		return models.Match{}, false
	}
	c := direction(s)
	line := fmt.Sprintf("🔊 *%s Volume Spike!* %s (%.1f× avg)",
		sym.DisplayName(), thousands(int64(s.Volume.V)), s.Volume.V/s.VolumeAvg.V)
	return match(models.KindVolume, c, "Volume spike", line), true
}

func direction(s models.Snapshot) models.Classification {
	if s.Close.V >= s.PrevClose.V {
		return models.Buy
	}
	return models.Sell
}

// thousands форматирует 1234567 как 1,234,567.
func thousands(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 && !(neg && b.Len() == 1) {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
