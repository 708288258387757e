package strategy

import (
	"crypto_alert/internal/models"
)

// Thresholds: пороги правил.
type Thresholds struct {
	RSIOversold   float64
	RSIOverbought float64

	ATRMultiplier    float64
	VolumeMultiplier float64

	ChangeWindow string // подпись окна изменения цены, например "30 min"
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		RSIOversold:      30,
		RSIOverbought:    70,
		ATRMultiplier:    2.0,
		VolumeMultiplier: 1.5,
	}
}

// Rule - одно правило таблицы. Eval не должен паниковать на Undefined-значениях:
// неопределённый индикатор означает «не сработало».
type Rule struct {
	Kind models.SignalKind
	Eval func(sym models.SymbolConfig, s models.Snapshot, th Thresholds) (models.Match, bool)
}

// Engine прогоняет таблицу правил в фиксированном порядке.
type Engine struct {
	th    Thresholds
	rules []Rule
}

// NewEngine без явных правил берёт DefaultRules.
func NewEngine(th Thresholds, rules ...Rule) *Engine {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Engine{th: th, rules: rules}
}

// Classify: первое сработавшее правило; если ничего, NEUTRAL.
func (e *Engine) Classify(sym models.SymbolConfig, s models.Snapshot) models.Match {
	for _, r := range e.rules {
		if m, ok := r.Eval(sym, s, e.th); ok {
			return m
		}
	}
	return models.Match{Classification: models.Neutral, Sentiment: Sentiment(models.Neutral)}
}

// Matches: все сработавшие правила по порядку (для ручного прогона).
func (e *Engine) Matches(sym models.SymbolConfig, s models.Snapshot) []models.Match {
	var out []models.Match
	for _, r := range e.rules {
		if m, ok := r.Eval(sym, s, e.th); ok {
			out = append(out, m)
		}
	}
	return out
}

func (e *Engine) Kinds() []models.SignalKind {
	out := make([]models.SignalKind, 0, len(e.rules))
	for _, r := range e.rules {
		out = append(out, r.Kind)
	}
	return out
}

func Sentiment(c models.Classification) string {
	switch c {
	case models.StrongBuy:
		return "Strongly bullish"
	case models.Buy:
		return "Bullish"
	case models.Sell:
		return "Bearish"
	case models.StrongSell:
		return "Strongly bearish"
	default:
		return "Neutral"
	}
}
