package strategy

import (
	"time"

	"crypto_alert/internal/models"
)

// GateConfig: параметры cooldown.
type GateConfig struct {
	Cooldown time.Duration

	// экстремальный RSI пробивает cooldown
	RSIOverride    bool
	RSIExtremeLow  float64
	RSIExtremeHigh float64
}

// Decision: ответ гейта.
type Decision struct {
	Allowed   bool
	Override  bool
	Remaining time.Duration // сколько осталось до конца cooldown, если не пустили
}

// Gate: IDLE → FIRED → IDLE по истечении Cooldown, отдельно на каждую пару (symbol, kind).
type Gate struct {
	cfg    GateConfig
	ledger *models.Ledger
}

func NewGate(cfg GateConfig, ledger *models.Ledger) *Gate {
	if ledger == nil {
		ledger = models.NewLedger()
	}
	return &Gate{cfg: cfg, ledger: ledger}
}

// Check ничего не меняет; таймер сбрасывает Fire после отправки.
func (g *Gate) Check(symbol string, m models.Match, s models.Snapshot, now time.Time) Decision {
	if m.Classification.IsNeutral() {
		return Decision{}
	}
	last, ok := g.ledger.LastFired(symbol, m.Kind)
	if !ok {
		return Decision{Allowed: true}
	}
	elapsed := now.Sub(last)
	if elapsed >= g.cfg.Cooldown {
		return Decision{Allowed: true}
	}
	if g.overrides(s) {
		return Decision{Allowed: true, Override: true}
	}
	return Decision{Remaining: g.cfg.Cooldown - elapsed}
}

func (g *Gate) Fire(symbol string, kind models.SignalKind, now time.Time) {
	g.ledger.Mark(symbol, kind, now)
}

func (g *Gate) overrides(s models.Snapshot) bool {
	if !g.cfg.RSIOverride || !s.RSI.OK {
		return false
	}
	return s.RSI.V <= g.cfg.RSIExtremeLow || s.RSI.V >= g.cfg.RSIExtremeHigh
}
