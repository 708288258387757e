package runner

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"crypto_alert/internal/models"
	"crypto_alert/pkg/logger"
)

// runManual: сводка по всем монетам одним сообщением. Пороги и cooldown не учитываются,
// ledger не читается и не пишется.
func (r *Runner) runManual(ctx context.Context, now time.Time) []models.Outcome {
	outcomes := make([]models.Outcome, 0, len(r.opts.Symbols))
	digest := make([]digestEntry, 0, len(r.opts.Symbols))

	for _, sym := range r.opts.Symbols {
		o, matches := r.inspect(ctx, sym)
		outcomes = append(outcomes, o)
		digest = append(digest, digestEntry{outcome: o, matches: matches})
	}

	if err := r.notifier.Send(ctx, FormatDigest(now, digest)); err != nil {
		logger.Error("manual digest: %v", err)
	}
	return outcomes
}

func (r *Runner) inspect(ctx context.Context, sym models.SymbolConfig) (out models.Outcome, matches []models.Match) {
	out = models.Outcome{Symbol: sym.Symbol, Name: sym.DisplayName()}
	defer func() {
		if p := recover(); p != nil {
			logger.Error("panic on %s: %v\n%s", sym.Symbol, p, debug.Stack())
			out.Status, out.Err = models.StatusError, fmt.Errorf("panic: %v", p)
		}
	}()

	snap, _, err := r.snapshot(ctx, sym)
	if err != nil {
		logger.Error("%s: %v", sym.Symbol, err)
		out.Status, out.Err = failureStatus(err), err
		return out, nil
	}
	out.Snapshot = &snap

	matches = r.engine.Matches(sym, snap)
	if len(matches) == 0 {
		out.Status = models.StatusQuiet
		return out, nil
	}
	out.Match = &matches[0]
	out.Status = models.StatusAlert
	return out, matches
}
