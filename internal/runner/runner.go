package runner

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/opentracing/opentracing-go"

	"crypto_alert/internal/indicators"
	"crypto_alert/internal/models"
	cooldown "crypto_alert/internal/modules/cooldown/service"
	"crypto_alert/internal/notify"
	"crypto_alert/internal/strategy"
	"crypto_alert/pkg/logger"
)

type Loader interface {
	Candles(ctx context.Context, symbol, interval string, minCount int) ([]models.Candle, error)
}

type Sink interface {
	Record(ctx context.Context, a models.Alert) error
}

type Options struct {
	Symbols    []models.SymbolConfig
	Params     indicators.Params
	Thresholds strategy.Thresholds
	Gate       strategy.GateConfig

	NotifyErrors bool
	Chart        bool
	ChartBars    int
}

// Runner: один прогон по списку монет. Символы идут строго по очереди.
type Runner struct {
	opts     Options
	loader   Loader
	store    cooldown.Store
	notifier notify.Notifier
	sink     Sink
	engine   *strategy.Engine

	now   func() time.Time
	newID func() string
}

func New(opts Options, loader Loader, store cooldown.Store, n notify.Notifier, sink Sink) *Runner {
	return &Runner{
		opts:     opts,
		loader:   loader,
		store:    store,
		notifier: n,
		sink:     sink,
		engine:   strategy.NewEngine(opts.Thresholds),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Report: итог прогона.
type Report struct {
	RunID    string
	Manual   bool
	Started  time.Time
	Outcomes []models.Outcome
}

func (r *Report) Count(st models.Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == st {
			n++
		}
	}
	return n
}

// Run обрабатывает все символы. Ошибка возвращается только для системных
// сбоев (cooldown-стор); проблемы отдельных символов живут в Outcomes.
func (r *Runner) Run(ctx context.Context, manual bool) (*Report, error) {
	rep := &Report{RunID: r.newID(), Manual: manual, Started: r.now().UTC()}

	old := logger.SetRunID(rep.RunID)
	defer logger.SetRunID(old)

	span, ctx := opentracing.StartSpanFromContext(ctx, "crypto_alert.run")
	defer span.Finish()
	span.SetTag("run_id", rep.RunID)
	span.SetTag("manual", manual)

	if manual {
		rep.Outcomes = r.runManual(ctx, rep.Started)
		r.logSummary(rep)
		return rep, nil
	}

	ledger, err := r.store.Load(ctx)
	if err != nil {
		span.SetTag("error", true)
		return rep, fmt.Errorf("load cooldown ledger: %w", err)
	}
	logger.Debug("cooldown ledger loaded: %d records", ledger.Len())

	gate := strategy.NewGate(r.opts.Gate, ledger)
	for _, sym := range r.opts.Symbols {
		if ctx.Err() != nil {
			break
		}
		rep.Outcomes = append(rep.Outcomes, r.evaluate(ctx, rep.RunID, sym, gate))
	}

	// уже отправленные алерты должны попасть в ledger даже при отмене
	if ledger.Dirty() {
		if err := r.store.Save(context.WithoutCancel(ctx), ledger); err != nil {
			span.SetTag("error", true)
			return rep, fmt.Errorf("save cooldown ledger: %w", err)
		}
	} else {
		logger.Debug("cooldown ledger unchanged, save skipped")
	}
	if err := ctx.Err(); err != nil {
		return rep, err
	}

	r.logSummary(rep)
	return rep, nil
}

// evaluate - граница ошибок одного символа. Всё, включая панику, превращается в Outcome.
func (r *Runner) evaluate(ctx context.Context, runID string, sym models.SymbolConfig, gate *strategy.Gate) (out models.Outcome) {
	out = models.Outcome{Symbol: sym.Symbol, Name: sym.DisplayName()}

	span, ctx := opentracing.StartSpanFromContext(ctx, "crypto_alert.symbol")
	span.SetTag("symbol", sym.Symbol)
	defer func() {
		if p := recover(); p != nil {
			logger.Error("panic on %s: %v\n%s", sym.Symbol, p, debug.Stack())
			out.Status = models.StatusError
			out.Err = fmt.Errorf("panic: %v", p)
		}
		if out.Err != nil {
			span.SetTag("error", true)
			r.reportError(ctx, sym, out.Err)
		}
		span.SetTag("status", string(out.Status))
		span.Finish()
	}()

	snap, candles, err := r.snapshot(ctx, sym)
	if err != nil {
		out.Status, out.Err = failureStatus(err), err
		return out
	}
	out.Snapshot = &snap

	now := r.now().UTC()
	m := r.engine.Classify(sym, snap)
	if m.Classification.IsNeutral() {
		out.Status = models.StatusQuiet
		logger.Debug("%s: neutral (close %s, rsi %s)", sym.Symbol, snap.Close, snap.RSI)
		return out
	}
	out.Match = &m

	dec := gate.Check(sym.Symbol, m, snap, now)
	if !dec.Allowed {
		out.Status = models.StatusSuppressed
		logger.Info("%s: %s/%s suppressed by cooldown, %s left",
			sym.Symbol, m.Kind, m.Classification, dec.Remaining.Round(time.Second))
		return out
	}

	text := FormatAlert(now, m, dec.Override)
	if err := r.notifier.Send(ctx, text); err != nil {
		// не доставлено, значит не стреляло: таймер не трогаем
		out.Status, out.Err = models.StatusError, err
		return out
	}
	gate.Fire(sym.Symbol, m.Kind, now)

	if r.opts.Chart {
		r.sendChart(ctx, sym, candles)
	}

	alert := models.Alert{
		RunID:          runID,
		Symbol:         sym.Symbol,
		Name:           sym.DisplayName(),
		Kind:           m.Kind,
		Classification: m.Classification,
		Label:          m.Label,
		Sentiment:      m.Sentiment,
		Text:           text,
		FiredAt:        now,
	}
	if r.sink != nil {
		if err := r.sink.Record(ctx, alert); err != nil {
			logger.Error("%s: sink: %v", sym.Symbol, err)
		}
	}

	out.Status = models.StatusAlert
	out.Alert = &alert
	logger.Info("%s: %s alert sent (%s)", sym.Symbol, m.Kind, m.Classification)
	return out
}

func (r *Runner) snapshot(ctx context.Context, sym models.SymbolConfig) (models.Snapshot, []models.Candle, error) {
	candles, err := r.loader.Candles(ctx, sym.Symbol, r.opts.Params.Interval, r.opts.Params.MinBars())
	if err != nil {
		return models.Snapshot{}, nil, err
	}
	if len(candles) < r.opts.Params.MinBars() {
		logger.Warn("%s: only %d candles, some indicators stay undefined", sym.Symbol, len(candles))
	}
	return indicators.Compute(candles, r.opts.Params), candles, nil
}

func (r *Runner) sendChart(ctx context.Context, sym models.SymbolConfig, candles []models.Candle) {
	closes := models.Closes(candles)
	if n := r.opts.ChartBars; n > 0 && len(closes) > n {
		closes = closes[len(closes)-n:]
	}
	png, err := notify.RenderChart(closes)
	if err != nil {
		logger.Warn("%s: chart skipped: %v", sym.Symbol, err)
		return
	}
	if err := r.notifier.SendPhoto(ctx, chartName(sym.Symbol), png, sym.DisplayName()); err != nil {
		logger.Error("%s: chart delivery: %v", sym.Symbol, err)
	}
}

func (r *Runner) reportError(ctx context.Context, sym models.SymbolConfig, err error) {
	logger.Error("%s: %v", sym.Symbol, err)
	if !r.opts.NotifyErrors || errors.Is(err, models.ErrDeliveryFailure) {
		return
	}
	if serr := r.notifier.Send(ctx, FormatError(sym.Symbol, err)); serr != nil {
		logger.Error("%s: error notification: %v", sym.Symbol, serr)
	}
}

func (r *Runner) logSummary(rep *Report) {
	logger.Info("run done in %s: alert=%d suppressed=%d quiet=%d skipped=%d error=%d",
		r.now().UTC().Sub(rep.Started).Round(time.Millisecond),
		rep.Count(models.StatusAlert), rep.Count(models.StatusSuppressed), rep.Count(models.StatusQuiet),
		rep.Count(models.StatusSkipped), rep.Count(models.StatusError))
}

func failureStatus(err error) models.Status {
	if errors.Is(err, models.ErrDataUnavailable) {
		return models.StatusSkipped
	}
	return models.StatusError
}

func chartName(symbol string) string {
	return strings.NewReplacer("/", "_", "-", "_", ":", "_").Replace(symbol) + ".png"
}
