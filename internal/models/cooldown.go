package models

import (
	"sort"
	"sync"
	"time"

	"crypto_alert/internal/helper"
)

// CooldownRecord: когда последний раз стрелял (symbol, kind).
type CooldownRecord struct {
	Symbol      string     `json:"symbol"`
	Kind        SignalKind `json:"kind"`
	LastFiredAt time.Time  `json:"last_fired_at"`
}

// Ledger: cooldown-записи на время одного прогона.
// Читается из стора в начале и пишется обратно в конце.
type Ledger struct {
	mu      sync.Mutex
	records map[string]CooldownRecord
	dirty   bool
}

func NewLedger(records ...CooldownRecord) *Ledger {
	l := &Ledger{records: make(map[string]CooldownRecord, len(records))}
	for _, r := range records {
		if r.Symbol == "" || r.Kind == "" {
			continue
		}
		key := helper.CooldownKey(r.Symbol, string(r.Kind))
		// при дублях оставляем самый свежий
		if old, ok := l.records[key]; ok && old.LastFiredAt.After(r.LastFiredAt) {
			continue
		}
		l.records[key] = r
	}
	return l
}

func (l *Ledger) LastFired(symbol string, kind SignalKind) (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	r, ok := l.records[helper.CooldownKey(symbol, string(kind))]
	return r.LastFiredAt, ok
}

func (l *Ledger) Mark(symbol string, kind SignalKind, at time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records[helper.CooldownKey(symbol, string(kind))] = CooldownRecord{
		Symbol:      symbol,
		Kind:        kind,
		LastFiredAt: at.UTC(),
	}
	l.dirty = true
}

// Prune удаляет записи старше before. Возвращает число удалённых.
func (l *Ledger) Prune(before time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for k, r := range l.records {
		if r.LastFiredAt.Before(before) {
			delete(l.records, k)
			n++
		}
	}
	if n > 0 {
		l.dirty = true
	}
	return n
}

// Records: копия записей, отсортированная по ключу.
func (l *Ledger) Records() []CooldownRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	keys := make([]string, 0, len(l.records))
	for k := range l.records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]CooldownRecord, 0, len(keys))
	for _, k := range keys {
		out = append(out, l.records[k])
	}
	return out
}

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

func (l *Ledger) Dirty() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dirty
}
