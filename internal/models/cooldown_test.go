package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLedgerMarkAndLastFired(t *testing.T) {
	l := NewLedger()
	_, ok := l.LastFired("BTC/USD", KindPrice)
	assert.False(t, ok)
	assert.False(t, l.Dirty())

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	l.Mark("BTC/USD", KindPrice, at)

	got, ok := l.LastFired("BTC/USD", KindPrice)
	assert.True(t, ok)
	assert.Equal(t, at, got)
	assert.True(t, l.Dirty())

	_, ok = l.LastFired("BTC/USD", KindRSI)
	assert.False(t, ok)
}

func TestLedgerKeepsNewestDuplicate(t *testing.T) {
	old := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	fresh := old.Add(time.Hour)
	l := NewLedger(
		CooldownRecord{Symbol: "SOL/USD", Kind: KindVolume, LastFiredAt: fresh},
		CooldownRecord{Symbol: "SOL/USD", Kind: KindVolume, LastFiredAt: old},
		CooldownRecord{Symbol: "", Kind: KindVolume, LastFiredAt: old},
	)
	assert.Equal(t, 1, l.Len())
	got, _ := l.LastFired("SOL/USD", KindVolume)
	assert.Equal(t, fresh, got)
}

func TestLedgerPrune(t *testing.T) {
	now := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	l := NewLedger(
		CooldownRecord{Symbol: "BTC/USD", Kind: KindPrice, LastFiredAt: now.Add(-30 * 24 * time.Hour)},
		CooldownRecord{Symbol: "ETH/USD", Kind: KindPrice, LastFiredAt: now.Add(-time.Hour)},
	)
	assert.Equal(t, 1, l.Prune(now.Add(-7*24*time.Hour)))
	assert.True(t, l.Dirty())

	recs := l.Records()
	assert.Len(t, recs, 1)
	assert.Equal(t, "ETH/USD", recs[0].Symbol)
}
