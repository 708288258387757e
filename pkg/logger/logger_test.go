package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitRejectsUnknownLevel(t *testing.T) {
	assert.Error(t, Init("loud"))
}

func TestFieldsCarryServiceAndRunID(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	prev := InfoLogger
	InfoLogger = zap.New(core)
	t.Cleanup(func() { InfoLogger = prev })

	oldSvc := SetServiceName("crypto_alert")
	oldRun := SetRunID("r-1")
	t.Cleanup(func() {
		SetServiceName(oldSvc)
		SetRunID(oldRun)
	})

	Warn("symbol %s skipped", "BTC/USD")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "symbol BTC/USD skipped", entries[0].Message)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "crypto_alert", ctx["service"])
	assert.Equal(t, "r-1", ctx["run_id"])
}
