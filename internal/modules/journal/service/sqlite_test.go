package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crypto_alert/internal/models"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "journal", "alerts.db")
	j, err := NewSQLite(path)
	require.NoError(t, err)

	return j, path
}

func alert(symbol string, at time.Time) models.Alert {
	return models.Alert{
		RunID:          "run-1",
		Symbol:         symbol,
		Name:           "Bitcoin",
		Kind:           models.KindPrice,
		Classification: models.StrongBuy,
		Label:          "Pump",
		Sentiment:      "Strongly bullish",
		Text:           "📈 *Bitcoin Pump!* +6.00%",
		FiredAt:        at,
	}
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='alerts'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "alerts", name)
}

func TestSQLiteRecordAndRecent(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })
	ctx := context.Background()

	t0 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, j.Record(ctx, alert("BTC/USD", t0)))
	require.NoError(t, j.Record(ctx, alert("SOL/USD", t0.Add(30*time.Minute))))

	got, err := j.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "SOL/USD", got[0].Symbol)
	assert.Equal(t, "BTC/USD", got[1].Symbol)
	assert.Equal(t, models.StrongBuy, got[1].Classification)
	assert.Equal(t, models.KindPrice, got[1].Kind)
	assert.True(t, got[1].FiredAt.Equal(t0))

	got, err = j.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
