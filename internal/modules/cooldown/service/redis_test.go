package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crypto_alert/internal/models"
)

func TestHashEncoding(t *testing.T) {
	at := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	records := []models.CooldownRecord{
		{Symbol: "BTC/USD", Kind: models.KindPrice, LastFiredAt: at},
		{Symbol: "LINK/USD", Kind: models.KindVolume, LastFiredAt: at.Add(-time.Minute)},
	}

	enc := encodeHash(records)
	assert.Equal(t, "1715342400", enc["BTC/USD:price"])

	fields := make(map[string]string, len(enc))
	for k, v := range enc {
		fields[k] = v.(string)
	}
	fields["garbage"] = "1"
	fields["ETH/USD:rsi"] = "yesterday"

	l := models.NewLedger(decodeHash(fields)...)
	require.Equal(t, 2, l.Len())
	assert.Equal(t, records, l.Records())
}
