package helper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormInterval(t *testing.T) {
	assert.Equal(t, "30m", NormInterval("30min"))
	assert.Equal(t, "30m", NormInterval(" 30M "))
	assert.Equal(t, "1h", NormInterval("1H"))
	assert.Equal(t, "1h", NormInterval("candle60m"))
	assert.Equal(t, "1d", NormInterval("1day"))
	assert.Equal(t, "weird", NormInterval("weird"))
}

func TestTwelveInterval(t *testing.T) {
	assert.Equal(t, "30min", TwelveInterval("30m"))
	assert.Equal(t, "1h", TwelveInterval("1H"))
	assert.Equal(t, "1day", TwelveInterval("1d"))
}

func TestBarsFor(t *testing.T) {
	assert.Equal(t, 2, BarsFor(time.Hour, "30min"))
	assert.Equal(t, 48, BarsFor(24*time.Hour, "30min"))
	assert.Equal(t, 1, BarsFor(time.Hour, "4h"))
	assert.Equal(t, 0, BarsFor(time.Hour, "weird"))
}

func TestCooldownKey(t *testing.T) {
	key := CooldownKey("BTC/USD", "price")
	assert.Equal(t, "BTC/USD:price", key)

	sym, kind, ok := SplitCooldownKey(key)
	assert.True(t, ok)
	assert.Equal(t, "BTC/USD", sym)
	assert.Equal(t, "price", kind)

	_, _, ok = SplitCooldownKey("nokind:")
	assert.False(t, ok)
	_, _, ok = SplitCooldownKey(":price")
	assert.False(t, ok)
}
