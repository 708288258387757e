package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crypto_alert/internal/models"
)

type fakeTelegramAPI struct {
	mu      sync.Mutex
	methods []string
	texts   []string
	fail    bool
}

func (f *fakeTelegramAPI) handler(w http.ResponseWriter, r *http.Request) {
	method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]

	f.mu.Lock()
	f.methods = append(f.methods, method)
	if method == "sendMessage" {
		_ = r.ParseForm()
		f.texts = append(f.texts, r.FormValue("text"))
	}
	fail := f.fail
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case method == "getMe":
		_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"alerts","username":"alerts_bot"}}`))
	case fail:
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: can't parse entities"}`))
	default:
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"private"}}}`))
	}
}

func newFakeTelegram(t *testing.T) (*Telegram, *fakeTelegramAPI) {
	t.Helper()
	api := &fakeTelegramAPI{}
	srv := httptest.NewServer(http.HandlerFunc(api.handler))
	t.Cleanup(srv.Close)

	tg, err := NewTelegramWithEndpoint("tok", srv.URL+"/bot%s/%s", 42, srv.Client())
	require.NoError(t, err)
	return tg, api
}

func TestTelegramSend(t *testing.T) {
	tg, api := newFakeTelegram(t)

	require.NoError(t, tg.Send(context.Background(), "📈 *Bitcoin Pump!* +6.00%"))
	png, err := RenderChart([]float64{1, 2, 3})
	require.NoError(t, err)
	require.NoError(t, tg.SendPhoto(context.Background(), "BTC.png", png, "Bitcoin"))

	assert.Equal(t, []string{"getMe", "sendMessage", "sendPhoto"}, api.methods)
	assert.Equal(t, []string{"📈 *Bitcoin Pump!* +6.00%"}, api.texts)
}

func TestTelegramDeliveryFailure(t *testing.T) {
	tg, api := newFakeTelegram(t)
	api.fail = true

	err := tg.Send(context.Background(), "x")
	assert.ErrorIs(t, err, models.ErrDeliveryFailure)
}

func TestNewFallsBackToStdout(t *testing.T) {
	n, err := New("", 0)
	require.NoError(t, err)
	assert.IsType(t, &Stdout{}, n)
	assert.NoError(t, n.Send(context.Background(), "hello"))
	assert.NoError(t, n.SendPhoto(context.Background(), "a.png", []byte{1}, "c"))
}
