package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"crypto_alert/internal/models"
)

const (
	ProviderTwelveData = "twelvedata"
	ProviderOKX        = "okx"

	maxBodyLog = 512
)

// Loader: окно свечей oldest→newest.
type Loader interface {
	Candles(ctx context.Context, symbol, interval string, minCount int) ([]models.Candle, error)
}

type Options struct {
	Provider string
	BaseURL  string
	APIKey   string
	Lookback int
	Timeout  time.Duration
}

// NewLoader выбирает провайдера по имени.
func NewLoader(opts Options) (Loader, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	hc := &http.Client{Timeout: opts.Timeout}

	switch opts.Provider {
	case ProviderTwelveData, "":
		return NewTwelveData(hc, opts.BaseURL, opts.APIKey, opts.Lookback), nil
	case ProviderOKX:
		return NewOKX(hc, opts.BaseURL, opts.Lookback), nil
	}
	return nil, fmt.Errorf("unknown market provider %q", opts.Provider)
}

func outputSize(lookback, minCount int) int {
	if minCount > lookback {
		return minCount
	}
	if lookback <= 0 {
		return 2
	}
	return lookback
}

// getJSON: GET и тело ответа; не-2xx считаем недоступностью данных.
func getJSON(ctx context.Context, hc *http.Client, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, errors.Wrap(stripQuery(err), "http get")
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}
	if resp.StatusCode/100 != 2 {
		if len(b) > maxBodyLog {
			b = b[:maxBodyLog]
		}
		return nil, fmt.Errorf("%w: http %d: %s", models.ErrDataUnavailable, resp.StatusCode, string(b))
	}
	return b, nil
}

// stripQuery: *url.Error печатает полный URL вместе с apikey, оставляем только host и path.
func stripQuery(err error) error {
	var ue *url.Error
	if !errors.As(err, &ue) {
		return err
	}
	safe := ""
	if u, perr := url.Parse(ue.URL); perr == nil {
		safe = u.Scheme + "://" + u.Host + u.Path
	}
	return &url.Error{Op: ue.Op, URL: safe, Err: ue.Err}
}
