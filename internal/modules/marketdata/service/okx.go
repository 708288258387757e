package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"crypto_alert/internal/models"
)

const (
	okxBaseURL  = "https://www.okx.com"
	okxMaxLimit = 300
)

type OKX struct {
	http     *http.Client
	baseURL  string
	lookback int
}

func NewOKX(hc *http.Client, baseURL string, lookback int) *OKX {
	if baseURL == "" {
		baseURL = okxBaseURL
	}
	return &OKX{
		http:     hc,
		baseURL:  strings.TrimRight(baseURL, "/"),
		lookback: lookback,
	}
}

// Candles. Строка OKX: [ts, o, h, l, c, vol, volCcy, volCcyQuote, confirm].
func (c *OKX) Candles(ctx context.Context, instID, interval string, minCount int) ([]models.Candle, error) {
	limit := outputSize(c.lookback, minCount)
	if limit > okxMaxLimit {
		limit = okxMaxLimit
	}
	bar, err := okxBar(interval) // "1h" -> "1H"
	if err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/api/v5/market/candles?instId=%s&bar=%s&limit=%d",
		c.baseURL, url.QueryEscape(instID), url.QueryEscape(bar), limit,
	)
	b, err := getJSON(ctx, c.http, u)
	if err != nil {
		return nil, err
	}

	var r struct {
		Code string     `json:"code"`
		Msg  string     `json:"msg"`
		Data [][]string `json:"data"`
	}
	if err := sonic.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("%w: decode candles: %v", models.ErrDataUnavailable, err)
	}
	if r.Code != "0" {
		return nil, fmt.Errorf("%w: okx candles error: code=%s msg=%s", models.ErrDataUnavailable, r.Code, r.Msg)
	}

	// OKX отдаёт newest-first → разворачиваем
	out := make([]models.Candle, 0, len(r.Data))
	for i := len(r.Data) - 1; i >= 0; i-- {
		row := r.Data[i]
		if len(row) < 5 {
			return nil, fmt.Errorf("%w: %s: short row %v", models.ErrDataUnavailable, instID, row)
		}

		tsMs, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: bad ts %q", models.ErrDataUnavailable, instID, row[0])
		}
		closep, err := strconv.ParseFloat(row[4], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: bad close %q", models.ErrDataUnavailable, instID, row[4])
		}

		candle := models.Candle{
			OpenTime: time.UnixMilli(tsMs).UTC(),
			Open:     floatOr(row[1], closep),
			High:     floatOr(row[2], closep),
			Low:      floatOr(row[3], closep),
			Close:    closep,
		}
		if len(row) >= 6 {
			if vol, err := strconv.ParseFloat(row[5], 64); err == nil {
				candle.Volume, candle.HasVolume = vol, true
			}
		}
		out = append(out, candle)
	}

	return out, nil
}
