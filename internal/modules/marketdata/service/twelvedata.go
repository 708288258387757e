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

	"crypto_alert/internal/helper"
	"crypto_alert/internal/models"
)

const twelveDataBaseURL = "https://api.twelvedata.com"

type TwelveData struct {
	http     *http.Client
	baseURL  string
	apiKey   string
	lookback int
}

func NewTwelveData(hc *http.Client, baseURL, apiKey string, lookback int) *TwelveData {
	if baseURL == "" {
		baseURL = twelveDataBaseURL
	}
	return &TwelveData{
		http:     hc,
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		lookback: lookback,
	}
}

type twelveValue struct {
	Datetime string `json:"datetime"`
	Open     string `json:"open"`
	High     string `json:"high"`
	Low      string `json:"low"`
	Close    string `json:"close"`
	Volume   string `json:"volume"`
}

type twelveResp struct {
	Status  string        `json:"status"`
	Code    int           `json:"code"`
	Message string        `json:"message"`
	Values  []twelveValue `json:"values"`
}

// Candles: /time_series отдаёт values newest-first строками.
func (t *TwelveData) Candles(ctx context.Context, symbol, interval string, minCount int) ([]models.Candle, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", helper.TwelveInterval(interval))
	q.Set("outputsize", strconv.Itoa(outputSize(t.lookback, minCount)))
	q.Set("timezone", "UTC")
	q.Set("apikey", t.apiKey)

	b, err := getJSON(ctx, t.http, t.baseURL+"/time_series?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var r twelveResp
	if err := sonic.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("%w: decode time_series: %v", models.ErrDataUnavailable, err)
	}
	if r.Status == "error" {
		return nil, fmt.Errorf("%w: twelvedata code=%d msg=%s", models.ErrDataUnavailable, r.Code, r.Message)
	}
	if r.Values == nil {
		return nil, fmt.Errorf("%w: twelvedata: no values for %s", models.ErrDataUnavailable, symbol)
	}

	out := make([]models.Candle, 0, len(r.Values))
	for i := len(r.Values) - 1; i >= 0; i-- {
		c, err := parseTwelveValue(r.Values[i])
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", models.ErrDataUnavailable, symbol, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func parseTwelveValue(v twelveValue) (models.Candle, error) {
	var c models.Candle
	var err error

	if c.Close, err = strconv.ParseFloat(v.Close, 64); err != nil {
		return c, fmt.Errorf("bad close %q", v.Close)
	}
	// o/h/l могут отсутствовать у некоторых инструментов: подставляем close
	c.Open = floatOr(v.Open, c.Close)
	c.High = floatOr(v.High, c.Close)
	c.Low = floatOr(v.Low, c.Close)

	if v.Volume != "" {
		if vol, err := strconv.ParseFloat(v.Volume, 64); err == nil {
			c.Volume, c.HasVolume = vol, true
		}
	}

	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02"} {
		if ts, err := time.ParseInLocation(layout, v.Datetime, time.UTC); err == nil {
			c.OpenTime = ts
			break
		}
	}
	return c, nil
}

func floatOr(s string, def float64) float64 {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return def
}
