package models

import "time"

// Classification: итоговый сигнал по символу.
type Classification string

const (
	StrongBuy  Classification = "STRONG_BUY"
	Buy        Classification = "BUY"
	Neutral    Classification = "NEUTRAL"
	Sell       Classification = "SELL"
	StrongSell Classification = "STRONG_SELL"
)

func (c Classification) IsNeutral() bool { return c == Neutral || c == "" }

func (c Classification) IsBullish() bool { return c == Buy || c == StrongBuy }

// SignalKind: тип правила, по нему же ведётся cooldown.
type SignalKind string

const (
	KindPrice     SignalKind = "price"
	KindRSI       SignalKind = "rsi"
	KindMACD      SignalKind = "macd"
	KindBollinger SignalKind = "bollinger"
	KindATR       SignalKind = "atr"
	KindVolume    SignalKind = "volume"
)

// Match: сработавшее правило.
type Match struct {
	Kind           SignalKind
	Classification Classification
	Label          string // Pump, Dump, Oversold ...
	Sentiment      string
	Line           string // строка для сообщения
}

// Alert: то, что реально ушло наружу.
type Alert struct {
	RunID          string         `json:"run_id"`
	Symbol         string         `json:"symbol"`
	Name           string         `json:"name"`
	Kind           SignalKind     `json:"kind"`
	Classification Classification `json:"classification"`
	Label          string         `json:"label"`
	Sentiment      string         `json:"sentiment"`
	Text           string         `json:"text"`
	FiredAt        time.Time      `json:"fired_at"`
}

type Status string

const (
	StatusAlert      Status = "alert"      // алерт отправлен
	StatusSuppressed Status = "suppressed" // сигнал есть, но cooldown
	StatusQuiet      Status = "quiet"      // NEUTRAL
	StatusSkipped    Status = "skipped"    // нет данных
	StatusError      Status = "error"
)

// Outcome: результат обработки одного символа за прогон.
type Outcome struct {
	Symbol   string
	Name     string
	Status   Status
	Snapshot *Snapshot
	Match    *Match
	Alert    *Alert
	Err      error
}
