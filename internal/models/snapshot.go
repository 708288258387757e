package models

import "fmt"

// Value: значение индикатора, которое может быть не определено.
type Value struct {
	V  float64
	OK bool
}

func Defined(v float64) Value { return Value{V: v, OK: true} }

var Undefined = Value{}

func (v Value) String() string {
	if !v.OK {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v.V)
}

type Trend string

const (
	TrendUnknown Trend = ""
	TrendUp      Trend = "uptrend"
	TrendDown    Trend = "downtrend"
)

// Snapshot: индикаторы на последней свече окна. Не сохраняется.
type Snapshot struct {
	Bars int

	Close     Value
	PrevClose Value

	RSI Value
	MA  Value

	MACD           Value
	MACDSignal     Value
	PrevMACD       Value
	PrevMACDSignal Value

	BBUpper     Value
	BBLower     Value
	PrevBBUpper Value
	PrevBBLower Value

	ATR       Value // на предыдущей свече
	TrueRange Value // последней свечи

	Change    Value // основное окно, %
	Change1h  Value
	Change2h  Value
	Change24h Value

	Volume    Value
	VolumeAvg Value

	Trend Trend
}
