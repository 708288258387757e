package models

// SymbolConfig: монета из конфига.
type SymbolConfig struct {
	Symbol    string  `yaml:"symbol" json:"symbol"`       // BTC/USD для twelvedata, BTC-USDT для okx
	Name      string  `yaml:"name" json:"name"`           // Bitcoin
	Threshold float64 `yaml:"threshold" json:"threshold"` // порог движения цены, %
}

// DisplayName возвращает имя для сообщений.
func (s SymbolConfig) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Symbol
}
