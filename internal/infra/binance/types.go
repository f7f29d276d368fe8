package binance

// ticker24hResponse is the subset of GET /api/v3/ticker/24hr we consume.
// Reference: https://binance-docs.github.io/apidocs/spot/en/#24hr-ticker-price-change-statistics
type ticker24hResponse struct {
	Symbol             string `json:"symbol"`
	LastPrice          string `json:"lastPrice"`
	PriceChangePercent string `json:"priceChangePercent"`
}

// tradeEvent is one frame from the <symbol>@trade stream.
// Only the price field is consumed; the rest is ignored.
type tradeEvent struct {
	EventType string `json:"e"` // "trade"
	Symbol    string `json:"s"` // "BTCUSDT"
	Price     string `json:"p"` // Trade price (string-preserving precision)
	Quantity  string `json:"q"`
	TradeTime int64  `json:"T"` // Trade time (ms)
}
