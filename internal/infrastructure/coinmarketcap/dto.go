package coinmarketcap

import "github.com/shopspring/decimal"

// Формат ответа /v1/cryptocurrency/quotes/latest

type quotesResponse struct {
	Status apiStatus             `json:"status"`
	Data   map[string]assetQuote `json:"data"`
}

type apiStatus struct {
	ErrorCode    int    `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

type assetQuote struct {
	Symbol string               `json:"symbol"`
	Quote  map[string]fiatQuote `json:"quote"`
}

type fiatQuote struct {
	Price decimal.Decimal `json:"price"`
}
