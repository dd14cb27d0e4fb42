package coinmarketcap

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/romanzzaa/crypto-price-notifier/internal/domain"
)

const convertCurrency = "USD"

// Client - клиент CoinMarketCap Pro API (котировки по символам).
type Client struct {
	apiURL     string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient принимает полный URL эндпоинта котировок и timeout явно.
func NewClient(apiURL, token string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		apiURL:     apiURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// --- Implementation of domain.PriceSource ---

// GetQuotes возвращает последние цены в USD одним батч-запросом.
// Символы, неизвестные CMC, в ответе просто отсутствуют.
func (c *Client) GetQuotes(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	if len(symbols) == 0 {
		return map[string]decimal.Decimal{}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL, nil)
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	q.Set("symbol", strings.Join(symbols, ","))
	q.Set("convert", convertCurrency)
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Accepts", "application/json")
	req.Header.Set("X-CMC_PRO_API_KEY", c.token)

	c.logger.Debug("requesting quotes", slog.Any("symbols", symbols))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("coinmarketcap request: %w", err)
	}
	defer resp.Body.Close()

	var parsed quotesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("coinmarketcap decode: %w", err)
	}

	if parsed.Status.ErrorCode != 0 {
		return nil, fmt.Errorf("coinmarketcap api error: %d %s",
			parsed.Status.ErrorCode, parsed.Status.ErrorMessage)
	}

	quotes := make(map[string]decimal.Decimal, len(parsed.Data))
	for symbol, data := range parsed.Data {
		usd, ok := data.Quote[convertCurrency]
		if !ok {
			continue
		}
		quotes[symbol] = usd.Price.Round(domain.PricePrecision)
	}

	return quotes, nil
}

// AssetExists - один запрос котировки: пустой ответ означает неизвестный актив.
// На совсем кривой символ CMC отвечает error_code 400, это вернется ошибкой.
func (c *Client) AssetExists(ctx context.Context, symbol string) (bool, error) {
	quotes, err := c.GetQuotes(ctx, []string{symbol})
	if err != nil {
		return false, err
	}

	_, ok := quotes[symbol]
	return ok, nil
}
