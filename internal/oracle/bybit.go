package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// BybitClient получает цены через публичный v5 market API Bybit
type BybitClient struct {
	baseURL string
	client  *http.Client
}

type bybitTickerResponse struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
	Result  struct {
		List []struct {
			Symbol    string `json:"symbol"`
			LastPrice string `json:"lastPrice"`
		} `json:"list"`
	} `json:"result"`
}

func NewBybitClient(baseURL string) *BybitClient {
	return &BybitClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// LastPrice возвращает последнюю цену сделки по паре
func (b *BybitClient) LastPrice(ctx context.Context, symbol string) (float64, error) {
	url := fmt.Sprintf("%s/v5/market/tickers?category=spot&symbol=%s", b.baseURL, instrumentID(symbol, ""))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response: %w", err)
	}

	var ticker bybitTickerResponse
	if err := json.Unmarshal(body, &ticker); err != nil {
		return 0, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if ticker.RetCode != 0 {
		return 0, fmt.Errorf("bybit API error: %s", ticker.RetMsg)
	}

	if len(ticker.Result.List) == 0 || ticker.Result.List[0].LastPrice == "" {
		return 0, fmt.Errorf("no price data for symbol %s", symbol)
	}

	price, err := strconv.ParseFloat(ticker.Result.List[0].LastPrice, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse price for %s: %w", symbol, err)
	}

	return price, nil
}
