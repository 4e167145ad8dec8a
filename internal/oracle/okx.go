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

// OKXClient получает цены через публичный market API OKX
type OKXClient struct {
	baseURL string
	client  *http.Client
}

type okxTickerResponse struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
	Data []struct {
		InstID string `json:"instId"`
		Last   string `json:"last"`
	} `json:"data"`
}

func NewOKXClient(baseURL string) *OKXClient {
	return &OKXClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// LastPrice возвращает последнюю цену сделки по паре
func (o *OKXClient) LastPrice(ctx context.Context, symbol string) (float64, error) {
	url := fmt.Sprintf("%s/api/v5/market/ticker?instId=%s", o.baseURL, instrumentID(symbol, "-"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response: %w", err)
	}

	var ticker okxTickerResponse
	if err := json.Unmarshal(body, &ticker); err != nil {
		return 0, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if ticker.Code != "0" {
		return 0, fmt.Errorf("okx API error: %s", ticker.Msg)
	}

	if len(ticker.Data) == 0 || ticker.Data[0].Last == "" {
		return 0, fmt.Errorf("no price data for symbol %s", symbol)
	}

	price, err := strconv.ParseFloat(ticker.Data[0].Last, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse price for %s: %w", symbol, err)
	}

	return price, nil
}
