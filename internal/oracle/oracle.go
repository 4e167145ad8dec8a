// Package oracle отвечает за получение последней цены с бирж.
// Любой сбой (сеть, таймаут, неизвестный символ) наружу выходит как
// domain.ErrPriceUnavailable — контроллер видит "цена недоступна"
// как обычный результат, а не как исключительную ситуацию.
package oracle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kirillm/hedge-bot/internal/domain"
	"github.com/kirillm/hedge-bot/internal/metrics"
	"github.com/kirillm/hedge-bot/pkg/utils"
)

// PriceSource — один источник последней цены
type PriceSource interface {
	LastPrice(ctx context.Context, symbol string) (float64, error)
}

// Oracle мультиплексирует запросы цены по биржам.
// Каждый вызов ограничен таймаутом; истечение неотличимо от недоступности.
type Oracle struct {
	venues  map[domain.Venue]PriceSource
	timeout time.Duration
	logger  *utils.Logger
}

// NewOracle создает оракул над набором бирж
func NewOracle(venues map[domain.Venue]PriceSource, timeout time.Duration, logger *utils.Logger) *Oracle {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Oracle{
		venues:  venues,
		timeout: timeout,
		logger:  logger,
	}
}

// GetPrice возвращает последнюю цену пары на указанной бирже
func (o *Oracle) GetPrice(ctx context.Context, symbol string, venue domain.Venue) (float64, error) {
	source, ok := o.venues[venue]
	if !ok {
		return 0, fmt.Errorf("%w: %s", domain.ErrUnknownVenue, venue)
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	started := time.Now()
	price, err := source.LastPrice(ctx, symbol)
	metrics.PriceFetchLatency.Observe(time.Since(started).Seconds())

	if err != nil {
		metrics.OracleErrors.Inc()
		o.logger.Warn("price fetch failed for %s on %s: %v", symbol, venue, err)
		return 0, fmt.Errorf("%w: %s on %s", domain.ErrPriceUnavailable, symbol, venue)
	}

	return price, nil
}

// pairBase возвращает базовый актив канонической пары ("BTC/USDT" -> "BTC")
func pairBase(symbol string) string {
	if i := strings.Index(symbol, "/"); i >= 0 {
		return symbol[:i]
	}
	return symbol
}

// pairQuote возвращает котируемый актив пары ("BTC/USDT" -> "USDT")
func pairQuote(symbol string) string {
	if i := strings.Index(symbol, "/"); i >= 0 {
		return symbol[i+1:]
	}
	return domain.QuoteAsset
}

// instrumentID форматирует пару в venue-специфичный идентификатор
// инструмента: binance/bybit — "BTCUSDT", okx — "BTC-USDT".
func instrumentID(symbol, separator string) string {
	return pairBase(symbol) + separator + pairQuote(symbol)
}
