package domain

import (
	"strings"
	"time"
)

// Venue представляет биржу, на которой запрашивается цена
type Venue string

const (
	VenueBinance Venue = "binance"
	VenueBybit   Venue = "bybit"
	VenueOKX     Venue = "okx"
)

// ParseVenue разбирает имя биржи из пользовательского ввода
func ParseVenue(s string) (Venue, bool) {
	switch Venue(strings.ToLower(strings.TrimSpace(s))) {
	case VenueBinance:
		return VenueBinance, true
	case VenueBybit:
		return VenueBybit, true
	case VenueOKX:
		return VenueOKX, true
	default:
		return "", false
	}
}

// RiskSession представляет отслеживаемую спотовую позицию одного чата
type RiskSession struct {
	Symbol       string  // каноническая пара, например "BTC/USDT"
	PositionSize float64 // размер позиции, всегда > 0
	Threshold    float64 // порог алерта в процентах
	Venue        Venue
}

// AutoHedgeConfig представляет настройки автоматического хеджирования
type AutoHedgeConfig struct {
	Strategy  string
	Threshold float64 // процент
}

// HedgeRecord представляет одно выполненное хеджирование
type HedgeRecord struct {
	Timestamp     time.Time
	Symbol        string
	EstimatedCost float64 // size * price * HedgeFeeRate
}

// PositionEntry представляет вход в позицию, созданный при хеджировании.
// Используется для расчета PnL: (current_price - entry_price) * size.
type PositionEntry struct {
	Symbol     string
	EntryPrice float64
	Size       float64
}

// NormalizeSymbol приводит символ к канонической паре.
// "eth" -> "ETH/USDT", "BTC/USDT" остается без изменений.
func NormalizeSymbol(symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return symbol
	}
	if strings.Contains(symbol, "/") {
		return symbol
	}
	return symbol + "/" + QuoteAsset
}
