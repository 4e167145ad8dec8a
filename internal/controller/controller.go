// Package controller реализует state machine risk-сессий:
// NoSession -> Monitoring -> (Monitoring | HedgedAtLeastOnce).
// Контроллер не держит состояния между операциями и не форматирует
// текст для пользователя — он возвращает типизированные результаты,
// которые рендерит telegram-адаптер.
package controller

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/kirillm/hedge-bot/internal/analytics"
	"github.com/kirillm/hedge-bot/internal/domain"
	"github.com/kirillm/hedge-bot/internal/metrics"
	"github.com/kirillm/hedge-bot/internal/store"
	"github.com/kirillm/hedge-bot/pkg/utils"
)

// PriceOracle — контракт внешнего источника цен. Сбой всегда приходит
// как domain.ErrPriceUnavailable, никогда как паника или иной fault.
type PriceOracle interface {
	GetPrice(ctx context.Context, symbol string, venue domain.Venue) (float64, error)
}

// Controller координирует Session Store, оракул цен и движок аналитики
type Controller struct {
	store  *store.SessionStore
	oracle PriceOracle
	logger *utils.Logger
}

func New(store *store.SessionStore, oracle PriceOracle, logger *utils.Logger) *Controller {
	return &Controller{
		store:  store,
		oracle: oracle,
		logger: logger,
	}
}

// HedgeResult — результат успешного хеджирования
type HedgeResult struct {
	Symbol string
	Size   float64
	Price  float64
	Cost   float64
}

// StatusResult — текущая сессия плюс настройки авто-хеджа, если есть
type StatusResult struct {
	Session   domain.RiskSession
	AutoHedge *domain.AutoHedgeConfig
}

// AnalyticsResult — портфельная аналитика по текущей цене
type AnalyticsResult struct {
	Session     domain.RiskSession
	Price       float64
	Value       float64
	Greeks      analytics.Greeks
	VaR         float64
	MaxDrawdown float64
	Correlation float64
	Slippage    float64
}

// StressResult — VaR при ценовых шоках ±10%
type StressResult struct {
	Price   float64
	DownVaR float64
	UpVaR   float64
}

// PnLLine — PnL одного входа в позицию
type PnLLine struct {
	Symbol       string
	EntryPrice   float64
	CurrentPrice float64
	Size         float64
	PnL          float64
}

// PnLResult — агрегированный PnL. Skipped считает входы, для которых
// не удалось получить цену; их PnL не входит в Total.
type PnLResult struct {
	Lines   []PnLLine
	Total   float64
	Skipped int
}

// RiskCurve — серия VaR по сетке цен для графика
type RiskCurve struct {
	Symbol string
	Prices []float64
	VaRs   []float64
}

// StartMonitoring создает (или перезаписывает) сессию мониторинга.
// При ошибке валидации состояние не меняется.
func (c *Controller) StartMonitoring(chatID int64, symbol string, size, threshold float64, venue domain.Venue) (domain.RiskSession, error) {
	if symbol == "" {
		return domain.RiskSession{}, fmt.Errorf("%w: symbol is required", domain.ErrInvalidArguments)
	}
	if size <= 0 || math.IsNaN(size) || math.IsInf(size, 0) {
		return domain.RiskSession{}, fmt.Errorf("%w: size must be a positive number", domain.ErrInvalidArguments)
	}
	if math.IsNaN(threshold) || math.IsInf(threshold, 0) {
		return domain.RiskSession{}, fmt.Errorf("%w: threshold must be a finite number", domain.ErrInvalidArguments)
	}
	if _, ok := domain.ParseVenue(string(venue)); !ok {
		return domain.RiskSession{}, fmt.Errorf("%w: venue must be one of binance, bybit, okx", domain.ErrInvalidArguments)
	}

	session := domain.RiskSession{
		Symbol:       domain.NormalizeSymbol(symbol),
		PositionSize: size,
		Threshold:    threshold,
		Venue:        venue,
	}
	c.store.PutSession(chatID, session)

	c.logger.Info("chat %d: monitoring %s size=%v threshold=%v%% on %s",
		chatID, session.Symbol, size, threshold, venue)
	return session, nil
}

// ReconfigureThreshold меняет порог существующей сессии
func (c *Controller) ReconfigureThreshold(chatID int64, threshold float64) error {
	if math.IsNaN(threshold) || math.IsInf(threshold, 0) {
		return fmt.Errorf("%w: threshold must be a finite number", domain.ErrInvalidArguments)
	}
	return c.store.UpdateThreshold(chatID, threshold)
}

// EnableAutoHedge сохраняет настройки авто-хеджа. Активная сессия
// намеренно не требуется: конфиг может ждать следующего monitor.
func (c *Controller) EnableAutoHedge(chatID int64, strategy string, threshold float64) (domain.AutoHedgeConfig, error) {
	if strategy == "" {
		return domain.AutoHedgeConfig{}, fmt.Errorf("%w: strategy is required", domain.ErrInvalidArguments)
	}
	if math.IsNaN(threshold) || math.IsInf(threshold, 0) {
		return domain.AutoHedgeConfig{}, fmt.Errorf("%w: threshold must be a finite number", domain.ErrInvalidArguments)
	}

	cfg := domain.AutoHedgeConfig{Strategy: strategy, Threshold: threshold}
	c.store.SetAutoHedge(chatID, cfg)
	return cfg, nil
}

// ExecuteHedge выполняет хедж по текущей цене. Журналы мутируются
// одним шагом и только после удачного похода за ценой.
func (c *Controller) ExecuteHedge(ctx context.Context, chatID int64) (HedgeResult, error) {
	session, ok := c.store.GetSession(chatID)
	if !ok {
		return HedgeResult{}, domain.ErrNoActiveSession
	}

	price, err := c.oracle.GetPrice(ctx, session.Symbol, session.Venue)
	if err != nil {
		return HedgeResult{}, err
	}

	cost := session.PositionSize * price * domain.HedgeFeeRate

	c.store.AppendHedge(chatID, domain.HedgeRecord{
		Timestamp:     time.Now(),
		Symbol:        session.Symbol,
		EstimatedCost: cost,
	})
	c.store.AppendPosition(chatID, domain.PositionEntry{
		Symbol:     session.Symbol,
		EntryPrice: price,
		Size:       session.PositionSize,
	})
	metrics.HedgesExecuted.Inc()

	c.logger.Info("chat %d: hedged %s size=%v price=%v cost=%.2f",
		chatID, session.Symbol, session.PositionSize, price, cost)

	return HedgeResult{
		Symbol: session.Symbol,
		Size:   session.PositionSize,
		Price:  price,
		Cost:   cost,
	}, nil
}

// Status возвращает сессию и, если есть, настройки авто-хеджа
func (c *Controller) Status(chatID int64) (StatusResult, error) {
	session, ok := c.store.GetSession(chatID)
	if !ok {
		return StatusResult{}, domain.ErrNoActiveSession
	}

	result := StatusResult{Session: session}
	if cfg, ok := c.store.GetAutoHedge(chatID); ok {
		result.AutoHedge = &cfg
	}
	return result, nil
}

// RecentHedges возвращает последние n записей журнала хеджей
func (c *Controller) RecentHedges(chatID int64, n int) []domain.HedgeRecord {
	return c.store.RecentHedges(chatID, n)
}

// PortfolioAnalytics считает метрики по текущей цене
func (c *Controller) PortfolioAnalytics(ctx context.Context, chatID int64) (AnalyticsResult, error) {
	session, ok := c.store.GetSession(chatID)
	if !ok {
		return AnalyticsResult{}, domain.ErrNoActiveSession
	}

	price, err := c.oracle.GetPrice(ctx, session.Symbol, session.Venue)
	if err != nil {
		return AnalyticsResult{}, err
	}

	value := price * session.PositionSize
	return AnalyticsResult{
		Session:     session,
		Price:       price,
		Value:       value,
		Greeks:      analytics.CalcGreeks(session.PositionSize),
		VaR:         analytics.ValueAtRisk(value),
		MaxDrawdown: analytics.MaxDrawdown(value),
		Correlation: analytics.Correlation(),
		Slippage:    analytics.EstimateSlippage(price),
	}, nil
}

// StressTest моделирует ценовые шоки ±10% и считает VaR для каждого
func (c *Controller) StressTest(ctx context.Context, chatID int64) (StressResult, error) {
	session, ok := c.store.GetSession(chatID)
	if !ok {
		return StressResult{}, domain.ErrNoActiveSession
	}

	price, err := c.oracle.GetPrice(ctx, session.Symbol, session.Venue)
	if err != nil {
		return StressResult{}, err
	}

	value := price * session.PositionSize
	return StressResult{
		Price:   price,
		DownVaR: analytics.ValueAtRisk(value * 0.9),
		UpVaR:   analytics.ValueAtRisk(value * 1.1),
	}, nil
}

// ComputePnL считает PnL по всем входам чата. Цена берется один раз
// на каждый символ; входы с недоступной ценой пропускаются, частичный
// результат — это успех, а не ошибка.
func (c *Controller) ComputePnL(ctx context.Context, chatID int64) (PnLResult, error) {
	entries := c.store.AllPositions(chatID)

	prices := make(map[string]float64)
	failed := make(map[string]bool)

	var result PnLResult
	for _, entry := range entries {
		price, ok := prices[entry.Symbol]
		if !ok && !failed[entry.Symbol] {
			var err error
			price, err = c.oracle.GetPrice(ctx, entry.Symbol, domain.DefaultVenue)
			if err != nil {
				failed[entry.Symbol] = true
			} else {
				prices[entry.Symbol] = price
			}
		}
		if failed[entry.Symbol] {
			result.Skipped++
			continue
		}

		pnl := round2((prices[entry.Symbol] - entry.EntryPrice) * entry.Size)
		result.Lines = append(result.Lines, PnLLine{
			Symbol:       entry.Symbol,
			EntryPrice:   entry.EntryPrice,
			CurrentPrice: prices[entry.Symbol],
			Size:         entry.Size,
			PnL:          pnl,
		})
		result.Total += pnl
	}

	return result, nil
}

// ComputeRiskCurve строит серию VaR по сетке цен ±5% для графика
func (c *Controller) ComputeRiskCurve(ctx context.Context, chatID int64) (RiskCurve, error) {
	session, ok := c.store.GetSession(chatID)
	if !ok {
		return RiskCurve{}, domain.ErrNoActiveSession
	}

	price, err := c.oracle.GetPrice(ctx, session.Symbol, session.Venue)
	if err != nil {
		return RiskCurve{}, err
	}

	curve := RiskCurve{Symbol: session.Symbol}
	for i := -5; i <= 5; i++ {
		p := price * (1 + float64(i)/100)
		curve.Prices = append(curve.Prices, p)
		curve.VaRs = append(curve.VaRs, analytics.ValueAtRisk(p*session.PositionSize))
	}
	return curve, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
