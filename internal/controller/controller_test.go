package controller

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirillm/hedge-bot/internal/domain"
	"github.com/kirillm/hedge-bot/internal/store"
	"github.com/kirillm/hedge-bot/pkg/utils"
)

// fakeOracle — детерминированный оракул для тестов: цены по символу,
// отсутствующий символ означает "цена недоступна"
type fakeOracle struct {
	prices map[string]float64
	calls  int
}

func (f *fakeOracle) GetPrice(_ context.Context, symbol string, _ domain.Venue) (float64, error) {
	f.calls++
	price, ok := f.prices[symbol]
	if !ok {
		return 0, domain.ErrPriceUnavailable
	}
	return price, nil
}

func newTestController(prices map[string]float64) (*Controller, *store.SessionStore, *fakeOracle) {
	s := store.NewSessionStore()
	o := &fakeOracle{prices: prices}
	c := New(s, o, utils.NewLogger("error"))
	return c, s, o
}

func TestStartMonitoring_RoundTrip(t *testing.T) {
	c, s, _ := newTestController(nil)

	session, err := c.StartMonitoring(1, "ETH", 2.0, 5.0, domain.VenueBinance)
	require.NoError(t, err)
	assert.Equal(t, "ETH/USDT", session.Symbol)
	assert.Equal(t, 2.0, session.PositionSize)
	assert.Equal(t, 5.0, session.Threshold)
	assert.Equal(t, domain.VenueBinance, session.Venue)

	stored, ok := s.GetSession(1)
	require.True(t, ok)
	assert.Equal(t, session, stored)
}

func TestStartMonitoring_Validation(t *testing.T) {
	tests := []struct {
		name      string
		symbol    string
		size      float64
		threshold float64
		venue     domain.Venue
	}{
		{"zero size", "BTC", 0, 5, domain.VenueBinance},
		{"negative size", "BTC", -1, 5, domain.VenueBinance},
		{"nan size", "BTC", math.NaN(), 5, domain.VenueBinance},
		{"inf threshold", "BTC", 1, math.Inf(1), domain.VenueBinance},
		{"nan threshold", "BTC", 1, math.NaN(), domain.VenueBinance},
		{"empty symbol", "", 1, 5, domain.VenueBinance},
		{"unknown venue", "BTC", 1, 5, domain.Venue("kraken")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, s, _ := newTestController(nil)

			_, err := c.StartMonitoring(1, tt.symbol, tt.size, tt.threshold, tt.venue)
			assert.ErrorIs(t, err, domain.ErrInvalidArguments)

			// при ошибке валидации состояние не создается
			_, ok := s.GetSession(1)
			assert.False(t, ok)
		})
	}
}

func TestStartMonitoring_Overwrite(t *testing.T) {
	c, s, _ := newTestController(nil)

	_, err := c.StartMonitoring(1, "BTC", 1.0, 3.0, domain.VenueBinance)
	require.NoError(t, err)
	_, err = c.StartMonitoring(1, "SOL", 10.0, 7.0, domain.VenueOKX)
	require.NoError(t, err)

	stored, ok := s.GetSession(1)
	require.True(t, ok)
	assert.Equal(t, "SOL/USDT", stored.Symbol)
	assert.Equal(t, 10.0, stored.PositionSize)
	assert.Equal(t, domain.VenueOKX, stored.Venue)
}

func TestReconfigureThreshold(t *testing.T) {
	c, s, _ := newTestController(nil)

	err := c.ReconfigureThreshold(1, 9.0)
	assert.ErrorIs(t, err, domain.ErrNoActiveSession)
	_, ok := s.GetSession(1)
	assert.False(t, ok, "reconfigure must never create a session")

	_, err = c.StartMonitoring(1, "BTC", 1.0, 3.0, domain.VenueBinance)
	require.NoError(t, err)
	require.NoError(t, c.ReconfigureThreshold(1, 9.0))

	stored, _ := s.GetSession(1)
	assert.Equal(t, 9.0, stored.Threshold)

	err = c.ReconfigureThreshold(1, math.NaN())
	assert.ErrorIs(t, err, domain.ErrInvalidArguments)
}

func TestEnableAutoHedge_NoSessionRequired(t *testing.T) {
	c, s, _ := newTestController(nil)

	cfg, err := c.EnableAutoHedge(1, "delta-neutral", 4.0)
	require.NoError(t, err)
	assert.Equal(t, "delta-neutral", cfg.Strategy)
	assert.Equal(t, 4.0, cfg.Threshold)

	stored, ok := s.GetAutoHedge(1)
	require.True(t, ok)
	assert.Equal(t, cfg, stored)

	_, err = c.EnableAutoHedge(1, "", 4.0)
	assert.ErrorIs(t, err, domain.ErrInvalidArguments)
}

func TestExecuteHedge_Success(t *testing.T) {
	c, s, _ := newTestController(map[string]float64{"ETH/USDT": 3000})

	_, err := c.StartMonitoring(1, "ETH", 2.0, 5.0, domain.VenueBinance)
	require.NoError(t, err)

	result, err := c.ExecuteHedge(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "ETH/USDT", result.Symbol)
	assert.Equal(t, 3000.0, result.Price)
	assert.Equal(t, 6.0, result.Cost) // 2.0 * 3000 * 0.001

	assert.Equal(t, 1, s.HedgeCount(1))
	positions := s.AllPositions(1)
	require.Len(t, positions, 1)
	assert.Equal(t, domain.PositionEntry{Symbol: "ETH/USDT", EntryPrice: 3000, Size: 2.0}, positions[0])
}

func TestExecuteHedge_NoSession(t *testing.T) {
	c, _, _ := newTestController(nil)

	_, err := c.ExecuteHedge(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrNoActiveSession)
}

func TestExecuteHedge_PriceUnavailable_NoLedgerMutation(t *testing.T) {
	c, s, _ := newTestController(map[string]float64{})

	_, err := c.StartMonitoring(1, "ETH", 2.0, 5.0, domain.VenueBinance)
	require.NoError(t, err)

	_, err = c.ExecuteHedge(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrPriceUnavailable)

	assert.Zero(t, s.HedgeCount(1))
	assert.Empty(t, s.AllPositions(1))
}

func TestStatus(t *testing.T) {
	c, _, _ := newTestController(nil)

	_, err := c.Status(1)
	assert.ErrorIs(t, err, domain.ErrNoActiveSession)

	_, err = c.StartMonitoring(1, "BTC", 1.0, 3.0, domain.VenueBybit)
	require.NoError(t, err)

	status, err := c.Status(1)
	require.NoError(t, err)
	assert.Equal(t, "BTC/USDT", status.Session.Symbol)
	assert.Nil(t, status.AutoHedge)

	_, err = c.EnableAutoHedge(1, "collar", 2.5)
	require.NoError(t, err)

	status, err = c.Status(1)
	require.NoError(t, err)
	require.NotNil(t, status.AutoHedge)
	assert.Equal(t, "collar", status.AutoHedge.Strategy)
}

func TestRecentHedges_LastFiveOfSeven(t *testing.T) {
	c, _, _ := newTestController(map[string]float64{"BTC/USDT": 50000})

	_, err := c.StartMonitoring(1, "BTC", 1.0, 3.0, domain.VenueBinance)
	require.NoError(t, err)

	for i := 0; i < 7; i++ {
		_, err := c.ExecuteHedge(context.Background(), 1)
		require.NoError(t, err)
	}

	recent := c.RecentHedges(1, domain.HistoryLimit)
	assert.Len(t, recent, 5)
}

func TestPortfolioAnalytics(t *testing.T) {
	c, _, _ := newTestController(map[string]float64{"ETH/USDT": 3000})

	_, err := c.PortfolioAnalytics(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrNoActiveSession)

	_, err = c.StartMonitoring(1, "ETH", 2.0, 5.0, domain.VenueBinance)
	require.NoError(t, err)

	result, err := c.PortfolioAnalytics(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3000.0, result.Price)
	assert.Equal(t, 6000.0, result.Value)
	assert.Equal(t, 1.6, result.Greeks.Delta)
	assert.Equal(t, 495.0, result.VaR)         // 1.65 * 0.05 * 6000
	assert.Equal(t, 480.0, result.MaxDrawdown) // 0.08 * 6000
	assert.Equal(t, 0.92, result.Correlation)
	assert.Equal(t, 6.0, result.Slippage) // 0.002 * 3000
}

func TestStressTest(t *testing.T) {
	c, _, _ := newTestController(map[string]float64{"ETH/USDT": 3000})

	_, err := c.StartMonitoring(1, "ETH", 2.0, 5.0, domain.VenueBinance)
	require.NoError(t, err)

	result, err := c.StressTest(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3000.0, result.Price)
	assert.Equal(t, 445.5, result.DownVaR) // VaR(6000 * 0.9)
	assert.Equal(t, 544.5, result.UpVaR)   // VaR(6000 * 1.1)
}

func TestComputePnL_PartialResult(t *testing.T) {
	c, s, o := newTestController(map[string]float64{"ETH/USDT": 3100})

	s.AppendPosition(1, domain.PositionEntry{Symbol: "ETH/USDT", EntryPrice: 3000, Size: 2})
	s.AppendPosition(1, domain.PositionEntry{Symbol: "DEAD/USDT", EntryPrice: 10, Size: 5})
	s.AppendPosition(1, domain.PositionEntry{Symbol: "ETH/USDT", EntryPrice: 3200, Size: 1})

	result, err := c.ComputePnL(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, result.Lines, 2)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 200.0, result.Lines[0].PnL)  // (3100-3000)*2
	assert.Equal(t, -100.0, result.Lines[1].PnL) // (3100-3200)*1
	assert.Equal(t, 100.0, result.Total)

	// цена запрашивается один раз на каждый различный символ
	assert.Equal(t, 2, o.calls)
}

func TestComputePnL_Empty(t *testing.T) {
	c, _, _ := newTestController(nil)

	result, err := c.ComputePnL(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, result.Lines)
	assert.Zero(t, result.Total)
}

func TestComputeRiskCurve(t *testing.T) {
	c, _, _ := newTestController(map[string]float64{"ETH/USDT": 3000})

	_, err := c.StartMonitoring(1, "ETH", 2.0, 5.0, domain.VenueBinance)
	require.NoError(t, err)

	curve, err := c.ComputeRiskCurve(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, curve.Prices, 11)
	require.Len(t, curve.VaRs, 11)
	assert.InDelta(t, 2850.0, curve.Prices[0], 1e-9)  // -5%
	assert.InDelta(t, 3150.0, curve.Prices[10], 1e-9) // +5%
	assert.Equal(t, 495.0, curve.VaRs[5])             // VaR по текущей цене
}
