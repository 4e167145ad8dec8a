package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirillm/hedge-bot/internal/domain"
)

func TestSessionRoundTrip(t *testing.T) {
	s := NewSessionStore()

	session := domain.RiskSession{
		Symbol:       "ETH/USDT",
		PositionSize: 2.0,
		Threshold:    5.0,
		Venue:        domain.VenueBinance,
	}
	s.PutSession(1, session)

	got, ok := s.GetSession(1)
	require.True(t, ok)
	assert.Equal(t, session, got)
}

func TestGetSession_Absent(t *testing.T) {
	s := NewSessionStore()

	_, ok := s.GetSession(42)
	assert.False(t, ok)
}

func TestPutSession_LastWriteWins(t *testing.T) {
	s := NewSessionStore()

	s.PutSession(1, domain.RiskSession{Symbol: "BTC/USDT", PositionSize: 1, Threshold: 3, Venue: domain.VenueBinance})
	s.PutSession(1, domain.RiskSession{Symbol: "SOL/USDT", PositionSize: 10, Threshold: 7, Venue: domain.VenueOKX})

	got, ok := s.GetSession(1)
	require.True(t, ok)
	assert.Equal(t, "SOL/USDT", got.Symbol)
	assert.Equal(t, 10.0, got.PositionSize)
	assert.Equal(t, 7.0, got.Threshold)
	assert.Equal(t, domain.VenueOKX, got.Venue)
}

func TestUpdateThreshold(t *testing.T) {
	s := NewSessionStore()

	err := s.UpdateThreshold(1, 9.0)
	assert.ErrorIs(t, err, domain.ErrNoActiveSession)

	// NoActiveSession не должен создавать сессию
	_, ok := s.GetSession(1)
	assert.False(t, ok)

	s.PutSession(1, domain.RiskSession{Symbol: "BTC/USDT", PositionSize: 1, Threshold: 3, Venue: domain.VenueBinance})
	require.NoError(t, s.UpdateThreshold(1, 9.0))

	got, _ := s.GetSession(1)
	assert.Equal(t, 9.0, got.Threshold)
	assert.Equal(t, "BTC/USDT", got.Symbol)
}

func TestAutoHedgeRoundTrip(t *testing.T) {
	s := NewSessionStore()

	_, ok := s.GetAutoHedge(1)
	assert.False(t, ok)

	cfg := domain.AutoHedgeConfig{Strategy: "delta-neutral", Threshold: 4.0}
	s.SetAutoHedge(1, cfg)

	got, ok := s.GetAutoHedge(1)
	require.True(t, ok)
	assert.Equal(t, cfg, got)
}

func TestRecentHedges_LastN(t *testing.T) {
	s := NewSessionStore()

	for i := 0; i < 7; i++ {
		s.AppendHedge(1, domain.HedgeRecord{
			Timestamp:     time.Date(2025, 1, 1, 0, i, 0, 0, time.UTC),
			Symbol:        "BTC/USDT",
			EstimatedCost: float64(i),
		})
	}

	got := s.RecentHedges(1, 5)
	require.Len(t, got, 5)
	// хронологический порядок, последние 5 из 7
	for i, rec := range got {
		assert.Equal(t, float64(i+2), rec.EstimatedCost, fmt.Sprintf("record %d", i))
	}
}

func TestRecentHedges_FewerThanN(t *testing.T) {
	s := NewSessionStore()

	s.AppendHedge(1, domain.HedgeRecord{Symbol: "BTC/USDT", EstimatedCost: 1.5})
	got := s.RecentHedges(1, 5)
	require.Len(t, got, 1)
	assert.Equal(t, 1.5, got[0].EstimatedCost)

	assert.Empty(t, s.RecentHedges(2, 5))
}

func TestPositions(t *testing.T) {
	s := NewSessionStore()

	s.AppendPosition(1, domain.PositionEntry{Symbol: "BTC/USDT", EntryPrice: 50000, Size: 1})
	s.AppendPosition(1, domain.PositionEntry{Symbol: "ETH/USDT", EntryPrice: 3000, Size: 2})

	got := s.AllPositions(1)
	require.Len(t, got, 2)
	assert.Equal(t, "BTC/USDT", got[0].Symbol)
	assert.Equal(t, "ETH/USDT", got[1].Symbol)

	// возвращается копия, мутация не влияет на хранилище
	got[0].Size = 99
	again := s.AllPositions(1)
	assert.Equal(t, 1.0, again[0].Size)
}

func TestChatIsolation(t *testing.T) {
	s := NewSessionStore()

	s.PutSession(1, domain.RiskSession{Symbol: "BTC/USDT", PositionSize: 1, Threshold: 3, Venue: domain.VenueBinance})
	s.AppendHedge(1, domain.HedgeRecord{Symbol: "BTC/USDT"})

	_, ok := s.GetSession(2)
	assert.False(t, ok)
	assert.Zero(t, s.HedgeCount(2))
}
