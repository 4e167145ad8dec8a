package telegram

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/kirillm/hedge-bot/internal/analytics"
	"github.com/kirillm/hedge-bot/internal/controller"
	"github.com/kirillm/hedge-bot/internal/domain"
)

func TestFormatMonitoring(t *testing.T) {
	f := NewFormatter(LangEN)
	got := f.FormatMonitoring(domain.RiskSession{
		Symbol:       "ETH/USDT",
		PositionSize: 2.5,
		Threshold:    5,
		Venue:        domain.VenueBybit,
	})
	want := "✅ Monitoring ETH/USDT | Size: 2.5 | Threshold: 5%"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatHedge(t *testing.T) {
	f := NewFormatter(LangEN)
	got := f.FormatHedge(controller.HedgeResult{
		Symbol: "ETH/USDT",
		Size:   2,
		Price:  3000,
		Cost:   6,
	})
	want := "✅ Hedged ETH/USDT | Size: 2 | Cost: $6.00"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatStatus(t *testing.T) {
	f := NewFormatter(LangEN)
	session := domain.RiskSession{
		Symbol:       "BTC/USDT",
		PositionSize: 1,
		Threshold:    3,
		Venue:        domain.VenueOKX,
	}

	got := f.FormatStatus(controller.StatusResult{Session: session})
	if !strings.Contains(got, "Symbol: BTC/USDT") || !strings.Contains(got, "Venue: OKX") {
		t.Errorf("missing session fields in %q", got)
	}
	if strings.Contains(got, "Auto-Hedge") {
		t.Errorf("unexpected auto-hedge line in %q", got)
	}

	got = f.FormatStatus(controller.StatusResult{
		Session:   session,
		AutoHedge: &domain.AutoHedgeConfig{Strategy: "delta-neutral", Threshold: 5},
	})
	if !strings.Contains(got, "🤖 Auto-Hedge: ON | Strategy: delta-neutral") {
		t.Errorf("missing auto-hedge line in %q", got)
	}
}

func TestFormatHistory(t *testing.T) {
	f := NewFormatter(LangEN)

	if got := f.FormatHistory(nil); got != "📭 No hedge history." {
		t.Errorf("empty history: got %q", got)
	}

	ts := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	got := f.FormatHistory([]domain.HedgeRecord{
		{Timestamp: ts, Symbol: "ETH/USDT", EstimatedCost: 6},
	})
	want := "📜 Hedge History:\n2026-08-30 12:00:00 | ETH/USDT | $6.00"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatPnL(t *testing.T) {
	f := NewFormatter(LangEN)

	if got := f.FormatPnL(controller.PnLResult{}); got != "No PnL data yet." {
		t.Errorf("empty pnl: got %q", got)
	}

	got := f.FormatPnL(controller.PnLResult{
		Lines: []controller.PnLLine{
			{Symbol: "ETH/USDT", EntryPrice: 3000, CurrentPrice: 3050, Size: 2, PnL: 100},
		},
		Total:   100,
		Skipped: 1,
	})
	if !strings.Contains(got, "ETH/USDT: 3000 → 3050 | Size 2 | PnL: $100") {
		t.Errorf("missing line in %q", got)
	}
	if !strings.Contains(got, "1 position(s) skipped") {
		t.Errorf("missing skipped note in %q", got)
	}
	if !strings.Contains(got, "Total: $100.00") {
		t.Errorf("missing total in %q", got)
	}
}

func TestFormatStress(t *testing.T) {
	f := NewFormatter(LangEN)
	got := f.FormatStress(controller.StressResult{Price: 3000, DownVaR: 445.5, UpVaR: 544.5})
	want := "🧪 Stress Test:\nPrice: $3000.00\n-10% VaR: $445.5\n+10% VaR: $544.5"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatAnalytics(t *testing.T) {
	f := NewFormatter(LangEN)
	got := f.FormatAnalytics(controller.AnalyticsResult{
		Session: domain.RiskSession{Symbol: "ETH/USDT", PositionSize: 2, Venue: domain.VenueBinance},
		Price:   3000,
		Greeks:  analytics.Greeks{Delta: 1.6, Gamma: 0.1, Theta: -0.02, Vega: 0.04},
		VaR:     495, MaxDrawdown: 480, Correlation: 0.92, Slippage: 6,
	})
	for _, fragment := range []string{
		"📊 Portfolio:",
		"ETH/USDT | Size: 2 | Price: $3000.00",
		"Delta: 1.6 | Gamma: 0.1 | Theta: -0.02 | Vega: 0.04",
		"VaR: $495 | Max DD: $480 | Corr: 0.92",
	} {
		if !strings.Contains(got, fragment) {
			t.Errorf("missing %q in %q", fragment, got)
		}
	}
}

func TestFormatError(t *testing.T) {
	f := NewFormatter(LangEN)

	tests := []struct {
		err  error
		want string
	}{
		{domain.ErrNoActiveSession, "⚠️ No monitoring session."},
		{fmt.Errorf("eth: %w", domain.ErrPriceUnavailable), "❌ Failed to get price."},
		{fmt.Errorf("%w: usage: /configure_risk <THRESHOLD>", domain.ErrInvalidArguments), "❌ usage: /configure_risk <THRESHOLD>"},
		{errors.New("boom"), "❌ Something went wrong, try again later."},
	}

	for _, tt := range tests {
		if got := f.FormatError(tt.err); got != tt.want {
			t.Errorf("FormatError(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestFormatterLangFallback(t *testing.T) {
	f := NewFormatter("de")
	if f.T("welcome") != "👋 Welcome to the Spot Hedging Bot!" {
		t.Error("unknown lang should fall back to English")
	}

	ru := NewFormatter(LangRU)
	if !strings.Contains(ru.T("no_session"), "Нет активной сессии") {
		t.Error("russian translation missing")
	}
}
