package telegram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kirillm/hedge-bot/internal/controller"
	"github.com/kirillm/hedge-bot/internal/domain"
)

// Lang представляет язык
type Lang string

const (
	LangEN Lang = "en"
	LangRU Lang = "ru"
)

// Formatter форматирует ответы для пользователя
type Formatter struct {
	lang Lang
}

// NewFormatter создает новый форматтер
func NewFormatter(lang Lang) *Formatter {
	if lang != LangRU && lang != LangEN {
		lang = LangEN
	}
	return &Formatter{lang: lang}
}

// T переводит строку
func (f *Formatter) T(key string) string {
	translations := map[string]map[Lang]string{
		"welcome":      {LangEN: "👋 Welcome to the Spot Hedging Bot!", LangRU: "👋 Добро пожаловать в Spot Hedging Bot!"},
		"no_session":   {LangEN: "⚠️ No monitoring session.", LangRU: "⚠️ Нет активной сессии мониторинга."},
		"price_failed": {LangEN: "❌ Failed to get price.", LangRU: "❌ Не удалось получить цену."},
		"no_history":   {LangEN: "📭 No hedge history.", LangRU: "📭 История хеджей пуста."},
		"no_pnl":       {LangEN: "No PnL data yet.", LangRU: "Данных PnL пока нет."},
	}

	if t, ok := translations[key]; ok {
		if s, ok := t[f.lang]; ok {
			return s
		}
	}
	return key
}

// FormatWelcome возвращает приветственное сообщение
func (f *Formatter) FormatWelcome() string {
	return f.T("welcome")
}

// FormatHelp возвращает справку по командам
func (f *Formatter) FormatHelp() string {
	return strings.Join([]string{
		"📖 Commands:",
		"/monitor_risk <asset> <size> <threshold> [venue] — start monitoring a position",
		"/configure_risk <threshold> — update the loss threshold",
		"/hedge_now — hedge the monitored position",
		"/hedge_status — show the active session",
		"/auto_hedge <strategy> <threshold> — enable auto-hedging",
		"/hedge_history — last hedges",
		"/pnl_status — PnL across hedged positions",
		"/stress_test — VaR under ±10% price shocks",
		"/portfolio_analytics — greeks and risk metrics",
		"/risk_chart — VaR vs price curve",
		"/greeks_chart — greeks bar chart",
		"/pnl_chart — PnL per position",
	}, "\n")
}

// FormatMonitoring форматирует подтверждение запуска мониторинга
func (f *Formatter) FormatMonitoring(s domain.RiskSession) string {
	return fmt.Sprintf("✅ Monitoring %s | Size: %s | Threshold: %s%%",
		s.Symbol, trimFloat(s.PositionSize), trimFloat(s.Threshold))
}

// FormatThresholdUpdated форматирует подтверждение смены порога
func (f *Formatter) FormatThresholdUpdated(threshold float64) string {
	return fmt.Sprintf("⚙️ Threshold updated to %s%%", trimFloat(threshold))
}

// FormatHedge форматирует результат хеджирования
func (f *Formatter) FormatHedge(r controller.HedgeResult) string {
	return fmt.Sprintf("✅ Hedged %s | Size: %s | Cost: $%.2f", r.Symbol, trimFloat(r.Size), r.Cost)
}

// FormatStatus форматирует статус сессии
func (f *Formatter) FormatStatus(r controller.StatusResult) string {
	var sb strings.Builder
	sb.WriteString("📋 Hedge Status\n")
	sb.WriteString(fmt.Sprintf("Symbol: %s\n", r.Session.Symbol))
	sb.WriteString(fmt.Sprintf("Size: %s\n", trimFloat(r.Session.PositionSize)))
	sb.WriteString(fmt.Sprintf("Threshold: %s%%\n", trimFloat(r.Session.Threshold)))
	sb.WriteString(fmt.Sprintf("Venue: %s", strings.ToUpper(string(r.Session.Venue))))
	if r.AutoHedge != nil {
		sb.WriteString(fmt.Sprintf("\n🤖 Auto-Hedge: ON | Strategy: %s", r.AutoHedge.Strategy))
	}
	return sb.String()
}

// FormatAutoHedge форматирует подтверждение авто-хеджирования
func (f *Formatter) FormatAutoHedge(cfg domain.AutoHedgeConfig) string {
	return fmt.Sprintf("✅ Auto-Hedge ON | Strategy: %s | Threshold: %s%%",
		cfg.Strategy, trimFloat(cfg.Threshold))
}

// FormatHistory форматирует историю хеджей
func (f *Formatter) FormatHistory(records []domain.HedgeRecord) string {
	if len(records) == 0 {
		return f.T("no_history")
	}
	lines := make([]string, 0, len(records)+1)
	lines = append(lines, "📜 Hedge History:")
	for _, r := range records {
		lines = append(lines, fmt.Sprintf("%s | %s | $%.2f",
			r.Timestamp.Format("2006-01-02 15:04:05"), r.Symbol, r.EstimatedCost))
	}
	return strings.Join(lines, "\n")
}

// FormatPnL форматирует сводку PnL
func (f *Formatter) FormatPnL(r controller.PnLResult) string {
	if len(r.Lines) == 0 && r.Skipped == 0 {
		return f.T("no_pnl")
	}
	lines := make([]string, 0, len(r.Lines)+2)
	lines = append(lines, "💰 PnL Summary:")
	for _, l := range r.Lines {
		lines = append(lines, fmt.Sprintf("%s: %s → %s | Size %s | PnL: $%s",
			l.Symbol, trimFloat(l.EntryPrice), trimFloat(l.CurrentPrice),
			trimFloat(l.Size), trimFloat(l.PnL)))
	}
	if r.Skipped > 0 {
		lines = append(lines, fmt.Sprintf("⚠️ %d position(s) skipped: price unavailable", r.Skipped))
	}
	lines = append(lines, fmt.Sprintf("Total: $%.2f", r.Total))
	return strings.Join(lines, "\n")
}

// FormatStress форматирует результат стресс-теста
func (f *Formatter) FormatStress(r controller.StressResult) string {
	return fmt.Sprintf("🧪 Stress Test:\nPrice: $%.2f\n-10%% VaR: $%s\n+10%% VaR: $%s",
		r.Price, trimFloat(r.DownVaR), trimFloat(r.UpVaR))
}

// FormatAnalytics форматирует портфельную аналитику
func (f *Formatter) FormatAnalytics(r controller.AnalyticsResult) string {
	return fmt.Sprintf(
		"📊 Portfolio:\n%s | Size: %s | Price: $%.2f\n"+
			"Delta: %s | Gamma: %s | Theta: %s | Vega: %s\n"+
			"VaR: $%s | Max DD: $%s | Corr: %s",
		r.Session.Symbol, trimFloat(r.Session.PositionSize), r.Price,
		trimFloat(r.Greeks.Delta), trimFloat(r.Greeks.Gamma),
		trimFloat(r.Greeks.Theta), trimFloat(r.Greeks.Vega),
		trimFloat(r.VaR), trimFloat(r.MaxDrawdown), trimFloat(r.Correlation))
}

// FormatError превращает ошибку контроллера в сообщение пользователю
func (f *Formatter) FormatError(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoActiveSession):
		return f.T("no_session")
	case errors.Is(err, domain.ErrPriceUnavailable):
		return f.T("price_failed")
	case errors.Is(err, domain.ErrInvalidArguments):
		return "❌ " + strings.TrimPrefix(err.Error(), domain.ErrInvalidArguments.Error()+": ")
	default:
		return "❌ Something went wrong, try again later."
	}
}

// trimFloat печатает float без хвостовых нулей
func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
