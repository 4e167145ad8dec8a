package telegram

import (
	"context"

	"github.com/kirillm/hedge-bot/internal/chart"
	"github.com/kirillm/hedge-bot/internal/controller"
	"github.com/kirillm/hedge-bot/internal/domain"
)

// Handlers обрабатывает команды пользователя поверх контроллера
type Handlers struct {
	ctrl      *controller.Controller
	formatter *Formatter
}

// NewHandlers создает обработчики команд
func NewHandlers(ctrl *controller.Controller, formatter *Formatter) *Handlers {
	return &Handlers{ctrl: ctrl, formatter: formatter}
}

// HandleMonitor запускает мониторинг позиции
func (h *Handlers) HandleMonitor(chatID int64, args *CommandArgs) (string, error) {
	session, err := h.ctrl.StartMonitoring(chatID, args.Symbol, args.Size, args.Threshold, args.Venue)
	if err != nil {
		return "", err
	}
	return h.formatter.FormatMonitoring(session), nil
}

// HandleConfigure меняет порог активной сессии
func (h *Handlers) HandleConfigure(chatID int64, args *CommandArgs) (string, error) {
	if err := h.ctrl.ReconfigureThreshold(chatID, args.Threshold); err != nil {
		return "", err
	}
	return h.formatter.FormatThresholdUpdated(args.Threshold), nil
}

// HandleHedge исполняет хедж по текущей сессии
func (h *Handlers) HandleHedge(ctx context.Context, chatID int64) (string, error) {
	result, err := h.ctrl.ExecuteHedge(ctx, chatID)
	if err != nil {
		return "", err
	}
	return h.formatter.FormatHedge(result), nil
}

// HandleStatus показывает активную сессию
func (h *Handlers) HandleStatus(chatID int64) (string, error) {
	status, err := h.ctrl.Status(chatID)
	if err != nil {
		return "", err
	}
	return h.formatter.FormatStatus(status), nil
}

// HandleAutoHedge включает авто-хеджирование
func (h *Handlers) HandleAutoHedge(chatID int64, args *CommandArgs) (string, error) {
	cfg, err := h.ctrl.EnableAutoHedge(chatID, args.Strategy, args.Threshold)
	if err != nil {
		return "", err
	}
	return h.formatter.FormatAutoHedge(cfg), nil
}

// HandleHistory показывает последние хеджи
func (h *Handlers) HandleHistory(chatID int64) (string, error) {
	records := h.ctrl.RecentHedges(chatID, domain.HistoryLimit)
	return h.formatter.FormatHistory(records), nil
}

// HandlePnL считает PnL по захеджированным позициям
func (h *Handlers) HandlePnL(ctx context.Context, chatID int64) (string, error) {
	result, err := h.ctrl.ComputePnL(ctx, chatID)
	if err != nil {
		return "", err
	}
	return h.formatter.FormatPnL(result), nil
}

// HandleStress гоняет стресс-тест по активной сессии
func (h *Handlers) HandleStress(ctx context.Context, chatID int64) (string, error) {
	result, err := h.ctrl.StressTest(ctx, chatID)
	if err != nil {
		return "", err
	}
	return h.formatter.FormatStress(result), nil
}

// HandleAnalytics считает греки и риск-метрики портфеля
func (h *Handlers) HandleAnalytics(ctx context.Context, chatID int64) (string, error) {
	result, err := h.ctrl.PortfolioAnalytics(ctx, chatID)
	if err != nil {
		return "", err
	}
	return h.formatter.FormatAnalytics(result), nil
}

// HandleRiskChart рендерит кривую VaR по цене
func (h *Handlers) HandleRiskChart(ctx context.Context, chatID int64) ([]byte, string, error) {
	curve, err := h.ctrl.ComputeRiskCurve(ctx, chatID)
	if err != nil {
		return nil, "", err
	}
	png, err := chart.RiskCurve(curve)
	if err != nil {
		return nil, "", err
	}
	return png, "risk_chart.png", nil
}

// HandleGreeksChart рендерит греки столбиками
func (h *Handlers) HandleGreeksChart(ctx context.Context, chatID int64) ([]byte, string, error) {
	result, err := h.ctrl.PortfolioAnalytics(ctx, chatID)
	if err != nil {
		return nil, "", err
	}
	png, err := chart.GreeksBars(result.Greeks)
	if err != nil {
		return nil, "", err
	}
	return png, "greeks_chart.png", nil
}

// HandlePnLChart рендерит PnL по позициям
func (h *Handlers) HandlePnLChart(ctx context.Context, chatID int64) ([]byte, string, error) {
	result, err := h.ctrl.ComputePnL(ctx, chatID)
	if err != nil {
		return nil, "", err
	}
	if len(result.Lines) == 0 {
		// Нет данных — бот отвечает текстом вместо картинки
		return nil, "", nil
	}
	png, err := chart.PnLBars(result.Lines)
	if err != nil {
		return nil, "", err
	}
	return png, "pnl_chart.png", nil
}
