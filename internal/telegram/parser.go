package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kirillm/hedge-bot/internal/domain"
)

// CommandArgs представляет распарсенные аргументы команды
type CommandArgs struct {
	Command   string
	Symbol    string
	Size      float64
	Threshold float64
	Venue     domain.Venue
	Strategy  string
	Raw       []string
}

// Canonical command names
const (
	CmdStart     = "start"
	CmdHelp      = "help"
	CmdMonitor   = "monitor"
	CmdConfigure = "configure"
	CmdHedge     = "hedge"
	CmdStatus    = "status"
	CmdAutoHedge = "autohedge"
	CmdHistory   = "history"
	CmdPnL       = "pnl"
	CmdStress    = "stress"
	CmdPortfolio = "portfolio"
	CmdRiskChart = "riskchart"
	CmdGreeks    = "greekschart"
	CmdPnLChart  = "pnlchart"
)

// ParseCommand парсит команду и аргументы. Ошибки разбора всегда
// типизированы как domain.ErrInvalidArguments и называют конкретный
// аргумент, который не прошел проверку.
func ParseCommand(text string) (*CommandArgs, error) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return nil, fmt.Errorf("%w: not a command", domain.ErrInvalidArguments)
	}

	parts := strings.Fields(text)
	cmd := normalizeCommand(strings.TrimPrefix(parts[0], "/"))
	args := &CommandArgs{
		Command: cmd,
		Raw:     parts[1:],
	}

	switch cmd {
	case CmdStart, CmdHelp, CmdHedge, CmdStatus, CmdHistory, CmdPnL,
		CmdStress, CmdPortfolio, CmdRiskChart, CmdGreeks, CmdPnLChart:
		// Команды без параметров
		return args, nil

	case CmdMonitor:
		// /monitor_risk <ASSET> <SIZE> <THRESHOLD> [VENUE]
		if len(parts) < 4 {
			return nil, fmt.Errorf("%w: usage: /monitor_risk <ASSET> <SIZE> <THRESHOLD> [VENUE]", domain.ErrInvalidArguments)
		}
		args.Symbol = strings.ToUpper(parts[1])

		size, err := parseFloat(parts[2])
		if err != nil {
			return nil, fmt.Errorf("%w: size must be a number, got %q", domain.ErrInvalidArguments, parts[2])
		}
		args.Size = size

		threshold, err := parseFloat(parts[3])
		if err != nil {
			return nil, fmt.Errorf("%w: threshold must be a number, got %q", domain.ErrInvalidArguments, parts[3])
		}
		args.Threshold = threshold

		args.Venue = domain.DefaultVenue
		if len(parts) > 4 {
			venue, ok := domain.ParseVenue(parts[4])
			if !ok {
				return nil, fmt.Errorf("%w: venue must be one of binance, bybit, okx, got %q", domain.ErrInvalidArguments, parts[4])
			}
			args.Venue = venue
		}
		return args, nil

	case CmdConfigure:
		// /configure_risk <THRESHOLD>
		if len(parts) < 2 {
			return nil, fmt.Errorf("%w: usage: /configure_risk <THRESHOLD>", domain.ErrInvalidArguments)
		}
		threshold, err := parseFloat(parts[1])
		if err != nil {
			return nil, fmt.Errorf("%w: threshold must be a number, got %q", domain.ErrInvalidArguments, parts[1])
		}
		args.Threshold = threshold
		return args, nil

	case CmdAutoHedge:
		// /auto_hedge <STRATEGY> <THRESHOLD>
		if len(parts) < 3 {
			return nil, fmt.Errorf("%w: usage: /auto_hedge <STRATEGY> <THRESHOLD>", domain.ErrInvalidArguments)
		}
		args.Strategy = parts[1]

		threshold, err := parseFloat(parts[2])
		if err != nil {
			return nil, fmt.Errorf("%w: threshold must be a number, got %q", domain.ErrInvalidArguments, parts[2])
		}
		args.Threshold = threshold
		return args, nil

	default:
		return nil, fmt.Errorf("%w: unknown command /%s", domain.ErrInvalidArguments, cmd)
	}
}

// normalizeCommand сводит алиасы команд к каноническому имени
func normalizeCommand(cmd string) string {
	cmd = strings.ToLower(strings.TrimSpace(cmd))

	// Убираем упоминание бота: /status@hedge_bot
	if i := strings.Index(cmd, "@"); i >= 0 {
		cmd = cmd[:i]
	}

	aliases := map[string]string{
		"monitor_risk":        CmdMonitor,
		"configure_risk":      CmdConfigure,
		"hedge_now":           CmdHedge,
		"hedge_status":        CmdStatus,
		"auto_hedge":          CmdAutoHedge,
		"hedge_history":       CmdHistory,
		"pnl_status":          CmdPnL,
		"stress_test":         CmdStress,
		"stresstest":          CmdStress,
		"portfolio_analytics": CmdPortfolio,
		"risk_chart":          CmdRiskChart,
		"greeks_chart":        CmdGreeks,
		"pnl_chart":           CmdPnLChart,
	}

	if canonical, ok := aliases[cmd]; ok {
		return canonical
	}
	return cmd
}

// parseFloat парсит float с поддержкой запятой и знака процента
func parseFloat(s string) (float64, error) {
	s = strings.TrimSuffix(s, "%")
	s = strings.Replace(s, ",", ".", 1)
	return strconv.ParseFloat(s, 64)
}
