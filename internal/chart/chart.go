// Package chart рендерит PNG-графики для отправки в Telegram
package chart

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/kirillm/hedge-bot/internal/analytics"
	"github.com/kirillm/hedge-bot/internal/controller"
)

// RiskCurve рисует кривую VaR по сетке цен
func RiskCurve(curve controller.RiskCurve) ([]byte, error) {
	if len(curve.Prices) == 0 {
		return nil, fmt.Errorf("empty risk curve")
	}

	graph := chart.Chart{
		Title: fmt.Sprintf("VaR vs Price - %s", curve.Symbol),
		XAxis: chart.XAxis{Name: "Price"},
		YAxis: chart.YAxis{Name: "VaR"},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: curve.Prices,
				YValues: curve.VaRs,
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render risk chart: %w", err)
	}
	return buf.Bytes(), nil
}

// GreeksBars рисует столбчатую диаграмму греков
func GreeksBars(greeks analytics.Greeks) ([]byte, error) {
	graph := chart.BarChart{
		Title:    "Greek Exposures",
		BarWidth: 60,
		Bars: []chart.Value{
			{Label: "delta", Value: greeks.Delta},
			{Label: "gamma", Value: greeks.Gamma},
			{Label: "theta", Value: greeks.Theta},
			{Label: "vega", Value: greeks.Vega},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render greeks chart: %w", err)
	}
	return buf.Bytes(), nil
}

// PnLBars рисует столбчатую диаграмму PnL по входам
func PnLBars(lines []controller.PnLLine) ([]byte, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("no pnl data")
	}

	bars := make([]chart.Value, 0, len(lines))
	for i, line := range lines {
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%s #%d", line.Symbol, i+1),
			Value: line.PnL,
		})
	}

	graph := chart.BarChart{
		Title:    "PnL per Entry",
		BarWidth: 40,
		Bars:     bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render pnl chart: %w", err)
	}
	return buf.Bytes(), nil
}
