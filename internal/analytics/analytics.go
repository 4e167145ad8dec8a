// Package analytics содержит чистые функции риск-аналитики.
// Все метрики — упрощенные линейные прокси, а не выход модели
// ценообразования опционов. Функции тотальны: отрицательные входы
// не отклоняются, знак просто пробрасывается в результат.
package analytics

import "math"

// Параметры модели
const (
	DeltaFactor    = 0.8
	GammaFactor    = 0.05
	ThetaFactor    = -0.01
	VegaFactor     = 0.02
	ConfidenceZ    = 1.65
	Volatility     = 0.05
	DrawdownFactor = 0.08
	SlippageFactor = 0.002
	CorrelationBTC = 0.92
)

// Greeks представляет чувствительности позиции
type Greeks struct {
	Delta float64
	Gamma float64
	Theta float64
	Vega  float64
}

// CalcGreeks вычисляет греки как линейные прокси от размера позиции
func CalcGreeks(positionSize float64) Greeks {
	return Greeks{
		Delta: round2(positionSize * DeltaFactor),
		Gamma: round2(positionSize * GammaFactor),
		Theta: round2(positionSize * ThetaFactor),
		Vega:  round2(positionSize * VegaFactor),
	}
}

// ValueAtRisk оценивает потенциальный убыток позиции:
// z * volatility * position_value
func ValueAtRisk(positionValue float64) float64 {
	return round2(ConfidenceZ * Volatility * positionValue)
}

// MaxDrawdown оценивает максимальную просадку позиции
func MaxDrawdown(positionValue float64) float64 {
	return round2(positionValue * DrawdownFactor)
}

// Correlation возвращает корреляцию с рынком.
// Константа-заглушка, не вычисляется по данным.
func Correlation() float64 {
	return CorrelationBTC
}

// EstimateSlippage оценивает проскальзывание при исполнении по текущей цене
func EstimateSlippage(price float64) float64 {
	return round2(price * SlippageFactor)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
