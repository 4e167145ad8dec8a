package domain

// Quote asset
const (
	QuoteAsset = "USDT"
)

// Hedge parameters
const (
	// HedgeFeeRate — ставка комиссии для оценки стоимости хеджа
	HedgeFeeRate = 0.001

	// HistoryLimit — сколько последних хеджей показывает /hedge_history
	HistoryLimit = 5
)

// DefaultVenue — биржа по умолчанию, если пользователь ее не указал
const DefaultVenue = VenueBinance
