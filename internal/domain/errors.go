package domain

import "errors"

var (
	// ErrNoActiveSession возвращается когда для чата нет активной сессии мониторинга
	ErrNoActiveSession = errors.New("no active monitoring session")

	// ErrInvalidArguments возвращается при некорректных аргументах команды
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrPriceUnavailable возвращается когда биржа не смогла отдать цену
	ErrPriceUnavailable = errors.New("price unavailable")

	// ErrUnknownVenue возвращается при неизвестном имени биржи
	ErrUnknownVenue = errors.New("unknown venue")
)
