package models

import "errors"

var (
	// ErrDataUnavailable: провайдер не отдал ожидаемую серию или поля.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrIndicatorUndefined: не хватает истории для периода индикатора.
	ErrIndicatorUndefined = errors.New("indicator undefined")
	// ErrDeliveryFailure: сообщение не ушло.
	ErrDeliveryFailure = errors.New("delivery failure")
)
