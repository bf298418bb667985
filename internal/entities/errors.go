package entities

import "errors"

// Виды ошибок. Сервисы объявляют свои конкретные ошибки поверх них через %w,
// поэтому errors.Is работает и с конкретной ошибкой, и с ее видом.
var (
	ErrValidation        = errors.New("validation error")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrAuthorization     = errors.New("not authorized")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrTimeout           = errors.New("operation timed out, outcome unknown")
	ErrNotFound          = errors.New("not found")
)
