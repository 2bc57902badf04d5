package domain

import "errors"

// Ошибки ядра. Оборачиваются через fmt.Errorf("%w: ...") и
// сопоставляются в хендлерах через errors.Is.
var (
	ErrValidation         = errors.New("validation failed")
	ErrInsufficientPoints = errors.New("insufficient stat points")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrUpstream           = errors.New("identity provider error")
	ErrUnauthorized       = errors.New("invalid credentials")
)
