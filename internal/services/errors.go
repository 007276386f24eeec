package services

import "errors"

// Common service errors
var (
	ErrNotFound        = errors.New("registro no encontrado")
	ErrInvalidState    = errors.New("transición de estado inválida")
	ErrAlreadyPaid     = errors.New("el pago ya fue registrado")
	ErrDuplicate       = errors.New("registro duplicado")
	ErrValidation      = errors.New("datos inválidos")
	ErrNoExchangeRate  = errors.New("no hay cotización disponible")
	ErrClientDeleted   = errors.New("el cliente fue eliminado")
	ErrProjectDeleted  = errors.New("el proyecto fue eliminado")
	ErrInvalidCurrency = errors.New("moneda inválida")
)
