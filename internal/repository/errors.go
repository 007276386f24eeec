package repository

import (
	"errors"
	"fmt"
)

// ErrCashBoxNotFound is returned when a project has no cash box row
var ErrCashBoxNotFound = errors.New("caja del proyecto no encontrada")

// InsufficientFundsError is returned when a project cash box lacks balance
// in the requested currency. It carries the shortfall so the UI can show it
// distinctly from generic failures.
type InsufficientFundsError struct {
	ProjectID uint
	Currency  string
	Required  float64
	Available float64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("fondos insuficientes en la caja del proyecto %d: se requieren %.2f %s, disponibles %.2f",
		e.ProjectID, e.Required, e.Currency, e.Available)
}

// Shortfall is the missing amount
func (e *InsufficientFundsError) Shortfall() float64 {
	return e.Required - e.Available
}
