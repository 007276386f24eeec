package models

import "fmt"

// Currency codes. The two ledgers are fully independent; there is no
// implicit conversion anywhere in the system.
const (
	CurrencyARS = "ARS"
	CurrencyUSD = "USD"
)

// ValidCurrency returns true for a supported currency code
func ValidCurrency(code string) bool {
	return code == CurrencyARS || code == CurrencyUSD
}

// Money is a tagged amount. Operations that move funds take Money instead of
// a bare float so a USD amount can never be applied to an ARS balance by
// accident.
type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// NewMoney builds a Money value, validating the currency code
func NewMoney(amount float64, currency string) (Money, error) {
	if !ValidCurrency(currency) {
		return Money{}, fmt.Errorf("moneda no soportada: %s", currency)
	}
	return Money{Amount: amount, Currency: currency}, nil
}

// ConvertTo converts to another currency at an explicit ARS-per-USD rate.
// Same-currency conversion is the identity; a zero or negative rate is an
// error.
func (m Money) ConvertTo(currency string, arsPerUSD float64) (Money, error) {
	if !ValidCurrency(currency) {
		return Money{}, fmt.Errorf("moneda no soportada: %s", currency)
	}
	if m.Currency == currency {
		return m, nil
	}
	if arsPerUSD <= 0 {
		return Money{}, fmt.Errorf("tipo de cambio inválido: %.4f", arsPerUSD)
	}
	if m.Currency == CurrencyUSD && currency == CurrencyARS {
		return Money{Amount: m.Amount * arsPerUSD, Currency: CurrencyARS}, nil
	}
	return Money{Amount: m.Amount / arsPerUSD, Currency: CurrencyUSD}, nil
}

// IsPositive returns true when the amount is greater than zero
func (m Money) IsPositive() bool {
	return m.Amount > 0
}

// String formats the amount with its currency code
func (m Money) String() string {
	return fmt.Sprintf("%.2f %s", m.Amount, m.Currency)
}
