package domain

import (
	"fmt"
	"math"
	"strings"
)

var supportedCurrencies = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"CAD": "C$",
	"AUD": "A$",
	"JPY": "¥",
}

// Money is a non-negative amount in a supported currency, rounded to two
// decimals. Arithmetic refuses to mix currencies.
type Money struct {
	amount   float64
	currency string
}

func NewMoney(amount float64, currency string) (Money, error) {
	if amount < 0 {
		return Money{}, &ValidationError{Field: "amount", Value: amount, Expected: "non-negative number"}
	}
	upper := strings.ToUpper(currency)
	if _, ok := supportedCurrencies[upper]; !ok {
		return Money{}, &ValidationError{Field: "currency", Value: currency, Expected: "USD, EUR, GBP, CAD, AUD, JPY"}
	}
	return Money{amount: roundTo(amount, 2), currency: upper}, nil
}

func USD(amount float64) (Money, error) { return NewMoney(amount, "USD") }
func EUR(amount float64) (Money, error) { return NewMoney(amount, "EUR") }

func Zero(currency string) Money {
	m, err := NewMoney(0, currency)
	if err != nil {
		return Money{amount: 0, currency: "USD"}
	}
	return m
}

func (m Money) Amount() float64  { return m.amount }
func (m Money) Currency() string { return m.currency }
func (m Money) IsZero() bool     { return m.amount == 0 }
func (m Money) IsPositive() bool { return m.amount > 0 }

func (m Money) Add(other Money) (Money, error) {
	if err := m.assertSameCurrency(other); err != nil {
		return Money{}, err
	}
	return NewMoney(m.amount+other.amount, m.currency)
}

func (m Money) Subtract(other Money) (Money, error) {
	if err := m.assertSameCurrency(other); err != nil {
		return Money{}, err
	}
	return NewMoney(m.amount-other.amount, m.currency)
}

func (m Money) Multiply(factor float64) (Money, error) {
	return NewMoney(m.amount*factor, m.currency)
}

func (m Money) Divide(divisor float64) (Money, error) {
	if divisor == 0 {
		return Money{}, &ValidationError{Field: "divisor", Value: divisor, Expected: "non-zero number"}
	}
	return NewMoney(m.amount/divisor, m.currency)
}

func (m Money) GreaterThan(other Money) (bool, error) {
	if err := m.assertSameCurrency(other); err != nil {
		return false, err
	}
	return m.amount > other.amount, nil
}

func (m Money) LessThan(other Money) (bool, error) {
	if err := m.assertSameCurrency(other); err != nil {
		return false, err
	}
	return m.amount < other.amount, nil
}

func (m Money) Equals(other Money) bool { return m == other }

func (m Money) String() string {
	return fmt.Sprintf("%s%.2f", supportedCurrencies[m.currency], m.amount)
}

func (m Money) assertSameCurrency(other Money) error {
	if m.currency != other.currency {
		return fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.currency, other.currency)
	}
	return nil
}

func roundTo(v float64, decimals int) float64 {
	shift := math.Pow(10, float64(decimals))
	return math.Round(v*shift) / shift
}
