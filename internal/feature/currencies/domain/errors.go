// Package domain defines domain-level errors for the currencies feature.
package domain

import "errors"

var (
	// ErrCurrencyNotFound is returned when a currency code is not present
	// in the local currency table.
	ErrCurrencyNotFound = errors.New("currency not found")

	// ErrRateNotFound is returned when no exchange rate exists for the
	// requested currency pair and date.
	ErrRateNotFound = errors.New("exchange rate not found")
)
