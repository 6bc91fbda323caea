package models

import "errors"

// Workflow errors. Every error a user can trigger maps onto exactly one of
// these, and each one has a fixed display message.
var (
	// ErrInvalidAmount - the amount did not parse as a finite number greater
	// than zero. Detected locally, never reaches the network layer.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrRateUnavailable - the rate fetch failed, returned a bad status, or
	// the response omitted the requested currency. The three causes are not
	// distinguished to the user.
	ErrRateUnavailable = errors.New("exchange rate unavailable")

	// ErrCatalogUnavailable - the startup currency list fetch failed, leaving
	// the converter without selectable currencies.
	ErrCatalogUnavailable = errors.New("currency catalog unavailable")

	// ErrUnknownCurrency - a selection outside the loaded catalog.
	ErrUnknownCurrency = errors.New("unknown currency")
)

// Display messages shown to users. These are part of the API contract and
// must not change without versioning.
const (
	MsgInvalidAmount      = "Please enter a valid amount greater than zero."
	MsgConversionFailed   = "Conversion failed. Please try again or check the API status."
	MsgCatalogUnavailable = "Could not load currency list. Check your network or API status."
)
