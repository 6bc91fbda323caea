package models

import (
	"sort"
	"time"
)

type ConversionRequest struct {
	Amount       float64 `json:"amount"`
	FromCurrency string  `json:"from_currency" binding:"required,len=3"`
	ToCurrency   string  `json:"to_currency" binding:"required,len=3"`
}

// ConversionResult is the outcome of one conversion attempt. Exactly one of
// success or failure is represented: OK with a success message, or !OK with a
// display-safe error message and the underlying cause.
type ConversionResult struct {
	OK              bool    `json:"success"`
	Message         string  `json:"message"`
	OriginalAmount  float64 `json:"original_amount,omitempty"`
	ConvertedAmount float64 `json:"converted_amount,omitempty"`
	FromCurrency    string  `json:"from_currency,omitempty"`
	ToCurrency      string  `json:"to_currency,omitempty"`
	ExchangeRate    float64 `json:"exchange_rate,omitempty"`
	ConversionID    string  `json:"conversion_id,omitempty"`

	// Cause is the workflow error behind a failure message, nil on success.
	Cause error `json:"-"`
}

type ExchangeRate struct {
	FromCurrency string    `json:"from_currency" db:"from_currency"`
	ToCurrency   string    `json:"to_currency" db:"to_currency"`
	Rate         float64   `json:"rate" db:"rate"`
	Timestamp    time.Time `json:"timestamp" db:"timestamp"`
	Source       string    `json:"source" db:"source"`
}

type Conversion struct {
	ID              string    `json:"id" db:"id"`
	FromCurrency    string    `json:"from_currency" db:"from_currency"`
	ToCurrency      string    `json:"to_currency" db:"to_currency"`
	OriginalAmount  float64   `json:"original_amount" db:"original_amount"`
	ConvertedAmount float64   `json:"converted_amount" db:"converted_amount"`
	ExchangeRate    float64   `json:"exchange_rate" db:"exchange_rate"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// CatalogOption is one selectable currency, labelled "CODE - Display Name".
type CatalogOption struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Catalog is the set of currencies offered for selection. It is built once
// from the remote currency list and never mutated afterwards.
type Catalog struct {
	names map[string]string
	codes []string
}

// NewCatalog builds a catalog from a code -> display name mapping, ordering
// codes alphabetically for presentation.
func NewCatalog(names map[string]string) *Catalog {
	codes := make([]string, 0, len(names))
	for code := range names {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	copied := make(map[string]string, len(names))
	for code, name := range names {
		copied[code] = name
	}

	return &Catalog{names: copied, codes: codes}
}

func (c *Catalog) Len() int {
	return len(c.codes)
}

// Codes returns the currency codes in alphabetical order.
func (c *Catalog) Codes() []string {
	out := make([]string, len(c.codes))
	copy(out, c.codes)
	return out
}

func (c *Catalog) Has(code string) bool {
	_, ok := c.names[code]
	return ok
}

func (c *Catalog) Name(code string) string {
	return c.names[code]
}

// Options returns the selectable entries in alphabetical code order.
func (c *Catalog) Options() []CatalogOption {
	options := make([]CatalogOption, 0, len(c.codes))
	for _, code := range c.codes {
		options = append(options, CatalogOption{
			Code:  code,
			Label: code + " - " + c.names[code],
		})
	}
	return options
}

// DefaultSelection returns the initial source and target currencies: USD and
// EUR when the catalog has them, otherwise the first entry in sorted order.
func (c *Catalog) DefaultSelection() (from, to string) {
	if len(c.codes) == 0 {
		return "", ""
	}
	from, to = c.codes[0], c.codes[0]
	if c.Has(DefaultFromCurrency) {
		from = DefaultFromCurrency
	}
	if c.Has(DefaultToCurrency) {
		to = DefaultToCurrency
	}
	return from, to
}

const (
	DefaultFromCurrency = "USD"
	DefaultToCurrency   = "EUR"
)
