package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"currency-converter/internal/models"
)

// Converter is one interactive converter session: the loaded catalog plus the
// currently selected source and target currencies. A mutex serializes
// attempts so a session never has two conversions in flight; every exit path
// releases it, leaving the session idle again.
type Converter struct {
	mu       sync.Mutex
	catalog  *models.Catalog
	exchange *ExchangeService
	logger   *zap.Logger

	from string
	to   string
}

// NewConverter starts a session with the catalog's default selection.
func NewConverter(catalog *models.Catalog, exchange *ExchangeService, logger *zap.Logger) *Converter {
	from, to := catalog.DefaultSelection()
	return &Converter{
		catalog:  catalog,
		exchange: exchange,
		logger:   logger,
		from:     from,
		to:       to,
	}
}

func (c *Converter) Catalog() *models.Catalog {
	return c.catalog
}

// Selection returns the currently selected source and target currencies.
func (c *Converter) Selection() (from, to string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.from, c.to
}

// Select changes the current selection. Both codes must come from the loaded
// catalog.
func (c *Converter) Select(from, to string) error {
	if !c.catalog.Has(from) {
		return fmt.Errorf("%w: %s", models.ErrUnknownCurrency, from)
	}
	if !c.catalog.Has(to) {
		return fmt.Errorf("%w: %s", models.ErrUnknownCurrency, to)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.from, c.to = from, to
	return nil
}

// Convert runs the conversion workflow against the current selection. The
// amount is the raw user input; anything that does not parse as a finite
// number greater than zero fails validation before any rate lookup.
func (c *Converter) Convert(ctx context.Context, amount string) *models.ConversionResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.convertLocked(ctx, amount)
}

// Swap exchanges the source and target selection, then runs the full convert
// workflow with the swapped pair.
func (c *Converter) Swap(ctx context.Context, amount string) *models.ConversionResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.from, c.to = c.to, c.from
	c.logger.Debug("selection swapped",
		zap.String("from", c.from),
		zap.String("to", c.to))

	return c.convertLocked(ctx, amount)
}

func (c *Converter) convertLocked(ctx context.Context, amount string) *models.ConversionResult {
	value, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
	if err != nil {
		return &models.ConversionResult{
			Message: models.MsgInvalidAmount,
			Cause:   models.ErrInvalidAmount,
		}
	}

	return c.exchange.Convert(ctx, &models.ConversionRequest{
		Amount:       value,
		FromCurrency: c.from,
		ToCurrency:   c.to,
	})
}
