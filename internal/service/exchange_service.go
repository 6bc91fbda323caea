package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"currency-converter/internal/models"
	"currency-converter/internal/money"
	"currency-converter/internal/ratesapi"
)

// ConversionStore persists fetched rates and completed conversions for the
// history endpoints. All writes through it are best-effort: a storage failure
// is logged, never surfaced as a conversion failure.
type ConversionStore interface {
	SaveRate(ctx context.Context, rate *models.ExchangeRate) error
	SaveConversion(ctx context.Context, conversion *models.Conversion) error
	GetLatestRate(ctx context.Context, from, to string) (*models.ExchangeRate, error)
	GetRateHistory(ctx context.Context, from, to string, since time.Time) ([]*models.ExchangeRate, error)
}

type ExchangeService struct {
	source ratesapi.Source
	cache  *RateCache
	repo   ConversionStore
	logger *zap.Logger
}

// NewExchangeService wires the conversion workflow. cache and repo may be nil
// (every rate lookup then goes to the source, and no history is recorded).
func NewExchangeService(source ratesapi.Source, cache *RateCache, repo ConversionStore, logger *zap.Logger) *ExchangeService {
	return &ExchangeService{
		source: source,
		cache:  cache,
		repo:   repo,
		logger: logger,
	}
}

// Convert runs one conversion attempt and always produces a result carrying
// exactly one display message: a success message or a failure message. The
// workflow is: validate, short-circuit identical pairs, fetch the pair rate,
// multiply, format.
func (s *ExchangeService) Convert(ctx context.Context, req *models.ConversionRequest) *models.ConversionResult {
	if !validAmount(req.Amount) {
		return &models.ConversionResult{
			Message: models.MsgInvalidAmount,
			Cause:   models.ErrInvalidAmount,
		}
	}

	// Identical pair: the amount is equal to itself, no rate lookup needed.
	if req.FromCurrency == req.ToCurrency {
		echo := money.FormatPlain(req.Amount)
		return &models.ConversionResult{
			OK:              true,
			Message:         fmt.Sprintf("%s %s is equal to %s %s.", echo, req.FromCurrency, echo, req.ToCurrency),
			OriginalAmount:  req.Amount,
			ConvertedAmount: req.Amount,
			FromCurrency:    req.FromCurrency,
			ToCurrency:      req.ToCurrency,
			ExchangeRate:    1,
		}
	}

	rate, err := s.GetRate(ctx, req.FromCurrency, req.ToCurrency)
	if err != nil {
		s.logger.Error("failed to get exchange rate",
			zap.String("from", req.FromCurrency),
			zap.String("to", req.ToCurrency),
			zap.Error(err))
		return &models.ConversionResult{
			Message: models.MsgConversionFailed,
			Cause:   fmt.Errorf("%w: %v", models.ErrRateUnavailable, err),
		}
	}

	convertedAmount := req.Amount * rate.Rate

	result := &models.ConversionResult{
		OK: true,
		Message: fmt.Sprintf("%s %s is approximately %s",
			money.FormatPlain(req.Amount),
			req.FromCurrency,
			money.Format(convertedAmount, req.ToCurrency)),
		OriginalAmount:  req.Amount,
		ConvertedAmount: convertedAmount,
		FromCurrency:    req.FromCurrency,
		ToCurrency:      req.ToCurrency,
		ExchangeRate:    rate.Rate,
		ConversionID:    uuid.NewString(),
	}

	s.recordConversion(ctx, result)

	return result
}

// GetRate retrieves the exchange rate for a pair, consulting the cache before
// the remote API. Freshly fetched rates are cached and persisted.
func (s *ExchangeService) GetRate(ctx context.Context, from, to string) (*models.ExchangeRate, error) {
	if s.cache != nil {
		if rate, ok := s.cache.Get(ctx, from, to); ok {
			return rate, nil
		}
	}

	rate, err := s.source.PairRate(ctx, from, to)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, rate); err != nil {
			s.logger.Warn("failed to cache rate", zap.Error(err))
		}
	}

	if s.repo != nil {
		if err := s.repo.SaveRate(ctx, rate); err != nil {
			s.logger.Error("failed to save rate to database", zap.Error(err))
		}
	}

	return rate, nil
}

// GetRateWithFallback is GetRate with the latest persisted rate as a fallback
// when the remote fetch fails. Conversions never use this: a conversion with
// an unreachable rate source fails, only the rate lookup endpoint degrades to
// possibly stale data.
func (s *ExchangeService) GetRateWithFallback(ctx context.Context, from, to string) (*models.ExchangeRate, error) {
	rate, err := s.GetRate(ctx, from, to)
	if err == nil {
		return rate, nil
	}

	if s.repo != nil {
		if dbRate, dbErr := s.repo.GetLatestRate(ctx, from, to); dbErr == nil && dbRate != nil {
			s.logger.Warn("using database fallback for exchange rate",
				zap.String("from", from),
				zap.String("to", to),
				zap.Time("as_of", dbRate.Timestamp))
			return dbRate, nil
		}
	}

	return nil, err
}

// GetHistoricalRates retrieves persisted rates for a pair over the past days.
func (s *ExchangeService) GetHistoricalRates(ctx context.Context, from, to string, days int) ([]*models.ExchangeRate, error) {
	if s.repo == nil {
		return nil, nil
	}
	since := time.Now().AddDate(0, 0, -days)
	return s.repo.GetRateHistory(ctx, from, to, since)
}

// InvalidateRates drops cached rates involving the currency so the next
// conversion fetches fresh ones.
func (s *ExchangeService) InvalidateRates(currency string) {
	if s.cache != nil {
		s.cache.Invalidate(currency)
	}
}

func (s *ExchangeService) recordConversion(ctx context.Context, result *models.ConversionResult) {
	if s.repo == nil {
		return
	}

	conversion := &models.Conversion{
		ID:              result.ConversionID,
		FromCurrency:    result.FromCurrency,
		ToCurrency:      result.ToCurrency,
		OriginalAmount:  result.OriginalAmount,
		ConvertedAmount: result.ConvertedAmount,
		ExchangeRate:    result.ExchangeRate,
		CreatedAt:       time.Now(),
	}

	if err := s.repo.SaveConversion(ctx, conversion); err != nil {
		s.logger.Error("failed to save conversion", zap.Error(err))
	}
}

// validAmount reports whether the amount is a finite number strictly greater
// than zero.
func validAmount(amount float64) bool {
	return amount > 0 && !math.IsInf(amount, 0) && !math.IsNaN(amount)
}
