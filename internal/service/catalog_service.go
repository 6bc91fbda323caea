package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"currency-converter/internal/models"
	"currency-converter/internal/ratesapi"
)

// CatalogService loads the supported-currency catalog from the remote API.
// The load happens once at startup; there is no retry, a failed load leaves
// the converter without selectable currencies until the service restarts.
type CatalogService struct {
	source ratesapi.Source
	logger *zap.Logger
}

func NewCatalogService(source ratesapi.Source, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		source: source,
		logger: logger,
	}
}

// LoadCatalog fetches the currency list and builds an immutable catalog with
// codes sorted alphabetically. On any fetch failure the returned error wraps
// models.ErrCatalogUnavailable and no catalog is produced.
func (s *CatalogService) LoadCatalog(ctx context.Context) (*models.Catalog, error) {
	currencies, err := s.source.Currencies(ctx)
	if err != nil {
		s.logger.Error("failed to load currency catalog", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", models.ErrCatalogUnavailable, err)
	}

	catalog := models.NewCatalog(currencies)

	from, to := catalog.DefaultSelection()
	s.logger.Info("currency catalog loaded",
		zap.Int("currencies", catalog.Len()),
		zap.String("default_from", from),
		zap.String("default_to", to))

	return catalog, nil
}
