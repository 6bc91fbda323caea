package handler

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"currency-converter/internal/models"
)

var conversionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "currency_conversions_total",
		Help: "Conversion attempts by outcome.",
	},
	[]string{"outcome"},
)

func recordOutcome(result *models.ConversionResult) {
	switch {
	case result.OK:
		conversionsTotal.WithLabelValues("success").Inc()
	case errors.Is(result.Cause, models.ErrInvalidAmount):
		conversionsTotal.WithLabelValues("invalid_amount").Inc()
	default:
		conversionsTotal.WithLabelValues("rate_unavailable").Inc()
	}
}
