package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"currency-converter/internal/models"
	"currency-converter/internal/service"
)

type CurrencyHandler struct {
	service   *service.ExchangeService
	converter *service.Converter
	logger    *zap.Logger
}

// NewCurrencyHandler builds the HTTP surface. converter is nil when the
// startup catalog load failed; the session endpoints then answer with the
// catalog error until the service is restarted.
func NewCurrencyHandler(exchangeService *service.ExchangeService, converter *service.Converter, logger *zap.Logger) *CurrencyHandler {
	return &CurrencyHandler{
		service:   exchangeService,
		converter: converter,
		logger:    logger,
	}
}

// GetCatalog returns the selectable currencies and the session's current
// source/target selection.
func (h *CurrencyHandler) GetCatalog(c *gin.Context) {
	if h.converter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": models.MsgCatalogUnavailable})
		return
	}

	from, to := h.converter.Selection()
	c.JSON(http.StatusOK, gin.H{
		"options": h.converter.Catalog().Options(),
		"selection": gin.H{
			"from": from,
			"to":   to,
		},
	})
}

// ConvertCurrency converts an explicit amount and currency pair.
func (h *CurrencyHandler) ConvertCurrency(c *gin.Context) {
	var req models.ConversionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.service.Convert(c.Request.Context(), &req)
	h.respond(c, result)
}

type sessionRequest struct {
	Amount string `json:"amount"`
}

// SessionConvert converts against the session's current selection. The amount
// is the raw user input string.
func (h *CurrencyHandler) SessionConvert(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if h.converter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": models.MsgCatalogUnavailable})
		return
	}

	result := h.converter.Convert(c.Request.Context(), req.Amount)
	h.respond(c, result)
}

// SessionSwap exchanges the session's source and target currencies and then
// converts with the swapped pair.
func (h *CurrencyHandler) SessionSwap(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if h.converter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": models.MsgCatalogUnavailable})
		return
	}

	result := h.converter.Swap(c.Request.Context(), req.Amount)
	h.respond(c, result)
}

type selectionRequest struct {
	From string `json:"from" binding:"required,len=3"`
	To   string `json:"to" binding:"required,len=3"`
}

// SessionSelect changes the session's source and target currencies.
func (h *CurrencyHandler) SessionSelect(c *gin.Context) {
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if h.converter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": models.MsgCatalogUnavailable})
		return
	}

	if err := h.converter.Select(req.From, req.To); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	from, to := h.converter.Selection()
	c.JSON(http.StatusOK, gin.H{"from": from, "to": to})
}

func (h *CurrencyHandler) GetRate(c *gin.Context) {
	from := c.Param("from")
	to := c.Param("to")

	rate, err := h.service.GetRateWithFallback(c.Request.Context(), from, to)
	if err != nil {
		h.logger.Error("failed to get rate", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to get exchange rate"})
		return
	}

	c.JSON(http.StatusOK, rate)
}

func (h *CurrencyHandler) GetRateHistory(c *gin.Context) {
	from := c.Param("from")
	to := c.Param("to")

	daysStr := c.DefaultQuery("days", "30")
	days, err := strconv.Atoi(daysStr)
	if err != nil || days < 1 || days > 365 {
		days = 30
	}

	rates, err := h.service.GetHistoricalRates(c.Request.Context(), from, to, days)
	if err != nil {
		h.logger.Error("failed to get historical rates", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get rate history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rates": rates})
}

// InvalidateRates drops cached rates for a currency so the next conversion
// fetches fresh ones.
func (h *CurrencyHandler) InvalidateRates(c *gin.Context) {
	currency := c.Param("currency")
	h.service.InvalidateRates(currency)
	c.JSON(http.StatusOK, gin.H{"invalidated": currency})
}

// respond maps a conversion result onto an HTTP response. Failures keep their
// display message; the status code distinguishes local validation from
// upstream rate problems.
func (h *CurrencyHandler) respond(c *gin.Context, result *models.ConversionResult) {
	recordOutcome(result)

	if result.OK {
		c.JSON(http.StatusOK, result)
		return
	}

	status := http.StatusBadGateway
	if errors.Is(result.Cause, models.ErrInvalidAmount) {
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": result.Message})
}
