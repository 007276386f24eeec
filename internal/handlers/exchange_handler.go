package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/obra-studio/obra-api/internal/services"
)

type ExchangeHandler struct {
	exchangeService *services.ExchangeService
}

func NewExchangeHandler(exchangeService *services.ExchangeService) *ExchangeHandler {
	return &ExchangeHandler{exchangeService: exchangeService}
}

// @Summary Latest Exchange Rate
// @Description Get the most recent stored ARS/USD rate
// @Tags Exchange
// @Produce json
// @Success 200 {object} models.ExchangeRate
// @Failure 404 {object} map[string]string
// @Router /exchange/latest [get]
func (h *ExchangeHandler) Latest(c *gin.Context) {
	rate, err := h.exchangeService.Latest(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rate)
}

// @Summary Exchange Rate History
// @Description Get the last stored rate snapshots
// @Tags Exchange
// @Produce json
// @Param limit query int false "Maximum snapshots" default(30)
// @Success 200 {object} map[string]interface{}
// @Router /exchange/history [get]
func (h *ExchangeHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))
	rates, err := h.exchangeService.History(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rates": rates})
}

// @Summary Refresh Exchange Rate
// @Description Fetch the current rate from the provider and store a snapshot
// @Tags Exchange
// @Produce json
// @Success 200 {object} models.ExchangeRate
// @Router /exchange/refresh [post]
func (h *ExchangeHandler) Refresh(c *gin.Context) {
	rate, err := h.exchangeService.Refresh(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rate)
}

// ConvertRequest is the JSON body for a currency conversion
type ConvertRequest struct {
	FromCurrency string  `json:"from_currency" binding:"required"`
	ToCurrency   string  `json:"to_currency" binding:"required"`
	Amount       float64 `json:"amount" binding:"required"`
	Rate         float64 `json:"rate"` // optional explicit rate
}

// @Summary Convert Project Balance
// @Description Convert balance between currencies inside a project cash box
// @Tags Exchange
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param conversion body ConvertRequest true "Conversion data"
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /projects/{id}/exchange [post]
func (h *ExchangeHandler) Convert(c *gin.Context) {
	projectID, _ := strconv.ParseUint(c.Param("id"), 10, 32)

	var req ConvertRequest
	if err := BindNestedOrFlat(c, "conversion", &req); err != nil || req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from_currency, to_currency y amount son obligatorios"})
		return
	}

	movement, err := h.exchangeService.Convert(c.Request.Context(), services.ConvertInput{
		ProjectID:    uint(projectID),
		FromCurrency: req.FromCurrency,
		ToCurrency:   req.ToCurrency,
		Amount:       req.Amount,
		Rate:         req.Rate,
		Actor:        actorFrom(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"movement": movement.ToResponse()})
}
