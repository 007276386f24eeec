package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obra-studio/obra-api/internal/repository"
	"github.com/obra-studio/obra-api/internal/services"
)

func TestRespondServiceError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"not found", services.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("%w: cliente 3", services.ErrNotFound), http.StatusNotFound},
		{"cash box missing", repository.ErrCashBoxNotFound, http.StatusNotFound},
		{"already paid", services.ErrAlreadyPaid, http.StatusConflict},
		{"invalid state", services.ErrInvalidState, http.StatusUnprocessableEntity},
		{"validation", fmt.Errorf("%w: el nombre es obligatorio", services.ErrValidation), http.StatusBadRequest},
		{"invalid currency", services.ErrInvalidCurrency, http.StatusBadRequest},
		{"no exchange rate", services.ErrNoExchangeRate, http.StatusBadRequest},
		{"unknown", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			respondServiceError(c, tt.err)
			assert.Equal(t, tt.expected, w.Code)
		})
	}
}

func TestRespondServiceError_InsufficientFunds(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondServiceError(c, &repository.InsufficientFundsError{
		ProjectID: 11,
		Currency:  "ARS",
		Required:  50000,
		Available: 12000,
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "insufficient_funds", body["code"])
	assert.Equal(t, "ARS", body["currency"])
	assert.Equal(t, 50000.0, body["required"])
	assert.Equal(t, 12000.0, body["available"])
	assert.Equal(t, 38000.0, body["shortfall"])
}
