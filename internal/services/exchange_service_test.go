package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gorm.io/gorm"

	"github.com/obra-studio/obra-api/internal/models"
)

func TestHTTPRateProvider_FetchRate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"compra": 1180.5, "venta": 1230.75, "casa": "oficial", "nombre": "Oficial"}`))
	}))
	defer server.Close()

	provider := NewHTTPRateProvider(server.URL)
	rate, source, err := provider.FetchRate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1230.75, rate, "the selling rate is the one applied")
	assert.Equal(t, "oficial", source)
}

func TestHTTPRateProvider_RejectsBadResponses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	provider := NewHTTPRateProvider(server.URL)
	_, _, err := provider.FetchRate(context.Background())
	assert.Error(t, err)

	zeroRate := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"compra": 0, "venta": 0}`))
	}))
	defer zeroRate.Close()

	provider = NewHTTPRateProvider(zeroRate.URL)
	_, _, err = provider.FetchRate(context.Background())
	assert.Error(t, err)
}

type stubRateProvider struct {
	rate   float64
	source string
	err    error
}

func (p *stubRateProvider) FetchRate(ctx context.Context) (float64, string, error) {
	return p.rate, p.source, p.err
}

func TestRefresh_StoresSnapshot(t *testing.T) {
	repo := &mockExchangeRateRepository{}
	var stored *models.ExchangeRate
	repo.mockCreate = func(ctx context.Context, rate *models.ExchangeRate) error {
		stored = rate
		return nil
	}

	svc := NewExchangeService(repo, &mockCashLedgerRepository{}, &stubRateProvider{rate: 1200, source: "oficial"}, NewAuditService(nil))

	snapshot, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1200.0, snapshot.Rate)
	require.NotNil(t, stored)
	assert.Equal(t, "oficial", stored.Source)
	assert.False(t, stored.FetchedAt.IsZero())
}

func TestConvert_UsesLatestStoredRate(t *testing.T) {
	repo := &mockExchangeRateRepository{}
	repo.mockLatest = func(ctx context.Context) (*models.ExchangeRate, error) {
		return &models.ExchangeRate{Rate: 1250, Source: "oficial"}, nil
	}

	ledgerRepo := &mockCashLedgerRepository{}
	svc := NewExchangeService(repo, ledgerRepo, &stubRateProvider{}, NewAuditService(nil))

	_, err := svc.Convert(context.Background(), ConvertInput{
		ProjectID:    11,
		FromCurrency: models.CurrencyUSD,
		ToCurrency:   models.CurrencyARS,
		Amount:       100,
		Actor:        "tester",
	})
	require.NoError(t, err)
}

func TestConvert_NoStoredRate(t *testing.T) {
	repo := &mockExchangeRateRepository{}
	repo.mockLatest = func(ctx context.Context) (*models.ExchangeRate, error) {
		return nil, gorm.ErrRecordNotFound
	}

	svc := NewExchangeService(repo, &mockCashLedgerRepository{}, &stubRateProvider{}, NewAuditService(nil))

	_, err := svc.Convert(context.Background(), ConvertInput{
		ProjectID:    11,
		FromCurrency: models.CurrencyUSD,
		ToCurrency:   models.CurrencyARS,
		Amount:       100,
	})
	assert.ErrorIs(t, err, ErrNoExchangeRate)
}
