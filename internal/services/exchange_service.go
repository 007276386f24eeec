package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/obra-studio/obra-api/internal/models"
	"github.com/obra-studio/obra-api/internal/repository"
	"github.com/obra-studio/obra-api/pkg/logger"
)

// RateProvider fetches the current ARS-per-USD rate from an external source
type RateProvider interface {
	FetchRate(ctx context.Context) (rate float64, source string, err error)
}

// dolarAPIResponse matches the dolarapi.com quote format
type dolarAPIResponse struct {
	Compra float64 `json:"compra"`
	Venta  float64 `json:"venta"`
	Casa   string  `json:"casa"`
	Nombre string  `json:"nombre"`
}

// HTTPRateProvider fetches quotes from a dolarapi-style endpoint
type HTTPRateProvider struct {
	url    string
	client *http.Client
}

// NewHTTPRateProvider creates a provider against the given quote URL
func NewHTTPRateProvider(url string) *HTTPRateProvider {
	return &HTTPRateProvider{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// FetchRate returns the selling rate of the official quote
func (p *HTTPRateProvider) FetchRate(ctx context.Context) (float64, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return 0, "", err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("failed to fetch exchange rate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, "", fmt.Errorf("exchange rate provider returned status %d", resp.StatusCode)
	}

	var quote dolarAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return 0, "", fmt.Errorf("failed to decode exchange rate: %w", err)
	}
	if quote.Venta <= 0 {
		return 0, "", errors.New("exchange rate provider returned a non-positive rate")
	}

	source := quote.Casa
	if source == "" {
		source = "dolarapi"
	}
	return quote.Venta, source, nil
}

// ExchangeService keeps the rate history fresh and executes currency
// conversions inside project cash boxes.
type ExchangeService struct {
	repo       repository.ExchangeRateRepository
	ledgerRepo repository.CashLedgerRepository
	provider   RateProvider
	auditSvc   *AuditService
}

// NewExchangeService creates a new exchange service
func NewExchangeService(
	repo repository.ExchangeRateRepository,
	ledgerRepo repository.CashLedgerRepository,
	provider RateProvider,
	auditSvc *AuditService,
) *ExchangeService {
	return &ExchangeService{
		repo:       repo,
		ledgerRepo: ledgerRepo,
		provider:   provider,
		auditSvc:   auditSvc,
	}
}

// Refresh fetches the current rate and stores a snapshot
func (s *ExchangeService) Refresh(ctx context.Context) (*models.ExchangeRate, error) {
	rate, source, err := s.provider.FetchRate(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := &models.ExchangeRate{
		Rate:      rate,
		Source:    source,
		FetchedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, snapshot); err != nil {
		return nil, err
	}

	logger.Info("exchange rate refreshed",
		slog.Float64("rate", rate), slog.String("source", source))
	return snapshot, nil
}

// Latest returns the most recent stored rate
func (s *ExchangeService) Latest(ctx context.Context) (*models.ExchangeRate, error) {
	rate, err := s.repo.Latest(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoExchangeRate
	}
	return rate, err
}

// History returns the last N stored rates
func (s *ExchangeService) History(ctx context.Context, limit int) ([]models.ExchangeRate, error) {
	return s.repo.History(ctx, limit)
}

// ConvertInput describes a conversion inside a project cash box
type ConvertInput struct {
	ProjectID    uint
	FromCurrency string
	ToCurrency   string
	Amount       float64
	Rate         float64 // optional; latest stored rate when zero
	Actor        string
}

// Convert moves balance between currencies in a project cash box. When no
// explicit rate is given the latest stored quote is applied.
func (s *ExchangeService) Convert(ctx context.Context, input ConvertInput) (*models.CashMovement, error) {
	rate := input.Rate
	if rate <= 0 {
		latest, err := s.Latest(ctx)
		if err != nil {
			return nil, err
		}
		rate = latest.Rate
	}

	movement, err := s.ledgerRepo.ExchangeCurrency(ctx, repository.ExchangePosting{
		ProjectID:    input.ProjectID,
		FromCurrency: input.FromCurrency,
		ToCurrency:   input.ToCurrency,
		Amount:       input.Amount,
		Rate:         rate,
		Description:  fmt.Sprintf("Conversión %s a %s a cotización %.4f", input.FromCurrency, input.ToCurrency, rate),
		CreatedBy:    input.Actor,
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, input.Actor, "EXCHANGE", "Project", input.ProjectID,
		fmt.Sprintf("Conversión de %.2f %s a %s a cotización %.4f",
			input.Amount, input.FromCurrency, input.ToCurrency, rate), "")

	return movement, nil
}
