package services

import (
	"fmt"
	"math"
	"time"

	"github.com/obra-studio/obra-api/internal/models"
)

// InstallmentPlanner generates the installment schedule for a project
type InstallmentPlanner struct{}

// NewInstallmentPlanner creates a new installment planner
func NewInstallmentPlanner() *InstallmentPlanner {
	return &InstallmentPlanner{}
}

// Plan builds the full schedule for a project: the down payment as
// installment 0 plus the financed amount split into numbered installments,
// the first of which falls on the first payment date. Amounts are floored to
// cents and the first installment absorbs the remainder so the schedule
// always sums exactly to the financed amount.
func (p *InstallmentPlanner) Plan(project *models.Project) ([]models.Installment, error) {
	if project.TotalAmount <= 0 {
		return nil, fmt.Errorf("el monto total del proyecto debe ser mayor a cero")
	}
	if project.DownPaymentAmount < 0 || project.DownPaymentAmount > project.TotalAmount {
		return nil, fmt.Errorf("el anticipo debe estar entre cero y el monto total")
	}
	if !models.ValidFrequency(project.PaymentFrequency) {
		return nil, fmt.Errorf("frecuencia de pago inválida: %s", project.PaymentFrequency)
	}

	count := project.InstallmentsCount
	if count <= 0 {
		count = 1
	}

	var installments []models.Installment

	// Installment 0: the down payment, due at contract signing. Falls back
	// to the first payment date when the project has no creation timestamp.
	if project.DownPaymentAmount > 0 {
		dueDate := project.CreatedAt
		if dueDate.IsZero() {
			dueDate = project.FirstPaymentDate
		}
		installments = append(installments, models.Installment{
			ProjectID: project.ID,
			Number:    0,
			Amount:    round2(project.DownPaymentAmount),
			DueDate:   dueDate,
			Status:    models.InstallmentStatusPending,
		})
	}

	financed := project.FinancedAmount()
	if financed <= 0 {
		return installments, nil
	}

	// Base amount floored to cents; the first installment picks up the
	// remainder so the sum matches the financed amount exactly.
	base := math.Floor(financed/float64(count)*100) / 100
	first := round2(financed - base*float64(count-1))

	for i := 0; i < count; i++ {
		amount := base
		if i == 0 {
			amount = first
		}

		installments = append(installments, models.Installment{
			ProjectID: project.ID,
			Number:    i + 1,
			Amount:    amount,
			DueDate:   dueDateFor(project.FirstPaymentDate, project.PaymentFrequency, i),
			Status:    models.InstallmentStatusPending,
		})
	}

	return installments, nil
}

// dueDateFor returns the date n periods after start, so installment 1
// (n=0) falls on the first payment date itself. Calendar arithmetic via
// AddDate, so a monthly schedule starting Jan 31 rolls over the way
// time.AddDate rolls over.
func dueDateFor(start time.Time, frequency string, n int) time.Time {
	switch frequency {
	case models.FrequencyWeekly:
		return start.AddDate(0, 0, 7*n)
	case models.FrequencyBiweekly:
		return start.AddDate(0, 0, 14*n)
	case models.FrequencyQuarterly:
		return start.AddDate(0, 3*n, 0)
	default: // monthly
		return start.AddDate(0, n, 0)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
