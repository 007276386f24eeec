package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obra-studio/obra-api/internal/models"
)

func TestPlan_DownPaymentPlusInstallments(t *testing.T) {
	planner := NewInstallmentPlanner()

	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	project := &models.Project{
		ID:                1,
		TotalAmount:       100000,
		DownPaymentAmount: 20000,
		InstallmentsCount: 10,
		PaymentFrequency:  models.FrequencyMonthly,
		FirstPaymentDate:  start,
	}

	installments, err := planner.Plan(project)
	require.NoError(t, err)
	require.Len(t, installments, 11)

	// Installment 0 is the down payment; without a creation timestamp it
	// falls back to the first payment date
	assert.Equal(t, 0, installments[0].Number)
	assert.Equal(t, 20000.0, installments[0].Amount)
	assert.Equal(t, start, installments[0].DueDate)

	// 80000 / 10 splits evenly; installment 1 falls on the first payment
	// date and each later one is a month apart
	for i := 1; i <= 10; i++ {
		assert.Equal(t, i, installments[i].Number)
		assert.Equal(t, 8000.0, installments[i].Amount)
		assert.Equal(t, models.InstallmentStatusPending, installments[i].Status)
		assert.Equal(t, start.AddDate(0, i-1, 0), installments[i].DueDate)
	}
}

func TestPlan_FirstInstallmentDueOnFirstPaymentDate(t *testing.T) {
	planner := NewInstallmentPlanner()

	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	project := &models.Project{
		ID:                1,
		TotalAmount:       30000,
		InstallmentsCount: 3,
		PaymentFrequency:  models.FrequencyMonthly,
		FirstPaymentDate:  start,
	}

	installments, err := planner.Plan(project)
	require.NoError(t, err)
	require.Len(t, installments, 3)

	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), installments[0].DueDate)
	assert.Equal(t, time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC), installments[1].DueDate)
	assert.Equal(t, time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC), installments[2].DueDate)
}

func TestPlan_DownPaymentDueAtCreation(t *testing.T) {
	planner := NewInstallmentPlanner()

	created := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	project := &models.Project{
		ID:                1,
		TotalAmount:       50000,
		DownPaymentAmount: 10000,
		InstallmentsCount: 4,
		PaymentFrequency:  models.FrequencyMonthly,
		FirstPaymentDate:  start,
		CreatedAt:         created,
	}

	installments, err := planner.Plan(project)
	require.NoError(t, err)
	require.Len(t, installments, 5)

	// The down payment is due at signing, before the first installment
	assert.Equal(t, created, installments[0].DueDate)
	assert.Equal(t, start, installments[1].DueDate)
	assert.True(t, installments[0].DueDate.Before(installments[1].DueDate))
}

func TestPlan_FirstInstallmentAbsorbsRemainder(t *testing.T) {
	planner := NewInstallmentPlanner()

	// 100 / 3 = 33.333...: base floors to 33.33, first takes the rest
	project := &models.Project{
		ID:                1,
		TotalAmount:       100,
		InstallmentsCount: 3,
		PaymentFrequency:  models.FrequencyMonthly,
		FirstPaymentDate:  time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}

	installments, err := planner.Plan(project)
	require.NoError(t, err)
	require.Len(t, installments, 3)

	assert.InDelta(t, 33.34, installments[0].Amount, 0.001)
	assert.InDelta(t, 33.33, installments[1].Amount, 0.001)
	assert.InDelta(t, 33.33, installments[2].Amount, 0.001)

	var sum float64
	for _, inst := range installments {
		sum += inst.Amount
	}
	assert.InDelta(t, 100.0, sum, 0.001, "schedule must sum to the financed amount")
}

func TestPlan_SumPreservedWithDownPayment(t *testing.T) {
	planner := NewInstallmentPlanner()

	project := &models.Project{
		ID:                1,
		TotalAmount:       99999.97,
		DownPaymentAmount: 10000.50,
		InstallmentsCount: 7,
		PaymentFrequency:  models.FrequencyBiweekly,
		FirstPaymentDate:  time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	installments, err := planner.Plan(project)
	require.NoError(t, err)
	require.Len(t, installments, 8)

	var sum float64
	for _, inst := range installments {
		sum += inst.Amount
	}
	assert.InDelta(t, project.TotalAmount, sum, 0.001)
}

func TestPlan_Frequencies(t *testing.T) {
	planner := NewInstallmentPlanner()
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		frequency string
		second    time.Time
	}{
		{models.FrequencyWeekly, start.AddDate(0, 0, 7)},
		{models.FrequencyBiweekly, start.AddDate(0, 0, 14)},
		{models.FrequencyMonthly, start.AddDate(0, 1, 0)},
		{models.FrequencyQuarterly, start.AddDate(0, 3, 0)},
	}

	for _, tc := range cases {
		t.Run(tc.frequency, func(t *testing.T) {
			project := &models.Project{
				ID:                1,
				TotalAmount:       1000,
				InstallmentsCount: 2,
				PaymentFrequency:  tc.frequency,
				FirstPaymentDate:  start,
			}
			installments, err := planner.Plan(project)
			require.NoError(t, err)
			require.Len(t, installments, 2)
			assert.Equal(t, start, installments[0].DueDate)
			assert.Equal(t, tc.second, installments[1].DueDate)
		})
	}
}

func TestPlan_MonthEndRollsOver(t *testing.T) {
	planner := NewInstallmentPlanner()

	// Monthly from Jan 31: AddDate rolls Feb 31 into early March
	project := &models.Project{
		ID:                1,
		TotalAmount:       3000,
		InstallmentsCount: 3,
		PaymentFrequency:  models.FrequencyMonthly,
		FirstPaymentDate:  time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
	}

	installments, err := planner.Plan(project)
	require.NoError(t, err)
	require.Len(t, installments, 3)
	assert.Equal(t, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), installments[0].DueDate)
	assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), installments[1].DueDate)
	assert.Equal(t, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), installments[2].DueDate)
}

func TestPlan_FullDownPaymentNoInstallments(t *testing.T) {
	planner := NewInstallmentPlanner()

	project := &models.Project{
		ID:                1,
		TotalAmount:       50000,
		DownPaymentAmount: 50000,
		InstallmentsCount: 6,
		PaymentFrequency:  models.FrequencyMonthly,
		FirstPaymentDate:  time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	}

	installments, err := planner.Plan(project)
	require.NoError(t, err)
	require.Len(t, installments, 1)
	assert.Equal(t, 0, installments[0].Number)
	assert.Equal(t, 50000.0, installments[0].Amount)
}

func TestPlan_Invalid(t *testing.T) {
	planner := NewInstallmentPlanner()

	_, err := planner.Plan(&models.Project{TotalAmount: 0, PaymentFrequency: models.FrequencyMonthly})
	assert.Error(t, err)

	_, err = planner.Plan(&models.Project{TotalAmount: 100, DownPaymentAmount: 200, PaymentFrequency: models.FrequencyMonthly})
	assert.Error(t, err)

	_, err = planner.Plan(&models.Project{TotalAmount: 100, PaymentFrequency: "daily"})
	assert.Error(t, err)
}
