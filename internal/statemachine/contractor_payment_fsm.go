package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/obra-studio/obra-api/internal/models"
)

// ContractorPaymentFSM wraps a contractor payment with its state machine
type ContractorPaymentFSM struct {
	payment *models.ContractorPayment
	fsm     *fsm.FSM
}

// NewContractorPaymentFSM creates a new contractor payment state machine
func NewContractorPaymentFSM(payment *models.ContractorPayment) *ContractorPaymentFSM {
	pfsm := &ContractorPaymentFSM{
		payment: payment,
	}

	pfsm.fsm = fsm.NewFSM(
		payment.Status,
		fsm.Events{
			// pending/overdue → paid (requires funds validation upstream)
			{Name: "pay", Src: []string{models.ContractorPaymentStatusPending, models.ContractorPaymentStatusOverdue}, Dst: models.ContractorPaymentStatusPaid},

			// pending → overdue
			{Name: "overdue", Src: []string{models.ContractorPaymentStatusPending}, Dst: models.ContractorPaymentStatusOverdue},

			// pending/overdue → cancelled
			{Name: "cancel", Src: []string{models.ContractorPaymentStatusPending, models.ContractorPaymentStatusOverdue}, Dst: models.ContractorPaymentStatusCancelled},
		},
		fsm.Callbacks{},
	)

	return pfsm
}

// Pay transitions the payment to paid state
func (p *ContractorPaymentFSM) Pay(ctx context.Context) error {
	if !p.payment.MayPay() {
		return fmt.Errorf("el pago no puede confirmarse en su estado actual: %s", p.payment.Status)
	}

	if err := p.fsm.Event(ctx, "pay"); err != nil {
		return fmt.Errorf("failed to pay contractor payment: %w", err)
	}

	p.payment.Status = p.fsm.Current()
	return nil
}

// MarkOverdue transitions the payment to overdue state
func (p *ContractorPaymentFSM) MarkOverdue(ctx context.Context) error {
	if err := p.fsm.Event(ctx, "overdue"); err != nil {
		return fmt.Errorf("failed to mark contractor payment overdue: %w", err)
	}

	p.payment.Status = p.fsm.Current()
	return nil
}

// Cancel transitions the payment to cancelled state
func (p *ContractorPaymentFSM) Cancel(ctx context.Context) error {
	if !p.payment.MayCancel() {
		return fmt.Errorf("el pago no puede cancelarse en su estado actual: %s", p.payment.Status)
	}

	if err := p.fsm.Event(ctx, "cancel"); err != nil {
		return fmt.Errorf("failed to cancel contractor payment: %w", err)
	}

	p.payment.Status = p.fsm.Current()
	return nil
}

// Current returns the current state
func (p *ContractorPaymentFSM) Current() string {
	return p.fsm.Current()
}
