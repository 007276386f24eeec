package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/obra-studio/obra-api/internal/models"
)

// ProjectFSM wraps a project with its state machine
type ProjectFSM struct {
	project *models.Project
	fsm     *fsm.FSM
}

// NewProjectFSM creates a new project state machine
func NewProjectFSM(project *models.Project) *ProjectFSM {
	pfsm := &ProjectFSM{
		project: project,
	}

	pfsm.fsm = fsm.NewFSM(
		project.Status,
		fsm.Events{
			// draft/on_hold → active
			{Name: "activate", Src: []string{models.ProjectStatusDraft, models.ProjectStatusOnHold}, Dst: models.ProjectStatusActive},

			// active → on_hold
			{Name: "hold", Src: []string{models.ProjectStatusActive}, Dst: models.ProjectStatusOnHold},

			// active → completed
			{Name: "complete", Src: []string{models.ProjectStatusActive}, Dst: models.ProjectStatusCompleted},

			// draft/active/on_hold → cancelled
			{Name: "cancel", Src: []string{models.ProjectStatusDraft, models.ProjectStatusActive, models.ProjectStatusOnHold}, Dst: models.ProjectStatusCancelled},
		},
		fsm.Callbacks{},
	)

	return pfsm
}

// Activate transitions the project to active state
func (p *ProjectFSM) Activate(ctx context.Context) error {
	if !p.project.MayActivate() {
		return fmt.Errorf("el proyecto no puede activarse en su estado actual: %s", p.project.Status)
	}

	if err := p.fsm.Event(ctx, "activate"); err != nil {
		return fmt.Errorf("failed to activate project: %w", err)
	}

	p.project.Status = p.fsm.Current()
	return nil
}

// Hold transitions the project to on_hold state
func (p *ProjectFSM) Hold(ctx context.Context) error {
	if !p.project.MayHold() {
		return fmt.Errorf("el proyecto no puede pausarse en su estado actual: %s", p.project.Status)
	}

	if err := p.fsm.Event(ctx, "hold"); err != nil {
		return fmt.Errorf("failed to hold project: %w", err)
	}

	p.project.Status = p.fsm.Current()
	return nil
}

// Complete transitions the project to completed state
func (p *ProjectFSM) Complete(ctx context.Context) error {
	if !p.project.MayComplete() {
		return fmt.Errorf("el proyecto no puede completarse en su estado actual: %s", p.project.Status)
	}

	if err := p.fsm.Event(ctx, "complete"); err != nil {
		return fmt.Errorf("failed to complete project: %w", err)
	}

	p.project.Status = p.fsm.Current()
	return nil
}

// Cancel transitions the project to cancelled state
func (p *ProjectFSM) Cancel(ctx context.Context) error {
	if !p.project.MayCancel() {
		return fmt.Errorf("el proyecto no puede cancelarse en su estado actual: %s", p.project.Status)
	}

	if err := p.fsm.Event(ctx, "cancel"); err != nil {
		return fmt.Errorf("failed to cancel project: %w", err)
	}

	p.project.Status = p.fsm.Current()
	return nil
}

// Current returns the current state
func (p *ProjectFSM) Current() string {
	return p.fsm.Current()
}

// Can checks if a transition is possible
func (p *ProjectFSM) Can(event string) bool {
	return p.fsm.Can(event)
}
