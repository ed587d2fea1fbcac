// Package wizard implements the generic ordered-step controller shared by the
// booking and signup flows. A machine is a fixed sequence of steps, each with
// a pure validation predicate over the accumulated form data; transitions are
// pure functions over WizardState, so the caller (HTTP layer, session store)
// stays a thin subscriber.
package wizard

import (
	"fmt"

	"lexbook/models"
)

// Predicate validates the data collected through a step. Predicates must be
// step-local: deciding step k may only read fields steps 1..k collect.
type Predicate func(data models.WizardData) error

// Step is one gate in the flow.
type Step struct {
	Name     string
	Validate Predicate
}

// ValidationError reports which step blocked an advance and why, so the UI can
// surface a specific message instead of a generic "invalid".
type ValidationError struct {
	Step   int
	Name   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("step %d (%s): %s", e.Step, e.Name, e.Reason)
}

// Machine is an immutable flow definition; one instance drives any number of
// concurrent sessions.
type Machine struct {
	steps []Step
}

// New builds a machine from ordered steps.
func New(steps ...Step) (*Machine, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("wizard: a machine needs at least one step")
	}
	for i, s := range steps {
		if s.Validate == nil {
			return nil, fmt.Errorf("wizard: step %d (%s) has no validation predicate", i+1, s.Name)
		}
	}
	return &Machine{steps: steps}, nil
}

// Steps returns the total step count.
func (m *Machine) Steps() int {
	return len(m.steps)
}

// StepName returns the name of the 1-based step index.
func (m *Machine) StepName(i int) string {
	if i < 1 || i > len(m.steps) {
		return ""
	}
	return m.steps[i-1].Name
}

// StepIndex returns the 1-based index of the named step, or 0 when the
// machine has no step by that name.
func (m *Machine) StepIndex(name string) int {
	for i, s := range m.steps {
		if s.Name == name {
			return i + 1
		}
	}
	return 0
}

// Start returns the initial state: step 1, empty data.
func (m *Machine) Start() models.WizardState {
	return models.WizardState{
		Current: 1,
		Total:   len(m.steps),
		Data:    models.WizardData{},
	}
}

// CanAdvance reports whether the current step's predicate holds. A nil return
// means the gate is open.
func (m *Machine) CanAdvance(state models.WizardState) error {
	idx := clampStep(state.Current, len(m.steps))
	step := m.steps[idx-1]
	if err := step.Validate(state.Data); err != nil {
		return &ValidationError{Step: idx, Name: step.Name, Reason: err.Error()}
	}
	return nil
}

// Advance moves forward by exactly one step when the current gate is open,
// capped at the final step. On a closed gate it returns the state unchanged
// together with the failed predicate's explanation.
func (m *Machine) Advance(state models.WizardState) (models.WizardState, error) {
	if err := m.CanAdvance(state); err != nil {
		return state, err
	}
	next := state.Clone()
	next.Current = clampStep(state.Current+1, len(m.steps))
	next.Total = len(m.steps)
	return next, nil
}

// Retreat moves back one step, floored at step 1. Going back never
// re-validates: users may always return to fix earlier input.
func (m *Machine) Retreat(state models.WizardState) models.WizardState {
	prev := state.Clone()
	prev.Current = clampStep(state.Current-1, len(m.steps))
	prev.Total = len(m.steps)
	return prev
}

// UpdateData merges partial form data into the accumulated set without
// changing the current step.
func (m *Machine) UpdateData(state models.WizardState, partial models.WizardData) models.WizardState {
	next := state.Clone()
	next.Total = len(m.steps)
	for k, v := range partial {
		next.Data[k] = v
	}
	return next
}

// Complete reports whether every step's predicate holds, i.e. the flow is
// ready for final submission.
func (m *Machine) Complete(state models.WizardState) error {
	for i, step := range m.steps {
		if err := step.Validate(state.Data); err != nil {
			return &ValidationError{Step: i + 1, Name: step.Name, Reason: err.Error()}
		}
	}
	return nil
}

func clampStep(i, total int) int {
	if i < 1 {
		return 1
	}
	if i > total {
		return total
	}
	return i
}
