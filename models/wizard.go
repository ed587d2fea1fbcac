package models

// WizardData is the accumulated form data of a multi-step flow.
type WizardData map[string]any

// WizardState is the transient, per-session state of a step-gated flow.
// Current is 1-based. The state is pure data; transitions live in the wizard
// machine and the controller never advances past a step whose validation
// predicate fails.
type WizardState struct {
	Current int        `json:"current"`
	Total   int        `json:"total"`
	Data    WizardData `json:"data"`
}

// Clone returns a deep-enough copy for the machine's pure transitions: the
// data map is copied so callers never observe shared mutation.
func (s WizardState) Clone() WizardState {
	data := make(WizardData, len(s.Data))
	for k, v := range s.Data {
		data[k] = v
	}
	s.Data = data
	return s
}
