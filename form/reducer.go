package form

// Phase is the lifecycle position of a form
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseEditing    Phase = "editing"
	PhaseValidating Phase = "validating"
	PhaseSubmitting Phase = "submitting"
	PhaseSettled    Phase = "settled"
)

// State is a snapshot of one form
type State struct {
	Phase       Phase  `json:"phase"`
	Values      Values `json:"values"`
	Errors      Errors `json:"errors"`
	Submitting  bool   `json:"submitting"`
	Success     bool   `json:"success"`
	SubmitError string `json:"submit_error,omitempty"`
}

// NewState returns an idle form holding a copy of initial
func NewState(initial Values) State {
	return State{
		Phase:  PhaseIdle,
		Values: initial.Clone(),
		Errors: Errors{},
	}
}

// Clone deep-copies the maps
func (s State) Clone() State {
	s.Values = s.Values.Clone()
	s.Errors = s.Errors.Clone()
	return s
}

// Event drives a State transition
type Event interface {
	event()
}

// FieldChanged stores a raw value, clearing that field's error and the success flag
type FieldChanged struct {
	Name  string
	Value string
}

// Loaded replaces every value, e.g. after fetching the saved profile
type Loaded struct {
	Values Values
}

// SubmitAttempted starts validation
type SubmitAttempted struct{}

// Validated carries the validation outcome of a submit attempt
type Validated struct {
	Errors Errors
}

type SubmitSucceeded struct{}

// SubmitFailed carries the single form-level failure message
type SubmitFailed struct {
	Message string
}

// SuccessExpired ends the success display window
type SuccessExpired struct{}

func (FieldChanged) event()    {}
func (Loaded) event()          {}
func (SubmitAttempted) event() {}
func (Validated) event()       {}
func (SubmitSucceeded) event() {}
func (SubmitFailed) event()    {}
func (SuccessExpired) event()  {}

// Reduce returns the state after ev. s is not modified; events that do not
// apply in the current phase return s unchanged.
//
//	idle|editing|settled --FieldChanged--> editing
//	idle|editing|settled --SubmitAttempted--> validating
//	validating --Validated(errors)--> editing
//	validating --Validated(clean)--> submitting
//	submitting --SubmitSucceeded--> settled
//	submitting --SubmitFailed--> editing
//	settled --SuccessExpired--> idle
func Reduce(s State, ev Event) State {
	switch ev := ev.(type) {
	case FieldChanged:
		next := s.Clone()
		next.Values[ev.Name] = ev.Value
		delete(next.Errors, ev.Name)
		next.Success = false
		if next.Phase != PhaseSubmitting {
			next.Phase = PhaseEditing
		}
		return next

	case Loaded:
		next := s.Clone()
		next.Values = ev.Values.Clone()
		next.Errors = Errors{}
		next.Success = false
		if next.Phase != PhaseSubmitting {
			next.Phase = PhaseIdle
		}
		return next

	case SubmitAttempted:
		if s.Phase == PhaseSubmitting || s.Phase == PhaseValidating {
			return s
		}
		next := s.Clone()
		next.Phase = PhaseValidating
		next.Success = false
		return next

	case Validated:
		if s.Phase != PhaseValidating {
			return s
		}
		next := s.Clone()
		next.SubmitError = ""
		if !ev.Errors.Valid() {
			next.Phase = PhaseEditing
			next.Errors = ev.Errors.Compact()
			return next
		}
		next.Phase = PhaseSubmitting
		next.Errors = Errors{}
		next.Submitting = true
		return next

	case SubmitSucceeded:
		if s.Phase != PhaseSubmitting {
			return s
		}
		next := s.Clone()
		next.Phase = PhaseSettled
		next.Submitting = false
		next.Success = true
		return next

	case SubmitFailed:
		if s.Phase != PhaseSubmitting {
			return s
		}
		next := s.Clone()
		next.Phase = PhaseEditing
		next.Submitting = false
		next.SubmitError = ev.Message
		return next

	case SuccessExpired:
		if s.Phase != PhaseSettled {
			return s
		}
		next := s.Clone()
		next.Phase = PhaseIdle
		next.Success = false
		return next
	}
	return s
}
