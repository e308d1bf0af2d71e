package form

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/AnTengye/mediconnect/model"
	"github.com/AnTengye/mediconnect/pkg/logger"
)

// DefaultSuccessDisplay is how long the success flag stays up after a save
const DefaultSuccessDisplay = 3 * time.Second

// ErrDisposed is returned by Submit on a disposed engine
var ErrDisposed = errors.New("form engine disposed")

// ErrSinkPanic wraps a panic raised by a Sink
var ErrSinkPanic = errors.New("form sink panicked")

// Submission is what a Sink receives: a copy of the validated values
type Submission struct {
	Kind   Kind
	Role   model.Role
	Values Values
}

// Sink persists a validated form. It is provided by the surrounding
// application (the account API client in production).
type Sink interface {
	Submit(ctx context.Context, sub Submission) error
}

// SinkFunc adapts a function to Sink
type SinkFunc func(ctx context.Context, sub Submission) error

func (f SinkFunc) Submit(ctx context.Context, sub Submission) error {
	return f(ctx, sub)
}

// Outcome reports how a Submit call ended
type Outcome string

const (
	OutcomeRejected Outcome = "rejected" // validation errors, sink not called
	OutcomeSettled  Outcome = "settled"
	OutcomeFailed   Outcome = "failed"
	OutcomeIgnored  Outcome = "ignored" // another submission was in flight
)

// SubmissionError is returned when the sink rejects a submission. Message is
// the single form-level text shown to the user.
type SubmissionError struct {
	Message string
	Err     error
}

func (e *SubmissionError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// UserMessager is implemented by sink errors that carry their own
// user-facing text.
type UserMessager interface {
	UserMessage() string
}

// Engine owns one form instance. It is safe for concurrent use; at most one
// submission is in flight at a time.
type Engine struct {
	mu             sync.Mutex
	kind           Kind
	role           model.Role
	state          State
	validate       Validator
	normalize      Normalizer
	sink           Sink
	successDisplay time.Duration
	timer          *time.Timer
	generation     uint64
	disposed       bool
}

// Option configures an Engine
type Option func(*Engine)

// WithSuccessDisplay sets how long the success flag stays up
func WithSuccessDisplay(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.successDisplay = d
		}
	}
}

// WithValidator replaces the kind's default rule set
func WithValidator(v Validator) Option {
	return func(e *Engine) {
		if v != nil {
			e.validate = v
		}
	}
}

// Normalizer rewrites values before they are validated and submitted, so
// the sink receives exactly what passed validation.
type Normalizer func(Values) Values

// WithNormalizer runs n on a copy of the values at every submit attempt.
// The form keeps showing the raw input.
func WithNormalizer(n Normalizer) Option {
	return func(e *Engine) {
		e.normalize = n
	}
}

// NewEngine creates an idle form. Every field of kind/role is present in the
// initial values, empty unless supplied.
func NewEngine(kind Kind, role model.Role, initial Values, sink Sink, opts ...Option) *Engine {
	values := Values{}
	for _, f := range Fields(kind, role) {
		values[f] = ""
	}
	for k, v := range initial {
		values[k] = v
	}

	e := &Engine{
		kind:           kind,
		role:           role,
		state:          NewState(values),
		validate:       ValidatorFor(kind),
		sink:           sink,
		successDisplay: DefaultSuccessDisplay,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Kind() Kind { return e.kind }

func (e *Engine) Role() model.Role { return e.role }

// Snapshot returns a copy of the current state
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Set stores a raw field value. It never validates.
func (e *Engine) Set(name, value string) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed {
		return e.state.Clone()
	}
	e.cancelResetLocked()
	e.state = Reduce(e.state, FieldChanged{Name: name, Value: value})
	return e.state.Clone()
}

// Load replaces every value
func (e *Engine) Load(values Values) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed {
		return e.state.Clone()
	}
	e.cancelResetLocked()
	e.state = Reduce(e.state, Loaded{Values: values})
	return e.state.Clone()
}

// Submit validates and, when clean, hands the values to the sink. Field
// errors end up in the state, never in the returned error; the error is a
// *SubmissionError when the sink fails, or ErrDisposed.
func (e *Engine) Submit(ctx context.Context) (Outcome, error) {
	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return OutcomeIgnored, ErrDisposed
	}
	if e.state.Submitting {
		e.mu.Unlock()
		logger.Debug(ctx, "form submission already in flight", "kind", e.kind)
		return OutcomeIgnored, nil
	}

	e.cancelResetLocked()
	e.state = Reduce(e.state, SubmitAttempted{})
	values := e.state.Values.Clone()
	if e.normalize != nil {
		values = e.normalize(values)
	}
	e.state = Reduce(e.state, Validated{Errors: e.validate(values, e.role)})
	if e.state.Phase != PhaseSubmitting {
		fields := len(e.state.Errors)
		e.mu.Unlock()
		logger.Debug(ctx, "form submission rejected", "kind", e.kind, "invalid_fields", fields)
		return OutcomeRejected, nil
	}
	sub := Submission{Kind: e.kind, Role: e.role, Values: values}
	e.mu.Unlock()

	err := e.callSink(ctx, sub)

	e.mu.Lock()
	defer e.mu.Unlock()

	if err != nil {
		subErr := &SubmissionError{Message: failureMessage(e.kind, err), Err: err}
		if !e.disposed {
			e.state = Reduce(e.state, SubmitFailed{Message: subErr.Message})
		}
		logger.Warn(ctx, "form submission failed", "kind", e.kind, "error", err)
		return OutcomeFailed, subErr
	}

	if !e.disposed {
		e.state = Reduce(e.state, SubmitSucceeded{})
		e.scheduleResetLocked()
	}
	logger.Info(ctx, "form submitted", "kind", e.kind, "role", e.role)
	return OutcomeSettled, nil
}

// callSink turns a sink panic into an error so the form always leaves
// Submitting.
func (e *Engine) callSink(ctx context.Context, sub Submission) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "form sink panicked", "kind", e.kind, "panic", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("%w: %v", ErrSinkPanic, r)
		}
	}()
	return e.sink.Submit(ctx, sub)
}

// Dispose cancels the pending success reset. Later sink results and timers
// no longer touch the state.
func (e *Engine) Dispose() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelResetLocked()
	e.disposed = true
}

func (e *Engine) Disposed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.disposed
}

func (e *Engine) scheduleResetLocked() {
	e.cancelResetLocked()
	gen := e.generation
	e.timer = time.AfterFunc(e.successDisplay, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		// Stop cannot recall a callback that already started.
		if e.disposed || e.generation != gen {
			return
		}
		e.state = Reduce(e.state, SuccessExpired{})
		e.timer = nil
	})
}

func (e *Engine) cancelResetLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.generation++
}

func failureMessage(kind Kind, err error) string {
	var um UserMessager
	if errors.As(err, &um) && um.UserMessage() != "" {
		return um.UserMessage()
	}
	switch kind {
	case KindRegistration:
		return "Registration failed. Please try again."
	case KindActivation:
		return "Activation failed. Please try again or contact support."
	}
	return "Failed to update settings. Please try again."
}
