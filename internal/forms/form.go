// Package forms implements the lead-submission state machine shared by the quote and
// contact forms.
package forms

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"
)

// State is the lifecycle position of a form.
type State int

const (
	Editing State = iota
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrInFlight is returned when a form is changed or resubmitted while a submission is outstanding.
var ErrInFlight = errors.New("forms: submission already in flight")

// ValidationError lists the wire names of required fields that are empty or malformed.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "forms: invalid fields: " + strings.Join(e.Fields, ", ")
}

// Has reports whether field failed validation.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f == field {
			return true
		}
	}
	return false
}

// Draft is the pointer constraint for records editable field by field.
type Draft[T any] interface {
	*T
	Set(field, value string) error
}

// SubmitFunc delivers a validated draft. key identifies the submission attempt.
type SubmitFunc[T any] func(ctx context.Context, draft T, key string) error

// Snapshot is a consistent copy of a form's state.
type Snapshot[T any] struct {
	Draft T
	State State
	Err   error
}

// Form owns one visitor's draft and guards it with a single in-flight flag.
type Form[T any, P Draft[T]] struct {
	submit   SubmitFunc[T]
	validate *validator.Validate

	mu      sync.Mutex
	draft   T
	state   State
	lastErr error
	touched time.Time
}

// New returns an empty form in the Editing state.
func New[T any, P Draft[T]](submit func(ctx context.Context, draft T, key string) error) *Form[T, P] {
	return &Form[T, P]{
		submit:   submit,
		validate: newValidator(),
		touched:  time.Now(),
	}
}

// Snapshot returns the current draft, state and last outcome.
func (f *Form[T, P]) Snapshot() Snapshot[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

// Update assigns one field. Editing a succeeded or failed form returns it to Editing.
func (f *Form[T, P]) Update(field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == Submitting {
		return ErrInFlight
	}
	if err := P(&f.draft).Set(field, value); err != nil {
		return err
	}
	f.reopenLocked()
	return nil
}

// Replace swaps the whole draft, as when a posted form is decoded at once.
func (f *Form[T, P]) Replace(draft T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == Submitting {
		return ErrInFlight
	}
	f.draft = draft
	f.reopenLocked()
	return nil
}

// Submit validates the draft and delivers it. A missing required field returns a
// *ValidationError without delivery. A concurrent second call returns ErrInFlight.
// Success resets the draft; failure keeps it.
func (f *Form[T, P]) Submit(ctx context.Context) (Snapshot[T], error) {
	f.mu.Lock()
	if f.state == Submitting {
		snap := f.snapshotLocked()
		f.mu.Unlock()
		return snap, ErrInFlight
	}
	f.touched = time.Now()
	if vErr := f.check(); vErr != nil {
		f.state = Editing
		f.lastErr = vErr
		snap := f.snapshotLocked()
		f.mu.Unlock()
		return snap, vErr
	}
	f.state = Submitting
	f.lastErr = nil
	draft := f.draft
	f.mu.Unlock()

	err := f.submit(ctx, draft, ulid.Make().String())

	f.mu.Lock()
	defer f.mu.Unlock()
	f.touched = time.Now()
	if err != nil {
		f.state = Failed
		f.lastErr = err
		return f.snapshotLocked(), err
	}
	var zero T
	f.draft = zero
	f.state = Succeeded
	return f.snapshotLocked(), nil
}

// Busy reports whether a submission is outstanding.
func (f *Form[T, P]) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state == Submitting
}

func (f *Form[T, P]) idleSince() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.touched
}

func (f *Form[T, P]) reopenLocked() {
	f.touched = time.Now()
	if f.state == Succeeded || f.state == Failed {
		f.state = Editing
		f.lastErr = nil
	}
	if _, ok := f.lastErr.(*ValidationError); ok {
		f.lastErr = nil
	}
}

func (f *Form[T, P]) snapshotLocked() Snapshot[T] {
	return Snapshot[T]{Draft: f.draft, State: f.state, Err: f.lastErr}
}

func (f *Form[T, P]) check() *ValidationError {
	err := f.validate.Struct(f.draft)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Fields: []string{err.Error()}}
	}
	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field())
	}
	return &ValidationError{Fields: fields}
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}
