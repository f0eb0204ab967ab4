package report

import (
	"encoding/json"
	"errors"
)

// errNotRun marks an Outcome that was never populated by its check.
var errNotRun = errors.New("check did not run")

// Outcome is the result of a single check: either a payload or a failure message,
// never both.
type Outcome[T any] struct {
	value   T
	failure string
	ok      bool
}

// Succeeded wraps a successful check payload.
func Succeeded[T any](v T) Outcome[T] {
	return Outcome[T]{value: v, ok: true}
}

// Failed records a check failure. A nil error is reported as "check did not run".
func Failed[T any](err error) Outcome[T] {
	if err == nil {
		err = errNotRun
	}
	return Outcome[T]{failure: err.Error()}
}

// OK reports whether the check produced a payload.
func (o Outcome[T]) OK() bool {
	return o.ok
}

// Get returns the payload and whether the check succeeded.
func (o Outcome[T]) Get() (T, bool) {
	return o.value, o.ok
}

// Failure returns the failure message, or "" for a successful outcome.
func (o Outcome[T]) Failure() string {
	if o.ok {
		return ""
	}
	if o.failure == "" {
		return errNotRun.Error()
	}
	return o.failure
}

// failureShaper lets a payload type choose how its failure is rendered.
type failureShaper interface {
	failureShape(msg string) any
}

// shaper lets a payload type render its success value differently from its fields.
type shaper interface {
	shape() any
}

func (o Outcome[T]) shape() any {
	if o.ok {
		if s, ok := any(o.value).(shaper); ok {
			return s.shape()
		}
		return o.value
	}
	var zero T
	if s, ok := any(zero).(failureShaper); ok {
		return s.failureShape(o.Failure())
	}
	return errorShape{Error: o.Failure()}
}

// MarshalJSON renders the success payload or the failure shape.
func (o Outcome[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.shape())
}

// MarshalYAML renders the success payload or the failure shape.
func (o Outcome[T]) MarshalYAML() (interface{}, error) {
	return o.shape(), nil
}

type errorShape struct {
	Error string `json:"error" yaml:"error"`
}
