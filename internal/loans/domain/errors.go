package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownRole       = errors.New("unknown role")
	ErrUnknownStatus     = errors.New("unknown application status")
	ErrUnknownEventType  = errors.New("unknown audit event type")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// TransitionError names the rejected edge. It matches ErrInvalidTransition.
type TransitionError struct {
	From   Status
	Action Action
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s an application that is %s", e.Action, e.From)
}

func (e *TransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// FieldError is one invalid input field.
type FieldError struct {
	Field   string
	Message string
}

func (f FieldError) String() string { return f.Field + " " + f.Message }

// ValidationError collects field errors. The zero value is empty and ready
// to use.
type ValidationError struct {
	Fields []FieldError
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: msg}}}
}

func (v *ValidationError) Add(field, msg string) {
	v.Fields = append(v.Fields, FieldError{Field: field, Message: msg})
}

func (v *ValidationError) AddField(f *FieldError) {
	if f != nil {
		v.Fields = append(v.Fields, *f)
	}
}

// Err returns v when it holds at least one field error, else nil.
func (v *ValidationError) Err() error {
	if len(v.Fields) == 0 {
		return nil
	}
	return v
}

func (v *ValidationError) Error() string {
	parts := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		parts[i] = f.String()
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
