package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation           = errors.New("validation error")
	ErrInferenceUnavailable = errors.New("reasoning engine unavailable")
	ErrMalformedInference   = errors.New("malformed inference")
	ErrConcurrentSynthesis  = errors.New("synthesis already in progress")
	ErrNotFound             = errors.New("not found")
)

// ValidationError describe un campo de entrada invalido.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Reason
	}
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// InferenceSchemaError lista todas las violaciones de schema encontradas en la salida del motor.
type InferenceSchemaError struct {
	Violations []string
}

func (e *InferenceSchemaError) Error() string {
	return "malformed inference: " + strings.Join(e.Violations, "; ")
}

func (e *InferenceSchemaError) Is(target error) bool {
	return target == ErrMalformedInference
}
