package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeNotFound represents lookups by id that miss
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeValidation represents payloads rejected before any write
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConstraint represents natural-key collisions surfaced by the store
	ErrorTypeConstraint ErrorType = "constraint"
	// ErrorTypeDatabase represents Neo4j driver/query failures
	ErrorTypeDatabase ErrorType = "database"
	// ErrorTypeAgent represents research-agent pipeline failures
	ErrorTypeAgent ErrorType = "agent"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// NotFoundError is returned when an entity id lookup misses
type NotFoundError struct {
	*BaseError
	Kind string
	ID   int64
}

func NewNotFound(kind string, id int64) *NotFoundError {
	return &NotFoundError{
		BaseError: NewBaseError(ErrorTypeNotFound, fmt.Sprintf("%s %d not found", kind, id), nil),
		Kind:      kind,
		ID:        id,
	}
}

// ValidationError is returned when a payload field is rejected before any write
type ValidationError struct {
	*BaseError
	Field  string
	Reason string
}

func NewValidation(field, reason string) *ValidationError {
	return &ValidationError{
		BaseError: NewBaseError(ErrorTypeValidation, fmt.Sprintf("invalid %s: %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// ConstraintError is returned when a natural-key uniqueness constraint fires.
// The enclosing transaction has already rolled back when this surfaces.
type ConstraintError struct {
	*BaseError
	Label    string
	Property string
}

func NewConstraint(label, property string, err error) *ConstraintError {
	return &ConstraintError{
		BaseError: NewBaseError(ErrorTypeConstraint, fmt.Sprintf("uniqueness violated on %s.%s", label, property), err),
		Label:     label,
		Property:  property,
	}
}

// DatabaseError is returned when a Neo4j operation fails for reasons other
// than a constraint violation
type DatabaseError struct {
	*BaseError
	Operation string
}

func NewDatabase(operation string, err error) *DatabaseError {
	return &DatabaseError{
		BaseError: NewBaseError(ErrorTypeDatabase, fmt.Sprintf("%s failed", operation), err),
		Operation: operation,
	}
}

// LLMError is returned when the research agent's LLM call fails after retries
type LLMError struct {
	*BaseError
	Model    string
	Attempts int
}

func NewLLMFailed(model string, attempts int, err error) *LLMError {
	return &LLMError{
		BaseError: NewBaseError(ErrorTypeAgent, fmt.Sprintf("LLM request failed after %d attempts", attempts), err),
		Model:     model,
		Attempts:  attempts,
	}
}

// AgentError is returned when a research-agent stage fails
type AgentError struct {
	*BaseError
	Stage string
}

func NewAgentFailed(stage string, err error) *AgentError {
	return &AgentError{
		BaseError: NewBaseError(ErrorTypeAgent, fmt.Sprintf("agent stage %s failed", stage), err),
		Stage:     stage,
	}
}

// ConfigError is returned when a required config value is missing
type ConfigError struct {
	*BaseError
	Field string
}

func NewConfigMissing(field string) *ConfigError {
	return &ConfigError{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper predicates. These use errors.As so they keep working through
// fmt.Errorf %w wrapping.

// IsNotFound reports whether err is (or wraps) a NotFoundError
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsValidation reports whether err is (or wraps) a ValidationError
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsConstraint reports whether err is (or wraps) a ConstraintError
func IsConstraint(err error) bool {
	var target *ConstraintError
	return errors.As(err, &target)
}

// IsAppError reports whether err (anywhere in its chain) is one of this
// package's typed errors. Write paths use it to avoid re-wrapping errors
// that already carry a taxonomy class.
func IsAppError(err error) bool {
	for err != nil {
		if _, ok := err.(interface{ Base() *BaseError }); ok {
			return true
		}
		if _, ok := err.(*BaseError); ok {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// IsErrorType checks if an error (anywhere in its chain) has the given type
func IsErrorType(err error, errType ErrorType) bool {
	for err != nil {
		if baseErr, ok := err.(*BaseError); ok && baseErr.Type == errType {
			return true
		}
		if typed, ok := err.(interface{ Base() *BaseError }); ok && typed.Base().Type == errType {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// Base exposes the embedded BaseError for IsErrorType traversal
func (e *NotFoundError) Base() *BaseError   { return e.BaseError }
func (e *ValidationError) Base() *BaseError { return e.BaseError }
func (e *ConstraintError) Base() *BaseError { return e.BaseError }
func (e *DatabaseError) Base() *BaseError   { return e.BaseError }
func (e *LLMError) Base() *BaseError        { return e.BaseError }
func (e *AgentError) Base() *BaseError      { return e.BaseError }
func (e *ConfigError) Base() *BaseError     { return e.BaseError }
