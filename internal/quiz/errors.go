package quiz

import (
	"errors"
	"fmt"
)

// ValidationError indicates bad or missing user input, such as an empty
// topic selection.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ProviderError indicates the completion provider failed or returned content
// that could not be used.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: provider error", e.Op)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// PersistenceError indicates a read or write against local storage failed.
// It is never fatal: loads degrade to defaults and writes leave the in-memory
// state authoritative.
type PersistenceError struct {
	Op  string // "load", "save" or "delete"
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsValidation reports whether err wraps a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsProvider reports whether err wraps a *ProviderError.
func IsProvider(err error) bool {
	var p *ProviderError
	return errors.As(err, &p)
}

// IsPersistence reports whether err wraps a *PersistenceError.
func IsPersistence(err error) bool {
	var p *PersistenceError
	return errors.As(err, &p)
}

// UserMessage turns an error into a short string suitable for display.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Message
	}
	var p *ProviderError
	if errors.As(err, &p) {
		return "The AI service could not produce a usable response. Please try again."
	}
	var ps *PersistenceError
	if errors.As(err, &ps) {
		return "Could not save your data. Changes are kept for this session only."
	}
	return err.Error()
}
