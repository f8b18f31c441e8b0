// Package types provides type definitions for structured data used throughout the skill-monitor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "fmt"

// MissingInputError is returned when a referenced profile, dictionary or catalog cannot be found
type MissingInputError struct {
	Resource string
	ID       string
	Cause    error
}

func (e *MissingInputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s not found: %s: %v", e.Resource, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *MissingInputError) Unwrap() error {
	return e.Cause
}

// MalformedRecordError marks a single listing that cannot be used. The batch continues without it.
type MalformedRecordError struct {
	Index   int
	Field   string
	Message string
}

func (e *MalformedRecordError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("malformed record %d: %s: %s", e.Index, e.Field, e.Message)
	}
	return fmt.Sprintf("malformed record %d: %s", e.Index, e.Message)
}

// InvariantViolation reports a nonsensical value in the market tables
type InvariantViolation struct {
	Skill string
	Field string
	Value float64
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation for skill %q: %s = %v", e.Skill, e.Field, e.Value)
}
