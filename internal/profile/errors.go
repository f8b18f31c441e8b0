package profile

import "fmt"

// AlreadyExistsError is returned when creating a profile whose user_id is taken
type AlreadyExistsError struct {
	UserID string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("profile already exists: %s", e.UserID)
}

// ValidationError wraps a profile or request that failed validation
type ValidationError struct {
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid profile: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid profile: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}
