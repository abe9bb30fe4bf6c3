package kinde

import "fmt"

// APIError captures a normalized management API failure.
type APIError struct {
	Operation   string
	Status      int
	Code        string
	Description string
	Err         error
}

func (e *APIError) Error() string {
	if e == nil {
		return "kinde api error"
	}

	scope := "kinde"
	if e.Operation != "" {
		scope = "kinde " + e.Operation
	}

	switch {
	case e.Description != "":
		return fmt.Sprintf("%s failed: %s", scope, e.Description)
	case e.Code != "":
		return fmt.Sprintf("%s failed: %s", scope, e.Code)
	case e.Err != nil:
		return fmt.Sprintf("%s failed: %v", scope, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s failed: status %d", scope, e.Status)
	}

	return fmt.Sprintf("%s failed", scope)
}

func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func apiError(operation string, status int, code, description string, err error) *APIError {
	return &APIError{
		Operation:   operation,
		Status:      status,
		Code:        code,
		Description: description,
		Err:         err,
	}
}
