// Package apierror provides the standardized error envelope for the API and
// the typed domain errors services raise. All errors returned to clients go
// through this package so that internal details (stack traces, SQL errors)
// never leak into responses.
package apierror

import "fmt"

// APIError is the canonical envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Error string `json:"error"`
}

func New(msg string) *APIError {
	return &APIError{Error: msg}
}

// ── Domain error taxonomy ────────────────────────────────────────────────────

// NotFoundError maps to 404 everywhere except inside the sale processor,
// where the handler surfaces it on the 500 class with its message.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("%s with ID %d not found", e.Resource, e.ID)
	}
	return e.Resource + " not found"
}

// ConflictError marks a duplicate on a unique field (username, barcode). 400.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return e.Field + " already exists"
}

// InsufficientStockError identifies which product fell short and by how much.
// The sale processor guarantees rollback before this propagates.
type InsufficientStockError struct {
	Product   string
	Available int
	Required  int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for %s. Available: %d, Required: %d",
		e.Product, e.Available, e.Required)
}

// ValidationError marks malformed or missing input not caught by binding. 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// UnauthorizedError maps to 401. Its message is deliberately generic for
// credential failures.
type UnauthorizedError struct {
	Msg string
}

func (e *UnauthorizedError) Error() string { return e.Msg }
