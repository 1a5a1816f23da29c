// Package app holds the application services and business logic.
package app

// Kind tags the outcome of a form action.
type Kind int

// Action outcomes. Succeeded carries the views to invalidate and, for
// mutations that navigate away, the redirect destination; navigation is
// performed by the caller, never by the service itself.
const (
	Succeeded Kind = iota
	ValidationFailed
	PersistFailed
)

// Result is the state returned by every form action. FieldErrors and Message
// share one shape across validation and persistence failures so callers can
// render either uniformly as inline errors plus a banner.
type Result struct {
	Kind        Kind                `json:"-"`
	FieldErrors map[string][]string `json:"errors,omitempty"`
	Message     string              `json:"message,omitempty"`
	Invalidate  []string            `json:"-"`
	RedirectTo  string              `json:"-"`
}

func validationFailed(fieldErrors map[string][]string, message string) *Result {
	return &Result{Kind: ValidationFailed, FieldErrors: fieldErrors, Message: message}
}

func persistFailed(message string) *Result {
	return &Result{Kind: PersistFailed, Message: message}
}
