// Package form validates and coerces raw form input into typed values.
// Parsing either yields a typed input struct or a field-keyed list of
// human-readable messages; it never writes to storage.
package form

// Errors maps a form field name to the messages reported against it.
type Errors map[string][]string

// Add appends a message to the given field.
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}
