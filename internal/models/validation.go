package models

import "sort"

// User facing messages for errors raised outside the declarative schema
const (
	MessageInvalidCPF         = "invalid CPF"
	MessagePostalCodeNotFound = "postal code not found"
	DefaultStreetPlaceholder  = "no data"
)

// ValidationErrors maps a field path (dot notation for address.*) to a message
type ValidationErrors map[string]string

// IsValid reports whether no field has an error
func (e ValidationErrors) IsValid() bool {
	return len(e) == 0
}

// Has reports whether field has an error
func (e ValidationErrors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Fields returns the failing field paths in sorted order
func (e ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// Clone returns an independent copy
func (e ValidationErrors) Clone() ValidationErrors {
	out := make(ValidationErrors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}
