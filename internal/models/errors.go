package models

import "errors"

// Error kinds surfaced by registration validation
var (
	ErrSchemaViolation = errors.New("field violates schema constraint")
	ErrChecksumFailure = errors.New("cpf checksum failure")
	ErrLookupFailure   = errors.New("postal code lookup failed")
)

// Error constants for postal code lookups
var (
	ErrPostalCodeNotFound = errors.New("postal code not found")
	ErrInvalidPostalCode  = errors.New("postal code must have 8 digits")
)

// Error constants for form operations
var (
	ErrUnknownField     = errors.New("unknown form field")
	ErrReadOnlyField    = errors.New("field is filled by the postal code lookup")
	ErrValidationFailed = errors.New("registration has validation errors")
)
