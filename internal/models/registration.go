package models

// Field paths used as keys in ValidationErrors and as form input names
const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldTerms           = "terms"
	FieldPhone           = "phone"
	FieldCPF             = "cpf"
	FieldPostalCode      = "postalCode"
	FieldAddressStreet   = "address.street"
	FieldAddressCity     = "address.city"
)

// RegistrationAddress holds the address fields filled by the postal code lookup
type RegistrationAddress struct {
	Street string `json:"street" validate:"max=255"`
	City   string `json:"city" validate:"max=255"`
}

// Registration represents the values of a registration form
type Registration struct {
	Name            string              `json:"name" validate:"min=3,max=255"`
	Email           string              `json:"email" validate:"email"`
	Password        string              `json:"password" validate:"min=8"`
	ConfirmPassword string              `json:"confirmPassword" validate:"min=8,eqfield=Password"`
	TermsAccepted   bool                `json:"terms" validate:"required"`
	Phone           string              `json:"phone" validate:"max=20"`
	CPF             string              `json:"cpf" validate:"max=14"`
	PostalCode      string              `json:"postalCode" validate:"max=9"`
	Address         RegistrationAddress `json:"address"`
}

// FieldState tracks the input progress of a single form field
type FieldState int

const (
	FieldStateEmpty FieldState = iota
	FieldStateEditing
	FieldStateComplete
	FieldStateError
)

// String returns the lower case name of the state
func (s FieldState) String() string {
	switch s {
	case FieldStateEmpty:
		return "empty"
	case FieldStateEditing:
		return "editing"
	case FieldStateComplete:
		return "complete"
	case FieldStateError:
		return "error"
	default:
		return "unknown"
	}
}

// ChecksumSeverity decides whether a CPF checksum failure blocks submission
type ChecksumSeverity string

const (
	// ChecksumSeverityBlock rejects submission while the CPF fails the checksum
	ChecksumSeverityBlock ChecksumSeverity = "block"
	// ChecksumSeverityAnnotate only flags the field
	ChecksumSeverityAnnotate ChecksumSeverity = "annotate"
)

// IsValid reports whether s is a known severity
func (s ChecksumSeverity) IsValid() bool {
	return s == ChecksumSeverityBlock || s == ChecksumSeverityAnnotate
}
