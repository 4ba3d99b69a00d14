package services

import (
	"strings"
	"testing"

	"github.com/prefeitura-rio/app-cadastro/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegistration() models.Registration {
	return models.Registration{
		Name:            "Alice Souza",
		Email:           "alice@example.com",
		Password:        "abcdefgh",
		ConfirmPassword: "abcdefgh",
		TermsAccepted:   true,
		Phone:           "(21) 98765-4321",
		CPF:             "111.444.777-35",
		PostalCode:      "20040-020",
		Address: models.RegistrationAddress{
			Street: "Rua da Assembleia",
			City:   "Rio de Janeiro",
		},
	}
}

func TestRegistrationSchema_ValidRegistration(t *testing.T) {
	schema := NewRegistrationSchema()

	errs := schema.Validate(validRegistration())
	assert.True(t, errs.IsValid(), "unexpected errors: %v", errs)
}

func TestRegistrationSchema_Name(t *testing.T) {
	schema := NewRegistrationSchema()

	tests := []struct {
		name      string
		value     string
		wantError bool
	}{
		{"two characters", "Al", true},
		{"five characters", "Alice", false},
		{"exactly three", "Ana", false},
		{"multibyte runes count once", "Zoë", false},
		{"at max length", strings.Repeat("a", 255), false},
		{"over max length", strings.Repeat("a", 256), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := validRegistration()
			reg.Name = tt.value

			errs := schema.Validate(reg)
			assert.Equal(t, tt.wantError, errs.Has(models.FieldName), "errors: %v", errs)
		})
	}
}

func TestRegistrationSchema_PasswordMismatchAttachesToConfirmation(t *testing.T) {
	schema := NewRegistrationSchema()

	reg := validRegistration()
	reg.Password = "abcdefgh"
	reg.ConfirmPassword = "abcdefgI"

	errs := schema.Validate(reg)
	require.True(t, errs.Has(models.FieldConfirmPassword))
	assert.Equal(t, "passwords must match", errs[models.FieldConfirmPassword])
	assert.False(t, errs.Has(models.FieldPassword))
	assert.Len(t, errs, 1)
}

func TestRegistrationSchema_ShortPasswords(t *testing.T) {
	schema := NewRegistrationSchema()

	reg := validRegistration()
	reg.Password = "short"
	reg.ConfirmPassword = "short"

	errs := schema.Validate(reg)
	assert.Equal(t, "password must have at least 8 characters", errs[models.FieldPassword])
	assert.Equal(t, "confirmPassword must have at least 8 characters", errs[models.FieldConfirmPassword])
}

func TestRegistrationSchema_Terms(t *testing.T) {
	schema := NewRegistrationSchema()

	reg := validRegistration()
	reg.TermsAccepted = false
	errs := schema.Validate(reg)
	require.True(t, errs.Has(models.FieldTerms))
	assert.Equal(t, "you must accept the terms and conditions", errs[models.FieldTerms])

	reg.TermsAccepted = true
	assert.False(t, schema.Validate(reg).Has(models.FieldTerms))
}

func TestRegistrationSchema_Email(t *testing.T) {
	schema := NewRegistrationSchema()

	for _, email := range []string{"", "alice", "alice@", "@example.com"} {
		reg := validRegistration()
		reg.Email = email
		assert.Equal(t, "invalid email", schema.Validate(reg)[models.FieldEmail], "email %q", email)
	}
}

func TestRegistrationSchema_MaxLengths(t *testing.T) {
	schema := NewRegistrationSchema()

	reg := validRegistration()
	reg.Phone = strings.Repeat("9", 21)
	reg.CPF = "111.444.777-351"
	reg.PostalCode = "20040-0200"
	reg.Address.Street = strings.Repeat("r", 256)
	reg.Address.City = strings.Repeat("c", 256)

	errs := schema.Validate(reg)
	assert.Equal(t, []string{
		models.FieldAddressCity,
		models.FieldAddressStreet,
		models.FieldCPF,
		models.FieldPhone,
		models.FieldPostalCode,
	}, errs.Fields())
	assert.Equal(t, "address.street must have at most 255 characters", errs[models.FieldAddressStreet])
}

func TestRegistrationSchema_EmptyRegistration(t *testing.T) {
	schema := NewRegistrationSchema()

	errs := schema.Validate(models.Registration{})
	assert.Equal(t, []string{
		models.FieldConfirmPassword,
		models.FieldEmail,
		models.FieldName,
		models.FieldPassword,
		models.FieldTerms,
	}, errs.Fields())
}

func TestRegistrationSchema_ValidateField(t *testing.T) {
	schema := NewRegistrationSchema()

	reg := validRegistration()
	reg.Name = "Al"
	reg.ConfirmPassword = "abcdefgI"

	msg, ok := schema.ValidateField(reg, models.FieldName)
	assert.True(t, ok)
	assert.Equal(t, "name must have at least 3 characters", msg)

	// The confirmation match is only enforced by a full pass
	_, ok = schema.ValidateField(reg, models.FieldConfirmPassword)
	assert.False(t, ok)

	_, ok = schema.ValidateField(reg, models.FieldEmail)
	assert.False(t, ok)
}
