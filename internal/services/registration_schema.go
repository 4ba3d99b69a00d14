package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/prefeitura-rio/app-cadastro/internal/models"
)

// RegistrationSchema validates registration values against the declarative
// rules carried by the validate tags of models.Registration
type RegistrationSchema struct {
	validate *validator.Validate
}

// NewRegistrationSchema creates a schema keyed by json field names
func NewRegistrationSchema() *RegistrationSchema {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &RegistrationSchema{validate: v}
}

// Validate runs every rule and returns the full error set; empty means valid
func (s *RegistrationSchema) Validate(reg models.Registration) models.ValidationErrors {
	result := make(models.ValidationErrors)
	for _, fe := range s.fieldErrors(reg) {
		path := fieldPath(fe)
		if _, exists := result[path]; !exists {
			result[path] = schemaMessage(path, fe)
		}
	}
	return result
}

// ValidateField returns the error for a single field path.
// Cross-field rules are skipped; the password confirmation is checked on submit only.
func (s *RegistrationSchema) ValidateField(reg models.Registration, path string) (string, bool) {
	for _, fe := range s.fieldErrors(reg) {
		if fe.Tag() == "eqfield" {
			continue
		}
		if fieldPath(fe) == path {
			return schemaMessage(path, fe), true
		}
	}
	return "", false
}

func (s *RegistrationSchema) fieldErrors(reg models.Registration) validator.ValidationErrors {
	err := s.validate.Struct(reg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return fieldErrs
	}
	return nil
}

// fieldPath drops the root struct name from the namespace: "Registration.address.city" -> "address.city"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func schemaMessage(path string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("%s must have at least %s characters", path, fe.Param())
	case "max":
		return fmt.Sprintf("%s must have at most %s characters", path, fe.Param())
	case "email":
		return "invalid email"
	case "eqfield":
		return "passwords must match"
	case "required":
		if path == models.FieldTerms {
			return "you must accept the terms and conditions"
		}
		return fmt.Sprintf("%s is required", path)
	default:
		return fmt.Sprintf("%s is invalid", path)
	}
}
