// Package cadastro implements the logic behind a citizen registration form:
// field schema validation, the CPF checksum, and address auto-fill from a
// postal code (CEP) lookup against the ViaCEP directory.
package cadastro

import (
	"context"
	"fmt"

	"github.com/prefeitura-rio/app-cadastro/internal/config"
	"github.com/prefeitura-rio/app-cadastro/internal/logging"
	"github.com/prefeitura-rio/app-cadastro/internal/models"
	"github.com/prefeitura-rio/app-cadastro/internal/observability"
	"github.com/prefeitura-rio/app-cadastro/internal/redisclient"
	"github.com/prefeitura-rio/app-cadastro/internal/services"
	"github.com/prefeitura-rio/app-cadastro/internal/utils"
	"github.com/prefeitura-rio/app-cadastro/internal/utils/httpclient"
	"go.uber.org/zap"
)

type (
	// Registration holds the values of a registration form
	Registration = models.Registration
	// RegistrationAddress holds the address filled by the postal code lookup
	RegistrationAddress = models.RegistrationAddress
	// ValidationErrors maps a field path to a message
	ValidationErrors = models.ValidationErrors
	// AddressLookupResult is the address resolved for a postal code
	AddressLookupResult = models.AddressLookupResult
	// FieldState tracks the input progress of a form field
	FieldState = models.FieldState
	// ChecksumSeverity decides whether a CPF checksum failure blocks submission
	ChecksumSeverity = models.ChecksumSeverity
	// Form is a single registration form instance
	Form = services.RegistrationForm
	// SubmitFunc receives a validated registration
	SubmitFunc = services.SubmitFunc
	// Config holds the service configuration
	Config = config.Config
)

// Field paths
const (
	FieldName            = models.FieldName
	FieldEmail           = models.FieldEmail
	FieldPassword        = models.FieldPassword
	FieldConfirmPassword = models.FieldConfirmPassword
	FieldTerms           = models.FieldTerms
	FieldPhone           = models.FieldPhone
	FieldCPF             = models.FieldCPF
	FieldPostalCode      = models.FieldPostalCode
	FieldAddressStreet   = models.FieldAddressStreet
	FieldAddressCity     = models.FieldAddressCity
)

// Field states
const (
	FieldStateEmpty    = models.FieldStateEmpty
	FieldStateEditing  = models.FieldStateEditing
	FieldStateComplete = models.FieldStateComplete
	FieldStateError    = models.FieldStateError
)

// Checksum severities
const (
	ChecksumSeverityBlock    = models.ChecksumSeverityBlock
	ChecksumSeverityAnnotate = models.ChecksumSeverityAnnotate
)

// Errors returned by the service and its forms
var (
	ErrLookupFailure      = models.ErrLookupFailure
	ErrPostalCodeNotFound = models.ErrPostalCodeNotFound
	ErrInvalidPostalCode  = models.ErrInvalidPostalCode
	ErrUnknownField       = models.ErrUnknownField
	ErrReadOnlyField      = models.ErrReadOnlyField
	ErrValidationFailed   = models.ErrValidationFailed
)

// Service creates registration forms sharing one schema, lookup adapter and cache
type Service struct {
	cfg    *config.Config
	schema *services.RegistrationSchema
	lookup *services.PostalLookupService
	pool   *httpclient.HTTPClientPool
	redis  *redisclient.Client
	logger *logging.SafeLogger
}

// New loads the configuration from the environment and builds a Service
func New(ctx context.Context) (*Service, error) {
	if err := logging.InitLogger(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := config.LoadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return NewWithConfig(ctx, config.AppConfig)
}

// NewWithConfig builds a Service from an explicit configuration.
// An unreachable Redis disables the address cache instead of failing.
func NewWithConfig(ctx context.Context, cfg *config.Config) (*Service, error) {
	logger := logging.Named("cadastro")

	if err := observability.InitTracer(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}

	s := &Service{
		cfg:    cfg,
		schema: services.NewRegistrationSchema(),
		pool:   httpclient.NewHTTPClientPool(cfg.HTTPClientPoolSize, cfg.PostalLookupTimeout),
		logger: logger,
	}

	var cache services.AddressCache
	if cfg.PostalCacheEnabled {
		client, err := config.InitRedis(ctx, cfg)
		if err != nil {
			logger.Warn("address cache disabled", zap.Error(err))
		} else {
			s.redis = client
			cache = services.NewRedisAddressCache(client, cfg.AddressCacheTTL, logging.Named("address_cache"))
		}
	}

	s.lookup = services.NewPostalLookupService(cfg.PostalLookupBaseURL, s.pool, cache, logging.Named("postal_lookup_service"))

	logger.Info("registration service ready",
		zap.String("environment", cfg.Environment),
		zap.Bool("address_cache", cache != nil),
		zap.String("cpf_checksum_severity", string(cfg.CPFChecksumSeverity)))

	return s, nil
}

// NewForm creates an empty registration form
func (s *Service) NewForm() *Form {
	return services.NewRegistrationForm(s.schema, s.lookup, services.FormOptionsFromConfig(s.cfg), logging.Named("registration_form"))
}

// Validate runs the field schema over reg without a form.
// The CPF checksum is reported as an error whenever the CPF holds 11 digits,
// under either checksum severity: the severity only decides whether a form submit is blocked.
func (s *Service) Validate(ctx context.Context, reg Registration) ValidationErrors {
	_, span, cleanup := utils.TraceValidationOperation(ctx, "registration", "all")
	defer cleanup()

	errs := s.schema.Validate(reg)
	if len(utils.OnlyDigits(reg.CPF)) == 11 && !utils.ValidateCPF(reg.CPF) && !errs.Has(FieldCPF) {
		errs[FieldCPF] = models.MessageInvalidCPF
	}
	utils.AddSpanAttribute(span, "validation.error_count", len(errs))
	return errs
}

// LookupAddress resolves a postal code through the directory and cache
func (s *Service) LookupAddress(ctx context.Context, postalCode string) (*AddressLookupResult, error) {
	return s.lookup.Lookup(ctx, postalCode)
}

// Close releases the HTTP pool, the Redis connection and the tracer
func (s *Service) Close(ctx context.Context) error {
	s.pool.Close()

	var err error
	if s.redis != nil {
		if closeErr := s.redis.Close(); closeErr != nil {
			err = fmt.Errorf("failed to close redis: %w", closeErr)
		}
		s.redis = nil
		config.Redis = nil
	}

	observability.ShutdownTracer(ctx)
	_ = logging.Sync()
	return err
}

// ValidateCPF reports whether cpf, with or without punctuation, is a valid CPF
func ValidateCPF(cpf string) bool {
	return utils.ValidateCPF(cpf)
}

// FormatCPF applies the 999.999.999-99 mask to a CPF
func FormatCPF(cpf string) string {
	return utils.FormatCPF(cpf)
}

// FormatPostalCode applies the 99999-999 mask to a postal code
func FormatPostalCode(postalCode string) string {
	return utils.ApplyMask(postalCode, utils.PostalCodeMask)
}
