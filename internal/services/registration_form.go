package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prefeitura-rio/app-cadastro/internal/config"
	"github.com/prefeitura-rio/app-cadastro/internal/logging"
	"github.com/prefeitura-rio/app-cadastro/internal/models"
	"github.com/prefeitura-rio/app-cadastro/internal/observability"
	"github.com/prefeitura-rio/app-cadastro/internal/utils"
	"go.uber.org/zap"
)

// SubmitFunc receives a validated registration
type SubmitFunc func(ctx context.Context, reg models.Registration) error

// FormOptions tunes the behaviour of a RegistrationForm
type FormOptions struct {
	ChecksumSeverity  models.ChecksumSeverity
	StreetPlaceholder string
	LookupTimeout     time.Duration
	PhoneRegion       string
}

// FormOptionsFromConfig derives form options from the application configuration
func FormOptionsFromConfig(cfg *config.Config) FormOptions {
	return FormOptions{
		ChecksumSeverity:  cfg.CPFChecksumSeverity,
		StreetPlaceholder: cfg.StreetPlaceholder,
		LookupTimeout:     cfg.PostalLookupTimeout,
		PhoneRegion:       cfg.PhoneDefaultRegion,
	}
}

func (o FormOptions) withDefaults() FormOptions {
	if !o.ChecksumSeverity.IsValid() {
		o.ChecksumSeverity = models.ChecksumSeverityBlock
	}
	if o.StreetPlaceholder == "" {
		o.StreetPlaceholder = models.DefaultStreetPlaceholder
	}
	if o.LookupTimeout <= 0 {
		o.LookupTimeout = 5 * time.Second
	}
	if o.PhoneRegion == "" {
		o.PhoneRegion = "BR"
	}
	return o
}

// RegistrationForm owns the values and error state of one registration form.
// It is safe for concurrent use; postal code lookups run in the background
// and only the response to the most recently issued lookup is applied.
type RegistrationForm struct {
	mu sync.Mutex

	id           string
	values       models.Registration
	states       map[string]models.FieldState
	schemaErrors models.ValidationErrors
	cpfError     string
	lookupError  string
	lookupSeq    uint64
	version      uint64

	pending sync.WaitGroup

	schema *RegistrationSchema
	lookup AddressLookup
	opts   FormOptions
	logger *logging.SafeLogger
}

// NewRegistrationForm creates an empty form
func NewRegistrationForm(schema *RegistrationSchema, lookup AddressLookup, opts FormOptions, logger *logging.SafeLogger) *RegistrationForm {
	id := uuid.NewString()
	return &RegistrationForm{
		id:           id,
		states:       make(map[string]models.FieldState),
		schemaErrors: make(models.ValidationErrors),
		schema:       schema,
		lookup:       lookup,
		opts:         opts.withDefaults(),
		logger:       logger.With(zap.String("form_id", id)),
	}
}

// ID returns the form instance identifier
func (f *RegistrationForm) ID() string {
	return f.id
}

// SetField updates a text field and runs the validations tied to it.
// Completing the CPF mask runs the checksum; completing the postal code mask starts a lookup.
func (f *RegistrationForm) SetField(ctx context.Context, path, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch path {
	case models.FieldName:
		f.values.Name = value
	case models.FieldEmail:
		f.values.Email = value
	case models.FieldPassword:
		f.values.Password = value
	case models.FieldConfirmPassword:
		f.values.ConfirmPassword = value
	case models.FieldPhone:
		f.values.Phone = value
	case models.FieldCPF:
		f.values.CPF = value
	case models.FieldPostalCode:
		f.values.PostalCode = value
	case models.FieldAddressStreet, models.FieldAddressCity:
		return fmt.Errorf("%w: %s", models.ErrReadOnlyField, path)
	default:
		return fmt.Errorf("%w: %s", models.ErrUnknownField, path)
	}

	f.version++
	f.states[path] = textFieldState(value)
	f.revalidateField(path)

	switch path {
	case models.FieldCPF:
		f.checkCPF(ctx, value)
	case models.FieldPostalCode:
		f.postalCodeChanged(ctx, value)
	}

	return nil
}

// SetTermsAccepted records the terms and conditions checkbox
func (f *RegistrationForm) SetTermsAccepted(ctx context.Context, accepted bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.version++
	f.values.TermsAccepted = accepted
	if accepted {
		f.states[models.FieldTerms] = models.FieldStateComplete
	} else {
		f.states[models.FieldTerms] = models.FieldStateEmpty
	}
	f.revalidateField(models.FieldTerms)
}

// textFieldState is the state reached by typing value, before dependent validators run
func textFieldState(value string) models.FieldState {
	if value == "" {
		return models.FieldStateEmpty
	}
	return models.FieldStateComplete
}

// revalidateField replaces the eager schema error of a single field
func (f *RegistrationForm) revalidateField(path string) {
	if msg, failed := f.schema.ValidateField(f.values, path); failed {
		f.schemaErrors[path] = msg
		return
	}
	delete(f.schemaErrors, path)
}

// cpfComplete reports whether value carries all 11 CPF digits, whatever the punctuation
func cpfComplete(value string) bool {
	return len(utils.OnlyDigits(value)) == 11
}

// checkCPF runs the checksum once the CPF is complete.
// A failure sticks through partial edits until a passing value is entered or the field is cleared.
func (f *RegistrationForm) checkCPF(ctx context.Context, value string) {
	switch {
	case value == "":
		f.cpfError = ""
		return
	case !cpfComplete(value):
		if f.cpfError != "" {
			f.states[models.FieldCPF] = models.FieldStateError
		} else {
			f.states[models.FieldCPF] = models.FieldStateEditing
		}
		return
	}

	_, span, cleanup := utils.TraceValidationOperation(ctx, "cpf_checksum", models.FieldCPF)
	defer cleanup()

	if utils.ValidateCPF(value) {
		f.cpfError = ""
		f.states[models.FieldCPF] = models.FieldStateComplete
		utils.AddSpanAttribute(span, "validation.passed", true)
		return
	}

	f.cpfError = models.MessageInvalidCPF
	f.states[models.FieldCPF] = models.FieldStateError
	utils.AddSpanAttribute(span, "validation.passed", false)
	f.logger.Debug("cpf checksum failed", zap.String("cpf", observability.MaskCPF(value)))
}

// postalCodeChanged starts a lookup when the postal code mask is complete.
// Any edit supersedes the lookup in flight for the previous value.
func (f *RegistrationForm) postalCodeChanged(ctx context.Context, value string) {
	f.lookupSeq++

	switch {
	case value == "":
		f.lookupError = ""
		return
	case !utils.MatchesMask(value, utils.PostalCodeMask):
		f.states[models.FieldPostalCode] = models.FieldStateEditing
		return
	}

	f.startLookup(ctx, f.lookupSeq, value)
}

// startLookup runs the lookup in its own goroutine; the caller holds f.mu
func (f *RegistrationForm) startLookup(ctx context.Context, seq uint64, postalCode string) {
	// The lookup outlives the call that triggered it, so only values are inherited from ctx
	lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.opts.LookupTimeout)

	f.pending.Add(1)
	go func() {
		defer f.pending.Done()
		defer cancel()

		result, err := f.lookup.Lookup(lookupCtx, postalCode)
		f.applyLookup(seq, result, err)
	}()
}

// applyLookup updates the address from a lookup response unless a newer lookup was issued
func (f *RegistrationForm) applyLookup(seq uint64, result *models.AddressLookupResult, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if seq != f.lookupSeq {
		observability.StaleLookupsDiscarded.Inc()
		f.logger.Debug("discarding superseded postal code lookup",
			zap.Uint64("seq", seq),
			zap.Uint64("latest_seq", f.lookupSeq))
		return
	}

	f.version++
	if err != nil || result == nil {
		f.lookupError = models.MessagePostalCodeNotFound
		f.states[models.FieldPostalCode] = models.FieldStateError
		f.logger.Info("postal code lookup failed",
			zap.String("postal_code", observability.MaskPostalCode(f.values.PostalCode)),
			zap.Error(err))
		return
	}

	f.lookupError = ""
	f.states[models.FieldPostalCode] = models.FieldStateComplete

	street := result.Street
	if street == "" {
		street = f.opts.StreetPlaceholder
	}
	f.values.Address.Street = street
	f.values.Address.City = result.City
	f.states[models.FieldAddressStreet] = textFieldState(f.values.Address.Street)
	f.states[models.FieldAddressCity] = textFieldState(f.values.Address.City)
	f.revalidateField(models.FieldAddressStreet)
	f.revalidateField(models.FieldAddressCity)
}

// Wait blocks until every lookup started so far has settled
func (f *RegistrationForm) Wait() {
	f.pending.Wait()
}

// Values returns a copy of the current values
func (f *RegistrationForm) Values() models.Registration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// Errors returns the current field errors, including checksum and lookup annotations
func (f *RegistrationForm) Errors() models.ValidationErrors {
	f.mu.Lock()
	defer f.mu.Unlock()

	errs := f.schemaErrors.Clone()
	if f.cpfError != "" && !errs.Has(models.FieldCPF) {
		errs[models.FieldCPF] = f.cpfError
	}
	if f.lookupError != "" && !errs.Has(models.FieldPostalCode) {
		errs[models.FieldPostalCode] = f.lookupError
	}
	return errs
}

// FieldState returns the input state of a field path
func (f *RegistrationForm) FieldState(path string) models.FieldState {
	f.mu.Lock()
	defer f.mu.Unlock()

	if state, ok := f.states[path]; ok {
		return state
	}
	return models.FieldStateEmpty
}

// Submit runs the full schema over the values as typed and as sanitized and,
// when both pass, hands the sanitized registration to submit.
// On validation failure the blocking errors are returned with models.ErrValidationFailed,
// wrapping models.ErrSchemaViolation and/or models.ErrChecksumFailure.
// The form resets after submit accepts the registration, unless it was edited meanwhile.
func (f *RegistrationForm) Submit(ctx context.Context, submit SubmitFunc) (models.ValidationErrors, error) {
	ctx, span, cleanup := utils.TraceOperation(ctx, "registration_form.submit", map[string]interface{}{
		"form.id": f.id,
	})
	defer cleanup()

	_, sanitizeSpan := utils.TraceBusinessLogic(ctx, "sanitize_registration")
	f.mu.Lock()
	reg := f.sanitized()
	sanitizeSpan.End()
	f.schemaErrors = f.schema.Validate(f.values)
	for path, msg := range f.schema.Validate(reg) {
		if !f.schemaErrors.Has(path) {
			f.schemaErrors[path] = msg
		}
	}
	f.checkCPF(ctx, f.values.CPF)
	version := f.version
	blocking := f.schemaErrors.Clone()
	var causes []error
	if !blocking.IsValid() {
		causes = append(causes, models.ErrSchemaViolation)
	}
	if f.cpfError != "" && f.opts.ChecksumSeverity == models.ChecksumSeverityBlock {
		causes = append(causes, models.ErrChecksumFailure)
		if !blocking.Has(models.FieldCPF) {
			blocking[models.FieldCPF] = f.cpfError
		}
	}
	f.mu.Unlock()

	if len(causes) > 0 {
		for _, field := range blocking.Fields() {
			observability.ValidationFailures.WithLabelValues(field).Inc()
		}
		observability.Submissions.WithLabelValues(observability.OutcomeRejected).Inc()
		utils.AddSpanAttribute(span, "form.error_count", len(blocking))
		f.logger.Debug("registration rejected", zap.Strings("fields", blocking.Fields()))
		return blocking, fmt.Errorf("%w: %w", models.ErrValidationFailed, errors.Join(causes...))
	}

	if submit != nil {
		if err := submit(ctx, reg); err != nil {
			observability.Submissions.WithLabelValues(observability.OutcomeError).Inc()
			utils.RecordErrorInSpan(span, err, map[string]interface{}{"form.id": f.id})
			f.logger.Error("registration submit failed", zap.Error(err))
			return nil, fmt.Errorf("failed to submit registration: %w", err)
		}
	}

	if !f.resetIfUnchanged(version) {
		f.logger.Info("form edited during submit, keeping current values")
	}
	observability.Submissions.WithLabelValues(observability.OutcomeSuccess).Inc()
	f.logger.Info("registration submitted",
		zap.String("name", utils.MaskName(reg.Name)),
		zap.String("cpf", observability.MaskCPF(reg.CPF)))

	return nil, nil
}

// sanitized returns the values as handed to the submit collaborator; the caller holds f.mu
func (f *RegistrationForm) sanitized() models.Registration {
	reg := f.values
	reg.Name = utils.NormalizeName(reg.Name)
	reg.Email = utils.NormalizeEmail(reg.Email)
	if reg.Phone != "" {
		reg.Phone, _ = utils.NormalizePhone(reg.Phone, f.opts.PhoneRegion)
	}
	reg.CPF = utils.FormatCPF(reg.CPF)
	return reg
}

// resetIfUnchanged empties the form and invalidates lookups still in flight,
// provided nothing touched the form since version was taken
func (f *RegistrationForm) resetIfUnchanged(version uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.version != version {
		return false
	}

	f.values = models.Registration{}
	f.states = make(map[string]models.FieldState)
	f.schemaErrors = make(models.ValidationErrors)
	f.cpfError = ""
	f.lookupError = ""
	f.lookupSeq++
	f.version++
	return true
}
