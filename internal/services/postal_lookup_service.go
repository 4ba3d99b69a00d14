package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prefeitura-rio/app-cadastro/internal/logging"
	"github.com/prefeitura-rio/app-cadastro/internal/models"
	"github.com/prefeitura-rio/app-cadastro/internal/observability"
	"github.com/prefeitura-rio/app-cadastro/internal/utils"
	"github.com/prefeitura-rio/app-cadastro/internal/utils/httpclient"
	"go.uber.org/zap"
)

const maxLookupResponseBytes = 1 << 16

// AddressLookup resolves a postal code into an address
type AddressLookup interface {
	Lookup(ctx context.Context, postalCode string) (*models.AddressLookupResult, error)
}

// PostalLookupService queries the ViaCEP directory, with an optional cache in front
type PostalLookupService struct {
	baseURL string
	pool    *httpclient.HTTPClientPool
	cache   AddressCache
	logger  *logging.SafeLogger
}

// NewPostalLookupService creates a lookup service; cache may be nil
func NewPostalLookupService(baseURL string, pool *httpclient.HTTPClientPool, cache AddressCache, logger *logging.SafeLogger) *PostalLookupService {
	return &PostalLookupService{
		baseURL: strings.TrimRight(baseURL, "/"),
		pool:    pool,
		cache:   cache,
		logger:  logger,
	}
}

// Lookup resolves postalCode. Every failure wraps models.ErrLookupFailure;
// unknown postal codes additionally wrap models.ErrPostalCodeNotFound.
func (s *PostalLookupService) Lookup(ctx context.Context, postalCode string) (*models.AddressLookupResult, error) {
	digits := utils.OnlyDigits(postalCode)
	if len(digits) != 8 {
		observability.PostalLookups.WithLabelValues(observability.OutcomeRejected).Inc()
		return nil, fmt.Errorf("%w: %w", models.ErrLookupFailure, models.ErrInvalidPostalCode)
	}

	ctx, span, cleanup := utils.TraceOperation(ctx, "postal_lookup.lookup", map[string]interface{}{
		"postal_code.masked": observability.MaskPostalCode(digits),
	})
	defer cleanup()

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, digits); ok {
			observability.PostalLookups.WithLabelValues(observability.OutcomeSuccess).Inc()
			utils.AddSpanAttribute(span, "postal_code.cached", true)
			s.logger.Debug("postal code cache hit", zap.String("postal_code", observability.MaskPostalCode(digits)))
			return cached, nil
		}
	}

	result, err := s.fetch(ctx, digits)
	if err != nil {
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"postal_code.masked": observability.MaskPostalCode(digits)})
		return nil, err
	}

	observability.PostalLookups.WithLabelValues(observability.OutcomeSuccess).Inc()

	if s.cache != nil {
		s.cache.Set(ctx, digits, result)
	}

	return result, nil
}

// fetch issues the directory request for an 8 digit postal code
func (s *PostalLookupService) fetch(ctx context.Context, digits string) (*models.AddressLookupResult, error) {
	url := fmt.Sprintf("%s/%s/json/", s.baseURL, digits)

	ctx, span := utils.TraceExternalService(ctx, "viacep", "lookup")
	defer span.End()

	ctx, httpSpan, httpCleanup := utils.TraceHTTPOperation(ctx, http.MethodGet, url, "/{cep}/json/")
	defer httpCleanup()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		observability.PostalLookups.WithLabelValues(observability.OutcomeError).Inc()
		return nil, fmt.Errorf("%w: failed to create request: %w", models.ErrLookupFailure, err)
	}
	req.Header.Set("Accept", "application/json")

	client := s.pool.Get()
	defer s.pool.Put(client)

	start := time.Now()
	resp, err := client.Do(req)
	observability.PostalLookupDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		observability.PostalLookups.WithLabelValues(observability.OutcomeError).Inc()
		s.logger.Warn("postal code request failed",
			zap.String("postal_code", observability.MaskPostalCode(digits)),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %w", models.ErrLookupFailure, err)
	}
	defer resp.Body.Close()

	utils.AddSpanAttribute(httpSpan, "http.status_code", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		observability.PostalLookups.WithLabelValues(observability.OutcomeNotFound).Inc()
		s.logger.Info("postal code directory returned non-success status",
			zap.String("postal_code", observability.MaskPostalCode(digits)),
			zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: %w: status %d", models.ErrLookupFailure, models.ErrPostalCodeNotFound, resp.StatusCode)
	}

	var body models.ViaCEPResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxLookupResponseBytes)).Decode(&body); err != nil {
		observability.PostalLookups.WithLabelValues(observability.OutcomeError).Inc()
		return nil, fmt.Errorf("%w: failed to decode response: %w", models.ErrLookupFailure, err)
	}

	if body.NotFound() {
		observability.PostalLookups.WithLabelValues(observability.OutcomeNotFound).Inc()
		s.logger.Info("postal code not found", zap.String("postal_code", observability.MaskPostalCode(digits)))
		return nil, fmt.Errorf("%w: %w", models.ErrLookupFailure, models.ErrPostalCodeNotFound)
	}

	result := body.ToLookupResult()
	if result.PostalCode == "" {
		result.PostalCode = utils.ApplyMask(digits, utils.PostalCodeMask)
	}
	return result, nil
}
