package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestTraceOperation(t *testing.T) {
	ctx := context.Background()
	attributes := map[string]interface{}{
		"string_attr":  "value",
		"int_attr":     42,
		"int64_attr":   int64(123),
		"uint64_attr":  uint64(7),
		"bool_attr":    true,
		"float64_attr": 3.14,
		"unknown_attr": struct{}{},
	}

	spanCtx, span, cleanup := TraceOperation(ctx, "test_operation", attributes)

	require.NotNil(t, spanCtx)
	require.NotNil(t, span)
	require.NotNil(t, cleanup)

	// Must not panic
	cleanup()
}

func TestTraceHTTPOperation(t *testing.T) {
	spanCtx, span, cleanup := TraceHTTPOperation(context.Background(), "GET", "https://viacep.com.br/ws/20040020/json/", "/ws/{cep}/json/")
	defer cleanup()

	assert.NotNil(t, spanCtx)
	assert.NotNil(t, span)
}

func TestTraceValidationOperation(t *testing.T) {
	spanCtx, span, cleanup := TraceValidationOperation(context.Background(), "checksum", "cpf")
	defer cleanup()

	assert.NotNil(t, spanCtx)
	assert.NotNil(t, span)
}

func TestTraceStepHelpers(t *testing.T) {
	ctx := context.Background()

	_, span := TraceCacheGet(ctx, "cadastro:cep:20040020")
	assert.NotNil(t, span)
	span.End()

	_, span = TraceCacheSet(ctx, "cadastro:cep:20040020", time.Hour)
	assert.NotNil(t, span)
	span.End()

	_, span = TraceBusinessLogic(ctx, "submit")
	assert.NotNil(t, span)
	span.End()

	_, span = TraceExternalService(ctx, "viacep", "lookup")
	assert.NotNil(t, span)
	span.End()
}

func TestRecordErrorInSpan(t *testing.T) {
	_, span := TraceBusinessLogic(context.Background(), "record_error")
	defer span.End()

	RecordErrorInSpan(span, errors.New("boom"), map[string]interface{}{
		"error.type": "test",
		"attempt":    1,
		"fatal":      false,
	})
	AddSpanAttribute(span, "key", "value")
	AddTimingToSpan(span, time.Now())
}

func TestToAttribute(t *testing.T) {
	assert.Equal(t, attribute.String("k", "v"), toAttribute("k", "v"))
	assert.Equal(t, attribute.Int("k", 1), toAttribute("k", 1))
	assert.Equal(t, attribute.Bool("k", true), toAttribute("k", true))
	assert.Equal(t, attribute.String("k", "unknown_type"), toAttribute("k", []int{1}))
}
