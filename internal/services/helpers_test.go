package services

import (
	"context"
	"sync"

	"github.com/prefeitura-rio/app-cadastro/internal/models"
	"github.com/prefeitura-rio/app-cadastro/internal/utils"
)

// memoryAddressCache is an in-process AddressCache for tests
type memoryAddressCache struct {
	mu      sync.Mutex
	entries map[string]models.AddressLookupResult
	gets    int
	sets    int
}

func newMemoryAddressCache() *memoryAddressCache {
	return &memoryAddressCache{entries: make(map[string]models.AddressLookupResult)}
}

func (c *memoryAddressCache) Get(_ context.Context, postalCode string) (*models.AddressLookupResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	result, ok := c.entries[utils.OnlyDigits(postalCode)]
	if !ok {
		return nil, false
	}
	return &result, true
}

func (c *memoryAddressCache) Set(_ context.Context, postalCode string, result *models.AddressLookupResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.entries[utils.OnlyDigits(postalCode)] = *result
}

// fakeLookupCall is a pending lookup the test resolves explicitly
type fakeLookupCall struct {
	postalCode string
	result     *models.AddressLookupResult
	err        error
	release    chan struct{}
}

// fakeLookup records calls and blocks each one until the test releases it
type fakeLookup struct {
	mu      sync.Mutex
	calls   []*fakeLookupCall
	started chan *fakeLookupCall
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{started: make(chan *fakeLookupCall, 16)}
}

func (f *fakeLookup) Lookup(ctx context.Context, postalCode string) (*models.AddressLookupResult, error) {
	call := &fakeLookupCall{postalCode: postalCode, release: make(chan struct{})}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
	f.started <- call

	select {
	case <-call.release:
		return call.result, call.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *fakeLookup) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (c *fakeLookupCall) resolve(result *models.AddressLookupResult, err error) {
	c.result = result
	c.err = err
	close(c.release)
}

// instantLookup answers every postal code from a fixed table
type instantLookup map[string]*models.AddressLookupResult

func (l instantLookup) Lookup(_ context.Context, postalCode string) (*models.AddressLookupResult, error) {
	if result, ok := l[utils.OnlyDigits(postalCode)]; ok {
		return result, nil
	}
	return nil, models.ErrPostalCodeNotFound
}
