package httpclient

import (
	"net/http"
	"sync"
	"time"
)

// DefaultTimeout bounds a single request issued by a pooled client
const DefaultTimeout = 5 * time.Second

// HTTPClientPool manages a pool of HTTP clients sharing tuned transports
type HTTPClientPool struct {
	clients chan *http.Client
	factory func() *http.Client
	mu      sync.RWMutex
	closed  bool
}

// NewHTTPClientPool creates a new HTTP client pool whose clients time out after timeout.
// A non-positive timeout selects DefaultTimeout.
func NewHTTPClientPool(maxClients int, timeout time.Duration) *HTTPClientPool {
	if maxClients < 1 {
		maxClients = 1
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	pool := &HTTPClientPool{
		clients: make(chan *http.Client, maxClients),
		factory: func() *http.Client { return createOptimizedHTTPClient(timeout) },
	}

	// Pre-populate the pool
	for i := 0; i < maxClients; i++ {
		pool.clients <- pool.factory()
	}

	return pool
}

// createOptimizedHTTPClient creates an HTTP client with optimal settings
func createOptimizedHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: timeout,
		},
	}
}

// Get retrieves an HTTP client from the pool
func (p *HTTPClientPool) Get() *http.Client {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return p.factory()
	}

	select {
	case client := <-p.clients:
		return client
	default:
		// Pool is empty, create a new client
		return p.factory()
	}
}

// Put returns an HTTP client to the pool
func (p *HTTPClientPool) Put(client *http.Client) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return
	}

	select {
	case p.clients <- client:
	default:
		// Pool is full, discard the client
	}
}

// Close closes the pool and releases idle connections
func (p *HTTPClientPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	close(p.clients)

	for client := range p.clients {
		client.CloseIdleConnections()
	}
}
