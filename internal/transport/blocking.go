package transport

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"bitgetx/pkg/core"
)

// Blocking executes each request on the caller's goroutine.
type Blocking struct {
	client *client
	mu     sync.RWMutex
	closed bool
}

var _ Transport = (*Blocking)(nil)

// NewBlocking creates a Blocking transport.
func NewBlocking(config *core.Config, logger zerolog.Logger) (*Blocking, error) {
	c, err := newClient(config, logger)
	if err != nil {
		return nil, err
	}
	return &Blocking{client: c}, nil
}

// Execute performs the exchange and returns when it completes.
func (b *Blocking) Execute(ctx context.Context, req *Request) (*Response, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, core.ErrClientClosed
	}
	return b.client.do(ctx, req)
}

// Mode returns core.ModeBlocking.
func (b *Blocking) Mode() core.Mode {
	return core.ModeBlocking
}

// Close releases the underlying client. It is safe to call more than once.
func (b *Blocking) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return b.client.close()
}
