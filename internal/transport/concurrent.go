package transport

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"bitgetx/pkg/core"
)

type outcome struct {
	resp *Response
	err  error
}

type job struct {
	ctx  context.Context
	req  *Request
	done chan outcome
}

// Concurrent executes requests on a fixed pool of worker goroutines. Callers park on a
// channel until their exchange completes or their context ends. A caller that stops
// waiting does not cancel the exchange: the worker finishes it and drops the outcome.
type Concurrent struct {
	client *client
	jobs   chan job
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

var _ Transport = (*Concurrent)(nil)

// NewConcurrent creates a Concurrent transport and starts config.Workers workers.
func NewConcurrent(config *core.Config, logger zerolog.Logger) (*Concurrent, error) {
	c, err := newClient(config, logger)
	if err != nil {
		return nil, err
	}

	workers := max(config.Workers, 1)
	t := &Concurrent{
		client: c,
		jobs:   make(chan job),
	}
	t.wg.Add(workers)
	for range workers {
		go t.work()
	}

	logger.Debug().Int("workers", workers).Msg("concurrent transport started")
	return t, nil
}

func (t *Concurrent) work() {
	defer t.wg.Done()
	for j := range t.jobs {
		resp, err := t.client.do(j.ctx, j.req)
		j.done <- outcome{resp: resp, err: err}
	}
}

// Execute queues the exchange and waits for its outcome or for ctx to end.
func (t *Concurrent) Execute(ctx context.Context, req *Request) (*Response, error) {
	t.mu.RLock()
	if t.closed {
		t.mu.RUnlock()
		return nil, core.ErrClientClosed
	}

	j := job{
		ctx:  context.WithoutCancel(ctx),
		req:  req,
		done: make(chan outcome, 1),
	}
	select {
	case t.jobs <- j:
		t.mu.RUnlock()
	case <-ctx.Done():
		t.mu.RUnlock()
		return nil, ctx.Err()
	}

	select {
	case out := <-j.done:
		return out.resp, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Mode returns core.ModeConcurrent.
func (t *Concurrent) Mode() core.Mode {
	return core.ModeConcurrent
}

// Close stops accepting requests, waits for in-flight exchanges and releases the
// underlying client. It is safe to call more than once.
func (t *Concurrent) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	close(t.jobs)
	t.mu.Unlock()

	t.wg.Wait()
	return t.client.close()
}
