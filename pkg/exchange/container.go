package exchange

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrAccountNotFound is returned by Container.Get for an unknown name.
var ErrAccountNotFound = errors.New("account not found")

// Container is a thread-safe registry of clients keyed by account name, typically one
// client per API key.
type Container struct {
	mu       sync.RWMutex
	accounts map[string]Exchange
}

// NewContainer creates and returns a new empty container.
func NewContainer() *Container {
	return &Container{
		accounts: make(map[string]Exchange),
	}
}

// Register adds a client under name. A client already registered under that name is
// replaced and returned so the caller can close it.
func (c *Container) Register(name string, ex Exchange) (replaced Exchange) {
	c.mu.Lock()
	defer c.mu.Unlock()
	replaced = c.accounts[name]
	c.accounts[name] = ex
	return replaced
}

// Get retrieves a client by account name.
func (c *Container) Get(name string) (Exchange, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ex, exists := c.accounts[name]
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrAccountNotFound, name)
	}
	return ex, nil
}

// Names returns the registered account names in sorted order.
func (c *Container) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.accounts))
	for name := range c.accounts {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Exists checks whether a client is registered under name.
func (c *Container) Exists(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, exists := c.accounts[name]
	return exists
}

// Unregister removes the client registered under name and returns it, or nil.
func (c *Container) Unregister(name string) Exchange {
	c.mu.Lock()
	defer c.mu.Unlock()
	ex := c.accounts[name]
	delete(c.accounts, name)
	return ex
}

// Close closes every registered client and empties the container. Errors from
// individual clients are joined.
func (c *Container) Close() error {
	c.mu.Lock()
	accounts := c.accounts
	c.accounts = make(map[string]Exchange)
	c.mu.Unlock()

	var errs []error
	for name, ex := range accounts {
		if err := ex.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
