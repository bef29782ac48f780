// Package mongomock provides test doubles for the document-database driver
// surface: a Client standing in for the connection lifecycle and model
// registry, a Schema recording declarative calls without enforcing them,
// and a Model answering every data-access operation with canned results.
//
// Nothing here performs I/O. Operations resolve immediately, never fail on
// their own, and record every invocation so tests can assert on how the
// code under test used the driver.
package mongomock

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/geethwish/sales-crm/internal/docstore"
)

// Client is a driver double. It starts out connected: tests never need to
// wait on, or provide, a real server.
type Client struct {
	lg *zap.Logger

	mu        sync.Mutex
	state     docstore.ConnState
	sessionID string
	schemas   map[string]*Schema
	models    map[string]any
}

// Option configures a Client.
type Option func(*Client)

// WithLogger makes the client log lifecycle events and registrations.
func WithLogger(lg *zap.Logger) Option {
	return func(c *Client) {
		c.lg = lg
	}
}

// NewClient creates a connected driver double.
func NewClient(opts ...Option) *Client {
	c := &Client{
		lg:        zap.NewNop(),
		state:     docstore.StateConnected,
		sessionID: uuid.NewString(),
		schemas:   make(map[string]*Schema),
		models:    make(map[string]any),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect resolves immediately and leaves the state connected. Each call
// assigns a fresh session ID.
func (c *Client) Connect(_ context.Context) error {
	c.mu.Lock()
	c.state = docstore.StateConnected
	c.sessionID = uuid.NewString()
	sid := c.sessionID
	c.mu.Unlock()

	c.lg.Debug("mock connect", zap.String("session", sid))
	return nil
}

// Disconnect resolves immediately and marks the client disconnected.
func (c *Client) Disconnect(_ context.Context) error {
	c.mu.Lock()
	c.state = docstore.StateDisconnected
	c.mu.Unlock()

	c.lg.Debug("mock disconnect")
	return nil
}

// State returns the current connection state.
func (c *Client) State() docstore.ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SessionID returns the identifier assigned by the latest connect.
func (c *Client) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// IsValidObjectID reports true for any input. Tests that need the strict
// check use docstore.IsValidObjectID directly.
func (c *Client) IsValidObjectID(string) bool {
	return true
}

// RegisteredSchema returns the schema registered under name, if any.
func (c *Client) RegisteredSchema(name string) (*Schema, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.schemas[name]
	return s, ok
}

// RegisterModel registers a model double under name and returns it. The
// schema is recorded but never enforced. Registering an existing name
// returns the already-registered model regardless of the arguments, so
// every caller shares one double per name. If the name was registered
// with a different document type, the caller gets a fresh standalone
// double instead; the registry keeps the original.
func RegisterModel[T any](c *Client, name string, schema *Schema, defaults func(T) T) *Model[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.models[name]; ok {
		if m, ok := existing.(*Model[T]); ok {
			return m
		}
		return NewModel(name, defaults)
	}

	m := NewModel(name, defaults)
	c.models[name] = m
	if schema != nil {
		c.schemas[name] = schema
	}

	c.lg.Debug("mock model registered", zap.String("name", name))
	return m
}

var _ docstore.Database = (*Client)(nil)
