// Package sdkclient provides the lazily initialized Console SDK client
// used as the preferred data source ahead of the CLI fallback.
package sdkclient

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/demoforge/aioctx/internal/console"
)

// Factory builds a ready-to-use SDK client. It is invoked at most once
// per initialization attempt.
type Factory func(ctx context.Context) (console.SDKClient, error)

// ErrNoFactory is returned by EnsureInitialized when the provider was
// built without a factory; callers fall back to the CLI.
var ErrNoFactory = errors.New("no sdk client factory configured")

// Provider implements console.SDKProvider. Concurrent EnsureInitialized
// callers share a single in-flight initialization and all observe its
// outcome; a failed attempt leaves the provider uninitialized so a later
// call can retry.
type Provider struct {
	factory Factory
	log     *zap.Logger

	mu     sync.Mutex
	client console.SDKClient

	group singleflight.Group
}

var _ console.SDKProvider = (*Provider)(nil)

// NewProvider builds a Provider. factory may be nil for a CLI-only setup.
func NewProvider(factory Factory, log *zap.Logger) *Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &Provider{factory: factory, log: log}
}

// IsInitialized reports whether a client is ready.
func (p *Provider) IsInitialized() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.client != nil
}

// EnsureInitialized initializes the client if needed. Deduplication is
// per attempt, not once-forever: unlike a sync.Once guard, a failure
// does not poison future calls.
func (p *Provider) EnsureInitialized(ctx context.Context) error {
	if p.IsInitialized() {
		return nil
	}
	if p.factory == nil {
		return ErrNoFactory
	}

	_, err, _ := p.group.Do("init", func() (any, error) {
		if p.IsInitialized() {
			return nil, nil
		}
		client, err := p.factory(ctx)
		if err != nil {
			p.log.Debug("sdk client init failed", zap.Error(err))
			return nil, err
		}
		p.mu.Lock()
		p.client = client
		p.mu.Unlock()
		return nil, nil
	})
	return err
}

// Client returns the initialized client, or nil before initialization.
func (p *Provider) Client() console.SDKClient {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.client
}

// Clear drops the client; the next EnsureInitialized starts fresh.
func (p *Provider) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.client = nil
}
