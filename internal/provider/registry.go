// Package provider wires platform client implementations to the names the
// config refers to them by.
package provider

import (
	"fmt"
	"sync"

	"github.com/frostline-io/frostline/internal/config"
	"github.com/frostline-io/frostline/internal/platform"
	"github.com/frostline-io/frostline/providers/memory"
	"github.com/frostline-io/frostline/providers/snowflake"
)

// Factory builds a platform client from the loaded config.
type Factory func(cfg *config.Config) (platform.Client, error)

// Registry manages the lifecycle of platform clients.
type Registry struct {
	mu        sync.Mutex
	factories map[string]Factory
	clients   map[string]platform.Client
}

// NewRegistry returns a registry with the built-in providers registered.
func NewRegistry() *Registry {
	r := &Registry{
		factories: make(map[string]Factory),
		clients:   make(map[string]platform.Client),
	}

	r.Register("memory", func(*config.Config) (platform.Client, error) {
		return memory.New(), nil
	})
	r.Register("snowflake", func(cfg *config.Config) (platform.Client, error) {
		return snowflake.New(snowflake.Config{
			Account: cfg.Platform.Account,
			Host:    cfg.Platform.Host,
			Token:   cfg.Platform.Token,
		})
	})

	return r
}

// Register adds or replaces a provider factory.
func (r *Registry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Load returns the named client, constructing it on first use.
func (r *Registry) Load(name string, cfg *config.Config) (platform.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if client, ok := r.clients[name]; ok {
		return client, nil
	}

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", name)
	}

	client, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize provider %s: %w", name, err)
	}
	r.clients[name] = client
	return client, nil
}
