package audit

import (
	"context"
	"fmt"
	"sync"
)

// Loader resolves an audited entity's display label from its id.
type Loader func(ctx context.Context, id int64) (string, error)

// Registry maps entity types to label loaders so an EntityRef stored in the
// log can be rendered for humans without a generic foreign key.
type Registry struct {
	mu      sync.RWMutex
	loaders map[EntityType]Loader
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{loaders: make(map[EntityType]Loader)}
}

// Register installs the loader for one entity type. Wiring happens once at startup.
func (r *Registry) Register(t EntityType, loader Loader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaders[t] = loader
}

// Resolve returns the display label for a reference. Deleted entities resolve
// to a placeholder rather than an error so old log rows stay renderable.
func (r *Registry) Resolve(ctx context.Context, ref EntityRef) (string, error) {
	r.mu.RLock()
	loader, ok := r.loaders[ref.Type]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("audit: no loader registered for %s", ref.Type)
	}
	label, err := loader(ctx, ref.ID)
	if err != nil {
		return fmt.Sprintf("%s #%d", ref.Type, ref.ID), nil
	}
	return label, nil
}
