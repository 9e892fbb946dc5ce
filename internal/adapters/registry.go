package adapters

import (
	"context"
	"sort"
	"sync"

	"github.com/pysugar/task-nexus/internal/unified"
)

// Factory builds an adapter bound to a caller-supplied vendor API token.
type Factory func(ctx context.Context, apiToken string) (Adapter, error)

// Registry maps service types to adapter factories. New vendors plug in
// without touching the request routing.
type Registry struct {
	mu        sync.RWMutex
	factories map[unified.ServiceType]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[unified.ServiceType]Factory)}
}

// Register installs a factory for a service type, replacing any previous one.
func (r *Registry) Register(service unified.ServiceType, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[service] = f
}

// New builds an adapter for the given service. Returns
// *unified.UnsupportedServiceError when no factory is registered.
func (r *Registry) New(ctx context.Context, service unified.ServiceType, apiToken string) (Adapter, error) {
	r.mu.RLock()
	f, ok := r.factories[service]
	r.mu.RUnlock()
	if !ok {
		return nil, &unified.UnsupportedServiceError{Service: string(service)}
	}
	return f(ctx, apiToken)
}

// Services lists the registered service types in stable order.
func (r *Registry) Services() []unified.ServiceType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]unified.ServiceType, 0, len(r.factories))
	for s := range r.factories {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
