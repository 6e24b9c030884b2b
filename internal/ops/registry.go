package ops

import (
	"sort"
	"sync"

	"github.com/HenryWConklin/blackjack/pkg/schema"
)

// Registry is the concrete thread-safe operation registry. It is built once
// at startup and read by the engine for the duration of evaluation passes.
type Registry struct {
	mu  sync.RWMutex
	ops map[string]Operation
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		ops: make(map[string]Operation),
	}
}

// Register adds an operation to the registry. Returns error on duplicate name.
func (r *Registry) Register(op Operation) error {
	if op == nil {
		return schema.NewError(schema.ErrCodeValidation, "operation is nil")
	}
	name := op.Name()
	if name == "" {
		return schema.NewError(schema.ErrCodeValidation, "operation name is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ops[name]; exists {
		return schema.NewErrorf(schema.ErrCodeConflict, "operation %q already registered", name)
	}

	r.ops[name] = op
	return nil
}

// Get retrieves an operation by name.
func (r *Registry) Get(name string) (Operation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	op, ok := r.ops[name]
	if !ok {
		return nil, schema.NewErrorf(schema.ErrCodeUnknownOperation, "operation %q not registered", name)
	}
	return op, nil
}

// OpSummary is a summary of a registered operation for listing.
type OpSummary struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	HasGizmo    bool   `json:"has_gizmo,omitempty"`
}

// List returns summaries for all registered operations, sorted by name.
func (r *Registry) List() []OpSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summaries := make([]OpSummary, 0, len(r.ops))
	for _, op := range r.ops {
		info := op.Info()
		summaries = append(summaries, OpSummary{
			Name:        op.Name(),
			Description: info.Description,
			HasGizmo:    info.HasGizmo,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Name < summaries[j].Name
	})
	return summaries
}

// Has checks if an operation is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.ops[name]
	return ok
}

// Count returns the number of registered operations.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ops)
}

var _ Resolver = (*Registry)(nil)
