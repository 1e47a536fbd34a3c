package tools

import (
	"sync"

	"github.com/convoguard/convoguard/pkg/interfaces"
)

// Registry is an in-memory implementation of interfaces.ToolRegistry
type Registry struct {
	tools map[string]interfaces.Tool
	order []string
	mu    sync.RWMutex
}

// NewRegistry creates a new tool registry
func NewRegistry(tools ...interfaces.Tool) *Registry {
	registry := &Registry{
		tools: make(map[string]interfaces.Tool),
	}

	for _, tool := range tools {
		registry.Register(tool)
	}

	return registry
}

// Register registers a tool. Re-registering a name replaces the tool.
func (r *Registry) Register(tool interfaces.Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[tool.Name()]; !exists {
		r.order = append(r.order, tool.Name())
	}
	r.tools[tool.Name()] = tool
}

// Get returns a tool by name
func (r *Registry) Get(name string) (interfaces.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, ok := r.tools[name]
	return tool, ok
}

// List returns all registered tools in registration order
func (r *Registry) List() []interfaces.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]interfaces.Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}
