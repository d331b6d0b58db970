package task

import (
	"github.com/rios0rios0/autocontrib/domain"
)

// Registry manages all registered audit task implementations.
type Registry struct {
	tasks map[string]domain.Task
}

// NewRegistry creates an empty task registry.
func NewRegistry() *Registry {
	return &Registry{
		tasks: make(map[string]domain.Task),
	}
}

// Register adds a task under its name.
func (r *Registry) Register(t domain.Task) {
	r.tasks[t.Name()] = t
}

// Get returns the task with the given name, or nil if not registered.
func (r *Registry) Get(name string) domain.Task {
	return r.tasks[name]
}

// All returns every registered task.
func (r *Registry) All() []domain.Task {
	result := make([]domain.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		result = append(result, t)
	}
	return result
}

// Names returns the list of registered task names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tasks))
	for name := range r.tasks {
		names = append(names, name)
	}
	return names
}
