package renderer

import (
	"fmt"
	"sort"
)

// Registry maps opaque string ids to loaded resources. It is owned by the
// application and handed to whatever needs lookups.
type Registry[T any] struct {
	kind    string
	objects map[string]T
}

// NewRegistry creates an empty registry; kind names the resource in errors.
func NewRegistry[T any](kind string) *Registry[T] {
	return &Registry[T]{
		kind:    kind,
		objects: make(map[string]T),
	}
}

// Add stores object under key, replacing any previous entry.
func (r *Registry[T]) Add(key string, object T) {
	r.objects[key] = object
}

// Get returns the resource stored under key.
func (r *Registry[T]) Get(key string) (T, error) {
	obj, ok := r.objects[key]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s %q not registered", r.kind, key)
	}
	return obj, nil
}

func (r *Registry[T]) Has(key string) bool {
	_, ok := r.objects[key]
	return ok
}

func (r *Registry[T]) Remove(key string) {
	delete(r.objects, key)
}

// Keys returns the registered ids in sorted order.
func (r *Registry[T]) Keys() []string {
	keys := make([]string, 0, len(r.objects))
	for k := range r.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (r *Registry[T]) Len() int {
	return len(r.objects)
}
