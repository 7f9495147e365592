package hypod

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// TagKey is the reserved mapping key that selects a concrete variant when
// a mapping is assigned to a record-typed field. It is stripped before the
// remaining keys are used as field values.
const TagKey = "_tag"

// Registry maps variant tags to concrete schemas for one hierarchy. A root
// schema owns its registry; every schema derived from it shares the same
// one. Inserts happen at declaration time and are guarded; lookups after
// initialization are read-mostly.
type Registry struct {
	mu   sync.RWMutex
	tags map[string]*Schema
}

func newRegistry() *Registry {
	return &Registry{tags: make(map[string]*Schema)}
}

// register adds a tag to the registry. Redeclaring an existing tag is a
// fatal declaration error.
func (r *Registry) register(tag string, s *Schema) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.tags[tag]; ok {
		return fmt.Errorf("%w: %q already names schema %q", ErrDuplicateTag, tag, existing.name)
	}
	r.tags[tag] = s
	return nil
}

// Lookup returns the schema registered under tag.
func (r *Registry) Lookup(tag string) (*Schema, error) {
	s, ok := r.get(tag)
	if !ok {
		r.mu.RLock()
		defer r.mu.RUnlock()
		return nil, fmt.Errorf("%w: %q (known tags: %s)", ErrUnknownTag, tag, joinTags(r.tags))
	}
	return s, nil
}

// Has reports whether tag is registered.
func (r *Registry) Has(tag string) bool {
	_, ok := r.get(tag)
	return ok
}

func (r *Registry) get(tag string) (*Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.tags[tag]
	return s, ok
}

// Tags returns all registered tags in sorted order.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.tags))
	for tag := range r.tags {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

func joinTags(tags map[string]*Schema) string {
	if len(tags) == 0 {
		return "none"
	}
	out := make([]string, 0, len(tags))
	for tag := range tags {
		out = append(out, tag)
	}
	sort.Strings(out)
	return strings.Join(out, ", ")
}
