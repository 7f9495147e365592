package hypod

import (
	"fmt"
	"sort"
	"strings"
)

// TargetFunc builds the enclosing non-record value an instance
// materializes into via Make. It receives the instance as its sole
// argument.
type TargetFunc func(*Instance) (any, error)

// Schema is a declared record type: an ordered field table, a tag
// registry shared across its hierarchy, and optional links to the schema
// it derives from, the record schema it is nested in, and its build
// target. Schemas are created with NewSchema or Derive and are immutable
// once built.
type Schema struct {
	name      string
	tag       string
	fields    []Field
	index     map[string]int
	registry  *Registry
	parent    *Schema
	enclosing *Schema
	target    TargetFunc
}

// Name returns the schema's declared name.
func (s *Schema) Name() string { return s.name }

// Tag returns the tag the schema is registered under, or "" for an
// untagged root.
func (s *Schema) Tag() string { return s.tag }

// Registry returns the tag registry shared by the schema's hierarchy.
func (s *Schema) Registry() *Registry { return s.registry }

// Parent returns the schema this one was derived from, or nil for a root.
func (s *Schema) Parent() *Schema { return s.parent }

// Enclosing returns the record schema this one was declared within, or nil.
func (s *Schema) Enclosing() *Schema { return s.enclosing }

// Fields returns a copy of the ordered field table.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Field returns the declared field with the given name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// isa reports whether s is ancestor or was derived from it, directly or
// transitively.
func (s *Schema) isa(ancestor *Schema) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if cur == ancestor {
			return true
		}
	}
	return false
}

// New constructs an instance from a mapping of field values. Fields absent
// from input take their defaults; every value, defaults included, passes
// through coercion and validation. The input mapping is not modified.
func (s *Schema) New(input map[string]any) (*Instance, error) {
	if err := s.checkInputKeys(input); err != nil {
		return nil, err
	}
	return s.construct(input, nil)
}

// MustNew is like New but panics on error.
func (s *Schema) MustNew(input map[string]any) *Instance {
	inst, err := s.New(input)
	if err != nil {
		panic(fmt.Sprintf("hypod: instance construction failed: %v", err))
	}
	return inst
}

// checkInputKeys rejects unknown field names and derived fields in
// construction input.
func (s *Schema) checkInputKeys(input map[string]any) error {
	var unknown []string
	for name := range input {
		i, ok := s.index[name]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		if s.fields[i].derived {
			return fmt.Errorf("%w: field %q of %s is derived and cannot be supplied", ErrImmutableField, name, s.name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("%w: schema %q does not declare: %s", ErrUnknownField, s.name, strings.Join(unknown, ", "))
	}
	return nil
}

// construct runs the field engine over every declared field. input holds
// the value per field name; current holds the per-field current value
// consulted by variant resolution (populated during replace, nil for a
// fresh construction, in which case defaults stand in).
func (s *Schema) construct(input, current map[string]any) (*Instance, error) {
	values := make(map[string]any, len(s.fields))
	for i := range s.fields {
		f := &s.fields[i]

		raw, supplied := input[f.Name]
		cur, hasCur := current[f.Name]
		if !supplied {
			def, ok := f.DefaultValue()
			if !ok {
				return nil, fmt.Errorf("field %q of %s: %w", f.Name, s.name, ErrMissingValue)
			}
			raw = def
			if !hasCur {
				cur, hasCur = def, true
			}
		} else if !hasCur {
			cur, hasCur = f.DefaultValue()
		}

		v, err := s.assignField(f, raw, cur, hasCur)
		if err != nil {
			return nil, fmt.Errorf("field %q of %s: %w", f.Name, s.name, err)
		}
		values[f.Name] = v
	}
	return &Instance{schema: s, values: values}, nil
}
