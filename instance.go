package hypod

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// Instance is a constructed configuration value: an immutable mapping from
// field names to resolved values. A field holds a normalized primitive, a
// nested instance, a raw mapping, or a list.
type Instance struct {
	schema *Schema
	values map[string]any
}

// Schema returns the schema the instance was constructed from.
func (in *Instance) Schema() *Schema { return in.schema }

// Get retrieves a value by dot-separated path, walking nested instances
// and raw mappings.
func (in *Instance) Get(path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	var current any = in
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case *Instance:
			v, ok := node.values[segment]
			if !ok {
				return nil, false
			}
			current = v
		case map[string]any:
			v, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = v
		default:
			return nil, false
		}
	}
	return current, true
}

// Record retrieves a nested instance by path.
func (in *Instance) Record(path string) (*Instance, error) {
	v, ok := in.Get(path)
	if !ok {
		return nil, fmt.Errorf("no value at path %q in %s", path, in.schema.name)
	}
	nested, ok := v.(*Instance)
	if !ok {
		return nil, fmt.Errorf("value at path %q in %s is %T, not a record", path, in.schema.name, v)
	}
	return nested, nil
}

// ToMap returns the instance as a plain nested mapping. Nested instances
// become mappings; variant identity is not encoded, it is available from
// the nested instance's Schema().Tag().
func (in *Instance) ToMap() map[string]any {
	return in.toMap(false)
}

func (in *Instance) toMap(tagged bool) map[string]any {
	out := make(map[string]any, len(in.values)+1)
	if tagged && in.schema.tag != "" {
		out[TagKey] = in.schema.tag
	}
	for name, v := range in.values {
		out[name] = plainValue(v, tagged)
	}
	return out
}

func plainValue(v any, tagged bool) any {
	switch node := v.(type) {
	case *Instance:
		return node.toMap(tagged)
	case map[string]any:
		out := make(map[string]any, len(node))
		for k, e := range node {
			out[k] = plainValue(e, tagged)
		}
		return out
	case []any:
		out := make([]any, len(node))
		for i, e := range node {
			out[i] = plainValue(e, tagged)
		}
		return out
	default:
		return v
	}
}

// Equal reports structural equality: the same schema and equal field
// values, with nested instances compared recursively.
func (in *Instance) Equal(other *Instance) bool {
	if in == nil || other == nil {
		return in == other
	}
	if in.schema != other.schema {
		return false
	}
	return equalValue(in.values, other.values)
}

func equalValue(a, b any) bool {
	switch av := a.(type) {
	case *Instance:
		bv, ok := b.(*Instance)
		return ok && av.Equal(bv)
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bvv, exists := bv[k]
			if !exists || !equalValue(v, bvv) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i, v := range av {
			if !equalValue(v, bv[i]) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}

// Make materializes the instance into its build target: the first target
// declared along the chain of enclosing schemas, falling back to the
// parent chain for derived schemas. The target constructor receives the
// instance as its sole argument.
func (in *Instance) Make() (any, error) {
	for s := in.schema; s != nil; {
		if s.target != nil {
			return s.target(in)
		}
		if s.enclosing != nil {
			s = s.enclosing
			continue
		}
		s = s.parent
	}
	return nil, fmt.Errorf("%w: schema %q declares no target in its enclosing chain", ErrNoBuildTarget, in.schema.name)
}

var dumpState = spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// Dump renders the instance as an indented deep value dump with variant
// tags included, suitable for logging.
func (in *Instance) Dump() string {
	return in.schema.name + " " + dumpState.Sdump(in.toMap(true))
}
