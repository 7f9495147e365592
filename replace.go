package hypod

import (
	"fmt"
	"sort"
	"strings"
)

// Replace constructs a new instance from this one plus a set of field
// changes. Unchanged fields carry over; a changed record field resolves
// against the current field value, so an untagged mapping keeps the
// variant and merges into it. Every field re-runs coercion and
// validation, making the result exactly as valid as a fresh construction.
// The changes mapping is not modified.
func (in *Instance) Replace(changes map[string]any) (*Instance, error) {
	s := in.schema

	var unknown []string
	for name := range changes {
		i, ok := s.index[name]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		if s.fields[i].derived {
			return nil, fmt.Errorf("%w: field %q of %s is derived and cannot be changed", ErrImmutableField, name, s.name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: schema %q does not declare: %s", ErrUnknownField, s.name, strings.Join(unknown, ", "))
	}

	input := make(map[string]any, len(s.fields))
	current := make(map[string]any, len(s.fields))
	for i := range s.fields {
		name := s.fields[i].Name
		cur := in.values[name]
		current[name] = cur
		if ch, ok := changes[name]; ok {
			input[name] = ch
		} else {
			input[name] = cur
		}
	}
	return s.construct(input, current)
}
