package hypod

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// assignField runs the coercion and validation pipeline for one field
// write: literal parsing of string input, variant resolution for record
// fields, then the structural type check. current is the field's existing
// value (the previous instance's value during replace, the default
// otherwise) and steers variant identity and merge decisions.
func (s *Schema) assignField(f *Field, raw any, current any, hasCurrent bool) (any, error) {
	if str, ok := raw.(string); ok && !f.noParse && !f.Type.includesString() {
		if f.Type.recordish() {
			raw = map[string]any{TagKey: str}
		} else if parsed, err := ParseLiteral(str); err == nil {
			raw = parsed
		}
	}

	if m, ok := raw.(map[string]any); ok && f.Type.recordish() {
		resolved, err := s.resolveVariant(f, m, current, hasCurrent)
		if err != nil {
			return nil, err
		}
		raw = resolved
	}

	v, err := f.Type.check(raw)
	if err != nil {
		if f.lenient {
			slog.Warn("value failed type check, keeping it unchanged",
				"schema", s.name, "field", f.Name, "type", f.Type.String(), "value", raw)
			return raw, nil
		}
		return nil, err
	}
	return v, nil
}

// resolveVariant selects the concrete schema for a mapping assigned to a
// record or union-of-record field and constructs the value. Precedence:
// an explicit tag, then the current value's runtime identity, then the
// single declared candidate. A union with a raw mapping member keeps
// untagged mappings plain. When merge-if-possible holds and the current
// value is an instance of the resolved schema, the mapping is applied as
// a replace against it; otherwise the schema is constructed fresh.
func (s *Schema) resolveVariant(f *Field, m map[string]any, current any, hasCurrent bool) (any, error) {
	tag, hasTag, err := extractTag(m)
	if err != nil {
		return nil, err
	}
	rest := m
	if hasTag {
		rest = make(map[string]any, len(m)-1)
		for k, v := range m {
			if k != TagKey {
				rest[k] = v
			}
		}
	}

	var concrete *Schema
	if hasTag {
		concrete, err = lookupTag(f.Type, tag)
		if err != nil {
			return nil, err
		}
	} else if hasCurrent {
		switch cur := current.(type) {
		case *Instance:
			concrete = cur.schema
		case map[string]any:
			if f.Type.hasMappingFallback() {
				return rest, nil
			}
		}
	}

	if concrete == nil {
		switch {
		case f.Type.kind == KindRecord:
			concrete = f.Type.schema
		case f.Type.hasMappingFallback():
			return rest, nil
		default:
			recs := f.Type.recordSchemas()
			if len(recs) != 1 {
				return nil, fmt.Errorf("%w: %s needs a %q key to pick a variant", ErrAmbiguousUnion, f.Type, TagKey)
			}
			concrete = recs[0]
		}
	}

	if !f.noMerge && hasCurrent {
		if inst, ok := current.(*Instance); ok && inst.schema == concrete {
			return inst.Replace(rest)
		}
	}
	return concrete.New(rest)
}

func extractTag(m map[string]any) (string, bool, error) {
	v, ok := m[TagKey]
	if !ok {
		return "", false, nil
	}
	tag, ok := v.(string)
	if !ok {
		return "", false, fmt.Errorf("%w: %s value %v (%T) is not a string", ErrUnknownTag, TagKey, v, v)
	}
	return tag, true, nil
}

// lookupTag searches the registries reachable from the declared type: the
// hierarchy registry for a record type, every member hierarchy's registry
// for a union. Tag sets across member hierarchies are disjoint, checked
// when the field was declared.
func lookupTag(t *Type, tag string) (*Schema, error) {
	var known []string
	for _, reg := range distinctRegistries(t) {
		if s, ok := reg.get(tag); ok {
			return s, nil
		}
		known = append(known, reg.Tags()...)
	}
	list := "none"
	if len(known) > 0 {
		sort.Strings(known)
		list = strings.Join(known, ", ")
	}
	return nil, fmt.Errorf("%w: %q for %s (known tags: %s)", ErrUnknownTag, tag, t, list)
}

// distinctRegistries returns the deduplicated hierarchy registries of the
// record schemas reachable from t.
func distinctRegistries(t *Type) []*Registry {
	var regs []*Registry
	for _, rec := range t.recordSchemas() {
		seen := false
		for _, r := range regs {
			if r == rec.registry {
				seen = true
				break
			}
		}
		if !seen {
			regs = append(regs, rec.registry)
		}
	}
	return regs
}
