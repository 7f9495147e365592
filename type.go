package hypod

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"
)

// Kind identifies the shape of a declared field type.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindMapping
	KindRecord
	KindUnion
	KindAny
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMapping:
		return "mapping"
	case KindRecord:
		return "record"
	case KindUnion:
		return "union"
	case KindAny:
		return "any"
	default:
		return "invalid"
	}
}

// Type is the declared semantic type of a field. Types are built with the
// package-level constructors (Bool, Int, Float, String, ListOf, Mapping,
// Object, Union, Any) and are immutable after construction.
type Type struct {
	kind    Kind
	elem    *Type   // list element type
	schema  *Schema // record schema
	members []*Type // union members
}

// Bool declares a boolean field type.
func Bool() *Type { return &Type{kind: KindBool} }

// Int declares an integer field type. Values are normalized to int64.
func Int() *Type { return &Type{kind: KindInt} }

// Float declares a floating-point field type. Values are normalized to
// float64; integer inputs are widened.
func Float() *Type { return &Type{kind: KindFloat} }

// String declares a string field type. String literal parsing is never
// applied to fields of this type.
func String() *Type { return &Type{kind: KindString} }

// ListOf declares a list field type with the given element type.
func ListOf(elem *Type) *Type { return &Type{kind: KindList, elem: elem} }

// Mapping declares a raw string-keyed mapping field type. Values are kept
// as plain map[string]any without resolution.
func Mapping() *Type { return &Type{kind: KindMapping} }

// Object declares a record field type bound to the given schema. Values of
// the schema or any schema derived from it are accepted.
func Object(s *Schema) *Type { return &Type{kind: KindRecord, schema: s} }

// Union declares a field type accepting any one of the member types.
// Nested unions are flattened. Unions joining record types from unrelated
// hierarchies must have non-overlapping tag sets; this is checked when the
// field is declared.
func Union(members ...*Type) *Type {
	flat := make([]*Type, 0, len(members))
	for _, m := range members {
		if m != nil && m.kind == KindUnion {
			flat = append(flat, m.members...)
			continue
		}
		flat = append(flat, m)
	}
	return &Type{kind: KindUnion, members: flat}
}

// Any declares a field type accepting any value unchecked.
func Any() *Type { return &Type{kind: KindAny} }

// Kind returns the type's kind.
func (t *Type) Kind() Kind { return t.kind }

// Elem returns the element type of a list type, or nil.
func (t *Type) Elem() *Type { return t.elem }

// Schema returns the schema of a record type, or nil.
func (t *Type) Schema() *Schema { return t.schema }

// Members returns the member types of a union, or nil.
func (t *Type) Members() []*Type {
	if t.kind != KindUnion {
		return nil
	}
	out := make([]*Type, len(t.members))
	copy(out, t.members)
	return out
}

// String renders a readable name for diagnostics, e.g.
// "union(record<Data>, mapping)".
func (t *Type) String() string {
	switch t.kind {
	case KindList:
		return "list(" + t.elem.String() + ")"
	case KindRecord:
		return "record<" + t.schema.name + ">"
	case KindUnion:
		names := make([]string, len(t.members))
		for i, m := range t.members {
			names[i] = m.String()
		}
		return "union(" + strings.Join(names, ", ") + ")"
	default:
		return t.kind.String()
	}
}

// recordSchemas returns the record schemas reachable from this type: the
// bound schema for a record type, or the record members of a union.
func (t *Type) recordSchemas() []*Schema {
	switch t.kind {
	case KindRecord:
		return []*Schema{t.schema}
	case KindUnion:
		var out []*Schema
		for _, m := range t.members {
			if m.kind == KindRecord {
				out = append(out, m.schema)
			}
		}
		return out
	default:
		return nil
	}
}

// recordish reports whether values of this type route through variant
// resolution: a record type or a union with at least one record member.
func (t *Type) recordish() bool {
	return len(t.recordSchemas()) > 0
}

// includesString reports whether the type is string or a union with a
// string member. Such fields keep raw string input untouched.
func (t *Type) includesString() bool {
	if t.kind == KindString {
		return true
	}
	if t.kind == KindUnion {
		for _, m := range t.members {
			if m.kind == KindString {
				return true
			}
		}
	}
	return false
}

// hasMappingFallback reports whether the type is a union with a raw
// mapping member, which absorbs untagged mappings as plain values.
func (t *Type) hasMappingFallback() bool {
	if t.kind != KindUnion {
		return false
	}
	for _, m := range t.members {
		if m.kind == KindMapping {
			return true
		}
	}
	return false
}

// check validates v against the type and returns the normalized value:
// integers collapse to int64, floats to float64, lists to []any. Record
// values must be instances of the bound schema or a schema derived from
// it. Union members are tried in declaration order.
func (t *Type) check(v any) (any, error) {
	switch t.kind {
	case KindAny:
		return v, nil

	case KindBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}

	case KindInt:
		switch n := v.(type) {
		case int:
			return int64(n), nil
		case int8:
			return int64(n), nil
		case int16:
			return int64(n), nil
		case int32:
			return int64(n), nil
		case int64:
			return n, nil
		case uint:
			return uintToInt64(uint64(n), v)
		case uint8:
			return int64(n), nil
		case uint16:
			return int64(n), nil
		case uint32:
			return int64(n), nil
		case uint64:
			return uintToInt64(n, v)
		case json.Number:
			if i, err := n.Int64(); err == nil {
				return i, nil
			}
		}

	case KindFloat:
		switch n := v.(type) {
		case float32:
			return float64(n), nil
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		case int8:
			return float64(n), nil
		case int16:
			return float64(n), nil
		case int32:
			return float64(n), nil
		case int64:
			return float64(n), nil
		case uint:
			return float64(n), nil
		case uint8:
			return float64(n), nil
		case uint16:
			return float64(n), nil
		case uint32:
			return float64(n), nil
		case uint64:
			return float64(n), nil
		case json.Number:
			if f, err := n.Float64(); err == nil {
				return f, nil
			}
		}

	case KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}

	case KindList:
		rv := reflect.ValueOf(v)
		if rv.IsValid() && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) {
			out := make([]any, rv.Len())
			for i := 0; i < rv.Len(); i++ {
				ev, err := t.elem.check(rv.Index(i).Interface())
				if err != nil {
					return nil, fmt.Errorf("%w: element %d of %s: %v", ErrTypeMismatch, i, t, err)
				}
				out[i] = ev
			}
			return out, nil
		}

	case KindMapping:
		if m, ok := v.(map[string]any); ok {
			return m, nil
		}

	case KindRecord:
		if inst, ok := v.(*Instance); ok && inst.schema.isa(t.schema) {
			return inst, nil
		}

	case KindUnion:
		for _, m := range t.members {
			if out, err := m.check(v); err == nil {
				return out, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: value %v (%T) is not compatible with %s", ErrTypeMismatch, v, v, t)
}

func uintToInt64(u uint64, orig any) (any, error) {
	if u > math.MaxInt64 {
		return nil, fmt.Errorf("%w: unsigned value %d (%T) overflows int", ErrTypeMismatch, u, orig)
	}
	return int64(u), nil
}
