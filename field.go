package hypod

// Field is one declared field of a schema: a name, a semantic type, an
// optional default, and per-field behavior flags. Fields are declared
// through Builder.Field and are immutable once the schema is built.
type Field struct {
	Name string
	Type *Type

	def        any
	defFn      func() any
	hasDefault bool
	noParse    bool
	noMerge    bool
	lenient    bool
	derived    bool
}

// FieldOption configures a field declaration.
type FieldOption func(*Field)

// Default sets the value used when construction input does not supply the
// field. Defaults pass through the same coercion and validation as
// supplied values, so a mapping default on a record field is resolved at
// construction time.
func Default(v any) FieldOption {
	return func(f *Field) {
		f.def = v
		f.hasDefault = true
	}
}

// DefaultFunc sets a factory producing a fresh default value per
// construction. Mutually exclusive with Default.
func DefaultFunc(fn func() any) FieldOption {
	return func(f *Field) {
		f.defFn = fn
	}
}

// NoParse disables string literal parsing for the field: raw string input
// reaches the type check unchanged.
func NoParse() FieldOption {
	return func(f *Field) {
		f.noParse = true
	}
}

// NoMerge disables merge-if-possible for the field: mapping input always
// constructs a fresh record instead of replacing into the current value.
func NoMerge() FieldOption {
	return func(f *Field) {
		f.noMerge = true
	}
}

// Lenient downgrades a failed type check on the field to a warning; the
// unmatched value is stored as-is.
func Lenient() FieldOption {
	return func(f *Field) {
		f.lenient = true
	}
}

// Derived marks the field as non-constructible: its value always comes
// from its default and supplying it in input fails with ErrImmutableField.
// A derived field must declare a default.
func Derived() FieldOption {
	return func(f *Field) {
		f.derived = true
	}
}

// HasDefault reports whether the field declares a default value or a
// default factory.
func (f *Field) HasDefault() bool {
	return f.hasDefault || f.defFn != nil
}

// DefaultValue returns the field's declared default, invoking the factory
// if one was declared. The value is the raw declaration; it has not been
// through coercion.
func (f *Field) DefaultValue() (any, bool) {
	if f.defFn != nil {
		return f.defFn(), true
	}
	if f.hasDefault {
		return f.def, true
	}
	return nil, false
}
