package hypod

import (
	"fmt"
	"log/slog"
)

// Builder assembles one schema declaration. Obtain one with NewSchema for
// a hierarchy root or Schema.Derive for a tagged variant, chain Field and
// option calls, and finish with Build or MustBuild.
type Builder struct {
	name      string
	tag       string
	parent    *Schema
	enclosing *Schema
	target    TargetFunc
	fields    []Field
	err       error
}

// NewSchema starts the declaration of a hierarchy root. The root owns a
// fresh tag registry; every schema derived from it shares that registry.
func NewSchema(name string) *Builder {
	b := &Builder{name: name}
	if name == "" {
		b.err = fmt.Errorf("schema name cannot be empty")
	}
	return b
}

// Derive starts the declaration of a variant of s. The parent field table
// is copied in declaration order and re-declared fields override in place.
// On Build the variant registers in the hierarchy registry under its tag,
// which defaults to the variant's name.
func (s *Schema) Derive(name string) *Builder {
	b := &Builder{name: name, parent: s}
	if name == "" {
		b.err = fmt.Errorf("schema name cannot be empty")
	}
	return b
}

// Tag sets the registry tag. A root builder registers the root itself when
// a tag is given; derived schemas always register.
func (b *Builder) Tag(tag string) *Builder {
	if tag == "" {
		if b.err == nil {
			b.err = fmt.Errorf("tag of schema %q cannot be empty", b.name)
		}
		return b
	}
	b.tag = tag
	return b
}

// Field declares a field with the given name, type, and options. A derived
// builder redeclares an inherited name to override it; declaring the same
// name twice in one builder is a build error.
func (b *Builder) Field(name string, typ *Type, opts ...FieldOption) *Builder {
	if b.err == nil {
		switch {
		case name == TagKey:
			b.err = fmt.Errorf("field name %q of schema %q is reserved", TagKey, b.name)
		case !isValidKeySegment(name):
			b.err = fmt.Errorf("invalid field name %q in schema %q", name, b.name)
		case typ == nil:
			b.err = fmt.Errorf("field %q of schema %q has no type", name, b.name)
		}
	}
	f := Field{Name: name, Type: typ}
	for _, opt := range opts {
		opt(&f)
	}
	b.fields = append(b.fields, f)
	return b
}

// Within declares the record schema this one is nested in. Make walks the
// chain of enclosing schemas to the first declared build target.
func (b *Builder) Within(outer *Schema) *Builder {
	b.enclosing = outer
	return b
}

// Target declares the build target: the non-record constructor an instance
// of this schema materializes into via Make.
func (b *Builder) Target(fn TargetFunc) *Builder {
	b.target = fn
	return b
}

// Build validates the declaration, registers the schema under its tag, and
// returns the finished schema.
func (b *Builder) Build() (*Schema, error) {
	if b.err != nil {
		return nil, b.err
	}

	s := &Schema{
		name:      b.name,
		parent:    b.parent,
		enclosing: b.enclosing,
		target:    b.target,
		index:     make(map[string]int),
	}

	if b.parent != nil {
		s.fields = append(s.fields, b.parent.fields...)
		for name, i := range b.parent.index {
			s.index[name] = i
		}
	}
	declared := make(map[string]bool, len(b.fields))
	for _, f := range b.fields {
		if declared[f.Name] {
			return nil, fmt.Errorf("field %q of schema %q declared twice", f.Name, b.name)
		}
		declared[f.Name] = true
		if i, ok := s.index[f.Name]; ok {
			s.fields[i] = f
		} else {
			s.index[f.Name] = len(s.fields)
			s.fields = append(s.fields, f)
		}
	}

	for i := range s.fields {
		if err := validateField(s.name, &s.fields[i]); err != nil {
			return nil, err
		}
	}

	if b.parent == nil {
		s.registry = newRegistry()
		if b.tag != "" {
			s.tag = b.tag
			if err := s.registry.register(s.tag, s); err != nil {
				return nil, err
			}
		}
		return s, nil
	}

	s.registry = b.parent.registry
	s.tag = b.tag
	if s.tag == "" {
		s.tag = s.name
	}
	if err := s.registry.register(s.tag, s); err != nil {
		return nil, err
	}
	return s, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *Schema {
	s, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("hypod: schema build failed: %v", err))
	}
	return s
}

func validateField(schema string, f *Field) error {
	if f.hasDefault && f.defFn != nil {
		return fmt.Errorf("field %q of schema %q declares both a default and a default factory", f.Name, schema)
	}
	if f.derived && !f.HasDefault() {
		return fmt.Errorf("derived field %q of schema %q requires a default", f.Name, schema)
	}
	if err := validateType(schema, f.Name, f.Type); err != nil {
		return err
	}
	if f.Type.kind != KindUnion {
		return nil
	}
	if err := checkUnionTags(schema, f); err != nil {
		return err
	}
	if !f.noParse && f.Type.includesString() {
		slog.Warn("union includes string, literal parsing disabled for this field",
			"schema", schema, "field", f.Name, "type", f.Type.String())
	}
	if f.Type.recordish() && f.Type.hasMappingFallback() {
		slog.Warn("union joins record and mapping types, untagged mappings stay plain",
			"schema", schema, "field", f.Name, "type", f.Type.String())
	}
	return nil
}

// checkUnionTags verifies that unrelated hierarchies joined in one union
// have non-overlapping tag sets, keeping tag lookup unambiguous. Checked
// against the registries as they stand when the field is declared.
func checkUnionTags(schema string, f *Field) error {
	regs := distinctRegistries(f.Type)
	if len(regs) < 2 {
		return nil
	}

	claimed := make(map[string]int)
	for i, reg := range regs {
		for _, tag := range reg.Tags() {
			if j, ok := claimed[tag]; ok && j != i {
				return fmt.Errorf("%w: field %q of schema %q joins hierarchies that both register %q",
					ErrDuplicateUnionTag, f.Name, schema, tag)
			}
			claimed[tag] = i
		}
	}
	return nil
}

func validateType(schema, field string, t *Type) error {
	switch t.kind {
	case KindList:
		if t.elem == nil {
			return fmt.Errorf("list field %q of schema %q has no element type", field, schema)
		}
		return validateType(schema, field, t.elem)
	case KindRecord:
		if t.schema == nil {
			return fmt.Errorf("record field %q of schema %q has no schema", field, schema)
		}
	case KindUnion:
		if len(t.members) == 0 {
			return fmt.Errorf("union field %q of schema %q has no members", field, schema)
		}
		for _, m := range t.members {
			if m == nil {
				return fmt.Errorf("union field %q of schema %q has a nil member", field, schema)
			}
			if err := validateType(schema, field, m); err != nil {
				return err
			}
		}
	case KindInvalid:
		return fmt.Errorf("field %q of schema %q has an invalid type", field, schema)
	}
	return nil
}
