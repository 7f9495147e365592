package hypod

import "errors"

// Sentinel errors returned by schema declaration, construction, and
// resolution. All errors are wrapped with the field name, the owning
// schema, and the offending value where applicable; use errors.Is to
// classify them.
var (
	// ErrDuplicateTag indicates a tag was registered twice in one hierarchy.
	ErrDuplicateTag = errors.New("duplicate tag")

	// ErrDuplicateUnionTag indicates two variant hierarchies joined in a
	// union field share a tag, making tag lookup ambiguous.
	ErrDuplicateUnionTag = errors.New("duplicate tag across union")

	// ErrUnknownTag indicates a tag was not found in the applicable registry.
	ErrUnknownTag = errors.New("unknown tag")

	// ErrAmbiguousUnion indicates a mapping could not select a concrete
	// variant: no tag, no current value, and multiple candidates.
	ErrAmbiguousUnion = errors.New("ambiguous union")

	// ErrMissingValue indicates a required field had no supplied value and
	// no default.
	ErrMissingValue = errors.New("missing value")

	// ErrTypeMismatch indicates a value failed the structural type check of
	// its field in strict mode.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrArgvFormat indicates a malformed key-path token or system option.
	ErrArgvFormat = errors.New("malformed argument")

	// ErrImmutableField indicates an attempt to supply a derived field.
	ErrImmutableField = errors.New("immutable field")

	// ErrNoBuildTarget indicates Make was called on an instance whose
	// schema chain declares no build target.
	ErrNoBuildTarget = errors.New("no build target")

	// ErrUnknownField indicates an input mapping named a field the schema
	// does not declare.
	ErrUnknownField = errors.New("unknown field")

	// ErrFileNotFound indicates a configuration file does not exist.
	ErrFileNotFound = errors.New("config file not found")
)
