// Package hypod provides hierarchical, typed configuration records for Go
// applications, with tag-based variant selection so a single string like
// "adam" can pick and populate a whole alternative sub-configuration.
//
// Features:
//   - Declarative schemas built with a fluent builder
//   - Derived schemas that inherit and override fields
//   - Tagged variants: any field typed as a union of records accepts a
//     "_tag" discriminator or a bare tag string
//   - Structural replace that re-runs every check on the new instance
//   - Restricted literal parsing for values arriving as strings
//     (never executes code)
//   - TOML, JSON and YAML file loading with format detection
//   - Command-line assignments in "key.sub=value" form
//   - Struct decoding via mapstructure with common type hooks
//
// Quick Start:
//
//	optim := hypod.NewSchema("Optim").
//		Field("lr", hypod.Float(), hypod.Default(0.001)).
//		MustBuild()
//
//	adam := optim.Derive("Adam").
//		Tag("adam").
//		Field("beta1", hypod.Float(), hypod.Default(0.9)).
//		MustBuild()
//
//	sgd := optim.Derive("SGD").
//		Tag("sgd").
//		Field("momentum", hypod.Float(), hypod.Default(0.0)).
//		MustBuild()
//
//	train := hypod.NewSchema("Train").
//		Field("optim", hypod.Union(hypod.Object(adam), hypod.Object(sgd))).
//		Field("steps", hypod.Int(), hypod.Default(int64(10000))).
//		MustBuild()
//
//	inst, err := train.FromArgv([]string{"optim=sgd", "optim.momentum=0.9"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	momentum, _ := inst.Float64("optim.momentum")
//
// Run Driver Precedence (lowest to highest):
//  1. Field defaults declared on the schema
//  2. FilePre file
//  3. --file-pre file
//  4. Command-line assignments (optim.lr=0.1)
//  5. FilePost file
//  6. --file-post file
//
// Instances are immutable once constructed; Replace returns a new instance
// and re-validates every field. Registries guard tag registration with a
// read-write mutex so schemas may be built from multiple goroutines, while
// individual instances are meant for single-goroutine use.
package hypod
