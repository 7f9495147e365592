package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/delta-func/hypod"
)

// AdamOptimizer and SGDOptimizer stand in for the real objects a training
// loop would construct from its config records.
type AdamOptimizer struct {
	LR    float64
	Beta1 float64
	Beta2 float64
}

type SGDOptimizer struct {
	LR       float64
	Momentum float64
}

// TrainSettings shows struct decoding, including the duration hook.
type TrainSettings struct {
	Steps     int64         `hypod:"steps"`
	CkptEvery time.Duration `hypod:"ckpt_every"`
}

const configFilePath = "config.yaml"

func main() {
	// =========================================================================
	// PART 1: SCHEMA DEFINITIONS
	// A base Optim schema with two tagged variants, a Data schema with a
	// derived dataset, and a Train root that joins them.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 1: Building schemas...")

	optim := hypod.NewSchema("Optim").
		Field("lr", hypod.Float(), hypod.Default(0.001)).
		MustBuild()

	adam := optim.Derive("Adam").
		Tag("adam").
		Field("beta1", hypod.Float(), hypod.Default(0.9)).
		Field("beta2", hypod.Float(), hypod.Default(0.999)).
		Target(newAdam).
		MustBuild()

	sgd := optim.Derive("SGD").
		Tag("sgd").
		Field("momentum", hypod.Float(), hypod.Default(0.0)).
		Target(newSGD).
		MustBuild()

	data := hypod.NewSchema("Data").
		Field("root", hypod.String(), hypod.Default("./datasets")).
		Field("batch", hypod.Int(), hypod.Default(int64(64))).
		MustBuild()

	// Derived schemas default their tag to the schema name, so "FFHQ"
	// is usable on the command line without an explicit Tag call.
	data.Derive("FFHQ").
		Field("resolution", hypod.Int(), hypod.Default(int64(256))).
		MustBuild()

	train := hypod.NewSchema("Train").
		Field("optim", hypod.Union(hypod.Object(adam), hypod.Object(sgd)), hypod.Default("adam")).
		Field("data", hypod.Object(data)).
		Field("steps", hypod.Int(), hypod.Default(int64(100000))).
		Field("ckpt_every", hypod.String(), hypod.Default("10m")).
		MustBuild()

	log.Println("✅ Schemas built. Known optimizer tags:", adam.Registry().Tags())

	// =========================================================================
	// PART 2: LAYERED CONSTRUCTION
	// A YAML file supplies the dataset, then command-line style assignments
	// swap the optimizer and refine it.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 2: Running with a config file plus assignments...")

	defer func() {
		log.Println("---")
		log.Println("🧹 Cleaning up...")
		os.Remove(configFilePath)
		log.Printf("Removed %s.", configFilePath)
	}()

	yamlData := []byte(`steps: 20000
data:
  _tag: FFHQ
  batch: 32
`)
	if err := os.WriteFile(configFilePath, yamlData, 0644); err != nil {
		log.Fatalf("❌ Failed to write %s: %v", configFilePath, err)
	}
	log.Printf("✅ Wrote %s.", configFilePath)

	runOpts := hypod.RunOptions{
		FilePre: configFilePath,
		Args:    []string{"optim=sgd", "optim.momentum=0.9"},
	}
	if err := hypod.Run(train, runOpts, useConfig); err != nil {
		log.Fatalf("❌ Run failed: %v", err)
	}
}

func useConfig(inst *hypod.Instance) error {
	// =========================================================================
	// PART 3: INSPECTION
	// Typed getters walk dotted paths through nested records.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 3: Inspecting the constructed config...")

	steps, _ := inst.Int64("steps")
	momentum, _ := inst.Float64("optim.momentum")
	resolution, _ := inst.Int64("data.resolution")
	batch, _ := inst.Int64("data.batch")

	fmt.Println("   --------------------------------------------------")
	fmt.Printf("     Steps:            %d\n", steps)
	fmt.Printf("     Optim momentum:   %v\n", momentum)
	fmt.Printf("     Data resolution:  %d\n", resolution)
	fmt.Printf("     Data batch:       %d\n", batch)
	fmt.Println("   --------------------------------------------------")

	// =========================================================================
	// PART 4: REPLACE, MAKE AND SCAN
	// Replace re-validates everything; Make builds the declared target.
	// =========================================================================
	log.Println("➡️  PART 4: Replace, Make and Scan...")

	// No _tag in the changes, so the optimizer keeps its runtime type (SGD)
	// and only lr changes; momentum set in PART 2 is carried over.
	tuned, err := inst.Replace(map[string]any{
		"optim": map[string]any{"lr": 0.01},
	})
	if err != nil {
		return err
	}

	optimRec, err := tuned.Record("optim")
	if err != nil {
		return err
	}
	obj, err := optimRec.Make()
	if err != nil {
		return err
	}
	log.Printf("✅ Built optimizer: %+v", obj)

	var settings TrainSettings
	if err := tuned.Scan(&settings); err != nil {
		return err
	}
	log.Printf("✅ Scanned settings: steps=%d ckpt_every=%s", settings.Steps, settings.CkptEvery)

	return nil
}

func newAdam(in *hypod.Instance) (any, error) {
	lr, err := in.Float64("lr")
	if err != nil {
		return nil, err
	}
	beta1, err := in.Float64("beta1")
	if err != nil {
		return nil, err
	}
	beta2, err := in.Float64("beta2")
	if err != nil {
		return nil, err
	}
	return &AdamOptimizer{LR: lr, Beta1: beta1, Beta2: beta2}, nil
}

func newSGD(in *hypod.Instance) (any, error) {
	lr, err := in.Float64("lr")
	if err != nil {
		return nil, err
	}
	momentum, err := in.Float64("momentum")
	if err != nil {
		return nil, err
	}
	return &SGDOptimizer{LR: lr, Momentum: momentum}, nil
}
