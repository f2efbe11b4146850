package main

// Example command that demonstrates indexing annotated survey footage and
// pulling decoded items through the transform pipeline.
//
// Usage:
//   go run ./example
//
// It expects a config.yml in the working directory naming the data directory,
// the split subdirectories and the species list. If the config or the
// annotation spreadsheets are missing the example prints an error and exits.

import (
	"fmt"
	"io"
	"log"
	"math/rand"

	"github.com/Noofbiz/uwset/config"
	"github.com/Noofbiz/uwset/dataset"
	"github.com/Noofbiz/uwset/transform"
)

func main() {
	cfg, err := config.Load("config.yml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Prefer the eval splits; they index one record per annotation, which is
	// the easiest view of the data to read.
	splits := cfg.EvalSplits
	if len(splits) == 0 {
		splits = cfg.TrainSplits
	}
	ds, err := dataset.New(dataset.Config{
		Splits:         cfg.SplitDirs(splits),
		Classes:        cfg.Species,
		Mode:           dataset.ModeEval,
		AnnotationGlob: cfg.AnnotationGlob,
		Pipeline:       transform.Eval(cfg.ImageSize),
	})
	if err != nil {
		log.Fatalf("failed to build dataset: %v", err)
	}
	fmt.Println(ds.Summary())
	fmt.Println()

	// Fetch the first few items directly by index.
	n := min(3, ds.Len())
	fmt.Printf("Loading %d items...\n", n)
	for i := range n {
		input, label, err := ds.Item(i)
		if err != nil {
			log.Fatalf("failed to fetch item %d: %v", i, err)
		}
		fmt.Printf("  item %d: shape=%s class=%s\n", i, input.Shape(), ds.Classes()[label])
	}

	fmt.Println()

	// Drain a few yields the way a training loop would.
	it := dataset.NewIterator(ds, rand.New(rand.NewSource(1)))
	for i := range n {
		_, inputs, labels, err := it.Yield()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("iterator failed: %v", err)
		}
		fmt.Printf("  yield %d: input=%s label=%s\n", i, inputs[0].Shape(), labels[0].Shape())
	}

	fmt.Println("\nExample completed successfully!")
}
