package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/Noofbiz/uwset/config"
	"github.com/Noofbiz/uwset/dataset"
	"github.com/Noofbiz/uwset/transform"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"k8s.io/klog/v2"
)

func main() {
	configPath := flag.String("config", "config.yml", "path to the YAML configuration file")
	modeFlag := flag.String("mode", "train", "which dataset to build: 'train' or 'eval'")
	splitsFlag := flag.String("splits", "", "comma-separated split names overriding the config")
	seedFlag := flag.Int64("seed", 0, "random seed (0 uses the config seed, then the clock)")
	sampleFlag := flag.Int("sample", -1, "if >= 0, fetch this item and print its tensor shape and label")
	verifyFlag := flag.Bool("verify", false, "decode every frame referenced by the dataset and report failures")
	plotFlag := flag.String("plot", "", "if set, write a per-class record count bar chart PNG to this path")
	klog.InitFlags(nil)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var mode dataset.Mode
	var splits []string
	switch *modeFlag {
	case "train":
		mode = dataset.ModeTrain
		splits = cfg.TrainSplits
	case "eval":
		mode = dataset.ModeEval
		splits = cfg.EvalSplits
	default:
		log.Fatalf("unknown mode %q, want 'train' or 'eval'", *modeFlag)
	}
	if *splitsFlag != "" {
		splits = strings.Split(*splitsFlag, ",")
	}
	if len(splits) == 0 {
		log.Fatalf("no %s splits configured", *modeFlag)
	}

	seed := *seedFlag
	if seed == 0 {
		seed = cfg.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	var pipe dataset.Transform
	if mode == dataset.ModeTrain {
		pipe = transform.Train(cfg.ImageSize, rng)
	} else {
		pipe = transform.Eval(cfg.ImageSize)
	}

	ds, err := dataset.New(dataset.Config{
		Splits:         cfg.SplitDirs(splits),
		Classes:        cfg.Species,
		Mode:           mode,
		AnnotationGlob: cfg.AnnotationGlob,
		Rand:           rng,
		Pipeline:       pipe,
	})
	if err != nil {
		log.Fatalf("failed to build dataset: %v", err)
	}
	fmt.Println(ds.Summary())

	if *verifyFlag {
		if err := ds.VerifyFrames(true); err != nil {
			log.Fatalf("frame verification failed: %v", err)
		}
		fmt.Println("all frames decoded cleanly")
	}

	if *sampleFlag >= 0 {
		input, label, err := ds.Item(*sampleFlag)
		if err != nil {
			log.Fatalf("failed to fetch item %d: %v", *sampleFlag, err)
		}
		rec, err := ds.Record(*sampleFlag)
		if err != nil {
			log.Fatalf("failed to fetch record %d: %v", *sampleFlag, err)
		}
		fmt.Printf("item %d: shape=%s class=%s (index %d), %d frame(s)\n",
			*sampleFlag, input.Shape(), ds.Classes()[label], label, len(rec.Frames))
	}

	if *plotFlag != "" {
		if err := plotCounts(ds.Summary(), *plotFlag); err != nil {
			log.Fatalf("failed to generate plot: %v", err)
		}
		fmt.Printf("wrote class distribution plot to %s\n", *plotFlag)
	}
}

// plotCounts writes a PNG bar chart of per-class record counts.
func plotCounts(s dataset.Summary, outPath string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Records per class (%s)", s.Mode)
	p.Y.Label.Text = "records"

	values := make(plotter.Values, len(s.Counts))
	labels := make([]string, len(s.Counts))
	for i, c := range s.Counts {
		values[i] = float64(c.Count)
		labels[i] = c.Label
	}

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return err
	}
	bars.Color = color.RGBA{R: 20, G: 80, B: 200, A: 220}
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(labels...)

	return p.Save(8*vg.Inch, 6*vg.Inch, outPath)
}
