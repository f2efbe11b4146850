// Package dataset indexes annotated underwater survey footage and serves it
// as tensors for species classification.
//
// The footage is organized into split directories. Each split holds exactly
// one annotation spreadsheet plus the frame files it refers to; a row names
// its frames through the `<rover id>_<image id>` filename prefix, zero-padded
// to two and four digits. See New for how an index is assembled from the
// splits and Item for how examples are served to the model.
package dataset

import (
	"fmt"
	"image"
	"math/rand"
	"slices"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gomlx/gomlx/pkg/core/tensors"
	"k8s.io/klog/v2"

	"github.com/Noofbiz/uwset/transform"
)

// Mode selects how records are assembled from the annotations.
type Mode int

const (
	// ModeTrain balances the classes by oversampling and emits one record
	// per frame file.
	ModeTrain Mode = iota

	// ModeEval emits one record per annotation, carrying all of its frames.
	ModeEval
)

func (m Mode) String() string {
	switch m {
	case ModeTrain:
		return "train"
	case ModeEval:
		return "eval"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Transform converts a decoded frame into a model-ready tensor. It is
// satisfied by *transform.Pipeline.
type Transform interface {
	Apply(img image.Image) (*tensors.Tensor, error)
}

// Record is one retrievable example of the index.
type Record struct {
	// Frames holds the image paths backing this example, lexically sorted.
	// Training records hold exactly one path; eval records hold every frame
	// of their annotation.
	Frames []string

	// Label is the species named by the annotation row.
	Label string

	// OneHot holds the row's per-class 0/1 columns, in class order.
	OneHot []float32
}

// Config assembles a Dataset.
type Config struct {
	// Splits lists the split directories to index.
	Splits []string

	// Classes enumerates the valid species labels, in model output order.
	// Rows annotated with a label outside this list abort the build.
	Classes []string

	// Mode selects training or evaluation record assembly.
	Mode Mode

	// AnnotationGlob matches the spreadsheet inside each split. Defaults
	// to "*.ods". The files are parsed as CSV whatever the extension says;
	// the survey annotations carry an .ods suffix over CSV content.
	AnnotationGlob string

	// Rand drives the oversampling shuffle and seeds the default training
	// pipeline. Defaults to a time-seeded source; inject a fixed seed for
	// a reproducible index.
	Rand *rand.Rand

	// Pipeline transforms decoded frames during retrieval. Defaults to
	// transform.Train or transform.Eval depending on Mode.
	Pipeline Transform
}

// Dataset is an immutable index over annotated frames. Build it with New.
// Retrieval only reads the index, so Item may be called from several
// goroutines at once.
type Dataset struct {
	mode    Mode
	splits  []string
	classes []string
	records []Record
	pipe    Transform
}

// New scans the splits and assembles the full index eagerly.
//
// Every split must contain exactly one annotation spreadsheet (see
// AnnotationFileError). Rows are grouped per class; in ModeTrain every class
// is oversampled up to the size of the largest one and each annotation
// expands into one record per frame file, in ModeEval each annotation
// becomes a single record holding all of its frames. Any validation failure
// aborts with nothing constructed.
func New(cfg Config) (*Dataset, error) {
	if len(cfg.Splits) == 0 {
		return nil, fmt.Errorf("no split directories given")
	}
	if len(cfg.Classes) == 0 {
		return nil, fmt.Errorf("no classes given")
	}
	if cfg.AnnotationGlob == "" {
		cfg.AnnotationGlob = defaultAnnotationGlob
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	var entries []annotation
	for _, split := range cfg.Splits {
		rows, err := readSplit(split, cfg.AnnotationGlob, cfg.Classes)
		if err != nil {
			return nil, err
		}
		entries = append(entries, rows...)
	}

	groups, err := groupByClass(entries, cfg.Classes)
	if err != nil {
		return nil, err
	}

	var records []Record
	switch cfg.Mode {
	case ModeTrain:
		records = oversample(groups, rng)
	case ModeEval:
		records = groupRecords(groups)
	default:
		return nil, fmt.Errorf("unknown mode %v", cfg.Mode)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("splits %v: %w", cfg.Splits, ErrEmptyDataset)
	}

	pipe := cfg.Pipeline
	if pipe == nil {
		if cfg.Mode == ModeTrain {
			pipe = transform.Train(transform.DefaultSize, rng)
		} else {
			pipe = transform.Eval(transform.DefaultSize)
		}
	}

	ds := &Dataset{
		mode:    cfg.Mode,
		splits:  slices.Clone(cfg.Splits),
		classes: slices.Clone(cfg.Classes),
		records: records,
		pipe:    pipe,
	}
	klog.V(1).Infof("indexed dataset:\n%s", ds.Summary())
	return ds, nil
}

// Len returns the number of records in the index.
func (d *Dataset) Len() int { return len(d.records) }

// Mode returns the mode the index was assembled for.
func (d *Dataset) Mode() Mode { return d.mode }

// Classes returns the configured class list.
func (d *Dataset) Classes() []string { return slices.Clone(d.classes) }

// Record returns a copy of the index entry at i without touching the image
// files. The copy's slices are detached, so callers cannot alter the index
// through it.
func (d *Dataset) Record(i int) (Record, error) {
	if i < 0 || i >= len(d.records) {
		return Record{}, fmt.Errorf("%w: index %d outside [0, %d)", ErrIndexOutOfRange, i, len(d.records))
	}
	rec := d.records[i]
	rec.Frames = slices.Clone(rec.Frames)
	rec.OneHot = slices.Clone(rec.OneHot)
	return rec, nil
}

// Item decodes, transforms and returns the example at index, along with the
// label's position in the configured class list.
//
// In ModeTrain the tensor holds the record's single frame, shaped
// [size, size, 3]. In ModeEval every frame of the annotation is transformed
// and stacked in order into [frames, size, size, 3]. Unreadable frames
// surface as a *DecodeError for this item only; the index is never mutated.
func (d *Dataset) Item(index int) (*tensors.Tensor, int32, error) {
	if index < 0 || index >= len(d.records) {
		return nil, 0, fmt.Errorf("%w: index %d outside [0, %d)", ErrIndexOutOfRange, index, len(d.records))
	}
	rec := d.records[index]

	labelIdx := slices.Index(d.classes, rec.Label)
	if labelIdx < 0 {
		return nil, 0, fmt.Errorf("%w: %q", ErrLabelNotFound, rec.Label)
	}

	if d.mode == ModeTrain {
		t, err := d.loadFrame(rec.Frames[0])
		if err != nil {
			return nil, 0, err
		}
		return t, int32(labelIdx), nil
	}

	if len(rec.Frames) == 0 {
		return nil, 0, fmt.Errorf("annotation at index %d has no frames on disk", index)
	}
	frames := make([]*tensors.Tensor, 0, len(rec.Frames))
	for _, path := range rec.Frames {
		t, err := d.loadFrame(path)
		if err != nil {
			return nil, 0, err
		}
		frames = append(frames, t)
	}
	stacked, err := transform.Stack(frames)
	if err != nil {
		return nil, 0, err
	}
	return stacked, int32(labelIdx), nil
}

// loadFrame decodes one frame and runs it through the pipeline.
func (d *Dataset) loadFrame(path string) (*tensors.Tensor, error) {
	img, err := decodeFrame(path)
	if err != nil {
		return nil, err
	}
	t, err := d.pipe.Apply(img)
	if err != nil {
		return nil, fmt.Errorf("failed to transform %s: %w", path, err)
	}
	return t, nil
}

// decodeFrame loads an image file with pixels in standard RGB layout.
func decodeFrame(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return img, nil
}
