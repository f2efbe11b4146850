package transform

import (
	"fmt"
	"image"
	"math/rand"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gomlx/gomlx/pkg/core/shapes"
	"github.com/gomlx/gomlx/pkg/core/tensors"
	timage "github.com/gomlx/gomlx/pkg/core/tensors/images"
	"github.com/gomlx/gopjrt/dtypes"
)

// This package converts decoded survey frames into the float32 tensors the
// model consumes. A Pipeline runs optional augmentation ops, resizes to a
// fixed square, scales pixels into [0, 1] and normalizes per channel with
// statistics measured over the training footage.

// DefaultSize is the square side length frames are resized to.
const DefaultSize = 224

// Channel statistics of the pooled training frames, used for normalization.
var (
	DefaultMean = [3]float32{0.4493, 0.5078, 0.4237}
	DefaultStd  = [3]float32{0.1263, 0.1265, 0.1169}
)

// Pipeline turns an image into a normalized [size, size, 3] float32 tensor.
// Augmentation ops run first (training only), then resize, then normalize.
//
// Random draws for the ops go through a single rand.Rand guarded by a mutex,
// so one Pipeline can be shared by parallel loader goroutines.
type Pipeline struct {
	// Size is the output side length in pixels.
	Size int

	// Mean and Std are per-channel normalization statistics applied after
	// pixels are scaled into [0, 1].
	Mean [3]float32
	Std  [3]float32

	ops []Op

	mu  sync.Mutex
	rng *rand.Rand
}

// Train builds the stochastic pipeline used for training. It mirrors the
// augmentation recipe the classifier was tuned with: gaussian noise, blur,
// a small shift/scale/rotate jitter and a brightness or contrast adjustment,
// each applied with its own probability. A nil rng gets a time-based seed.
func Train(size int, rng *rand.Rand) *Pipeline {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Pipeline{
		Size: size,
		Mean: DefaultMean,
		Std:  DefaultStd,
		rng:  rng,
		ops: []Op{
			Maybe(0.2, GaussNoise(0.03)),
			Maybe(0.2, Blur(1.5)),
			Maybe(0.3, ShiftScaleRotate(0.025, 0.1, 10)),
			Maybe(0.2, BrightnessContrast(0.2)),
		},
	}
}

// Eval builds the deterministic pipeline used for evaluation: resize and
// normalize only.
func Eval(size int) *Pipeline {
	return &Pipeline{
		Size: size,
		Mean: DefaultMean,
		Std:  DefaultStd,
	}
}

// WithOps replaces the augmentation ops and returns the pipeline, for callers
// that want a custom recipe. A pipeline built without a random source gets a
// time-seeded one.
func (p *Pipeline) WithOps(ops ...Op) *Pipeline {
	p.ops = ops
	if p.rng == nil {
		p.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return p
}

// Apply runs the pipeline on a single decoded image and returns a
// [Size, Size, 3] float32 tensor.
func (p *Pipeline) Apply(img image.Image) (*tensors.Tensor, error) {
	if img == nil {
		return nil, fmt.Errorf("cannot transform a nil image")
	}
	if p.Size <= 0 {
		return nil, fmt.Errorf("invalid pipeline size %d", p.Size)
	}

	if len(p.ops) > 0 {
		p.mu.Lock()
		for _, op := range p.ops {
			img = op(p.rng, img)
		}
		p.mu.Unlock()
	}

	img = imaging.Resize(img, p.Size, p.Size, imaging.Linear)

	t := timage.ToTensor(dtypes.Float32).Single(img)
	p.normalize(t)
	return t, nil
}

// normalize shifts and scales the tensor values channel-wise, in place.
// The tensor layout is [H, W, C] so the channel is the flat index mod 3.
func (p *Pipeline) normalize(t *tensors.Tensor) {
	tensors.MutableFlatData[float32](t, func(flat []float32) {
		for i := range flat {
			c := i % 3
			flat[i] = (flat[i] - p.Mean[c]) / p.Std[c]
		}
	})
}

// Stack packs same-shaped frame tensors into one [N, H, W, C] tensor,
// preserving order.
func Stack(frames []*tensors.Tensor) (*tensors.Tensor, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames to stack")
	}
	first := frames[0].Shape()
	if first.DType != dtypes.Float32 {
		return nil, fmt.Errorf("can only stack float32 frames, got %s", first.DType)
	}
	for i, f := range frames[1:] {
		if !f.Shape().Equal(first) {
			return nil, fmt.Errorf("frame %d has shape %s, want %s", i+1, f.Shape(), first)
		}
	}

	dims := append([]int{len(frames)}, first.Dimensions...)
	out := tensors.FromShape(shapes.Make(first.DType, dims...))
	frameSize := first.Size()
	tensors.MutableFlatData[float32](out, func(flat []float32) {
		for i, f := range frames {
			tensors.ConstFlatData[float32](f, func(src []float32) {
				copy(flat[i*frameSize:(i+1)*frameSize], src)
			})
		}
	})
	return out, nil
}
