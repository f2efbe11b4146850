package transform

import (
	"image"
	"image/color"
	"math"
	"math/rand"

	"github.com/disintegration/imaging"
)

// An Op is one augmentation step. Ops draw every random parameter from the
// rng passed in, so a seeded pipeline replays the same sequence of images.
type Op func(rng *rand.Rand, img image.Image) image.Image

// Maybe runs op with probability p and otherwise returns the image unchanged.
func Maybe(p float64, op Op) Op {
	return func(rng *rand.Rand, img image.Image) image.Image {
		if rng.Float64() >= p {
			return img
		}
		return op(rng, img)
	}
}

// GaussNoise adds zero-mean gaussian noise to each color channel. stdDev is
// expressed as a fraction of the full pixel range.
func GaussNoise(stdDev float64) Op {
	return func(rng *rand.Rand, img image.Image) image.Image {
		out := imaging.Clone(img)
		scale := stdDev * 255
		for i := 0; i+3 < len(out.Pix); i += 4 {
			for c := range 3 {
				out.Pix[i+c] = clampUint8(float64(out.Pix[i+c]) + rng.NormFloat64()*scale)
			}
		}
		return out
	}
}

// Blur applies a gaussian blur with sigma drawn uniformly up to maxSigma.
func Blur(maxSigma float64) Op {
	return func(rng *rand.Rand, img image.Image) image.Image {
		sigma := rng.Float64() * maxSigma
		if sigma <= 0 {
			return img
		}
		return imaging.Blur(img, sigma)
	}
}

// ShiftScaleRotate jitters the image geometry: rotation up to rotateLimit
// degrees either way, scaling within scaleLimit of 1, and translation up to
// shiftLimit of the image size. The canvas keeps its original dimensions;
// uncovered regions are filled with black.
func ShiftScaleRotate(shiftLimit, scaleLimit, rotateLimit float64) Op {
	return func(rng *rand.Rand, img image.Image) image.Image {
		bounds := img.Bounds()
		w, h := bounds.Dx(), bounds.Dy()
		if w == 0 || h == 0 {
			return img
		}

		// Rotate expands the canvas to fit; crop back to the source size.
		angle := uniform(rng, rotateLimit)
		img = imaging.Rotate(img, angle, color.RGBA{R: 0, G: 0, B: 0, A: 255})
		img = imaging.CropCenter(img, w, h)

		scale := 1 + uniform(rng, scaleLimit)
		sw := max(1, int(math.Round(float64(w)*scale)))
		sh := max(1, int(math.Round(float64(h)*scale)))
		img = imaging.Resize(img, sw, sh, imaging.Linear)
		if scale >= 1 {
			img = imaging.CropCenter(img, w, h)
		} else {
			img = imaging.PasteCenter(imaging.New(w, h, color.Black), img)
		}

		dx := int(math.Round(uniform(rng, shiftLimit) * float64(w)))
		dy := int(math.Round(uniform(rng, shiftLimit) * float64(h)))
		if dx != 0 || dy != 0 {
			img = imaging.Paste(imaging.New(w, h, color.Black), img, image.Pt(dx, dy))
		}
		return img
	}
}

// BrightnessContrast adjusts either brightness or contrast (coin flip) by a
// percentage drawn within limit of zero.
func BrightnessContrast(limit float64) Op {
	return func(rng *rand.Rand, img image.Image) image.Image {
		amount := uniform(rng, limit) * 100
		if rng.Intn(2) == 0 {
			return imaging.AdjustBrightness(img, amount)
		}
		return imaging.AdjustContrast(img, amount)
	}
}

// uniform draws from [-limit, limit).
func uniform(rng *rand.Rand, limit float64) float64 {
	return (rng.Float64()*2 - 1) * limit
}

func clampUint8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
