package detect

import (
	"context"
	"errors"
	"image"
	"math/rand/v2"
)

// Materials the mock detector picks from.
var mockMaterials = []string{"graphene", "hBN", "MoS2", "WS2"}

// ErrImageTooSmall is returned when an image has no room for a bounding box.
var ErrImageTooSmall = errors.New("detect: image too small")

// MockDetector produces random but well-formed detections. It stands in
// for the real model in development and tests.
type MockDetector struct {
	rng *rand.Rand
}

// NewMockDetector creates a mock detector with its own random source.
func NewMockDetector() *MockDetector {
	return &MockDetector{
		rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// NewSeededMockDetector creates a deterministic mock detector for tests.
func NewSeededMockDetector(seed uint64) *MockDetector {
	return &MockDetector{rng: rand.New(rand.NewPCG(seed, seed))}
}

// Detect returns between 1 and 5 random flakes with bounding boxes
// inside the image, confidences in [0.70, 0.95) and a random material.
func (d *MockDetector) Detect(ctx context.Context, img image.Image) (*Result, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width < 2 || height < 2 {
		return nil, ErrImageTooSmall
	}

	numFlakes := 1 + d.rng.IntN(5)
	flakes := make([]Flake, 0, numFlakes)

	for range numFlakes {
		// Box edge between 50 and 100 px, clamped to the image.
		w := clamp(50+d.rng.IntN(51), 1, width-1)
		h := clamp(50+d.rng.IntN(51), 1, height-1)
		x1 := d.rng.IntN(width - w)
		y1 := d.rng.IntN(height - h)
		x2 := x1 + w
		y2 := y1 + h

		flakes = append(flakes, Flake{
			BBox:         [4]int{x1, y1, x2, y2},
			Confidence:   0.70 + d.rng.Float64()*0.25,
			Area:         w * h,
			MaterialType: mockMaterials[d.rng.IntN(len(mockMaterials))],
		})
	}

	return &Result{
		Flakes:          flakes,
		TotalFlakes:     len(flakes),
		ImageDimensions: [2]int{width, height},
	}, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Ensure MockDetector implements Detector.
var _ Detector = (*MockDetector)(nil)
