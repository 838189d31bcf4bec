// Package detect defines the flake-detection capability used by the
// maskterial service. The detector is an opaque capability: its output
// is used to build responses and annotations but never re-validated.
package detect

import (
	"context"
	"image"
)

// Flake is one detected 2D-material region.
type Flake struct {
	BBox         [4]int  `json:"bbox"` // x1, y1, x2, y2 in pixel coordinates
	Confidence   float64 `json:"confidence"`
	Area         int     `json:"area"`
	MaterialType string  `json:"material_type"`
}

// Result is a full detection pass over one image.
type Result struct {
	Flakes          []Flake `json:"flakes"`
	TotalFlakes     int     `json:"total_flakes"`
	ImageDimensions [2]int  `json:"image_dimensions"` // width, height
}

// Detector runs flake detection on a decoded image. Implementations are
// selected by explicit configuration, never by runtime introspection.
type Detector interface {
	Detect(ctx context.Context, img image.Image) (*Result, error)
}
