// Package annotate renders detection overlays onto customer images.
package annotate

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/matsight/matsight/pkg/detect"
)

var boxColor = color.RGBA{R: 0, G: 255, B: 0, A: 255}

const (
	strokeWidth = 2
	jpegQuality = 90
)

// Annotate draws each flake's bounding box and a "{material}: {conf}"
// label onto a copy of the image and returns the JPEG-encoded result.
// The input image is never modified.
func Annotate(img image.Image, result *detect.Result) ([]byte, error) {
	bounds := img.Bounds()
	canvas := image.NewRGBA(bounds)
	draw.Draw(canvas, bounds, img, bounds.Min, draw.Src)

	for _, flake := range result.Flakes {
		x1, y1, x2, y2 := flake.BBox[0], flake.BBox[1], flake.BBox[2], flake.BBox[3]
		drawRect(canvas, x1, y1, x2, y2)

		label := fmt.Sprintf("%s: %.2f", flake.MaterialType, flake.Confidence)
		drawLabel(canvas, x1, y1-4, label)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("annotate: encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// drawRect strokes a rectangle outline with the box color.
func drawRect(canvas *image.RGBA, x1, y1, x2, y2 int) {
	top := image.Rect(x1, y1, x2, y1+strokeWidth)
	bottom := image.Rect(x1, y2-strokeWidth, x2, y2)
	left := image.Rect(x1, y1, x1+strokeWidth, y2)
	right := image.Rect(x2-strokeWidth, y1, x2, y2)

	src := image.NewUniform(boxColor)
	for _, edge := range []image.Rectangle{top, bottom, left, right} {
		draw.Draw(canvas, edge.Intersect(canvas.Bounds()), src, image.Point{}, draw.Src)
	}
}

// drawLabel renders text with its baseline at (x, y), clamped so a box
// at the image edge still gets a visible label.
func drawLabel(canvas *image.RGBA, x, y int, label string) {
	face := basicfont.Face7x13
	if y < face.Ascent {
		y = face.Ascent
	}

	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(boxColor),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(label)
}
