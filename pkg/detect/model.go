package detect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"os/exec"
	"path/filepath"
)

// ModelDetector runs the external MaskTerial inference command against
// a temp image file and parses its JSON output. The command and model
// weight path come from explicit configuration.
type ModelDetector struct {
	command   string // inference binary, e.g. "maskterial"
	modelPath string // directory holding model weights
}

// NewModelDetector creates a detector backed by an external inference
// command.
func NewModelDetector(command, modelPath string) *ModelDetector {
	return &ModelDetector{command: command, modelPath: modelPath}
}

// Detect encodes the image into a temp file, invokes the inference
// command and decodes its JSON result from stdout.
func (d *ModelDetector) Detect(ctx context.Context, img image.Image) (*Result, error) {
	tmpDir, err := os.MkdirTemp("", "maskterial-*")
	if err != nil {
		return nil, fmt.Errorf("detect: temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	imagePath := filepath.Join(tmpDir, "input.jpg")
	f, err := os.Create(imagePath)
	if err != nil {
		return nil, fmt.Errorf("detect: temp image: %w", err)
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 95}); err != nil {
		f.Close()
		return nil, fmt.Errorf("detect: encode image: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("detect: close temp image: %w", err)
	}

	cmd := exec.CommandContext(ctx, d.command,
		"--model-path", d.modelPath,
		"--image", imagePath,
		"--format", "json",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("detect: inference failed: %v: %s", err, stderr.String())
		}
		return nil, fmt.Errorf("detect: inference failed: %w", err)
	}

	var result Result
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		return nil, fmt.Errorf("detect: parse inference output: %w", err)
	}

	// The model reports per-flake data; derive the totals it may omit.
	if result.TotalFlakes == 0 {
		result.TotalFlakes = len(result.Flakes)
	}
	if result.ImageDimensions == [2]int{} {
		b := img.Bounds()
		result.ImageDimensions = [2]int{b.Dx(), b.Dy()}
	}

	return &result, nil
}

// Ensure ModelDetector implements Detector.
var _ Detector = (*ModelDetector)(nil)
