package imageopt

import (
	"bytes"
	"fmt"
	"image"
	"path"

	"github.com/disintegration/imaging"
)

const jpegQuality = 85

// Optimizer downsizes images whose longest side exceeds a bound.
type Optimizer struct {
	maxDim int
}

// NewOptimizer returns an Optimizer bounded to maxDim pixels.
func NewOptimizer(maxDim int) *Optimizer {
	return &Optimizer{maxDim: maxDim}
}

// Optimize returns data resized to fit the bound, encoded in the format implied by
// filename. Images already within bounds are returned unchanged. Formats that cannot
// be decoded or encoded produce an error and the caller keeps the original bytes.
func (o *Optimizer) Optimize(data []byte, filename string) ([]byte, error) {
	format, err := imaging.FormatFromFilename(filename)
	if err != nil {
		return nil, fmt.Errorf("unsupported image format %s: %w", path.Ext(filename), err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if cfg.Width <= o.maxDim && cfg.Height <= o.maxDim {
		return data, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	resized := imaging.Fit(img, o.maxDim, o.maxDim, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
