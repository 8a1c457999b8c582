// Package imaging bounds user-supplied images before they travel to the
// oracle: decode, downscale to a maximum edge, re-encode at a fixed quality.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	"go.uber.org/zap"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/mikey/ecosort/internal/core"
)

// NormalizedImage is a transport-safe, bounded re-encoding of an input image
type NormalizedImage struct {
	Data     []byte
	MimeType string
	Width    int
	Height   int
}

// Normalizer re-encodes images so the longer edge never exceeds a fixed
// pixel dimension. It performs no classification logic.
type Normalizer struct {
	maxDimension int
	jpegQuality  int
	logger       *zap.Logger
}

// NewNormalizer creates a new image normalizer
func NewNormalizer(maxDimension int, jpegQuality int, logger *zap.Logger) *Normalizer {
	return &Normalizer{
		maxDimension: maxDimension,
		jpegQuality:  jpegQuality,
		logger:       logger,
	}
}

// Normalize decodes a raw image blob, downscales it if needed (never
// upscales, aspect ratio preserved) and re-encodes it as JPEG
func (n *Normalizer) Normalize(blob []byte) (*NormalizedImage, error) {
	src, format, err := image.Decode(bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrDecode, err)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	targetW, targetH := fitWithin(w, h, n.maxDimension)
	if targetW != w || targetH != h {
		dst := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		src = dst

		n.logger.Debug("Image downscaled",
			zap.String("format", format),
			zap.Int("original_width", w),
			zap.Int("original_height", h),
			zap.Int("width", targetW),
			zap.Int("height", targetH))
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: n.jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &NormalizedImage{
		Data:     buf.Bytes(),
		MimeType: "image/jpeg",
		Width:    targetW,
		Height:   targetH,
	}, nil
}

// fitWithin scales (w, h) down so the longer edge is at most max,
// preserving aspect ratio. Dimensions already within bounds pass through.
func fitWithin(w, h, max int) (int, int) {
	if max <= 0 || (w <= max && h <= max) {
		return w, h
	}

	ratio := float64(max) / float64(w)
	if h > w {
		ratio = float64(max) / float64(h)
	}

	scaledW := int(float64(w)*ratio + 0.5)
	scaledH := int(float64(h)*ratio + 0.5)
	if scaledW < 1 {
		scaledW = 1
	}
	if scaledH < 1 {
		scaledH = 1
	}
	return scaledW, scaledH
}
