package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/ecosort/internal/core"
)

func pngBlob(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalizeDownscalesLongEdge(t *testing.T) {
	n := NewNormalizer(64, 85, zap.NewNop())

	out, err := n.Normalize(pngBlob(t, 200, 100))
	require.NoError(t, err)

	assert.Equal(t, 64, out.Width)
	assert.Equal(t, 32, out.Height)
	assert.Equal(t, "image/jpeg", out.MimeType)
}

func TestNormalizeTallImage(t *testing.T) {
	n := NewNormalizer(64, 85, zap.NewNop())

	out, err := n.Normalize(pngBlob(t, 50, 200))
	require.NoError(t, err)

	assert.Equal(t, 16, out.Width)
	assert.Equal(t, 64, out.Height)
}

func TestNormalizeNeverUpscales(t *testing.T) {
	n := NewNormalizer(640, 85, zap.NewNop())

	out, err := n.Normalize(pngBlob(t, 30, 20))
	require.NoError(t, err)

	assert.Equal(t, 30, out.Width)
	assert.Equal(t, 20, out.Height)
}

func TestNormalizeOutputIsDecodable(t *testing.T) {
	n := NewNormalizer(64, 85, zap.NewNop())

	out, err := n.Normalize(pngBlob(t, 200, 150))
	require.NoError(t, err)

	decoded, format, err := image.Decode(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, out.Width, decoded.Bounds().Dx())
	assert.Equal(t, out.Height, decoded.Bounds().Dy())
}

func TestNormalizeUndecodableInput(t *testing.T) {
	n := NewNormalizer(64, 85, zap.NewNop())

	_, err := n.Normalize([]byte("definitely not an image"))
	require.ErrorIs(t, err, core.ErrDecode)
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		w, h, max    int
		wantW, wantH int
	}{
		{1280, 960, 640, 640, 480},
		{960, 1280, 640, 480, 640},
		{640, 640, 640, 640, 640},
		{100, 50, 640, 100, 50},
		{10000, 1, 640, 640, 1},
	}
	for _, tt := range tests {
		gotW, gotH := fitWithin(tt.w, tt.h, tt.max)
		assert.Equal(t, tt.wantW, gotW)
		assert.Equal(t, tt.wantH, gotH)
	}
}
