package photo

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImagePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestReencodeProducesJPEG(t *testing.T) {
	enc := NewEncoder(DefaultQuality)

	out, err := enc.Reencode(testImagePNG(t))
	require.NoError(t, err)
	require.NotEmpty(t, out)

	decoded, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 8), decoded.Bounds())
}

func TestReencodeRejectsGarbage(t *testing.T) {
	enc := NewEncoder(DefaultQuality)
	_, err := enc.Reencode([]byte("not an image"))
	assert.Error(t, err)
}

func TestNewEncoderClampsQuality(t *testing.T) {
	out, err := NewEncoder(-5).Reencode(testImagePNG(t))
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
