// Package photo re-encodes captured images into fixed-quality JPEGs before
// they are attached to hunt items.
package photo

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"
)

// DefaultQuality is the fixed JPEG quality factor for stored photos
// (jpeg quality scale 1-100; 70 ~ the 0.7 lossy factor).
const DefaultQuality = 70

// Encoder re-encodes arbitrary captured images (JPEG, PNG, GIF) into lossy
// JPEG at a fixed quality.
type Encoder struct {
	quality int
}

// NewEncoder creates an encoder with the given JPEG quality. Values outside
// 1-100 fall back to DefaultQuality.
func NewEncoder(quality int) *Encoder {
	if quality < 1 || quality > 100 {
		quality = DefaultQuality
	}
	return &Encoder{quality: quality}
}

// Reencode decodes the captured image and encodes it as JPEG at the fixed
// quality. The input format only needs a registered stdlib decoder.
func (e *Encoder) Reencode(data []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode captured image: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: e.quality}); err != nil {
		return nil, fmt.Errorf("encode %s as jpeg: %w", format, err)
	}
	return buf.Bytes(), nil
}
