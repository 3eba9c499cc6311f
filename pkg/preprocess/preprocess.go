// Package preprocess decodes uploaded image bytes and produces the
// canonical raster the Tesseract adapters consume: flattened to three
// channels, upscaled to a minimum width, grayscaled and
// contrast-boosted.
package preprocess

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrDecode reports input bytes that cannot be interpreted as an image.
var ErrDecode = errors.New("undecodable image data")

const (
	// DefaultMinWidth is the width every image is upscaled to before
	// Tesseract sees it. Small scans OCR noticeably worse.
	DefaultMinWidth = 1600
	// DefaultContrast is the fixed contrast boost (in percent) applied
	// after grayscale conversion. A constant, not derived per image.
	DefaultContrast = 30.0
)

// Decode turns uploaded bytes into an image. Formats registered with
// the standard decoder are tried first, then the chai2010 WebP decoder
// which handles variants x/image/webp rejects. Undecodable input fails
// with ErrDecode rather than degrading to a blank raster.
func Decode(data []byte) (image.Image, error) {
	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	return nil, ErrDecode
}

// Normalize converts img into the read-only form used as Tesseract
// input. Steps, in order: flatten to NRGBA (grayscale, paletted and
// alpha inputs all take the same path), upscale with Lanczos so the
// width is at least minWidth (never downscale), grayscale, then apply
// the fixed contrast boost. Zero or negative arguments fall back to
// the package defaults.
func Normalize(img image.Image, minWidth int, contrast float64) *image.NRGBA {
	if minWidth <= 0 {
		minWidth = DefaultMinWidth
	}
	if contrast <= 0 {
		contrast = DefaultContrast
	}

	flat := imaging.Clone(img)
	if flat.Bounds().Dx() < minWidth {
		// Height 0 preserves aspect ratio.
		flat = imaging.Resize(flat, minWidth, 0, imaging.Lanczos)
	}
	gray := imaging.Grayscale(flat)
	return imaging.AdjustContrast(gray, contrast)
}

// EncodePNG renders img to PNG bytes for backends that consume encoded
// image data (Tesseract, vision models).
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
