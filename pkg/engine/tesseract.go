package engine

import (
	"context"
	"fmt"
	"image"

	"github.com/otiai10/gosseract/v2"

	"github.com/menta2k/script-ocr/pkg/preprocess"
	"github.com/menta2k/script-ocr/pkg/types"
)

// Tesseract runs the local Tesseract backend configured for one
// traineddata language. It expects the normalized (grayscale,
// contrast-boosted) raster as input.
type Tesseract struct {
	id   types.EngineID
	lang string
}

// NewTesseractSinhala returns the adapter for the "sin" traineddata.
func NewTesseractSinhala() *Tesseract {
	return &Tesseract{id: types.EngineTesseractSin, lang: "sin"}
}

// NewTesseractNepali returns the adapter for the "nep" traineddata.
func NewTesseractNepali() *Tesseract {
	return &Tesseract{id: types.EngineTesseractNep, lang: "nep"}
}

// ID returns the engine identifier.
func (t *Tesseract) ID() types.EngineID { return t.id }

// Recognize runs Tesseract over img. A fresh gosseract client per call
// keeps the adapter free of shared mutable state.
func (t *Tesseract) Recognize(ctx context.Context, img image.Image) (string, error) {
	data, err := preprocess.EncodePNG(img)
	if err != nil {
		return "", fmt.Errorf("tesseract %s: %w", t.lang, err)
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("tesseract %s: %w", t.lang, err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.lang); err != nil {
		return "", fmt.Errorf("tesseract %s: set language: %w", t.lang, err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("tesseract %s: set image: %w", t.lang, err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract %s: %w", t.lang, err)
	}
	return text, nil
}
