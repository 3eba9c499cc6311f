package engine

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/menta2k/script-ocr/pkg/preprocess"
	"github.com/menta2k/script-ocr/pkg/types"
)

// TranscribePrompt asks the model for the visible text and nothing else.
const TranscribePrompt = `Read all text visible in this image.
The text is written in Devanagari script (Nepali).
Return only the transcribed text, one line per detected region, in reading order.
No commentary, no translation, no markdown.`

// Vision is the Devanagari-oriented engine: a vision model transcribes
// the image. It receives the original raster, not the normalized one,
// since the model applies its own internal preprocessing.
type Vision struct {
	backend Backend
	model   string
}

// NewVision wires a vision backend and model name into an Engine.
func NewVision(backend Backend, model string) *Vision {
	return &Vision{backend: backend, model: model}
}

// ID returns the engine identifier.
func (v *Vision) ID() types.EngineID { return types.EngineVision }

// Recognize transcribes img. Multi-line and multi-region detections
// come back one per line and are joined into a single
// whitespace-separated string, preserving detection order.
func (v *Vision) Recognize(ctx context.Context, img image.Image) (string, error) {
	data, err := preprocess.EncodePNG(img)
	if err != nil {
		return "", fmt.Errorf("vision engine: %w", err)
	}

	raw, err := v.backend.SimpleQuery(ctx, v.model, TranscribePrompt, data)
	if err != nil {
		return "", fmt.Errorf("vision engine: %w", err)
	}
	return strings.Join(strings.Fields(raw), " "), nil
}
