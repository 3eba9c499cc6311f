// Package translate forwards extracted text to a chat backend for
// translation. This is a pass-through: the backend owns translation
// quality, this package only picks the source-language hint.
package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/menta2k/script-ocr/pkg/engine"
	"github.com/menta2k/script-ocr/pkg/script"
)

// Translator renders text into a destination language via a chat model.
type Translator struct {
	backend engine.Backend
	model   string
}

// New wires a backend and model name into a Translator.
func New(backend engine.Backend, model string) *Translator {
	return &Translator{backend: backend, model: model}
}

// DetectSource mirrors the extraction heuristic: any Devanagari
// character marks the text Nepali, any Sinhala character Sinhala,
// otherwise the backend is left to auto-detect.
func DetectSource(text string) string {
	if script.CountDevanagari(text) > 0 {
		return "ne"
	}
	if script.CountSinhala(text) > 0 {
		return "si"
	}
	return "auto"
}

// Translate renders text into dest (a language code such as "en").
func (t *Translator) Translate(ctx context.Context, text, dest string) (string, error) {
	out, err := t.backend.SimpleQuery(ctx, t.model, buildPrompt(text, DetectSource(text), dest), nil)
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func buildPrompt(text, src, dest string) string {
	var b strings.Builder
	if src == "auto" {
		fmt.Fprintf(&b, "Translate the following text to %s.\n", dest)
	} else {
		fmt.Fprintf(&b, "Translate the following text from %s to %s.\n", src, dest)
	}
	b.WriteString("Return only the translation, no commentary.\n\n")
	b.WriteString(text)
	return b.String()
}
