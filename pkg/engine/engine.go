// Package engine holds the OCR backend adapters. Each adapter wraps
// one backend invocation; fault isolation between adapters happens at
// the call site in the extractor, so implementations here just return
// errors.
package engine

import (
	"context"
	"image"

	"github.com/menta2k/script-ocr/pkg/types"
)

// Engine is a single OCR backend. Implementations must be safe for
// concurrent use by simultaneous requests: any process-level handles
// are set at construction and read-only afterwards.
type Engine interface {
	ID() types.EngineID
	Recognize(ctx context.Context, img image.Image) (string, error)
}

// Backend is a vision-capable chat client. Both the Ollama and
// llama.cpp clients satisfy it; image may be nil for text-only queries.
type Backend interface {
	SimpleQuery(ctx context.Context, model, prompt string, image []byte) (string, error)
}
