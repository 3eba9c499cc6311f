// Package scriptocr extracts machine-readable text from images written
// in either Devanagari (Nepali) or Sinhala script.
//
// No single OCR backend handles both scripts reliably, so the extractor
// runs three of them — a vision-model engine oriented toward Devanagari
// plus two Tesseract invocations configured for Nepali and Sinhala —
// and picks the output with the strongest script-specific character
// evidence. The two Unicode blocks are disjoint, which makes raw
// character counts a cheap and reliable discriminator.
//
// Basic usage:
//
//	backend, err := ollama.NewClient("http://localhost:11434")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ex := scriptocr.New(backend, "llama3.2-vision")
//	res, err := ex.Extract(context.Background(), imageBytes)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(res.Text, res.Language, res.Engine)
//
// Engines are treated as untrusted plugins: a failing backend collapses
// to an empty candidate plus a diagnostics entry and never aborts the
// other engines or the request. Only an undecodable image fails an
// extraction. An empty Text on a nil error means every engine came back
// empty; callers treat that as the no-result signal.
package scriptocr

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/menta2k/script-ocr/pkg/engine"
	"github.com/menta2k/script-ocr/pkg/preprocess"
	"github.com/menta2k/script-ocr/pkg/selector"
	"github.com/menta2k/script-ocr/pkg/types"
)

// Version of the script-ocr library
const Version = "1.0.0"

// Extractor runs the hybrid OCR pipeline. All fields are set at
// construction and read-only afterwards, so a single Extractor serves
// concurrent requests.
type Extractor struct {
	vision   engine.Engine // reads the original image
	nepali   engine.Engine // reads the normalized image
	sinhala  engine.Engine // reads the normalized image
	minWidth int
	contrast float64
}

// New builds an Extractor with the default Tesseract adapters and the
// given vision backend and model.
func New(backend engine.Backend, model string) *Extractor {
	return NewWithEngines(
		engine.NewVision(backend, model),
		engine.NewTesseractNepali(),
		engine.NewTesseractSinhala(),
	)
}

// NewWithEngines wires explicit engine implementations; tests inject
// fakes through here. The argument order is the fixed selection
// priority order.
func NewWithEngines(vision, nepali, sinhala engine.Engine) *Extractor {
	return &Extractor{
		vision:   vision,
		nepali:   nepali,
		sinhala:  sinhala,
		minWidth: preprocess.DefaultMinWidth,
		contrast: preprocess.DefaultContrast,
	}
}

// SetNormalization overrides the upscale width and contrast constants.
// Call before serving requests; the Extractor is read-only afterwards.
func (e *Extractor) SetNormalization(minWidth int, contrast float64) {
	e.minWidth = minWidth
	e.contrast = contrast
}

// Extract decodes imageBytes and runs the pipeline. Decode failure is
// the only error path; everything downstream degrades into diagnostics.
func (e *Extractor) Extract(ctx context.Context, imageBytes []byte) (*types.Result, error) {
	img, err := preprocess.Decode(imageBytes)
	if err != nil {
		return nil, fmt.Errorf("decode upload: %w", err)
	}
	return e.ExtractImage(ctx, img), nil
}

// ExtractImage runs the pipeline over an already decoded image: the
// vision engine sees the original raster, the Tesseract engines the
// normalized one. The three adapters have no data dependency on each
// other and run concurrently.
func (e *Extractor) ExtractImage(ctx context.Context, img image.Image) *types.Result {
	norm := preprocess.Normalize(img, e.minWidth, e.contrast)

	// Fixed priority order; the selector breaks ties by it.
	runs := []struct {
		eng engine.Engine
		src image.Image
	}{
		{e.vision, img},
		{e.nepali, norm},
		{e.sinhala, norm},
	}

	outputs := make([]selector.RawOutput, len(runs))
	var wg sync.WaitGroup
	for i, run := range runs {
		wg.Add(1)
		go func(i int, eng engine.Engine, src image.Image) {
			defer wg.Done()
			outputs[i] = runAdapter(ctx, eng, src)
		}(i, run.eng, run.src)
	}
	wg.Wait()

	res := selector.Select(outputs)
	return &res
}

// runAdapter is the fault boundary around one backend: errors and
// panics both collapse to an empty-string candidate with the reason
// kept for diagnostics.
func runAdapter(ctx context.Context, eng engine.Engine, img image.Image) (out selector.RawOutput) {
	out.Engine = eng.ID()
	defer func() {
		if r := recover(); r != nil {
			out.Text = ""
			out.Err = fmt.Sprintf("panic: %v", r)
		}
	}()

	text, err := eng.Recognize(ctx, img)
	if err != nil {
		out.Err = err.Error()
		return out
	}
	out.Text = text
	return out
}
