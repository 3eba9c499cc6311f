// Package selector ranks raw OCR outputs by script-specific character
// evidence and picks the best candidate.
package selector

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/menta2k/script-ocr/pkg/script"
	"github.com/menta2k/script-ocr/pkg/types"
)

// RawOutput is one adapter's result after fault isolation: a failed
// adapter contributes an empty Text plus the failure reason in Err.
type RawOutput struct {
	Engine types.EngineID
	Text   string
	Err    string
}

// Select scores the raw outputs and picks a winner.
//
// Input order is the fixed engine priority order used for tie-breaking;
// callers pass [vision, tesseract-nep, tesseract-sin]. Candidates are
// ranked by (primary score, stripped length) descending, where the
// primary score is the stronger of the Devanagari and Sinhala counts.
// When no candidate contains a single script character the longest
// stripped text wins instead, so garbled ASCII still beats nothing at
// all. Selection never fails: with every candidate empty the result
// carries an empty text and unknown language.
func Select(outputs []RawOutput) types.Result {
	candidates := make([]types.Candidate, len(outputs))
	var errs map[types.EngineID]string
	for i, out := range outputs {
		dev := script.CountDevanagari(out.Text)
		sin := script.CountSinhala(out.Text)
		primary := dev
		if sin > primary {
			primary = sin
		}
		candidates[i] = types.Candidate{
			Text:            out.Text,
			Engine:          out.Engine,
			DevanagariCount: dev,
			SinhalaCount:    sin,
			PrimaryScore:    primary,
			LengthScore:     utf8.RuneCountInString(strings.TrimSpace(out.Text)),
		}
		if out.Err != "" {
			if errs == nil {
				errs = make(map[types.EngineID]string)
			}
			errs[out.Engine] = out.Err
		}
	}

	ranked := make([]types.Candidate, len(candidates))
	copy(ranked, candidates)
	// Stable sort keeps the fixed engine priority order on ties.
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].PrimaryScore != ranked[j].PrimaryScore {
			return ranked[i].PrimaryScore > ranked[j].PrimaryScore
		}
		return ranked[i].LengthScore > ranked[j].LengthScore
	})

	best := ranked[0]
	if best.PrimaryScore == 0 {
		// No script characters anywhere. Fall back to the longest
		// stripped text, first-in-order on ties.
		best = candidates[0]
		for _, c := range candidates[1:] {
			if c.LengthScore > best.LengthScore {
				best = c
			}
		}
	}

	chosen := strings.TrimSpace(best.Text)

	// Language is recounted over the chosen stripped text rather than
	// read from the stored candidate counts.
	lang := types.LanguageUnknown
	dev, sin := script.CountDevanagari(chosen), script.CountSinhala(chosen)
	switch {
	case dev > sin:
		lang = types.LanguageNepali
	case sin > dev:
		lang = types.LanguageSinhala
	}

	return types.Result{
		Text:     chosen,
		Language: lang,
		Engine:   best.Engine,
		Diagnostics: types.Diagnostics{
			Candidates: ranked,
			Errors:     errs,
		},
	}
}
