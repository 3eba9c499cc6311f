package types

// EngineID identifies one OCR backend invocation.
type EngineID string

const (
	// EngineVision is the vision-model engine oriented toward Devanagari.
	EngineVision EngineID = "vision"
	// EngineTesseractNep is Tesseract configured for Nepali traineddata.
	EngineTesseractNep EngineID = "tesseract-nep"
	// EngineTesseractSin is Tesseract configured for Sinhala traineddata.
	EngineTesseractSin EngineID = "tesseract-sin"
)

// Language is the script language detected in the chosen text.
type Language string

const (
	LanguageNepali  Language = "ne"
	LanguageSinhala Language = "si"
	LanguageUnknown Language = "unknown"
)

// Candidate is one engine's raw text output plus its derived scores.
// Candidates are built once per engine invocation and never mutated.
type Candidate struct {
	Text            string   `json:"text"`
	Engine          EngineID `json:"engine"`
	DevanagariCount int      `json:"dev_count"`
	SinhalaCount    int      `json:"sin_count"`
	PrimaryScore    int      `json:"primary_score"`
	LengthScore     int      `json:"length"`
}

// Diagnostics records how a selection was made: every candidate in
// ranked order plus any per-engine failure messages.
type Diagnostics struct {
	Candidates []Candidate         `json:"candidates"`
	Errors     map[EngineID]string `json:"errors,omitempty"`
}

// Result is the outcome of one extraction.
type Result struct {
	Text        string      `json:"text"`
	Language    Language    `json:"language"`
	Engine      EngineID    `json:"engine"`
	Diagnostics Diagnostics `json:"debug"`
}
