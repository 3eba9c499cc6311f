// Package script counts characters by Unicode block. Devanagari and
// Sinhala occupy disjoint blocks, which makes raw character counts a
// cheap and reliable discriminator between the two scripts.
package script

// Unicode block bounds, inclusive.
const (
	DevanagariLo rune = 0x0900
	DevanagariHi rune = 0x097F
	SinhalaLo    rune = 0x0D80
	SinhalaHi    rune = 0x0DFF
)

// CountInRange returns the number of runes in text whose code point
// falls within [lo, hi] inclusive.
func CountInRange(text string, lo, hi rune) int {
	n := 0
	for _, r := range text {
		if r >= lo && r <= hi {
			n++
		}
	}
	return n
}

// CountDevanagari counts runes in the Devanagari block (U+0900..U+097F).
func CountDevanagari(text string) int {
	return CountInRange(text, DevanagariLo, DevanagariHi)
}

// CountSinhala counts runes in the Sinhala block (U+0D80..U+0DFF).
func CountSinhala(text string) int {
	return CountInRange(text, SinhalaLo, SinhalaHi)
}
