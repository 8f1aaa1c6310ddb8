package ocr

// Similarity is a positional character match ratio: runes at the same index
// are compared up to the length of the shorter string, and the match count is
// divided by the length of the longer one. It does no alignment, so a single
// leading insertion can drive the score to near zero.
//
// Two empty strings are identical and score 1.
func Similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 1
	}
	matches := 0
	for i := 0; i < min(len(ra), len(rb)); i++ {
		if ra[i] == rb[i] {
			matches++
		}
	}
	return float64(matches) / float64(longest)
}
