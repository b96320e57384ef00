// Package tokenizer provides the placeholder character-level tokenizer used to
// shape prompts into integer tensors. It is not linguistically meaningful:
// every rune becomes one code so that any model with integer inputs can be
// fed something well-formed.
package tokenizer

import "strings"

const (
	// MaxTokens caps the length of every token sequence.
	MaxTokens = 50
	// SpaceCode replaces runes outside the 7-bit range and stands in for
	// empty input.
	SpaceCode int32 = 32
)

// Tokenize maps each rune of text to its code point when it fits in 7 bits
// and to SpaceCode otherwise, keeping at most MaxTokens codes. The result is
// never empty.
func Tokenize(text string) []int32 {
	if text == "" {
		return []int32{SpaceCode}
	}
	out := make([]int32, 0, min(len(text), MaxTokens))
	for _, r := range text {
		if len(out) == MaxTokens {
			break
		}
		if r >= 0 && r < 128 {
			out = append(out, int32(r))
			continue
		}
		out = append(out, SpaceCode)
	}
	return out
}

// Detokenize is the inverse mapping for in-process backends that need the
// prompt text back. Codes outside the 7-bit range render as a space.
func Detokenize[T int32 | int64](codes []T) string {
	var b strings.Builder
	b.Grow(len(codes))
	for _, c := range codes {
		if c < 0 || c >= 128 {
			b.WriteByte(byte(SpaceCode))
			continue
		}
		b.WriteByte(byte(c))
	}
	return b.String()
}
