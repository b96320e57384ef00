package tensor

import "genbridge/internal/schema"

// Input names the builder knows how to fill. They match the inputs a typical
// exported transformer expects.
const (
	InputIDs      = "input_ids"
	AttentionMask = "attention_mask"
	PositionIDs   = "position_ids"
)

// Build produces the tensor for a named input. Every tensor has shape
// [1, len(tokens)]. Unknown names return false.
func Build(name string, tokens []int32) (*Tensor, bool) {
	n := len(tokens)
	data := make([]int64, n)
	switch name {
	case InputIDs:
		for i, tok := range tokens {
			data[i] = int64(tok)
		}
	case AttentionMask:
		for i := range data {
			data[i] = 1
		}
	case PositionIDs:
		for i := range data {
			data[i] = int64(i)
		}
	default:
		return nil, false
	}
	return &Tensor{shape: []int64{1, int64(n)}, data: data}, true
}

// BuildBundle builds every declared input it recognizes, in declaration
// order, and reports the names it had to skip.
func BuildBundle(inputs []schema.Feature, tokens []int32) (Bundle, []string) {
	b := make(Bundle, len(inputs))
	var skipped []string
	for _, in := range inputs {
		t, ok := Build(in.Name, tokens)
		if !ok {
			skipped = append(skipped, in.Name)
			continue
		}
		b[in.Name] = t
	}
	return b, skipped
}
