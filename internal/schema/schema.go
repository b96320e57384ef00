// Package schema describes the named inputs and outputs a model declares.
// Descriptors are ordered: declaration order is authoritative and is what the
// adapter uses when it picks "the first output".
package schema

import "strings"

// Kind is the closed set of feature kinds the adapter understands.
type Kind int

const (
	KindOther Kind = iota
	KindIntegerTensor
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindIntegerTensor:
		return "integer_tensor"
	case KindString:
		return "string"
	default:
		return "other"
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Feature is one declared model input or output.
type Feature struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
	// ElemType is the backend's element type name (e.g. "int64", "float32").
	ElemType string `json:"elem_type,omitempty"`
	// Shape uses -1 for dynamic dimensions. Empty means unknown.
	Shape []int64 `json:"shape,omitempty"`
}

// Descriptor is the full declared schema of a model.
type Descriptor struct {
	Inputs  []Feature `json:"inputs"`
	Outputs []Feature `json:"outputs"`
}

// Source is anything that can report its declared features, typically a
// loaded model.
type Source interface {
	InputFeatures() []Feature
	OutputFeatures() []Feature
}

// DescribeInputs returns an ordered copy of the declared inputs.
func DescribeInputs(src Source) []Feature {
	if src == nil {
		return []Feature{}
	}
	return cloneFeatures(src.InputFeatures())
}

// DescribeOutputs returns an ordered copy of the declared outputs.
func DescribeOutputs(src Source) []Feature {
	if src == nil {
		return []Feature{}
	}
	return cloneFeatures(src.OutputFeatures())
}

// Describe reads both sides of the schema.
func Describe(src Source) Descriptor {
	return Descriptor{Inputs: DescribeInputs(src), Outputs: DescribeOutputs(src)}
}

// Names lists feature names in declaration order.
func Names(features []Feature) []string {
	out := make([]string, 0, len(features))
	for _, f := range features {
		out = append(out, f.Name)
	}
	return out
}

// KindForElemType classifies a tensor element type name.
func KindForElemType(elem string) Kind {
	switch strings.ToLower(elem) {
	case "int8", "int16", "int32", "int64", "uint8", "uint16", "uint32", "uint64":
		return KindIntegerTensor
	case "string":
		return KindString
	default:
		return KindOther
	}
}

func cloneFeatures(in []Feature) []Feature {
	out := make([]Feature, len(in))
	for i, f := range in {
		out[i] = f
		if f.Shape != nil {
			out[i].Shape = append([]int64(nil), f.Shape...)
		}
	}
	return out
}
