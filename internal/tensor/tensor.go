// Package tensor holds the integer tensors fed to models and the fixed name
// policy that builds them from a token sequence.
package tensor

import "fmt"

// Tensor is a dense row-major integer array.
type Tensor struct {
	shape []int64
	data  []int64
}

// New creates a tensor, checking that data fills the shape exactly.
func New(data []int64, shape []int64) (*Tensor, error) {
	n := int64(1)
	for _, d := range shape {
		if d < 0 {
			return nil, fmt.Errorf("negative dimension %d in shape %v", d, shape)
		}
		n *= d
	}
	if len(shape) == 0 {
		n = 0
	}
	if int64(len(data)) != n {
		return nil, fmt.Errorf("data length %d does not match shape %v", len(data), shape)
	}
	return &Tensor{shape: append([]int64(nil), shape...), data: data}, nil
}

// Shape returns the tensor shape.
func (t *Tensor) Shape() []int64 {
	return t.shape
}

// Int64Data returns the backing data.
func (t *Tensor) Int64Data() []int64 {
	return t.data
}

// Int32Data returns a narrowed copy for backends that declare int32 inputs.
func (t *Tensor) Int32Data() []int32 {
	out := make([]int32, len(t.data))
	for i, v := range t.data {
		out[i] = int32(v)
	}
	return out
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int64 {
	if len(t.shape) == 0 {
		return 0
	}
	n := int64(1)
	for _, dim := range t.shape {
		n *= dim
	}
	return n
}

// Bundle maps declared input names to built tensors.
type Bundle map[string]*Tensor

// Names lists the bundle keys in no particular order.
func (b Bundle) Names() []string {
	out := make([]string, 0, len(b))
	for k := range b {
		out = append(out, k)
	}
	return out
}
