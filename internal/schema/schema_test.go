package schema

import (
	"encoding/json"
	"testing"
)

type fakeSource struct {
	in, out []Feature
}

func (f *fakeSource) InputFeatures() []Feature  { return f.in }
func (f *fakeSource) OutputFeatures() []Feature { return f.out }

func TestDescribeKeepsDeclarationOrder(t *testing.T) {
	src := &fakeSource{
		in: []Feature{
			{Name: "position_ids", Kind: KindIntegerTensor},
			{Name: "input_ids", Kind: KindIntegerTensor},
			{Name: "attention_mask", Kind: KindIntegerTensor},
		},
		out: []Feature{{Name: "z_logits", Kind: KindOther}, {Name: "a_text", Kind: KindString}},
	}
	d := Describe(src)
	got := Names(d.Inputs)
	want := []string{"position_ids", "input_ids", "attention_mask"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("inputs order %v, want %v", got, want)
		}
	}
	if d.Outputs[0].Name != "z_logits" {
		t.Fatalf("first output %q, want z_logits", d.Outputs[0].Name)
	}
}

func TestDescribeEmptyAndNil(t *testing.T) {
	if got := DescribeInputs(nil); got == nil || len(got) != 0 {
		t.Fatalf("nil source: %v", got)
	}
	d := Describe(&fakeSource{})
	if len(d.Inputs) != 0 || len(d.Outputs) != 0 {
		t.Fatalf("expected empty descriptor, got %+v", d)
	}
}

func TestDescribeDoesNotAliasSource(t *testing.T) {
	src := &fakeSource{in: []Feature{{Name: "input_ids", Shape: []int64{1, -1}}}}
	got := DescribeInputs(src)
	got[0].Name = "mutated"
	got[0].Shape[1] = 7
	if src.in[0].Name != "input_ids" || src.in[0].Shape[1] != -1 {
		t.Fatalf("source mutated through descriptor: %+v", src.in[0])
	}
}

func TestKindForElemType(t *testing.T) {
	cases := []struct {
		in   string
		want Kind
	}{
		{"int64", KindIntegerTensor},
		{"INT32", KindIntegerTensor},
		{"uint8", KindIntegerTensor},
		{"string", KindString},
		{"float32", KindOther},
		{"", KindOther},
	}
	for _, c := range cases {
		if got := KindForElemType(c.in); got != c.want {
			t.Fatalf("%q -> %v, want %v", c.in, got, c.want)
		}
	}
}

func TestKindString(t *testing.T) {
	if KindIntegerTensor.String() != "integer_tensor" || KindString.String() != "string" || KindOther.String() != "other" {
		t.Fatalf("unexpected kind strings")
	}
}

func TestFeatureJSONUsesKindNames(t *testing.T) {
	b, err := json.Marshal(Feature{Name: "input_ids", Kind: KindIntegerTensor, ElemType: "int64", Shape: []int64{1, -1}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"name":"input_ids","kind":"integer_tensor","elem_type":"int64","shape":[1,-1]}`
	if string(b) != want {
		t.Fatalf("got %s, want %s", b, want)
	}
}
