//go:build onnx

package model

import (
	"context"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"genbridge/internal/schema"
	"genbridge/internal/tensor"
)

// onnxBuilt indicates this binary was compiled with ONNX Runtime support.
var onnxBuilt = true

var ortInitMu sync.Mutex

// initORT initializes the process-wide ONNX Runtime environment once.
func initORT(libPath string) error {
	ortInitMu.Lock()
	defer ortInitMu.Unlock()
	if ort.IsInitialized() {
		return nil
	}
	if libPath != "" {
		ort.SetSharedLibraryPath(libPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return ErrDependencyUnavailable(fmt.Sprintf("initialize onnx runtime: %v", err))
	}
	return nil
}

// onnxModel wraps a dynamic ORT session. Run is safe for concurrent use.
type onnxModel struct {
	path    string
	session *ort.DynamicAdvancedSession
	inputs  []schema.Feature
	outputs []schema.Feature
}

func openONNX(ctx context.Context, opts OpenOptions) (Model, error) {
	if err := initORT(opts.ORTLibrary); err != nil {
		return nil, ErrLoad(BackendONNX, opts.Path, err)
	}
	inInfo, outInfo, err := ort.GetInputOutputInfo(opts.Path)
	if err != nil {
		return nil, ErrLoad(BackendONNX, opts.Path, fmt.Errorf("probe model info: %w", err))
	}
	m := &onnxModel{path: opts.Path}
	for _, info := range inInfo {
		m.inputs = append(m.inputs, featureFromORT(info))
	}
	for _, info := range outInfo {
		m.outputs = append(m.outputs, featureFromORT(info))
	}
	sess, err := ort.NewDynamicAdvancedSession(opts.Path, schema.Names(m.inputs), schema.Names(m.outputs), nil)
	if err != nil {
		return nil, ErrLoad(BackendONNX, opts.Path, fmt.Errorf("create session: %w", err))
	}
	m.session = sess
	return m, nil
}

func featureFromORT(info ort.InputOutputInfo) schema.Feature {
	f := schema.Feature{Name: info.Name, Kind: schema.KindOther, Shape: []int64(info.Dimensions)}
	if info.OrtValueType != ort.ONNXTypeTensor {
		f.ElemType = "non-tensor"
		return f
	}
	f.ElemType = ortElemName(info.DataType)
	f.Kind = schema.KindForElemType(f.ElemType)
	if f.Kind == schema.KindString {
		// String tensors are not readable through onnxruntime_go.
		f.Kind = schema.KindOther
	}
	return f
}

func ortElemName(t ort.TensorElementDataType) string {
	switch t {
	case ort.TensorElementDataTypeInt8:
		return "int8"
	case ort.TensorElementDataTypeInt16:
		return "int16"
	case ort.TensorElementDataTypeInt32:
		return "int32"
	case ort.TensorElementDataTypeInt64:
		return "int64"
	case ort.TensorElementDataTypeUint8:
		return "uint8"
	case ort.TensorElementDataTypeUint16:
		return "uint16"
	case ort.TensorElementDataTypeUint32:
		return "uint32"
	case ort.TensorElementDataTypeUint64:
		return "uint64"
	case ort.TensorElementDataTypeFloat:
		return "float32"
	case ort.TensorElementDataTypeDouble:
		return "float64"
	case ort.TensorElementDataTypeFloat16:
		return "float16"
	case ort.TensorElementDataTypeString:
		return "string"
	case ort.TensorElementDataTypeBool:
		return "bool"
	default:
		return "unknown"
	}
}

func (m *onnxModel) InputFeatures() []schema.Feature  { return m.inputs }
func (m *onnxModel) OutputFeatures() []schema.Feature { return m.outputs }

func (m *onnxModel) Predict(ctx context.Context, in tensor.Bundle) (Outputs, error) {
	inputValues := make([]ort.Value, len(m.inputs))
	var toDestroy []ort.Value
	defer func() {
		for _, v := range toDestroy {
			_ = v.Destroy()
		}
	}()
	for i, f := range m.inputs {
		t, ok := in[f.Name]
		if !ok {
			return nil, fmt.Errorf("missing input: %s", f.Name)
		}
		shape := ort.NewShape(t.Shape()...)
		var (
			v   ort.Value
			err error
		)
		switch f.ElemType {
		case "int32":
			v, err = ort.NewTensor(shape, t.Int32Data())
		case "int64":
			v, err = ort.NewTensor(shape, append([]int64(nil), t.Int64Data()...))
		default:
			return nil, fmt.Errorf("unsupported element type %s for input %s", f.ElemType, f.Name)
		}
		if err != nil {
			return nil, fmt.Errorf("create ORT tensor for %s: %w", f.Name, err)
		}
		inputValues[i] = v
		toDestroy = append(toDestroy, v)
	}

	outputValues := make([]ort.Value, len(m.outputs))
	if err := m.session.Run(inputValues, outputValues); err != nil {
		return nil, fmt.Errorf("run failed: %w", err)
	}
	for _, v := range outputValues {
		if v != nil {
			toDestroy = append(toDestroy, v)
		}
	}

	out := make(Outputs, len(outputValues))
	for i, v := range outputValues {
		if v == nil {
			continue
		}
		name := m.outputs[i].Name
		var (
			tt   *tensor.Tensor
			terr error
		)
		switch t := v.(type) {
		case *ort.Tensor[int64]:
			tt, terr = widen(t)
		case *ort.Tensor[int32]:
			tt, terr = widen(t)
		case *ort.Tensor[int16]:
			tt, terr = widen(t)
		case *ort.Tensor[int8]:
			tt, terr = widen(t)
		case *ort.Tensor[uint64]:
			tt, terr = widen(t)
		case *ort.Tensor[uint32]:
			tt, terr = widen(t)
		case *ort.Tensor[uint16]:
			tt, terr = widen(t)
		case *ort.Tensor[uint8]:
			tt, terr = widen(t)
		}
		if terr != nil {
			return nil, fmt.Errorf("output %s: %w", name, terr)
		}
		if tt != nil {
			out[name] = IntegerValue(tt)
			continue
		}
		out[name] = OtherValue(v.GetShape().FlattenedSize())
	}
	return out, nil
}

// widen copies an integer ORT tensor into an int64 tensor. uint64 values
// above MaxInt64 wrap; only the element count is interpreted downstream.
func widen[T int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64](t *ort.Tensor[T]) (*tensor.Tensor, error) {
	data := t.GetData()
	wide := make([]int64, len(data))
	for k, x := range data {
		wide[k] = int64(x)
	}
	return tensor.New(wide, []int64(t.GetShape()))
}

func (m *onnxModel) Info() Info {
	return Info{
		Backend: BackendONNX,
		Path:    m.path,
		Summary: fmt.Sprintf("onnx model: %s (%d inputs, %d outputs)", m.path, len(m.inputs), len(m.outputs)),
	}
}

func (m *onnxModel) Close() error {
	if m.session == nil {
		return nil
	}
	err := m.session.Destroy()
	m.session = nil
	return err
}
