package types

// Artifact is a model file found in the bundle directory.
type Artifact struct {
	// Base name of the artifact, without extension.
	// example: chat_model
	Name string `json:"name" example:"chat_model"`
	// Absolute path to the artifact on disk.
	// example: /srv/genbridge/models/chat_model.onnx
	Path string `json:"path" example:"/srv/genbridge/models/chat_model.onnx"`
	// Backend that opens this artifact.
	// example: onnx
	Backend string `json:"backend" example:"onnx"`
}

// FeatureInfo describes one declared model input or output.
type FeatureInfo struct {
	// Feature name.
	// example: input_ids
	Name string `json:"name" example:"input_ids"`
	// Value kind: integer_tensor, string or other.
	// example: integer_tensor
	Kind string `json:"kind" example:"integer_tensor"`
	// Backend element type name.
	// example: int64
	ElemType string `json:"elem_type,omitempty" example:"int64"`
	// Declared shape; -1 marks a dynamic dimension.
	// example: [1,-1]
	Shape []int64 `json:"shape,omitempty"`
}
