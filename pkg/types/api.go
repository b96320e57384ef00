package types

// CallRequest is one host method-channel invocation.
type CallRequest struct {
	// Method name: loadModel, generateText, isModelLoaded or getModelInfo.
	// example: generateText
	Method string `json:"method" example:"generateText"`
	// Method arguments. generateText requires prompt (string) and maxTokens (integer).
	Arguments map[string]any `json:"arguments,omitempty"`
}

// CallResponse carries the result of a successful call.
type CallResponse struct {
	// bool for loadModel/isModelLoaded, string for generateText, object or null for getModelInfo.
	Result any `json:"result"`
}

// GenerateRequest is the payload for POST /v1/generate.
type GenerateRequest struct {
	// Prompt text. Required; may be empty.
	// example: Tell me about the sea.
	Prompt *string `json:"prompt" example:"Tell me about the sea."`
	// Accepted for compatibility; not a hard cap on the reply length.
	// example: 100
	MaxTokens *int `json:"max_tokens,omitempty" example:"100"`
}

// GenerateResponse is the reply for POST /v1/generate.
type GenerateResponse struct {
	// Reply text. Never empty.
	// example: Response to: 'Tell me about the sea.'
	Text string `json:"text" example:"Response to: 'Tell me about the sea.'"`
	// success or fallback.
	// example: success
	Outcome string `json:"outcome" example:"success"`
	// Why the fallback fired, empty on success.
	// example: model not loaded
	Reason string `json:"reason,omitempty" example:"model not loaded"`
	// Correlation ID of this generation.
	// example: 3f1c7a9e-2b9d-4c1e-8f4e-2d3b1a6c9e10
	CallID string `json:"call_id" example:"3f1c7a9e-2b9d-4c1e-8f4e-2d3b1a6c9e10"`
	// Wall time in milliseconds.
	// example: 512
	DurationMS int64 `json:"duration_ms" example:"512"`
}

// LoadResponse is the reply for POST /v1/load.
type LoadResponse struct {
	// Whether the most recent load succeeded.
	// example: true
	Loaded bool `json:"loaded" example:"true"`
	// Adapter state after the load.
	// example: loaded
	State string `json:"state" example:"loaded"`
	// Load error, when the load failed.
	// example: model artifact not found: models/chat_model
	Error string `json:"error,omitempty" example:"model artifact not found: models/chat_model"`
}

// ModelInfo describes the loaded model.
type ModelInfo struct {
	// example: onnx
	Backend string `json:"backend" example:"onnx"`
	// example: /srv/genbridge/models/chat_model.onnx
	Path string `json:"path,omitempty" example:"/srv/genbridge/models/chat_model.onnx"`
	// example: onnx model (3 inputs, 1 outputs)
	Summary string `json:"summary" example:"onnx model (3 inputs, 1 outputs)"`
}

// StatusResponse is the reply for GET /v1/status.
type StatusResponse struct {
	// Lifecycle state: unloaded, loading or loaded.
	// example: loaded
	State string `json:"state" example:"loaded"`
	// True while a reload runs behind a loaded model.
	// example: false
	Reloading bool `json:"reloading" example:"false"`
	// Loaded model, if any.
	Model *ModelInfo `json:"model,omitempty"`
	// Error from the most recent failed load.
	// example: onnx support not built (missing 'onnx' build tag)
	LastError string `json:"last_error,omitempty" example:"onnx support not built (missing 'onnx' build tag)"`
	// example: 1
	Loads uint64 `json:"loads" example:"1"`
	// example: 0
	LoadFailures uint64 `json:"load_failures" example:"0"`
	// example: 42
	Generations uint64 `json:"generations" example:"42"`
	// example: 3
	Fallbacks uint64 `json:"fallbacks" example:"3"`
	// Generations currently running against the model.
	// example: 1
	Inflight int64 `json:"inflight" example:"1"`
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
}

// SchemaResponse is the reply for GET /v1/schema.
type SchemaResponse struct {
	Model   ModelInfo     `json:"model"`
	Inputs  []FeatureInfo `json:"inputs"`
	Outputs []FeatureInfo `json:"outputs"`
}

// ArtifactsResponse wraps the artifacts returned by GET /v1/models.
type ArtifactsResponse struct {
	// Model artifacts found in the bundle directory.
	Models []Artifact `json:"models"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
	// Host-facing error code for method-channel calls.
	// example: INVALID_ARGUMENTS
	Reason string `json:"reason,omitempty" example:"INVALID_ARGUMENTS"`
}
