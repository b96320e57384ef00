package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genbridge/internal/model"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(&app{})
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersionSkipsConfig(t *testing.T) {
	out, err := run(t, "version", "--config", "/does/not/exist.yaml")
	require.NoError(t, err)
	assert.Equal(t, "genbridge "+version+"\n", out)
}

func TestGenerateWithoutModelFallsBack(t *testing.T) {
	t.Setenv("GENBRIDGE_FALLBACK_DELAY_MS", "-1")
	out, err := run(t, "generate", "--no-load", "--json", "hello")
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "fallback", got["outcome"])
	assert.Equal(t, "model not loaded", got["reason"])
	assert.Contains(t, got["text"], "(model not loaded - using fallback responses)")
}

func TestGenerateDemoBackend(t *testing.T) {
	t.Setenv("GENBRIDGE_DEMO_LOAD_DELAY_MS", "-1")
	t.Setenv("GENBRIDGE_DEMO_INFER_DELAY_MS", "-1")
	out, err := run(t, "--backend", "demo", "generate", "--json", "tell me a story")
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "success", got["outcome"])
	assert.Equal(t, "Response to: 'tell me a story'", got["text"])
}

func TestGenerateRejectsNegativeMaxTokens(t *testing.T) {
	_, err := run(t, "generate", "--no-load", "--max-tokens", "-1", "x")
	require.Error(t, err)
}

func TestInvalidBackendFlag(t *testing.T) {
	_, err := run(t, "--backend", "tpu", "generate", "--no-load", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown backend")
}

func TestModelsListsBundle(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chat_model.onnx"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	out, err := run(t, "--bundle-dir", dir, "models")
	require.NoError(t, err)
	assert.Contains(t, out, "chat_model *")
	assert.Contains(t, out, "onnx")
	assert.False(t, strings.Contains(out, "notes"))
}

func TestModelsEmptyBundle(t *testing.T) {
	out, err := run(t, "--bundle-dir", filepath.Join(t.TempDir(), "missing"), "models")
	require.NoError(t, err)
	assert.Contains(t, out, "no artifacts")
}

func TestBackendFlagOverridesInvalidEnv(t *testing.T) {
	t.Setenv("GENBRIDGE_BACKEND", "coreml")
	t.Setenv("GENBRIDGE_FALLBACK_DELAY_MS", "-1")
	_, err := run(t, "--backend", "demo", "generate", "--no-load", "x")
	require.NoError(t, err)
}

func TestUnbuiltBackendRejectedUpFront(t *testing.T) {
	if model.Available(model.BackendONNX) {
		t.Skip("onnx backend is built in")
	}
	_, err := run(t, "--backend", "onnx", "generate", "--no-load", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not built")
}
