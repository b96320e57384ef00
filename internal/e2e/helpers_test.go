package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"genbridge/internal/adapter"
	"genbridge/internal/bundle"
	"genbridge/internal/httpapi"
	"genbridge/internal/model"
)

// createBundleDir creates a temporary bundle directory holding empty
// artifacts with the given file names.
func createBundleDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		p := filepath.Join(dir, n)
		if err := os.WriteFile(p, []byte(""), 0o644); err != nil {
			t.Fatalf("write temp artifact %s: %v", p, err)
		}
	}
	return dir
}

// newServer wires a real adapter over the given backend and bundle dir the
// way the serve command does.
func newServer(t *testing.T, backend, dir string) (*httptest.Server, *adapter.Adapter) {
	t.Helper()
	opts := model.OpenOptions{Backend: backend, DemoLoadDelay: -1, DemoInferDelay: -1}
	loader := model.NewLoader(opts, func() (string, error) {
		art, err := bundle.Locate(dir, "chat_model")
		if err != nil {
			return "", err
		}
		return art.Path, nil
	})
	a := adapter.NewWithConfig(adapter.Config{Loader: loader, FallbackDelay: -1})
	httpapi.SetBundleDir(dir)
	srv := httptest.NewServer(httpapi.NewMux(a))
	t.Cleanup(func() {
		srv.Close()
		_ = a.Close()
		httpapi.SetBundleDir("")
		httpapi.SetRateLimit(0, 0)
	})
	return srv, a
}

func postJSON(t *testing.T, url, body string, out any) int {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return do(t, req, out)
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	return do(t, req, out)
}

func do(t *testing.T, req *http.Request, out any) int {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if out != nil && len(b) > 0 {
		if err := json.Unmarshal(b, out); err != nil {
			t.Fatalf("decode %s: %v (body=%s)", req.URL.Path, err, b)
		}
	}
	return resp.StatusCode
}
