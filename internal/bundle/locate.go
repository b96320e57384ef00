// Package bundle finds model artifacts shipped alongside the binary.
package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"genbridge/internal/common/fsutil"
	"genbridge/internal/model"
)

// Extensions recognized as model artifacts, in lookup priority order.
var Extensions = []string{".onnx", ".gguf"}

// Artifact is a model file found in a bundle directory.
type Artifact struct {
	// Name is the file name without extension.
	Name string `json:"name"`
	// Path is the absolute file path.
	Path string `json:"path"`
	// Backend is the backend implied by the extension.
	Backend string `json:"backend"`
}

// List scans dir for model artifacts. A missing directory yields an empty list.
func List(dir string) ([]Artifact, error) {
	abs, err := absDir(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var out []Artifact
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		backend := model.BackendForPath(name)
		if backend == "" {
			continue
		}
		out = append(out, Artifact{
			Name:    strings.TrimSuffix(name, filepath.Ext(name)),
			Path:    filepath.Join(abs, name),
			Backend: backend,
		})
	}
	return out, nil
}

// Locate returns the artifact named name (without extension) in dir. The
// first extension in Extensions wins when several exist. A missing artifact
// is reported with model.ErrArtifactNotFound.
func Locate(dir, name string) (Artifact, error) {
	abs, err := absDir(dir)
	if err != nil {
		return Artifact{}, err
	}
	for _, ext := range Extensions {
		p := filepath.Join(abs, name+ext)
		fi, err := os.Stat(p)
		if err != nil || fi.IsDir() {
			continue
		}
		return Artifact{Name: name, Path: p, Backend: model.BackendForPath(p)}, nil
	}
	return Artifact{}, model.ErrArtifactNotFound(filepath.Join(abs, name+"{"+strings.Join(Extensions, ",")+"}"))
}

func absDir(dir string) (string, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return "", fmt.Errorf("abs path: %w", err)
	}
	return abs, nil
}
