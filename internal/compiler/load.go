package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a graph description, choosing the decoder by extension:
// .yaml, .yml and .json are decoded as YAML (a superset of JSON), .cue
// files and directories through the CUE SDK.
func LoadFile(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if info.IsDir() {
		return LoadCUE(path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		return ParseYAML(data, path)
	case ".cue":
		return LoadCUE(path)
	default:
		return nil, fmt.Errorf("load %s: unsupported file extension %q", path, filepath.Ext(path))
	}
}

// ParseYAML decodes a YAML or JSON graph description. Unknown keys are
// rejected. filename is used in error messages only.
func ParseYAML(data []byte, filename string) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &CompileError{Field: "document", Message: "empty graph description", File: filename}
		}
		return nil, &CompileError{Field: "document", Message: err.Error(), File: filename}
	}
	return &doc, nil
}
