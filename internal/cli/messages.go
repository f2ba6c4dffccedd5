package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fridex/nodenator/internal/graph"
)

// readMessages reads raw message descriptions from a YAML or JSON file.
// The file holds either one mapping or a list of mappings, each with
// node_from, message and optionally node_to. "-" reads stdin.
func readMessages(path string, stdin io.Reader) ([]map[string]any, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read messages: %w", err)
	}

	var node yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read messages: %s is empty", path)
		}
		return nil, fmt.Errorf("read messages: %w", err)
	}

	var raws []map[string]any
	root := &node
	if root.Kind == yaml.DocumentNode && len(root.Content) == 1 {
		root = root.Content[0]
	}
	switch root.Kind {
	case yaml.MappingNode:
		var raw map[string]any
		if err := root.Decode(&raw); err != nil {
			return nil, fmt.Errorf("read messages: %w", err)
		}
		raws = append(raws, raw)
	case yaml.SequenceNode:
		if err := root.Decode(&raws); err != nil {
			return nil, fmt.Errorf("read messages: %w", err)
		}
	default:
		return nil, fmt.Errorf("read messages: expected a mapping or a list of mappings")
	}

	if len(raws) == 0 {
		return nil, fmt.Errorf("read messages: no messages in %s", path)
	}
	return raws, nil
}

// resolveMessages reads the message file and binds each message to g.
func resolveMessages(path string, stdin io.Reader, g *graph.Graph) ([]*graph.Message, error) {
	raws, err := readMessages(path, stdin)
	if err != nil {
		return nil, err
	}

	msgs := make([]*graph.Message, len(raws))
	for i, raw := range raws {
		msg, err := graph.NewMessageFromRaw(raw, g)
		if err != nil {
			return nil, fmt.Errorf("messages[%d]: %w", i, err)
		}
		msgs[i] = msg
	}
	return msgs, nil
}
