package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fridex/nodenator/internal/ir"
)

// MarshalPayload converts a message payload to JSON TEXT for storage.
//
// Payloads made only of canonical values use RFC 8785 canonical JSON, so
// equal payloads are stored byte-identically. Payloads canonical JSON
// cannot express (nulls, nested non-string keys) fall back to
// encoding/json with sorted keys and HTML escaping disabled.
func MarshalPayload(payload map[string]any) (string, error) {
	if payload == nil {
		return "{}", nil
	}
	if data, err := ir.MarshalCanonical(payload); err == nil {
		return string(data), nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
