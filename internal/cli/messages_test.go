package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMessages(t *testing.T) {
	single, err := readMessages(hotMessage, nil)
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{
		"node_from": "Sensor",
		"message":   map[string]any{"temp": 120, "level": "high"},
	}}, single)

	list, err := readMessages(readings, nil)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, "Alarm", list[2]["node_to"])

	stdin, err := readMessages("-", strings.NewReader(`{"node_from": "Sensor", "message": {}}`))
	require.NoError(t, err)
	assert.Equal(t, "Sensor", stdin[0]["node_from"])
}

func TestReadMessages_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"empty", "", "is empty"},
		{"scalar", "hello\n", "expected a mapping or a list of mappings"},
		{"empty list", "[]\n", "no messages"},
		{"list of scalars", "- 1\n- 2\n", "read messages"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := readMessages(path, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
