package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesizeAllNodesPython(t *testing.T) {
	out, _, err := execute(t, NewSynthesizeCommand(&RootOptions{Format: "text"}), plantGraph)
	require.NoError(t, err)

	want := `# node: Alarm
if node_from == 'Sensor':
    if fieldEqual(message, key='level', value='high'):
        return 'hot'

# node: Logger
from plant.heaters import Heater

if node_from == 'Sensor':
    if fieldExist(message, key='temp'):
        return 'log'
elif isinstance(node_from, Heater):
    if fieldExist(message, key='temp') or fieldContain(message, key='tags', value='maintenance'):
        return 'heat_log'

# node: Heater
if node_from == 'Sensor':
    if fieldEqual(message, key='level', value='low'):
        return 'cold'
`
	assert.Equal(t, want, out)
}

func TestSynthesizeNodeJavaScript(t *testing.T) {
	out, _, err := execute(t, NewSynthesizeCommand(&RootOptions{Format: "text"}), plantGraph, "--node", "Logger", "--target", "javascript")
	require.NoError(t, err)

	want := `// node: Logger
import { Heater } from "plant.heaters";

if (node_from === "Sensor") {
  if (fieldExist(message, {key: "temp"})) {
    return "log";
  }
} else if (node_from instanceof Heater) {
  if (fieldExist(message, {key: "temp"}) || fieldContain(message, {key: "tags", value: "maintenance"})) {
    return "heat_log";
  }
}
`
	assert.Equal(t, want, out)
}

func TestSynthesizeNodeWithoutInputs(t *testing.T) {
	out, _, err := execute(t, NewSynthesizeCommand(&RootOptions{Format: "text"}), plantGraph, "--node", "Sensor")
	require.NoError(t, err)
	assert.Equal(t, "# node: Sensor\n# no incoming edges\n", out)
}

func TestSynthesizeJSON(t *testing.T) {
	out, _, err := execute(t, NewSynthesizeCommand(&RootOptions{Format: "json"}), plantGraph, "--node", "Logger,Alarm")
	require.NoError(t, err)

	var resp struct {
		Status string            `json:"status"`
		Data   []SynthesizedNode `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 2)

	logger := resp.Data[0]
	assert.Equal(t, "Logger", logger.Node)
	assert.Equal(t, "python", logger.Target)
	assert.Equal(t, "from plant.heaters import Heater\n", logger.Imports)
	assert.Equal(t, []string{"fieldExist", "fieldExist", "fieldContain"}, logger.Used)

	alarm := resp.Data[1]
	assert.Equal(t, "Alarm", alarm.Node)
	assert.Empty(t, alarm.Imports)
	assert.Equal(t, []string{"fieldEqual"}, alarm.Used)
}

func TestSynthesizeGeneratedEdgeNamePasses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
nodes: [{name: A}, {name: B}]
edges: [{from: A, to: B, condition: {name: fieldExist, args: {key: x}}}]
`), 0o644))

	out, _, err := execute(t, NewSynthesizeCommand(&RootOptions{Format: "text"}), path)
	require.NoError(t, err)
	assert.Equal(t, "# node: B\nif node_from == 'A':\n    if fieldExist(message, key='x'):\n        pass\n", out)
}

func TestSynthesizeErrors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode string
	}{
		{"unknown node", []string{plantGraph, "--node", "Boiler"}, ErrCodeNotFound},
		{"unknown target", []string{plantGraph, "--target", "cobol"}, ErrCodeSynthesis},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, NewSynthesizeCommand(&RootOptions{Format: "text"}), tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, out, "Error ["+tt.wantCode+"]")
		})
	}
}
