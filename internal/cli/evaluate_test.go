package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fridex/nodenator/internal/store"
)

func TestEvaluateSingleMessage(t *testing.T) {
	out, _, err := execute(t, NewEvaluateCommand(&RootOptions{Format: "text"}), plantGraph, "--message", hotMessage)
	require.NoError(t, err)

	assert.Equal(t, "messages[0] from Sensor:\n  Sensor → Alarm via hot\n  Sensor → Logger via log\n", out)
}

func TestEvaluateMessageList(t *testing.T) {
	out, _, err := execute(t, NewEvaluateCommand(&RootOptions{Format: "json"}), plantGraph, "--message", readings)
	require.NoError(t, err)

	var resp struct {
		Status string         `json:"status"`
		Data   EvaluateResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Empty(t, resp.Data.RunID)

	edges := make([][]string, len(resp.Data.Messages))
	for i, m := range resp.Data.Messages {
		edges[i] = []string{}
		for _, tr := range m.Transitions {
			edges[i] = append(edges[i], tr.Edge)
		}
	}
	assert.Equal(t, [][]string{{"hot", "log"}, {"log", "cold"}, {}, {"heat_log"}}, edges)
	assert.Equal(t, "Heater", resp.Data.Messages[3].From)
	assert.Equal(t, "Logger", resp.Data.Messages[3].Transitions[0].To)
}

func TestEvaluateNoTransitions(t *testing.T) {
	cmd := NewEvaluateCommand(&RootOptions{Format: "text"})
	cmd.SetIn(strings.NewReader("node_from: Sensor\nmessage: {level: high}\n"))

	out, _, err := execute(t, cmd, plantGraph, "--message", "-")
	require.NoError(t, err)
	assert.Equal(t, "messages[0] from Sensor: no transitions\n", out)
}

func TestEvaluateRecordsRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "log.db")

	out, _, err := execute(t, NewEvaluateCommand(&RootOptions{Format: "json"}), plantGraph, "--message", readings, "--db", dbPath)
	require.NoError(t, err)

	var resp struct {
		Data EvaluateResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotEmpty(t, resp.Data.RunID)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	run, err := st.Run(ctx, resp.Data.RunID)
	require.NoError(t, err)
	assert.Equal(t, readings, run.Source)
	assert.Equal(t, int64(0), run.StartedAtSeq)

	evals, err := st.Evaluations(ctx, resp.Data.RunID)
	require.NoError(t, err)
	require.Len(t, evals, 13)
	assert.Equal(t, int64(1), evals[0].Seq)
	assert.Equal(t, store.KindOutputCondition, evals[0].Kind)
	assert.Equal(t, int64(13), evals[12].Seq)
	assert.Equal(t, "heat_log", evals[12].Edge)
}

func TestEvaluateSecondRunContinuesSeq(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "log.db")

	for range 2 {
		_, _, err := execute(t, NewEvaluateCommand(&RootOptions{Format: "text"}), plantGraph, "--message", hotMessage, "--db", dbPath)
		require.NoError(t, err)
	}

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	runs, err := st.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, int64(0), runs[0].StartedAtSeq)
	assert.Equal(t, int64(5), runs[1].StartedAtSeq)

	evals, err := st.Evaluations(ctx, runs[1].ID)
	require.NoError(t, err)
	require.NotEmpty(t, evals)
	assert.Equal(t, int64(6), evals[0].Seq)
}

func TestEvaluateGuardError(t *testing.T) {
	out, _, err := execute(t, NewEvaluateCommand(&RootOptions{Format: "text"}), faultyGraph, "--message", hotMessage)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error ["+ErrCodeRouting+"]")
	assert.Contains(t, out, "GUARD_FAILED")
}

func TestEvaluateMetrics(t *testing.T) {
	_, errOut, err := execute(t, NewEvaluateCommand(&RootOptions{Format: "text"}), plantGraph, "--message", hotMessage, "--metrics")
	require.NoError(t, err)

	assert.Contains(t, errOut, `nodenator_routes_total{node_from="Sensor",status="ok"} 1`)
	assert.Contains(t, errOut, `nodenator_transitions_total{node_from="Sensor",node_to="Alarm"} 1`)
	assert.Contains(t, errOut, `nodenator_guard_evaluations_total{kind="edge",result="true"} 2`)
	assert.Contains(t, errOut, "# TYPE nodenator_routes_total counter\n")
	assert.Contains(t, errOut, "# HELP nodenator_transitions_total Transitions emitted by routing\n")
}

func TestEvaluateBadMessages(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		wantMsg string
	}{
		{"unknown node", filepath.Join("testdata", "messages", "unknown_node.yaml"), `unknown node "Boiler"`},
		{"missing file", filepath.Join("testdata", "messages", "missing.yaml"), "read messages"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, NewEvaluateCommand(&RootOptions{Format: "text"}), plantGraph, "--message", tt.file)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, out, "Error ["+ErrCodeBadMessage+"]")
			assert.Contains(t, out, tt.wantMsg)
		})
	}
}

func TestEvaluateRequiresMessage(t *testing.T) {
	_, _, err := execute(t, NewEvaluateCommand(&RootOptions{Format: "text"}), plantGraph)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "message" not set`)
}
