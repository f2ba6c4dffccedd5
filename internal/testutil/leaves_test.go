package testutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fridex/nodenator/internal/ir"
)

func TestCallLogRecordsInOrder(t *testing.T) {
	log := NewCallLog()
	reg := Registry(log, map[string]any{"a": true, "b": "not a bool"})

	a, err := reg.Lookup("a")
	require.NoError(t, err)
	b, err := reg.Lookup("b")
	require.NoError(t, err)

	got, err := b(Message{}, ir.Object{"k": ir.Int(1)})
	require.NoError(t, err)
	assert.Equal(t, "not a bool", got)

	got, err = a(Message{}, nil)
	require.NoError(t, err)
	assert.Equal(t, true, got)

	assert.Equal(t, []string{"b", "a"}, log.Names())
	assert.Equal(t, ir.Object{"k": ir.Int(1)}, log.Calls()[0].Args)

	log.Reset()
	assert.Empty(t, log.Names())
}

func TestFailingAndForbidden(t *testing.T) {
	log := NewCallLog()
	boom := errors.New("boom")

	_, err := log.Failing("f", boom)(Message{}, nil)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"f"}, log.Names())

	_, err = Forbidden("x")(Message{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "x must not be evaluated")
}

func TestMessage(t *testing.T) {
	m := Message{Data: map[string]any{"a": 1}, From: "A", To: "B"}
	assert.Equal(t, map[string]any{"a": 1}, m.Payload())
	assert.Equal(t, "A", m.Sender())
	assert.Equal(t, "B", m.Recipient())
}
