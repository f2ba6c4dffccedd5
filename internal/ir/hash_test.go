package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintStable(t *testing.T) {
	a := map[string]any{"name": "A", "edges": []any{"x", "y"}}
	b := map[string]any{"edges": []any{"x", "y"}, "name": "A"}

	fa, err := Fingerprint(DomainGraph, a)
	require.NoError(t, err)
	fb, err := Fingerprint(DomainGraph, b)
	require.NoError(t, err)

	assert.Equal(t, fa, fb)
	assert.Len(t, fa, 64)
}

func TestFingerprintDomainSeparation(t *testing.T) {
	v := Object{"k": String("v")}
	assert.NotEqual(t,
		MustFingerprint(DomainGraph, v),
		MustFingerprint(DomainPredicate, v))
}

func TestFingerprintContentSensitive(t *testing.T) {
	assert.NotEqual(t,
		MustFingerprint(DomainGraph, List{Int(1), Int(2)}),
		MustFingerprint(DomainGraph, List{Int(2), Int(1)}))
}

func TestMustFingerprintPanics(t *testing.T) {
	assert.Panics(t, func() {
		MustFingerprint(DomainGraph, nil)
	})
}
