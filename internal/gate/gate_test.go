package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateStartsClosed(t *testing.T) {
	g := New("admin123")
	assert.Equal(t, State{}, g.Snapshot())

	_, _, err := g.Confirm("admin123")
	assert.ErrorIs(t, err, ErrNotOpen)
}

func TestGateMismatchThenMatch(t *testing.T) {
	g := New("admin123")
	g.Open("X")
	assert.Equal(t, State{Open: true, Target: "X"}, g.Snapshot())

	for i := 0; i < 3; i++ {
		target, ok, err := g.Confirm("wrong")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, target)
		assert.Equal(t, State{Open: true, Target: "X", Error: true}, g.Snapshot())
	}

	target, ok, err := g.Confirm("admin123")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "X", target)
	assert.Equal(t, State{}, g.Snapshot())
}

func TestGateCancel(t *testing.T) {
	g := New("admin123")
	g.Open("X")
	g.Confirm("nope")

	g.Cancel()
	assert.Equal(t, State{}, g.Snapshot())

	_, _, err := g.Confirm("admin123")
	assert.ErrorIs(t, err, ErrNotOpen)
}

func TestGateReopenClearsError(t *testing.T) {
	g := New("admin123")
	g.Open("X")
	g.Confirm("nope")

	g.Open("Y")
	assert.Equal(t, State{Open: true, Target: "Y"}, g.Snapshot())
}

func TestGateSecretIsCaseSensitive(t *testing.T) {
	g := New("admin123")
	g.Open("X")
	_, ok, _ := g.Confirm("ADMIN123")
	assert.False(t, ok)
}
