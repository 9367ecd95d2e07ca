package colorutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewColormap_Unknown(t *testing.T) {
	_, err := NewColormap("Rainbow")
	require.Error(t, err)
}

func TestNewColormap_AllNames(t *testing.T) {
	for _, name := range PaletteNames() {
		cm, err := NewColormap(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, cm.Name())
		assert.Equal(t, uint8(255), cm.At(0.5).A, name)
	}
}

func TestColormap_Saturates(t *testing.T) {
	cm, err := NewColormap("")
	require.NoError(t, err)
	cm.SetRange(10, 20)

	assert.Equal(t, cm.At(10), cm.At(-1000))
	assert.Equal(t, cm.At(20), cm.At(1e9))
	assert.NotEqual(t, cm.At(10), cm.At(20))
	assert.Equal(t, cm.NaNColor, cm.At(math.NaN()))
}

func TestColormap_Normalize(t *testing.T) {
	cm, err := NewColormap("BlueRed")
	require.NoError(t, err)

	cm.SetRange(4, 2)
	lo, hi := cm.Range()
	assert.Equal(t, 2.0, lo)
	assert.Equal(t, 4.0, hi)
	assert.InDelta(t, 0.5, cm.Normalize(3), 1e-12)

	cm.SetRange(1, 1)
	assert.Equal(t, 0.5, cm.Normalize(7))
}

func TestColormap_RdBuEnds(t *testing.T) {
	cm, err := NewColormap("RdBu")
	require.NoError(t, err)
	low, high := cm.AtFraction(0), cm.AtFraction(1)
	assert.Greater(t, low.R, low.B, "low end is red")
	assert.Greater(t, high.B, high.R, "high end is blue")
}
