package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCurveRequiredForLevel(t *testing.T) {
	c := Curve{Base: 100, Growth: 1.5}

	require.InDelta(t, 100, c.RequiredForLevel(1), 1e-9)
	require.Greater(t, c.RequiredForLevel(2), c.RequiredForLevel(1))
	require.Greater(t, c.RequiredForLevel(10), c.RequiredForLevel(9))

	// Below-range levels clamp to level 1 rather than producing a
	// degenerate threshold.
	require.InDelta(t, c.RequiredForLevel(1), c.RequiredForLevel(0), 1e-9)
}

func TestCurveReduceMultiLevel(t *testing.T) {
	c := Curve{Base: 100, Growth: 1.5}

	// One grant large enough for several levels at once.
	total := c.RequiredForLevel(1) + c.RequiredForLevel(2) + c.RequiredForLevel(3) + 10
	level, xp := c.Reduce(1, total)
	require.Equal(t, 4, level)
	require.InDelta(t, 10, xp, 1e-6)

	// Already-normalized pairs are untouched.
	level, xp = c.Reduce(2, 50)
	require.Equal(t, 2, level)
	require.InDelta(t, 50, xp, 1e-9)
}

func TestCurveReduceOrderIndependence(t *testing.T) {
	c := Curve{Base: 100, Growth: 1.5}
	grants := []float64{10, 250, 3, 999, 42, 512, 77}

	level, xp := 1, 0.0
	for _, g := range grants {
		level, xp = c.Reduce(level, xp+g)
	}

	var total float64
	for _, g := range grants {
		total += g
	}
	wantLevel, wantXP := c.Reduce(1, total)

	require.Equal(t, wantLevel, level)
	require.InDelta(t, wantXP, xp, 1e-6)
}

func TestCurveReduceRejectsInvalidXP(t *testing.T) {
	c := Curve{Base: 100, Growth: 1.5}

	level, xp := c.Reduce(3, -5)
	require.Equal(t, 3, level)
	require.Zero(t, xp)
}
