package engine

import "math"

// Curve is the leveling curve. XP carried on the profile is the residual
// toward the next level, so the reduction below must fire whenever the
// residual reaches the current threshold.
type Curve struct {
	Base   float64
	Growth float64
}

// RequiredForLevel returns the XP needed to advance from the given level
// to the next. Pure and deterministic so state can be replayed in tests.
func (c Curve) RequiredForLevel(level int) float64 {
	if level < 1 {
		level = 1
	}
	return c.Base * math.Pow(float64(level), c.Growth)
}

// Reduce normalizes a (level, residual xp) pair, carrying overflow into
// level increments. A single large grant can produce multi-level jumps.
func (c Curve) Reduce(level int, xp float64) (int, float64) {
	if level < 1 {
		level = 1
	}
	if xp < 0 || math.IsNaN(xp) {
		return level, 0
	}
	for xp >= c.RequiredForLevel(level) {
		xp -= c.RequiredForLevel(level)
		level++
	}
	return level, xp
}
