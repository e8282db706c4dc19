// SPDX-License-Identifier: EPL-2.0

package spatial

import "math"

const (
	// Attenuation never drops fully to zero so a source dragged to the
	// edge remains faintly audible instead of vanishing.
	gainFloor = 0.02

	// Muffle cutoff range: fully open at the center, heavily occluded at
	// the room edge.
	maxCutoffHz = 18000.0
	minCutoffHz = 700.0

	// Reverb send range: a small ambience floor at the center, close to
	// full send pressed against a wall.
	sendFloor = 0.05
	sendRange = 0.9
)

// Params are the spatially derived playback parameters of one sound.
type Params struct {
	// Gain is the center-distance attenuation in (0, 1].
	Gain float64
	// CutoffHz is the muffle lowpass cutoff.
	CutoffHz float64
	// ReverbSend is the wall-proximity reverb send level in [0, 1).
	ReverbSend float64
}

// Mapper converts a position on the room plane into playback parameters.
// The room is the square [-R, R] x [-R, R] with the listener at (0, 0).
type Mapper struct {
	halfExtent float64
}

// NewMapper returns a mapper for a room of the given half-extent R.
// Non-positive extents fall back to 1.
func NewMapper(halfExtent float64) Mapper {
	if halfExtent <= 0 || math.IsNaN(halfExtent) || math.IsInf(halfExtent, 0) {
		halfExtent = 1
	}
	return Mapper{halfExtent: halfExtent}
}

// HalfExtent returns the room half-extent R.
func (m Mapper) HalfExtent() float64 { return m.halfExtent }

// Clamp bounds a position to the room extents.
func (m Mapper) Clamp(x, y float64) (float64, float64) {
	r := m.halfExtent
	return clamp(x, -r, r), clamp(y, -r, r)
}

// Map converts a (clamped) position into playback parameters. All three
// outputs are continuous; Gain and CutoffHz decrease monotonically with
// the distance from the center, ReverbSend increases monotonically with
// proximity to the nearest wall.
func (m Mapper) Map(x, y float64) Params {
	x, y = m.Clamp(x, y)

	// Normalized center distance. Corners exceed R, so cap at 1.
	d := math.Hypot(x, y) / m.halfExtent
	if d > 1 {
		d = 1
	}

	// Normalized wall proximity via the Chebyshev distance.
	e := math.Max(math.Abs(x), math.Abs(y)) / m.halfExtent

	near := 1 - d
	gain := gainFloor + (1-gainFloor)*near*near

	// Log interpolation keeps the cutoff sweep perceptually even.
	cutoff := maxCutoffHz * math.Pow(minCutoffHz/maxCutoffHz, d)

	send := sendFloor + sendRange*math.Pow(e, 1.5)

	return Params{
		Gain:       gain,
		CutoffHz:   cutoff,
		ReverbSend: send,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
