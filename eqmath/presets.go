// SPDX-License-Identifier: EPL-2.0

package eqmath

import "strings"

// Preset is a named set of gains applied atomically to the five slots.
type Preset struct {
	Name  string
	Gains [NumBands]float64
}

// Built-in presets, gains in slot order Low/Low-Mid/Mid/High-Mid/High.
var Presets = []Preset{
	{Name: "Flat", Gains: [NumBands]float64{0, 0, 0, 0, 0}},
	{Name: "Bass Boost", Gains: [NumBands]float64{6, 3, 0, -2, -2}},
	{Name: "Vocal", Gains: [NumBands]float64{-2, -1, 4, 2, 1}},
	{Name: "Bright", Gains: [NumBands]float64{-2, 1, 2, 4, 6}},
	{Name: "Warm", Gains: [NumBands]float64{3, 2, 0, -1, -2}},
	{Name: "Presence", Gains: [NumBands]float64{-1, 2, 4, 3, 1}},
}

// PresetByName looks up a built-in preset, ignoring case.
func PresetByName(name string) (Preset, bool) {
	for _, p := range Presets {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Preset{}, false
}
