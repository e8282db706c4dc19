// SPDX-License-Identifier: EPL-2.0

package ambientmix

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ik5/ambientmix/eqmath"
)

// ScenePlacement describes how one already-loaded sound participates in
// a scene. X and Y are relative room coordinates in [-1, 1]; they are
// scaled by the engine's room extent on apply.
type ScenePlacement struct {
	Volume float64
	X, Y   float64
	Muted  bool
	EQ     *[eqmath.NumBands]float64
}

// Scene is a named arrangement of sounds.
type Scene struct {
	Name       string
	Placements map[string]ScenePlacement
}

var scenes = map[string]Scene{
	"rainy night": {
		Name: "Rainy Night",
		Placements: map[string]ScenePlacement{
			"rain": {Volume: 0.8, X: 0, Y: 0.2,
				EQ: &[eqmath.NumBands]float64{-2, 0, 1, 2, 3}},
			"thunder": {Volume: 0.5, X: -0.8, Y: -0.7,
				EQ: &[eqmath.NumBands]float64{5, 2, 0, -2, -4}},
			"wind": {Volume: 0.4, X: 0.7, Y: 0.5},
		},
	},
	"forest morning": {
		Name: "Forest Morning",
		Placements: map[string]ScenePlacement{
			"birds": {Volume: 0.7, X: 0.3, Y: -0.4,
				EQ: &[eqmath.NumBands]float64{-3, -1, 1, 3, 4}},
			"stream": {Volume: 0.6, X: -0.4, Y: 0.3},
			"wind":   {Volume: 0.3, X: 0.6, Y: 0.6},
		},
	},
	"seaside": {
		Name: "Seaside",
		Placements: map[string]ScenePlacement{
			"waves": {Volume: 0.9, X: 0, Y: 0.4,
				EQ: &[eqmath.NumBands]float64{4, 2, 0, -1, -2}},
			"wind":  {Volume: 0.5, X: -0.5, Y: -0.3},
			"gulls": {Volume: 0.4, X: 0.8, Y: -0.8},
		},
	},
}

// ScenePresets lists the built-in scene names, sorted.
func ScenePresets() []string {
	out := make([]string, 0, len(scenes))
	for _, sc := range scenes {
		out = append(out, sc.Name)
	}
	sort.Strings(out)
	return out
}

// LoadScenePreset applies a built-in scene to the engine. Every sound
// the scene names must already be loaded; on any missing sound the call
// fails without touching a single parameter.
func (e *Engine) LoadScenePreset(name string) error {
	sc, ok := scenes[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("scene %q: %w", name, ErrUnknownPreset)
	}
	return e.ApplyScene(sc)
}

// ApplyScene validates and applies an arbitrary scene. Placements refer
// to sounds by id; relative coordinates are scaled to room units.
func (e *Engine) ApplyScene(sc Scene) error {
	e.mu.RLock()
	targets := make(map[string]*soundSource, len(sc.Placements))
	for id := range sc.Placements {
		s, ok := e.sources[id]
		if !ok {
			e.mu.RUnlock()
			return fmt.Errorf("scene %q: sound %q: %w", sc.Name, id, ErrUnknownSound)
		}
		targets[id] = s
	}
	e.mu.RUnlock()

	half := e.mapper.HalfExtent()
	for id, p := range sc.Placements {
		s := targets[id]
		e.SetSoundVolume(id, p.Volume)
		s.muted.Store(p.Muted)
		e.SetSoundPosition(id, p.X*half, p.Y*half)
		if p.EQ != nil {
			s.applyGains(*p.EQ)
		}
	}
	return nil
}
