// SPDX-License-Identifier: EPL-2.0

package eqmath

import (
	"math"
	"testing"
)

func TestPresetByName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		wantOK bool
	}{
		{"Flat", true},
		{"flat", true},
		{"BASS BOOST", true},
		{"Vocal", true},
		{"Bright", true},
		{"Warm", true},
		{"Presence", true},
		{"Metal", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := PresetByName(tt.name)
			if ok != tt.wantOK {
				t.Errorf("PresetByName(%q) ok = %v, want %v", tt.name, ok, tt.wantOK)
			}
		})
	}
}

func TestPresetGainsWithinRange(t *testing.T) {
	t.Parallel()

	for _, p := range Presets {
		for i, g := range p.Gains {
			if g < MinGainDB || g > MaxGainDB {
				t.Errorf("preset %q slot %d gain %v out of range", p.Name, i, g)
			}
		}
	}
}

func TestPresetShapes(t *testing.T) {
	t.Parallel()

	// Each preset's response should lean the way its name promises.
	bandsFor := func(p Preset) []Band {
		bands := DefaultBands()
		for i := range bands {
			bands[i].GainDB = p.Gains[i]
		}
		return bands[:]
	}

	bass, _ := PresetByName("Bass Boost")
	if lo, hi := ResponseDB(bandsFor(bass), 100), ResponseDB(bandsFor(bass), 8000); lo <= hi {
		t.Errorf("Bass Boost: low response %v <= high response %v", lo, hi)
	}

	bright, _ := PresetByName("Bright")
	if lo, hi := ResponseDB(bandsFor(bright), 100), ResponseDB(bandsFor(bright), 8000); hi <= lo {
		t.Errorf("Bright: high response %v <= low response %v", hi, lo)
	}

	flat, _ := PresetByName("Flat")
	for _, f := range []float64{100, 1000, 8000} {
		if got := ResponseDB(bandsFor(flat), f); math.Abs(got) > 1e-12 {
			t.Errorf("Flat response at %v Hz = %v, want 0", f, got)
		}
	}
}
