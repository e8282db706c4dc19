// SPDX-License-Identifier: EPL-2.0

package ambientmix

import (
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-dsp/dsp/filter/design"

	"github.com/ik5/ambientmix/eqmath"
)

// roomPos is published as one pointer so a position update can never be
// observed with a stale coordinate pair.
type roomPos struct {
	X, Y float64
}

// eqState is the full 5-slot target state, published as one pointer so
// preset application is atomic.
type eqState struct {
	Gains [eqmath.NumBands]float64
	Qs    [eqmath.NumBands]float64
}

// soundSource is one looping clip placed on the room plane.
//
// The atomic cells below are written by the control path and latched by
// the render path once per quantum; everything after the marker is owned
// exclusively by the render path.
type soundSource struct {
	id    string
	emoji string
	clip  []float32

	volume atomic.Uint64 // float64 bits, target volume in [0, 1]
	muted  atomic.Bool
	pos    atomic.Pointer[roomPos]
	eq     atomic.Pointer[eqState]
	dying  atomic.Bool
	spent  atomic.Bool

	// Render-owned state.
	head          int
	gain          float64
	bands         [eqmath.NumBands]*biquad.Section
	appliedGains  [eqmath.NumBands]float64
	appliedQs     [eqmath.NumBands]float64
	lowpass       *biquad.Section
	appliedCutoff float64
	send          float64
}

func newSoundSource(id, emoji string, clip []float32, sampleRate, volume float64) *soundSource {
	s := &soundSource{
		id:    id,
		emoji: emoji,
		clip:  clip,
	}
	s.volume.Store(math.Float64bits(clamp01(volume)))
	s.pos.Store(&roomPos{})

	st := &eqState{}
	for i := range st.Qs {
		st.Qs[i] = eqmath.DefaultQ
	}
	s.eq.Store(st)

	for i := range s.bands {
		s.bands[i] = biquad.NewSection(bandCoefficients(i, 0, eqmath.DefaultQ, sampleRate))
		s.appliedQs[i] = eqmath.DefaultQ
	}
	// Cutoff zero forces the first quantum to adopt the spatial target
	// without gliding from an arbitrary starting point.
	s.lowpass = biquad.NewSection(biquad.Coefficients{B0: 1})

	return s
}

// bandCoefficients designs the biquad for one EQ slot. Slot frequencies
// are fixed against the default 44.1 kHz rate; at lower engine rates
// they are pulled under Nyquist so the design stays stable.
func bandCoefficients(slot int, gainDB, q, sampleRate float64) biquad.Coefficients {
	freq := math.Min(eqmath.SlotFreq(slot), maxFilterHz(sampleRate))
	switch eqmath.SlotType(slot) {
	case eqmath.LowShelf:
		return design.LowShelf(freq, gainDB, q, sampleRate)
	case eqmath.HighShelf:
		return design.HighShelf(freq, gainDB, q, sampleRate)
	default:
		return design.Peak(freq, gainDB, q, sampleRate)
	}
}

// renderInto adds n frames of this source into the mix and reverb-send
// buffers. Parameters are latched once on entry, so a whole quantum sees
// either the pre- or post-update value of every cell, never a torn mix.
func (s *soundSource) renderInto(mix, send []float64, n int, e *Engine) {
	if len(s.clip) == 0 {
		if s.dying.Load() {
			s.spent.Store(true)
		}
		return
	}

	p := s.pos.Load()
	sp := e.mapper.Map(p.X, p.Y)

	target := math.Float64frombits(s.volume.Load()) * sp.Gain
	if s.muted.Load() || s.dying.Load() {
		target = 0
	}

	s.glideEQ(e)
	s.glideCutoff(sp.CutoffHz, e)
	s.send += (sp.ReverbSend - s.send) * e.glide

	alpha := e.gainAlpha
	for i := range n {
		x := float64(s.clip[s.head])
		s.head++
		if s.head == len(s.clip) {
			s.head = 0
		}

		for b := range s.bands {
			x = s.bands[b].ProcessSample(x)
		}
		x = s.lowpass.ProcessSample(x)

		s.gain += alpha * (target - s.gain)
		x *= s.gain

		mix[i] += x
		send[i] += x * s.send
	}

	if s.dying.Load() && s.gain < 1e-4 {
		s.spent.Store(true)
	}
}

// glideEQ moves the applied band gains toward their targets and swaps
// section coefficients in place. Delay-line state is preserved across
// the swap, so there is no discontinuity, and the per-quantum glide
// keeps gain steps small enough to avoid zipper noise.
func (s *soundSource) glideEQ(e *Engine) {
	st := s.eq.Load()
	for i := range s.bands {
		g := glideValue(s.appliedGains[i], st.Gains[i], e.glide, 0.01)
		q := glideValue(s.appliedQs[i], st.Qs[i], e.glide, 0.001)
		if g == s.appliedGains[i] && q == s.appliedQs[i] {
			continue
		}
		s.bands[i].Coefficients = bandCoefficients(i, g, q, e.sampleRateF)
		s.appliedGains[i] = g
		s.appliedQs[i] = q
	}
}

// glideCutoff moves the muffle lowpass toward the spatial target
// geometrically, which keeps the sweep perceptually even.
func (s *soundSource) glideCutoff(targetHz float64, e *Engine) {
	targetHz = math.Min(targetHz, maxFilterHz(e.sampleRateF))
	if s.appliedCutoff == 0 {
		s.appliedCutoff = targetHz
	} else {
		next := s.appliedCutoff * math.Pow(targetHz/s.appliedCutoff, e.glide)
		if math.Abs(next-targetHz) < 1 {
			next = targetHz
		}
		if next == s.appliedCutoff {
			return
		}
		s.appliedCutoff = next
	}

	s.lowpass.Coefficients = design.Lowpass(s.appliedCutoff, muffleQ, e.sampleRateF)
}

const muffleQ = 0.707

// maxFilterHz is the highest frequency a filter may be designed at.
func maxFilterHz(sampleRate float64) float64 {
	return 0.45 * sampleRate
}

// glideValue steps cur toward target by the glide fraction, snapping
// once the remainder is below eps.
func glideValue(cur, target, glide, eps float64) float64 {
	next := cur + (target-cur)*glide
	if math.Abs(target-next) < eps {
		return target
	}
	return next
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
