// SPDX-License-Identifier: EPL-2.0

package fxbus

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-dsp/dsp/delay"
	"github.com/cwbudde/algo-dsp/dsp/effects"
	"github.com/cwbudde/algo-dsp/dsp/effects/reverb"
	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-dsp/dsp/filter/design"
)

const (
	maxDelaySeconds = 2.0

	defaultToneQ = 0.707

	// Sets how loud full-scale lofi noise is relative to the signal.
	noiseScale = 0.05
)

// ReverbParams configure the shared reverb send.
type ReverbParams struct {
	// Decay controls the room size / tail length in [0, 1].
	Decay float64
	// Damp controls high-frequency damping of the tail in [0, 1].
	Damp float64
}

// DelayParams configure the echo insert.
type DelayParams struct {
	TimeMs   float64 // echo time in milliseconds
	Feedback float64 // repeat amount in [0, 0.95]
	Mix      float64 // wet/dry mix in [0, 1]
}

// LofiParams configure the vintage degradation insert.
type LofiParams struct {
	CutoffHz float64 // tone lowpass cutoff
	BitDepth float64 // quantization depth in [4, 16] bits
	Noise    float64 // added noise amount in [0, 1]
}

// Bus is the shared effects stage: a reverb send plus an echo insert and
// a lofi insert on the master sum. Each effect toggles and configures
// independently; a disabled effect is skipped entirely.
//
// Control-path setters only publish parameters through atomics; all DSP
// state is owned by the render path, which applies pending changes at
// the start of each Process call.
type Bus struct {
	sampleRate float64

	reverbOn  atomic.Bool
	reverbCfg atomic.Pointer[ReverbParams]
	delayOn   atomic.Bool
	delayCfg  atomic.Pointer[DelayParams]
	lofiOn    atomic.Bool
	lofiCfg   atomic.Pointer[LofiParams]

	// Render-owned state below.
	rev        *reverb.Reverb
	revApplied ReverbParams
	revActive  bool

	line         *delay.Line
	delayApplied DelayParams
	delaySamples float64
	delayActive  bool

	crusher     *effects.BitCrusher
	tone        *biquad.Section
	lofiApplied LofiParams
	lofiActive  bool
	noiseState  uint64
}

// New creates a bus for the given sample rate with every effect disabled
// and default parameters published.
func New(sampleRate float64) (*Bus, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("fxbus sample rate must be > 0 and finite: %f", sampleRate)
	}

	line, err := delay.New(int(maxDelaySeconds * sampleRate))
	if err != nil {
		return nil, fmt.Errorf("fxbus delay line: %w", err)
	}

	crusher, err := effects.NewBitCrusher(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("fxbus bit crusher: %w", err)
	}

	rev := reverb.NewReverb()
	// Send/return topology: the reverb contributes tail only, the dry
	// signal is already in the master sum.
	rev.SetDry(0)
	rev.SetWet(1)

	b := &Bus{
		sampleRate: sampleRate,
		rev:        rev,
		line:       line,
		crusher:    crusher,
		tone:       biquad.NewSection(design.Lowpass(3500, defaultToneQ, sampleRate)),
		noiseState: 0x9E3779B97F4A7C15,
	}

	b.SetReverbParams(ReverbParams{Decay: 0.7, Damp: 0.4})
	b.SetDelayParams(DelayParams{TimeMs: 350, Feedback: 0.35, Mix: 0.3})
	b.SetLofiParams(LofiParams{CutoffHz: 3500, BitDepth: 8, Noise: 0.02})

	return b, nil
}

// SetReverbEnabled toggles the reverb send.
func (b *Bus) SetReverbEnabled(on bool) { b.reverbOn.Store(on) }

// ReverbEnabled reports whether the reverb send is active.
func (b *Bus) ReverbEnabled() bool { return b.reverbOn.Load() }

// SetReverbParams publishes new reverb parameters, clamped to range.
func (b *Bus) SetReverbParams(p ReverbParams) {
	p.Decay = clamp(p.Decay, 0, 0.98)
	p.Damp = clamp(p.Damp, 0, 1)
	b.reverbCfg.Store(&p)
}

// ReverbParams returns the currently published reverb parameters.
func (b *Bus) ReverbParams() ReverbParams { return *b.reverbCfg.Load() }

// SetDelayEnabled toggles the echo insert.
func (b *Bus) SetDelayEnabled(on bool) { b.delayOn.Store(on) }

// DelayEnabled reports whether the echo insert is active.
func (b *Bus) DelayEnabled() bool { return b.delayOn.Load() }

// SetDelayParams publishes new echo parameters, clamped to range.
func (b *Bus) SetDelayParams(p DelayParams) {
	p.TimeMs = clamp(p.TimeMs, 1, maxDelaySeconds*1000)
	p.Feedback = clamp(p.Feedback, 0, 0.95)
	p.Mix = clamp(p.Mix, 0, 1)
	b.delayCfg.Store(&p)
}

// DelayParams returns the currently published echo parameters.
func (b *Bus) DelayParams() DelayParams { return *b.delayCfg.Load() }

// SetLofiEnabled toggles the lofi insert.
func (b *Bus) SetLofiEnabled(on bool) { b.lofiOn.Store(on) }

// LofiEnabled reports whether the lofi insert is active.
func (b *Bus) LofiEnabled() bool { return b.lofiOn.Load() }

// SetLofiParams publishes new lofi parameters, clamped to range.
func (b *Bus) SetLofiParams(p LofiParams) {
	nyquist := b.sampleRate * 0.49
	p.CutoffHz = clamp(p.CutoffHz, 200, math.Min(16000, nyquist))
	p.BitDepth = clamp(p.BitDepth, 4, 16)
	p.Noise = clamp(p.Noise, 0, 1)
	b.lofiCfg.Store(&p)
}

// LofiParams returns the currently published lofi parameters.
func (b *Bus) LofiParams() LofiParams { return *b.lofiCfg.Load() }

// Process runs the bus for one render quantum: the reverb return of
// reverbIn is added into mix, then the echo and lofi inserts are applied
// to mix in place. Must only be called from the render path.
func (b *Bus) Process(mix, reverbIn []float64) {
	b.processReverb(mix, reverbIn)
	b.processDelay(mix)
	b.processLofi(mix)
}

func (b *Bus) processReverb(mix, reverbIn []float64) {
	if !b.reverbOn.Load() {
		if b.revActive {
			b.rev.Reset()
			b.revActive = false
		}
		return
	}

	cfg := *b.reverbCfg.Load()
	if cfg != b.revApplied {
		b.rev.SetRoomSize(cfg.Decay)
		b.rev.SetDamp(cfg.Damp)
		b.revApplied = cfg
	}
	b.revActive = true

	for i := range mix {
		mix[i] += b.rev.ProcessSample(reverbIn[i])
	}
}

func (b *Bus) processDelay(mix []float64) {
	if !b.delayOn.Load() {
		if b.delayActive {
			b.line.Reset()
			b.delayActive = false
		}
		return
	}

	cfg := *b.delayCfg.Load()
	if cfg != b.delayApplied {
		b.delaySamples = cfg.TimeMs * b.sampleRate / 1000
		b.delayApplied = cfg
	}
	b.delayActive = true

	for i := range mix {
		x := mix[i]
		wet := b.line.ReadFractional(b.delaySamples)
		b.line.Write(x + wet*cfg.Feedback)
		mix[i] = x*(1-cfg.Mix) + wet*cfg.Mix
	}
}

func (b *Bus) processLofi(mix []float64) {
	if !b.lofiOn.Load() {
		if b.lofiActive {
			b.tone.Reset()
			b.crusher.Reset()
			b.lofiActive = false
		}
		return
	}

	cfg := *b.lofiCfg.Load()
	if cfg != b.lofiApplied {
		if cfg.CutoffHz != b.lofiApplied.CutoffHz {
			// Swapping coefficients keeps the section's delay-line
			// state, avoiding a step in the output.
			b.tone.Coefficients = design.Lowpass(cfg.CutoffHz, defaultToneQ, b.sampleRate)
		}
		if cfg.BitDepth != b.lofiApplied.BitDepth {
			// Range is pre-clamped, SetBitDepth cannot fail here.
			_ = b.crusher.SetBitDepth(cfg.BitDepth)
		}
		b.lofiApplied = cfg
	}
	b.lofiActive = true

	for i := range mix {
		y := b.tone.ProcessSample(mix[i])
		y = b.crusher.ProcessSample(y)
		y += b.nextNoise() * cfg.Noise * noiseScale
		mix[i] = y
	}
}

// nextNoise returns white noise in [-1, 1) from a cheap LCG; the render
// path cannot afford a locked RNG.
func (b *Bus) nextNoise() float64 {
	b.noiseState = b.noiseState*6364136223846793005 + 1442695040888963407
	return float64(int64(b.noiseState)) / float64(math.MaxInt64)
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
