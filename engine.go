// SPDX-License-Identifier: EPL-2.0

package ambientmix

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ik5/ambientmix/audio"
	"github.com/ik5/ambientmix/eqmath"
	"github.com/ik5/ambientmix/formats/flac"
	"github.com/ik5/ambientmix/formats/mp3"
	"github.com/ik5/ambientmix/formats/vorbis"
	"github.com/ik5/ambientmix/formats/wav"
	"github.com/ik5/ambientmix/fxbus"
	"github.com/ik5/ambientmix/spatial"
)

const (
	// Volume changes settle in about this long; load-in and fade-out
	// ramps reuse the same constant.
	gainRampSeconds = 0.02

	// A removed source is guaranteed to be released from the render
	// snapshot within this window.
	fadeOutWindow = 250 * time.Millisecond

	decodeBufSize = 4096
)

// SoundInfo describes one loaded sound for UI enumeration.
type SoundInfo struct {
	ID    string
	Emoji string
}

// Engine is the spatial mixing core: it owns the id->source registry,
// the shared effects bus and the master stage, and renders the mix on
// demand.
//
// Control methods are safe for concurrent use. Render must be driven by
// a single goroutine — normally the device player's pull loop.
type Engine struct {
	sampleRate  int
	sampleRateF float64
	quantum     int
	glide       float64 // per-quantum parameter glide fraction
	gainAlpha   float64 // per-sample gain smoothing coefficient

	mapper   spatial.Mapper
	decoders *audio.Registry
	fx       *fxbus.Bus
	master   *masterStage

	mu      sync.RWMutex
	sources map[string]*soundSource
	fading  []*soundSource
	active  atomic.Pointer[[]*soundSource]

	mixBuf  []float64
	sendBuf []float64
}

// NewEngine creates an engine with the default decoder set (WAV, MP3,
// Ogg Vorbis, FLAC) registered.
func NewEngine(opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, fmt.Errorf("engine option: %w", err)
		}
	}

	fx, err := fxbus.New(float64(cfg.sampleRate))
	if err != nil {
		return nil, err
	}

	master, err := newMasterStage(float64(cfg.sampleRate), cfg.headroomDB)
	if err != nil {
		return nil, err
	}

	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("flac", flac.Decoder{})

	quantumSec := float64(cfg.quantum) / float64(cfg.sampleRate)

	e := &Engine{
		sampleRate:  cfg.sampleRate,
		sampleRateF: float64(cfg.sampleRate),
		quantum:     cfg.quantum,
		glide:       math.Min(1, quantumSec/gainRampSeconds),
		gainAlpha:   1 - math.Exp(-1/(gainRampSeconds*float64(cfg.sampleRate))),
		mapper:      spatial.NewMapper(cfg.roomExtent),
		decoders:    reg,
		fx:          fx,
		master:      master,
		sources:     make(map[string]*soundSource),
		mixBuf:      make([]float64, cfg.quantum),
		sendBuf:     make([]float64, cfg.quantum),
	}

	empty := make([]*soundSource, 0)
	e.active.Store(&empty)

	return e, nil
}

// SampleRate returns the engine sample rate in Hz.
func (e *Engine) SampleRate() int { return e.sampleRate }

// Room returns the spatial mapper in use.
func (e *Engine) Room() spatial.Mapper { return e.mapper }

// Effects returns the shared effects bus.
func (e *Engine) Effects() *fxbus.Bus { return e.fx }

// LoadSound decodes the payload, builds the playback chain and starts
// looped playback at silence, ramping in over about 20 ms. Exactly one
// source may exist per id. A decode failure leaves every other source
// untouched.
func (e *Engine) LoadSound(id, emoji string, data []byte) error {
	if id == "" {
		return fmt.Errorf("load sound: %w", ErrUnknownSound)
	}

	src, _, err := e.decoders.DecodeBytes(data)
	if err != nil {
		if errors.Is(err, audio.ErrUnknownFormat) {
			return fmt.Errorf("load sound %q: %w", id, ErrUnsupportedFormat)
		}
		return fmt.Errorf("load sound %q: %w: %w", id, ErrDecodeFailure, err)
	}
	defer src.Close()

	clip, err := audio.ReadAll(src, e.sampleRate, decodeBufSize)
	if err != nil {
		return fmt.Errorf("load sound %q: %w: %w", id, ErrDecodeFailure, err)
	}
	if len(clip) == 0 {
		return fmt.Errorf("load sound %q: empty clip: %w", id, ErrDecodeFailure)
	}

	s := newSoundSource(id, emoji, clip, e.sampleRateF, 1)

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.sources[id]; exists {
		return fmt.Errorf("load sound %q: %w", id, ErrDuplicateSound)
	}
	e.sources[id] = s
	e.rebuildActiveLocked()

	return nil
}

// RemoveSound fades the source to silence and releases it; the id is
// free for reuse immediately. Unknown ids are a no-op.
func (e *Engine) RemoveSound(id string) {
	e.mu.Lock()
	s, ok := e.sources[id]
	if !ok {
		e.mu.Unlock()
		return
	}
	delete(e.sources, id)
	s.dying.Store(true)
	e.fading = append(e.fading, s)
	e.rebuildActiveLocked()
	e.mu.Unlock()

	// Bounded release even when no further control calls arrive: after
	// the fade window the source is dropped whether or not the render
	// path already marked it.
	time.AfterFunc(fadeOutWindow, func() {
		s.spent.Store(true)
		e.mu.Lock()
		e.rebuildActiveLocked()
		e.mu.Unlock()
	})
}

// SetSoundVolume sets the target volume, clamped to [0, 1]. The render
// path glides to it; unknown ids are a no-op.
func (e *Engine) SetSoundVolume(id string, v float64) {
	if s, ok := e.lookup(id); ok {
		s.volume.Store(math.Float64bits(clamp01(v)))
	}
}

// GetSoundVolume returns the target volume for id.
func (e *Engine) GetSoundVolume(id string) (float64, bool) {
	s, ok := e.lookup(id)
	if !ok {
		return 0, false
	}
	return math.Float64frombits(s.volume.Load()), true
}

// SetMute mutes or unmutes a source without touching its volume.
func (e *Engine) SetMute(id string, muted bool) {
	if s, ok := e.lookup(id); ok {
		s.muted.Store(muted)
	}
}

// SetSoundPosition moves a source on the room plane. Positions are
// clamped to the room extents; attenuation, muffling and reverb send
// follow on the next quantum.
func (e *Engine) SetSoundPosition(id string, x, y float64) {
	s, ok := e.lookup(id)
	if !ok {
		return
	}
	x, y = e.mapper.Clamp(x, y)
	s.pos.Store(&roomPos{X: x, Y: y})
}

// GetSoundPosition returns the clamped position of a source.
func (e *Engine) GetSoundPosition(id string) (x, y float64, ok bool) {
	s, found := e.lookup(id)
	if !found {
		return 0, 0, false
	}
	p := s.pos.Load()
	return p.X, p.Y, true
}

// SetEQBand sets one band's gain in dB, clamped to [-12, 12]. Slot
// indexes outside [0, 4] are clamped as well.
func (e *Engine) SetEQBand(id string, slot int, gainDB float64) {
	s, ok := e.lookup(id)
	if !ok {
		return
	}
	slot = clampSlot(slot)

	for {
		cur := s.eq.Load()
		next := *cur
		next.Gains[slot] = eqmath.ClampGain(gainDB)
		if s.eq.CompareAndSwap(cur, &next) {
			return
		}
	}
}

// SetEQBandQ sets one band's Q, clamped to [0.1, 10].
func (e *Engine) SetEQBandQ(id string, slot int, q float64) {
	s, ok := e.lookup(id)
	if !ok {
		return
	}
	slot = clampSlot(slot)

	for {
		cur := s.eq.Load()
		next := *cur
		next.Qs[slot] = eqmath.ClampQ(q)
		if s.eq.CompareAndSwap(cur, &next) {
			return
		}
	}
}

// GetSoundEQ returns the current 5-band snapshot for id.
func (e *Engine) GetSoundEQ(id string) ([eqmath.NumBands]eqmath.Band, bool) {
	var bands [eqmath.NumBands]eqmath.Band

	s, ok := e.lookup(id)
	if !ok {
		return bands, false
	}

	st := s.eq.Load()
	for i := range bands {
		bands[i] = eqmath.Band{
			Type:   eqmath.SlotType(i),
			FreqHz: eqmath.SlotFreq(i),
			GainDB: st.Gains[i],
			Q:      st.Qs[i],
		}
	}
	return bands, true
}

// ApplyEQPreset sets all five band gains in one atomic update. Qs are
// preserved.
func (e *Engine) ApplyEQPreset(id string, gains [eqmath.NumBands]float64) {
	s, ok := e.lookup(id)
	if !ok {
		return
	}
	s.applyGains(gains)
}

// ApplyEQPresetByName applies a built-in EQ preset ("Flat", "Bass
// Boost", ...) to a source.
func (e *Engine) ApplyEQPresetByName(id, name string) error {
	p, ok := eqmath.PresetByName(name)
	if !ok {
		return fmt.Errorf("eq preset %q: %w", name, ErrUnknownPreset)
	}

	s, found := e.lookup(id)
	if !found {
		return fmt.Errorf("eq preset %q: sound %q: %w", name, id, ErrUnknownSound)
	}
	s.applyGains(p.Gains)
	return nil
}

// Sounds lists the loaded sounds sorted by id.
func (e *Engine) Sounds() []SoundInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]SoundInfo, 0, len(e.sources))
	for _, s := range e.sources {
		out = append(out, SoundInfo{ID: s.id, Emoji: s.emoji})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SetReverb toggles and configures the shared reverb send.
func (e *Engine) SetReverb(enabled bool, p fxbus.ReverbParams) {
	e.fx.SetReverbParams(p)
	e.fx.SetReverbEnabled(enabled)
}

// SetDelay toggles and configures the echo insert.
func (e *Engine) SetDelay(enabled bool, p fxbus.DelayParams) {
	e.fx.SetDelayParams(p)
	e.fx.SetDelayEnabled(enabled)
}

// SetLofi toggles and configures the lofi insert.
func (e *Engine) SetLofi(enabled bool, p fxbus.LofiParams) {
	e.fx.SetLofiParams(p)
	e.fx.SetLofiEnabled(enabled)
}

// Render fills dst with the master mix. dst may be any length; it is
// processed in quantum-sized blocks with parameters latched per block.
// Render never blocks on control-path activity.
func (e *Engine) Render(dst []float32) {
	for len(dst) > 0 {
		n := min(e.quantum, len(dst))
		e.renderQuantum(n)
		for i := range n {
			dst[i] = float32(e.mixBuf[i])
		}
		dst = dst[n:]
	}
}

func (e *Engine) renderQuantum(n int) {
	mix := e.mixBuf[:n]
	send := e.sendBuf[:n]
	clear(mix)
	clear(send)

	for _, s := range *e.active.Load() {
		if s.spent.Load() {
			continue
		}
		s.renderInto(mix, send, n, e)
	}

	e.fx.Process(mix, send)
	e.master.process(mix)
}

func (e *Engine) lookup(id string) (*soundSource, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s, ok := e.sources[id]
	return s, ok
}

// rebuildActiveLocked publishes a fresh render snapshot: all registered
// sources plus any still-fading removed ones. Callers hold e.mu.
func (e *Engine) rebuildActiveLocked() {
	kept := e.fading[:0]
	for _, s := range e.fading {
		if !s.spent.Load() {
			kept = append(kept, s)
		}
	}
	// Zero the tail so spent sources can be collected.
	for i := len(kept); i < len(e.fading); i++ {
		e.fading[i] = nil
	}
	e.fading = kept

	snapshot := make([]*soundSource, 0, len(e.sources)+len(e.fading))
	for _, s := range e.sources {
		snapshot = append(snapshot, s)
	}
	snapshot = append(snapshot, e.fading...)
	e.active.Store(&snapshot)
}

func (s *soundSource) applyGains(gains [eqmath.NumBands]float64) {
	for {
		cur := s.eq.Load()
		next := *cur
		for i, g := range gains {
			next.Gains[i] = eqmath.ClampGain(g)
		}
		if s.eq.CompareAndSwap(cur, &next) {
			return
		}
	}
}

func clampSlot(slot int) int {
	if slot < 0 {
		return 0
	}
	if slot >= eqmath.NumBands {
		return eqmath.NumBands - 1
	}
	return slot
}
