// SPDX-License-Identifier: EPL-2.0

package ambientmix

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Player streams the engine's mix to the default audio device. The
// device pulls; each Read renders exactly the requested span, so no
// extra buffering sits between the engine and the hardware.
type Player struct {
	engine *Engine

	mu     sync.Mutex
	ctx    *oto.Context
	player *oto.Player
	buf    []float32
}

// NewPlayer opens the audio device for the engine's sample rate. The
// output is mono float32, matching the engine's native format.
func NewPlayer(e *Engine) (*Player, error) {
	p := &Player{engine: e}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   e.SampleRate(),
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   50 * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}
	<-ready

	p.ctx = ctx
	p.player = ctx.NewPlayer(p)
	return p, nil
}

// Read renders the next block of the mix as little-endian float32
// frames. It implements io.Reader for the device player and never
// returns io.EOF: an ambient mix has no natural end.
func (p *Player) Read(b []byte) (int, error) {
	n := len(b) / 4
	if n == 0 {
		return 0, nil
	}

	if cap(p.buf) < n {
		p.buf = make([]float32, n)
	}
	buf := p.buf[:n]
	p.engine.Render(buf)

	for i, v := range buf {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(v))
	}
	return n * 4, nil
}

// Start begins (or resumes) playback.
func (p *Player) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.player.Play()
}

// Stop pauses playback; Start resumes it.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.player.Pause()
}

// Close stops playback and releases the device player.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.player.Close()
}
