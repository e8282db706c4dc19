// SPDX-License-Identifier: EPL-2.0

package ambientmix

import "fmt"

const (
	defaultSampleRate = 44100
	defaultRoomExtent = 100.0
	defaultQuantum    = 512
	defaultHeadroomDB = -3.0

	minQuantum = 64
	maxQuantum = 8192
)

type config struct {
	sampleRate int
	roomExtent float64
	quantum    int
	headroomDB float64
}

func defaultConfig() config {
	return config{
		sampleRate: defaultSampleRate,
		roomExtent: defaultRoomExtent,
		quantum:    defaultQuantum,
		headroomDB: defaultHeadroomDB,
	}
}

// Option configures engine construction.
type Option func(*config) error

// WithSampleRate sets the engine sample rate in Hz. Every loaded clip is
// resampled to this rate.
func WithSampleRate(hz int) Option {
	return func(cfg *config) error {
		if hz <= 0 {
			return fmt.Errorf("sample rate must be > 0: %d", hz)
		}
		cfg.sampleRate = hz
		return nil
	}
}

// WithRoomExtent sets the room half-extent R; positions live on
// [-R, R] x [-R, R].
func WithRoomExtent(r float64) Option {
	return func(cfg *config) error {
		if r <= 0 {
			return fmt.Errorf("room extent must be > 0: %f", r)
		}
		cfg.roomExtent = r
		return nil
	}
}

// WithQuantum sets the render quantum in frames. Parameter updates are
// latched once per quantum.
func WithQuantum(frames int) Option {
	return func(cfg *config) error {
		if frames < minQuantum || frames > maxQuantum {
			return fmt.Errorf("quantum must be in [%d, %d]: %d", minQuantum, maxQuantum, frames)
		}
		cfg.quantum = frames
		return nil
	}
}

// WithHeadroomDB sets the master headroom gain in dB, in [-12, 0].
func WithHeadroomDB(db float64) Option {
	return func(cfg *config) error {
		if db < -12 || db > 0 {
			return fmt.Errorf("headroom must be in [-12, 0] dB: %f", db)
		}
		cfg.headroomDB = db
		return nil
	}
}
