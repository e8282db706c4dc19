// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"fmt"
	"io"

	goflac "github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"

	"github.com/ik5/ambientmix/audio"
)

// flacReader is an interface for goflac.Stream to allow testing
type flacReader interface {
	ParseNext() (*frame.Frame, error)
}

type source struct {
	dec        flacReader
	sampleRate int
	channels   int
	scale      float32

	// Interleaved samples left over from the last parsed frame.
	pending []float32
	offset  int
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	written := 0
	for written < len(dst) {
		if s.offset >= len(s.pending) {
			if err := s.parseFrame(); err != nil {
				if written > 0 && err == io.EOF {
					return written, nil
				}
				return written, err
			}
		}

		n := copy(dst[written:], s.pending[s.offset:])
		s.offset += n
		written += n
	}

	return written, nil
}

// parseFrame decodes the next FLAC frame into the pending buffer,
// interleaving the per-channel subframes.
func (s *source) parseFrame() error {
	f, err := s.dec.ParseNext()
	if err != nil {
		if err == io.EOF {
			return io.EOF
		}
		return fmt.Errorf("%w", err)
	}

	if len(f.Subframes) == 0 {
		return io.EOF
	}

	frames := len(f.Subframes[0].Samples)
	needed := frames * s.channels
	if cap(s.pending) < needed {
		s.pending = make([]float32, needed)
	}
	s.pending = s.pending[:needed]
	s.offset = 0

	for ch, sub := range f.Subframes {
		if ch >= s.channels {
			break
		}
		for i, v := range sub.Samples {
			s.pending[i*s.channels+ch] = float32(v) / s.scale
		}
	}

	return nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	stream, err := goflac.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	info := stream.Info
	if info == nil || info.NChannels == 0 {
		return nil, ErrMissingStreamInfo
	}

	bps := int(info.BitsPerSample)
	if bps < 4 || bps > 32 {
		return nil, ErrUnsupportedDepth
	}

	return &source{
		dec:        stream,
		sampleRate: int(info.SampleRate),
		channels:   int(info.NChannels),
		scale:      float32(int64(1) << (bps - 1)),
	}, nil
}
