// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"bytes"
	"io"
	"sync"
)

type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	// Close releases any resources.
	Close() error
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Registry for decoders by format key (e.g., "wav", "mp3", "ogg", "flac").
type Registry struct {
	codecs map[string]Decoder

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		mtx:    &sync.Mutex{},
	}
}

func (r *Registry) Register(format string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[format] = d
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[format]
	return d, ok
}

// DecodeBytes sniffs the payload format and decodes it with the matching
// registered decoder. It returns the Source, the detected format key, and
// ErrUnknownFormat when the payload matches no registered decoder.
func (r *Registry) DecodeBytes(data []byte) (Source, string, error) {
	format, ok := Detect(data)
	if !ok {
		return nil, "", ErrUnknownFormat
	}

	dec, ok := r.Get(format)
	if !ok {
		return nil, format, ErrUnknownFormat
	}

	src, err := dec.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, format, err
	}

	return src, format, nil
}
