// SPDX-License-Identifier: EPL-2.0

// Package flac provides FLAC audio decoding.
//
// This package uses github.com/mewkiz/flac to decode FLAC streams.
// Per-channel subframes are interleaved and normalized to float32
// samples in [-1.0, 1.0] according to the stream's bit depth.
//
// # Decoding FLAC Files
//
//	decoder := flac.Decoder{}
//	source, err := decoder.Decode(bytes.NewReader(payload))
//	if err != nil {
//	    // Handle error
//	}
//
//	buf := make([]float32, 4096)
//	n, err := source.ReadSamples(buf)
package flac
