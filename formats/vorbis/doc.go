// SPDX-License-Identifier: EPL-2.0

// Package vorbis provides Ogg Vorbis audio decoding.
//
// This package uses github.com/jfreymuth/oggvorbis to decode Ogg Vorbis
// streams. Samples are delivered as float32 in [-1.0, 1.0], mono or
// stereo, at whatever sample rate the stream declares.
//
// # Decoding Vorbis Files
//
//	decoder := vorbis.Decoder{}
//	source, err := decoder.Decode(bytes.NewReader(payload))
//	if err != nil {
//	    // Handle error
//	}
//
//	buf := make([]float32, 4096)
//	n, err := source.ReadSamples(buf)
package vorbis
