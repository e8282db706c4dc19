// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides MP3 audio decoding.
//
// This package uses github.com/hajimehoshi/go-mp3 to decode MP3 streams.
// The decoder always produces 2-channel 16-bit PCM, which is normalized
// to float32 samples in [-1.0, 1.0].
//
// # Decoding MP3 Files
//
//	decoder := mp3.Decoder{}
//	source, err := decoder.Decode(bytes.NewReader(payload))
//	if err != nil {
//	    // Handle error
//	}
//
//	buf := make([]float32, 4096)
//	n, err := source.ReadSamples(buf)
package mp3
