// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV audio decoding and 16-bit PCM encoding.
//
// Decoding uses the github.com/go-audio library for robust WAV chunk
// handling and supports 8/16/24/32-bit PCM, mono and multi-channel, at
// any sample rate.
//
// # Decoding WAV Files
//
// Use the Decoder to read WAV payloads:
//
//	decoder := wav.Decoder{}
//	source, err := decoder.Decode(bytes.NewReader(payload))
//	if err != nil {
//	    // Handle error
//	}
//
//	buf := make([]float32, 4096)
//	n, err := source.ReadSamples(buf)
//
// The decoder returns an audio.Source that provides samples as float32
// in [-1.0, 1.0] regardless of the stored bit depth.
//
// # Writing WAV Files
//
// WritePCM16 writes interleaved 16-bit PCM:
//
//	samples := []int16{100, -100, 200, -200}
//	wav.WritePCM16(file, 44100, 1, samples)
package wav
