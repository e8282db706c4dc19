// SPDX-License-Identifier: EPL-2.0

// Package audio provides the low-level audio primitives of the mixing
// engine.
//
// This package contains the building blocks shared by the decoders and
// the engine:
//   - Source interface for audio input
//   - Decoder interface and format Registry
//   - Format sniffing from magic bytes (Detect)
//   - Resampler for sample rate conversion
//   - MonoMixer for channel folding
//   - ReadAll for collecting a whole decoded clip
//
// # Source Interface
//
// The Source interface is the foundation of the load path:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    Close() error
//	}
//
// All format decoders implement this interface, allowing them to be
// chained into processing pipelines.
//
// # Loading a clip
//
// The engine conforms every clip to its own sample rate and to mono
// before playback:
//
//	src, format, err := registry.DecodeBytes(payload)
//	clip, err := audio.ReadAll(src, 44100, 4096)
//
// # Sample Format
//
// Audio samples are represented as float32 in the range [-1.0, 1.0]:
//   - 0.0 represents silence
//   - 1.0 represents maximum positive amplitude
//   - -1.0 represents maximum negative amplitude
//
// This normalized format makes it easy to process audio without worrying
// about bit depths and ensures no clipping during intermediate processing.
//
// # Error Handling
//
// Streaming functions return io.EOF when no more data is available.
// Other errors indicate problems with the source or processing:
//
//	for {
//	    n, err := source.ReadSamples(buf)
//	    if err == io.EOF {
//	        break // Normal end of stream
//	    }
//	    if err != nil {
//	        return err // Processing error
//	    }
//	    // Process n samples from buf
//	}
package audio
