// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
)

// ReadAll drains src through a resampling and mono-mixing pipeline and
// returns the whole clip as mono float32 samples at targetRate.
//
// The mixing engine keeps every loaded clip fully decoded in memory, so
// this is the load-path counterpart of the streaming pipeline:
//
//  1. Resample the source to targetRate using cubic interpolation
//  2. Fold the resampled stream down to mono
//  3. Collect every sample until io.EOF
//
// bufferSize controls the read granularity (4096 is a good default).
func ReadAll(src Source, targetRate, bufferSize int) ([]float32, error) {
	resampler := NewResampler(src, targetRate)
	mono := NewMonoMixer(resampler)

	estimated := targetRate * 2
	clip := make([]float32, 0, estimated)
	buf := make([]float32, bufferSize)

	for {
		n, err := mono.ReadSamples(buf)
		if n > 0 {
			clip = append(clip, buf[:n]...)
		}

		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}
	}

	return clip, nil
}
