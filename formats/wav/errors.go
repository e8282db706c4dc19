// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile         = errors.New("not a WAV file")
	ErrUnsupportedWavData = errors.New("unsupported WAV data layout")
	ErrUnsupportedDepth   = errors.New("unsupported WAV bit depth")
)
