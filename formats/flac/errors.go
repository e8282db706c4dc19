// SPDX-License-Identifier: EPL-2.0

package flac

import "errors"

var (
	ErrMissingStreamInfo = errors.New("flac stream missing STREAMINFO block")
	ErrUnsupportedDepth  = errors.New("unsupported flac bit depth")
)
