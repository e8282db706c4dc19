// SPDX-License-Identifier: EPL-2.0

package ambientmix

import "errors"

var (
	// ErrUnsupportedFormat reports a payload whose format could not be
	// recognized from its magic bytes.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	// ErrDecodeFailure reports a recognized but corrupt or undecodable
	// payload.
	ErrDecodeFailure = errors.New("audio decode failed")
	// ErrDuplicateSound reports an attempt to load an id twice.
	ErrDuplicateSound = errors.New("sound id already loaded")
	// ErrUnknownSound is surfaced only by soundscape preset application;
	// plain getters and setters treat unknown ids as silent no-ops.
	ErrUnknownSound = errors.New("unknown sound id")
	// ErrUnknownPreset reports a preset name with no built-in definition.
	ErrUnknownPreset = errors.New("unknown preset")
)
