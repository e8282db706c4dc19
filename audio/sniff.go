// SPDX-License-Identifier: EPL-2.0

package audio

import "bytes"

// Detect returns the format key for an audio payload by inspecting its
// magic bytes. Recognized keys are "wav", "ogg", "flac" and "mp3".
//
// MP3 detection accepts both ID3-tagged files and raw frame-sync streams;
// raw sync is checked last because 0xFFEx is the weakest signature.
func Detect(data []byte) (string, bool) {
	switch {
	case len(data) >= 12 &&
		bytes.Equal(data[0:4], []byte("RIFF")) &&
		bytes.Equal(data[8:12], []byte("WAVE")):
		return "wav", true
	case len(data) >= 4 && bytes.Equal(data[0:4], []byte("OggS")):
		return "ogg", true
	case len(data) >= 4 && bytes.Equal(data[0:4], []byte("fLaC")):
		return "flac", true
	case len(data) >= 3 && bytes.Equal(data[0:3], []byte("ID3")):
		return "mp3", true
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return "mp3", true
	}

	return "", false
}
