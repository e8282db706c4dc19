// SPDX-License-Identifier: EPL-2.0

package audiotest

import "encoding/binary"

// WAVBytes builds a complete 16-bit PCM RIFF/WAVE payload in memory.
// samples is interleaved when channels > 1. The helper writes the
// header by hand so tests of the decode path do not depend on the
// encoder under test.
func WAVBytes(sampleRate, channels int, samples []int16) []byte {
	dataSize := len(samples) * 2
	buf := make([]byte, 44+dataSize)

	le := binary.LittleEndian

	copy(buf[0:4], "RIFF")
	le.PutUint32(buf[4:8], uint32(36+dataSize))
	copy(buf[8:12], "WAVE")

	copy(buf[12:16], "fmt ")
	le.PutUint32(buf[16:20], 16)
	le.PutUint16(buf[20:22], 1) // PCM
	le.PutUint16(buf[22:24], uint16(channels))
	le.PutUint32(buf[24:28], uint32(sampleRate))
	le.PutUint32(buf[28:32], uint32(sampleRate*channels*2))
	le.PutUint16(buf[32:34], uint16(channels*2))
	le.PutUint16(buf[34:36], 16)

	copy(buf[36:40], "data")
	le.PutUint32(buf[40:44], uint32(dataSize))

	for i, s := range samples {
		le.PutUint16(buf[44+2*i:], uint16(s))
	}

	return buf
}
