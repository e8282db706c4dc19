// SPDX-License-Identifier: EPL-2.0

package ambientmix

import (
	"fmt"
	"io"

	"github.com/ik5/ambientmix/formats/wav"
	"github.com/ik5/ambientmix/utils"
)

// CaptureWAV renders the given number of frames of the mix and writes
// them to w as a 16-bit mono WAV. It drives the same render path a
// device player would, so it must not run concurrently with a Player.
func (e *Engine) CaptureWAV(w io.Writer, frames int) error {
	if frames <= 0 {
		return fmt.Errorf("capture frames must be > 0: %d", frames)
	}

	pcm := make([]int16, frames)
	buf := make([]float32, e.quantum)

	done := 0
	for done < frames {
		n := min(e.quantum, frames-done)
		e.Render(buf[:n])
		for i := range n {
			pcm[done+i] = utils.Float32ToInt16(buf[i])
		}
		done += n
	}

	if err := wav.WritePCM16(w, e.sampleRate, 1, pcm); err != nil {
		return fmt.Errorf("capture: %w", err)
	}

	return nil
}
