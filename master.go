// SPDX-License-Identifier: EPL-2.0

package ambientmix

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-dsp/dsp/effects/dynamics"
)

// masterStage applies the fixed headroom trim and the safety limiter to
// the summed mix. It is owned by the render goroutine.
type masterStage struct {
	headroom float64
	limiter  *dynamics.Limiter
}

func newMasterStage(sampleRate, headroomDB float64) (*masterStage, error) {
	lim, err := dynamics.NewLimiter(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("master limiter: %w", err)
	}
	if err := lim.SetThreshold(-1); err != nil {
		return nil, fmt.Errorf("master limiter threshold: %w", err)
	}
	if err := lim.SetRelease(60); err != nil {
		return nil, fmt.Errorf("master limiter release: %w", err)
	}

	return &masterStage{
		headroom: math.Pow(10, headroomDB/20),
		limiter:  lim,
	}, nil
}

func (m *masterStage) process(mix []float64) {
	for i, v := range mix {
		v = m.limiter.ProcessSample(v * m.headroom)
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		mix[i] = v
	}
}
