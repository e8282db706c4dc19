// SPDX-License-Identifier: EPL-2.0

package eqmath

import "math"

// BandType identifies the filter shape of an equalizer slot.
type BandType int

const (
	LowShelf BandType = iota
	Peaking
	HighShelf
)

// NumBands is the fixed number of equalizer slots per sound.
const NumBands = 5

const (
	MinGainDB = -12.0
	MaxGainDB = 12.0

	DefaultQ = 1.0
	MinQ     = 0.1
	MaxQ     = 10.0
)

// Band is one equalizer slot. Slot identity (type and center frequency)
// is fixed; only GainDB and Q are mutable.
type Band struct {
	Type   BandType
	FreqHz float64
	GainDB float64
	Q      float64
}

// Slot layout, in order: Low / Low-Mid / Mid / High-Mid / High.
var (
	slotFreqs = [NumBands]float64{100, 400, 1000, 2500, 8000}
	slotTypes = [NumBands]BandType{LowShelf, Peaking, Peaking, Peaking, HighShelf}
)

// SlotFreq returns the fixed center frequency of a slot.
func SlotFreq(slot int) float64 { return slotFreqs[slot] }

// SlotType returns the fixed filter type of a slot.
func SlotType(slot int) BandType { return slotTypes[slot] }

// DefaultBands returns the five slots with flat gain and default Q.
func DefaultBands() [NumBands]Band {
	var bands [NumBands]Band
	for i := range bands {
		bands[i] = Band{
			Type:   slotTypes[i],
			FreqHz: slotFreqs[i],
			GainDB: 0,
			Q:      DefaultQ,
		}
	}
	return bands
}

// ClampGain bounds a band gain to [MinGainDB, MaxGainDB].
func ClampGain(g float64) float64 {
	return math.Min(MaxGainDB, math.Max(MinGainDB, g))
}

// ClampQ bounds a band Q to [MinQ, MaxQ].
func ClampQ(q float64) float64 {
	return math.Min(MaxQ, math.Max(MinQ, q))
}

// BandResponseDB returns the approximate contribution of one band, in dB,
// at the given frequency.
//
// Shelves roll on with the simple ratio weight g*r/(1+r); a peaking band
// contributes a Gaussian bump in octave distance whose width follows the
// band's relative bandwidth (freq/Q). This is a deliberately cheap, smooth
// approximation of the true magnitude response, used identically by the
// engine and by response-curve previews so the two never drift apart.
func BandResponseDB(b Band, freqHz float64) float64 {
	if freqHz <= 0 || b.FreqHz <= 0 {
		return 0
	}

	switch b.Type {
	case LowShelf:
		r := b.FreqHz / freqHz
		return b.GainDB * r / (1 + r)
	case HighShelf:
		r := freqHz / b.FreqHz
		return b.GainDB * r / (1 + r)
	default: // Peaking
		q := b.Q
		if q <= 0 {
			q = DefaultQ
		}
		bandwidth := b.FreqHz / q
		octaves := math.Abs(math.Log2(freqHz / b.FreqHz))
		width := bandwidth / b.FreqHz
		x := octaves / width
		return b.GainDB * math.Exp(-0.5*x*x)
	}
}

// ResponseDB returns the aggregate response of a band set at freqHz: the
// sum of every band's contribution in dB.
func ResponseDB(bands []Band, freqHz float64) float64 {
	total := 0.0
	for _, b := range bands {
		total += BandResponseDB(b, freqHz)
	}
	return total
}
