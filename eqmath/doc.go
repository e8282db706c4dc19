// SPDX-License-Identifier: EPL-2.0

// Package eqmath defines the fixed 5-band equalizer layout and the
// aggregate response-curve approximation shared by the mixing engine and
// any preview renderer.
//
// The slot layout is fixed: a low shelf at 100 Hz, peaking bands at 400,
// 1000 and 2500 Hz, and a high shelf at 8 kHz. Slot identity never
// changes; only a band's gain (and optionally Q) is mutable. Gains are
// bounded to [-12, +12] dB.
//
// ResponseDB computes the summed dB contribution of all bands at a
// frequency. It is an intentionally cheap approximation (ratio-weighted
// shelves, Gaussian-in-octaves peaks) rather than a true biquad
// magnitude response; every consumer must use this one implementation so
// engine bookkeeping and visual previews stay in exact agreement.
package eqmath
