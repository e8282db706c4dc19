// SPDX-License-Identifier: EPL-2.0

// Package spatial maps a sound's position on the 2D room plane to its
// playback parameters: center-distance attenuation, muffle lowpass
// cutoff, and wall-proximity reverb send.
//
// The contract is qualitative: closer to the listener is louder and
// clearer, farther is quieter and more muffled, near a wall is more
// reverberant. The concrete curves are a choice satisfying that
// contract — quadratic distance attenuation with a small floor,
// log-interpolated cutoff, and a Chebyshev-distance reverb send — and
// each output is continuous and monotonic in its governing distance.
package spatial
