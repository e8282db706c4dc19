// SPDX-License-Identifier: EPL-2.0

// Package fxbus implements the shared effects stage of the mixing
// engine: a Freeverb-style reverb send plus echo and lofi inserts on the
// master sum.
//
// The three effects are strictly orthogonal: each has its own enable
// flag and parameter set, and toggling or configuring one never touches
// the others. Disabled effects are skipped entirely and their state is
// cleared so re-enabling starts from silence rather than a stale tail.
//
// The reverb is fed by per-sound send levels derived from wall
// proximity; the echo and lofi stages process the summed master signal
// in place. DSP state is owned exclusively by the render path; the
// control path communicates through atomically published parameter sets
// that the render path latches once per quantum.
package fxbus
