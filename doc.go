// SPDX-License-Identifier: EPL-2.0

// Package ambientmix is an interactive ambient soundscape engine. It
// loads short audio clips (WAV, MP3, Ogg Vorbis, FLAC), loops each one
// as an independent source, and mixes them into a single mono stream
// with per-source volume, five-band equalization and a spatial stage
// derived from each source's position on a 2D room plane.
//
// The engine itself is transport-agnostic: Render fills a caller
// buffer with the next span of the mix, and Player wires Render to the
// default audio device via oto.
//
// Control calls (volume, mute, position, EQ, effects) are safe from
// any goroutine and never block the render path: parameters are
// published through atomic cells and latched once per render quantum,
// then glided toward smoothly so changes are click-free.
//
// A minimal session:
//
//	eng, err := ambientmix.NewEngine()
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := eng.LoadSound("rain", "🌧️", rainWAV); err != nil {
//		log.Fatal(err)
//	}
//	eng.SetSoundVolume("rain", 0.8)
//	eng.SetSoundPosition("rain", 20, -35)
//
//	p, err := ambientmix.NewPlayer(eng)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer p.Close()
//	p.Start()
package ambientmix
