// SPDX-License-Identifier: EPL-2.0

package ambientmix

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/ik5/ambientmix/eqmath"
	"github.com/ik5/ambientmix/internal/audiotest"
)

// testClip returns a constant-value 16-bit mono WAV payload.
func testClip(sampleRate, samples int, value int16) []byte {
	pcm := make([]int16, samples)
	for i := range pcm {
		pcm[i] = value
	}
	return audiotest.WAVBytes(sampleRate, 1, pcm)
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	eng, err := NewEngine(WithSampleRate(8000))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return eng
}

func TestNewEngine_Defaults(t *testing.T) {
	t.Parallel()

	eng, err := NewEngine()
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	if eng.SampleRate() != 44100 {
		t.Errorf("SampleRate() = %d, want 44100", eng.SampleRate())
	}
	if eng.Room().HalfExtent() != 100 {
		t.Errorf("Room().HalfExtent() = %v, want 100", eng.Room().HalfExtent())
	}
	if got := eng.Sounds(); len(got) != 0 {
		t.Errorf("Sounds() = %v, want empty", got)
	}
}

func TestNewEngine_InvalidOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opt  Option
	}{
		{"zero sample rate", WithSampleRate(0)},
		{"negative sample rate", WithSampleRate(-8000)},
		{"zero room extent", WithRoomExtent(0)},
		{"tiny quantum", WithQuantum(16)},
		{"huge quantum", WithQuantum(1 << 20)},
		{"positive headroom", WithHeadroomDB(3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewEngine(tt.opt); err == nil {
				t.Error("NewEngine() error = nil, want error")
			}
		})
	}
}

func TestEngine_LoadSound(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t)

	if err := eng.LoadSound("rain", "🌧️", testClip(8000, 800, 8000)); err != nil {
		t.Fatalf("LoadSound() error = %v", err)
	}

	sounds := eng.Sounds()
	if len(sounds) != 1 {
		t.Fatalf("Sounds() length = %d, want 1", len(sounds))
	}
	if sounds[0].ID != "rain" || sounds[0].Emoji != "🌧️" {
		t.Errorf("Sounds()[0] = %+v, want {rain 🌧️}", sounds[0])
	}

	// New sounds start with full volume, flat EQ, centered position.
	if v, ok := eng.GetSoundVolume("rain"); !ok || v != 1 {
		t.Errorf("GetSoundVolume() = %v, %v, want 1, true", v, ok)
	}
	if x, y, ok := eng.GetSoundPosition("rain"); !ok || x != 0 || y != 0 {
		t.Errorf("GetSoundPosition() = %v, %v, %v, want 0, 0, true", x, y, ok)
	}
	bands, ok := eng.GetSoundEQ("rain")
	if !ok {
		t.Fatal("GetSoundEQ() ok = false")
	}
	for i, b := range bands {
		if b.GainDB != 0 {
			t.Errorf("band %d GainDB = %v, want 0", i, b.GainDB)
		}
		if b.Q != eqmath.DefaultQ {
			t.Errorf("band %d Q = %v, want %v", i, b.Q, eqmath.DefaultQ)
		}
	}
}

func TestEngine_LoadSoundDuplicate(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t)
	clip := testClip(8000, 400, 8000)

	if err := eng.LoadSound("rain", "🌧️", clip); err != nil {
		t.Fatalf("LoadSound() error = %v", err)
	}

	err := eng.LoadSound("rain", "🌧️", clip)
	if !errors.Is(err, ErrDuplicateSound) {
		t.Errorf("LoadSound() error = %v, want ErrDuplicateSound", err)
	}
}

func TestEngine_LoadSoundUnsupportedFormat(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t)

	err := eng.LoadSound("noise", "❓", []byte("definitely not audio data"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("LoadSound() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestEngine_LoadSoundCorruptPayloadIsolation(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t)

	if err := eng.LoadSound("rain", "🌧️", testClip(8000, 400, 8000)); err != nil {
		t.Fatalf("LoadSound() error = %v", err)
	}
	eng.SetSoundVolume("rain", 0.5)

	// A payload that sniffs as WAV but fails to decode.
	corrupt := []byte("RIFF\x24\x00\x00\x00WAVEgarbage-after-the-marker")
	err := eng.LoadSound("broken", "💥", corrupt)
	if !errors.Is(err, ErrDecodeFailure) {
		t.Errorf("LoadSound() error = %v, want ErrDecodeFailure", err)
	}

	// The failure must not disturb the already-loaded sound.
	if len(eng.Sounds()) != 1 {
		t.Errorf("Sounds() length = %d, want 1", len(eng.Sounds()))
	}
	if v, _ := eng.GetSoundVolume("rain"); v != 0.5 {
		t.Errorf("GetSoundVolume(rain) = %v, want 0.5", v)
	}
}

func TestEngine_VolumeClampRoundTrip(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t)
	if err := eng.LoadSound("rain", "🌧️", testClip(8000, 400, 8000)); err != nil {
		t.Fatalf("LoadSound() error = %v", err)
	}

	tests := []struct {
		set  float64
		want float64
	}{
		{0.5, 0.5},
		{0, 0},
		{1, 1},
		{1.5, 1},
		{-0.5, 0},
	}

	for _, tt := range tests {
		eng.SetSoundVolume("rain", tt.set)
		if got, _ := eng.GetSoundVolume("rain"); got != tt.want {
			t.Errorf("SetSoundVolume(%v) round trip = %v, want %v", tt.set, got, tt.want)
		}
	}

	// Unknown ids: setter no-op, getter reports absence.
	eng.SetSoundVolume("ghost", 0.7)
	if _, ok := eng.GetSoundVolume("ghost"); ok {
		t.Error("GetSoundVolume(ghost) ok = true, want false")
	}
}

func TestEngine_EQBandRoundTrip(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t)
	if err := eng.LoadSound("rain", "🌧️", testClip(8000, 400, 8000)); err != nil {
		t.Fatalf("LoadSound() error = %v", err)
	}

	eng.SetEQBand("rain", 0, 6)

	bands, ok := eng.GetSoundEQ("rain")
	if !ok {
		t.Fatal("GetSoundEQ() ok = false")
	}
	if bands[0].GainDB != 6 {
		t.Errorf("band 0 GainDB = %v, want 6", bands[0].GainDB)
	}
	for i := 1; i < len(bands); i++ {
		if bands[i].GainDB != 0 {
			t.Errorf("band %d GainDB = %v, want 0 (untouched)", i, bands[i].GainDB)
		}
	}

	// Gains clamp to [-12, 12].
	eng.SetEQBand("rain", 1, 20)
	eng.SetEQBand("rain", 2, -20)
	bands, _ = eng.GetSoundEQ("rain")
	if bands[1].GainDB != 12 {
		t.Errorf("band 1 GainDB = %v, want 12", bands[1].GainDB)
	}
	if bands[2].GainDB != -12 {
		t.Errorf("band 2 GainDB = %v, want -12", bands[2].GainDB)
	}

	// Out-of-range slots clamp instead of panicking.
	eng.SetEQBand("rain", -3, 5)
	eng.SetEQBand("rain", 99, 5)
	bands, _ = eng.GetSoundEQ("rain")
	if bands[0].GainDB != 5 {
		t.Errorf("band 0 GainDB = %v, want 5 (slot clamped low)", bands[0].GainDB)
	}
	if bands[4].GainDB != 5 {
		t.Errorf("band 4 GainDB = %v, want 5 (slot clamped high)", bands[4].GainDB)
	}

	// Q round trip with clamping.
	eng.SetEQBandQ("rain", 2, 4)
	eng.SetEQBandQ("rain", 3, 100)
	bands, _ = eng.GetSoundEQ("rain")
	if bands[2].Q != 4 {
		t.Errorf("band 2 Q = %v, want 4", bands[2].Q)
	}
	if bands[3].Q != eqmath.MaxQ {
		t.Errorf("band 3 Q = %v, want %v", bands[3].Q, eqmath.MaxQ)
	}
}

func TestEngine_EQBandConcurrentWriters(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t)
	if err := eng.LoadSound("rain", "🌧️", testClip(8000, 400, 8000)); err != nil {
		t.Fatalf("LoadSound() error = %v", err)
	}

	// Two writers hammering different slots must both land: a band
	// update may never overwrite a concurrent update to another band.
	const rounds = 500

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for range rounds {
			eng.SetEQBand("rain", 0, 6)
		}
	}()
	go func() {
		defer wg.Done()
		for range rounds {
			eng.SetEQBand("rain", 4, -6)
			eng.SetEQBandQ("rain", 2, 4)
		}
	}()
	wg.Wait()

	bands, ok := eng.GetSoundEQ("rain")
	if !ok {
		t.Fatal("GetSoundEQ() ok = false")
	}
	if bands[0].GainDB != 6 {
		t.Errorf("band 0 GainDB = %v, want 6", bands[0].GainDB)
	}
	if bands[4].GainDB != -6 {
		t.Errorf("band 4 GainDB = %v, want -6", bands[4].GainDB)
	}
	if bands[2].Q != 4 {
		t.Errorf("band 2 Q = %v, want 4", bands[2].Q)
	}
}

func TestEngine_ApplyEQPreset(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t)
	if err := eng.LoadSound("rain", "🌧️", testClip(8000, 400, 8000)); err != nil {
		t.Fatalf("LoadSound() error = %v", err)
	}

	eng.SetEQBandQ("rain", 0, 2)

	if err := eng.ApplyEQPresetByName("rain", "Bass Boost"); err != nil {
		t.Fatalf("ApplyEQPresetByName() error = %v", err)
	}

	preset, _ := eqmath.PresetByName("Bass Boost")
	bands, _ := eng.GetSoundEQ("rain")
	for i, b := range bands {
		if b.GainDB != preset.Gains[i] {
			t.Errorf("band %d GainDB = %v, want %v", i, b.GainDB, preset.Gains[i])
		}
	}

	// Presets replace gains but keep Qs.
	if bands[0].Q != 2 {
		t.Errorf("band 0 Q = %v, want 2 (preserved)", bands[0].Q)
	}

	// Applying the same preset twice is idempotent.
	if err := eng.ApplyEQPresetByName("rain", "Bass Boost"); err != nil {
		t.Fatalf("ApplyEQPresetByName() second call error = %v", err)
	}
	again, _ := eng.GetSoundEQ("rain")
	if again != bands {
		t.Errorf("second apply changed bands: %+v != %+v", again, bands)
	}

	if err := eng.ApplyEQPresetByName("rain", "Metal"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("ApplyEQPresetByName(Metal) error = %v, want ErrUnknownPreset", err)
	}
	if err := eng.ApplyEQPresetByName("ghost", "Flat"); !errors.Is(err, ErrUnknownSound) {
		t.Errorf("ApplyEQPresetByName(ghost) error = %v, want ErrUnknownSound", err)
	}
}

func TestEngine_PositionClamps(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t)
	if err := eng.LoadSound("rain", "🌧️", testClip(8000, 400, 8000)); err != nil {
		t.Fatalf("LoadSound() error = %v", err)
	}

	eng.SetSoundPosition("rain", 20, -35)
	if x, y, _ := eng.GetSoundPosition("rain"); x != 20 || y != -35 {
		t.Errorf("GetSoundPosition() = (%v, %v), want (20, -35)", x, y)
	}

	eng.SetSoundPosition("rain", 500, -500)
	if x, y, _ := eng.GetSoundPosition("rain"); x != 100 || y != -100 {
		t.Errorf("GetSoundPosition() = (%v, %v), want clamped (100, -100)", x, y)
	}
}

func TestEngine_RemoveSoundFreesID(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t)
	clip := testClip(8000, 400, 8000)

	if err := eng.LoadSound("rain", "🌧️", clip); err != nil {
		t.Fatalf("LoadSound() error = %v", err)
	}

	eng.RemoveSound("rain")

	if _, ok := eng.GetSoundVolume("rain"); ok {
		t.Error("removed sound still visible to GetSoundVolume")
	}
	if len(eng.Sounds()) != 0 {
		t.Errorf("Sounds() length = %d, want 0", len(eng.Sounds()))
	}

	// The id is reusable immediately, before the fade completes.
	if err := eng.LoadSound("rain", "🌧️", clip); err != nil {
		t.Errorf("LoadSound() after remove error = %v", err)
	}

	// Unknown ids are a no-op.
	eng.RemoveSound("ghost")
}

func TestEngine_RemoveSoundReleasesAfterFade(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t)
	if err := eng.LoadSound("rain", "🌧️", testClip(8000, 400, 8000)); err != nil {
		t.Fatalf("LoadSound() error = %v", err)
	}

	eng.RemoveSound("rain")

	// Even without a running render loop the source leaves the snapshot
	// once the fade window passes.
	deadline := time.Now().Add(2 * time.Second)
	for {
		if len(*eng.active.Load()) == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("removed sound still in the render snapshot after fade window")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestEngine_RenderProducesAudio(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t)
	if err := eng.LoadSound("rain", "🌧️", testClip(8000, 800, 16000)); err != nil {
		t.Fatalf("LoadSound() error = %v", err)
	}

	// A second of output: the load-in ramp finishes well inside it.
	out := make([]float32, 8000)
	eng.Render(out)

	var peak float64
	for _, v := range out {
		if a := math.Abs(float64(v)); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		t.Fatal("Render() produced silence for an audible source")
	}

	// The ramp starts from silence.
	if a := math.Abs(float64(out[0])); a > 0.05 {
		t.Errorf("first sample = %v, want near 0 (ramp-in)", a)
	}

	// Output stays inside the legal range.
	for i, v := range out {
		if v > 1 || v < -1 {
			t.Fatalf("out[%d] = %v, outside [-1, 1]", i, v)
		}
	}
}

func TestEngine_RenderEmptyIsSilent(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t)

	out := make([]float32, 2048)
	out[0] = 42 // must be overwritten
	eng.Render(out)

	for i, v := range out {
		if v != 0 {
			t.Fatalf("out[%d] = %v, want 0 with no sounds loaded", i, v)
		}
	}
}

func TestEngine_MuteSilencesWithoutVolumeChange(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t)
	if err := eng.LoadSound("rain", "🌧️", testClip(8000, 800, 16000)); err != nil {
		t.Fatalf("LoadSound() error = %v", err)
	}
	eng.SetSoundVolume("rain", 0.8)
	eng.SetMute("rain", true)

	// Render enough for any ramp to settle.
	out := make([]float32, 8000)
	eng.Render(out)

	// The tail must be silent; the head may carry ramp remnants.
	for i, v := range out[4000:] {
		if math.Abs(float64(v)) > 1e-3 {
			t.Fatalf("out[%d] = %v, want silence while muted", 4000+i, v)
		}
	}

	if v, _ := eng.GetSoundVolume("rain"); v != 0.8 {
		t.Errorf("GetSoundVolume() = %v, want 0.8 (mute must not touch volume)", v)
	}

	// Unmuting restores audibility.
	eng.SetMute("rain", false)
	eng.Render(out)

	var peak float64
	for _, v := range out[4000:] {
		if a := math.Abs(float64(v)); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		t.Error("Render() silent after unmute")
	}
}

func TestEngine_DistanceAttenuates(t *testing.T) {
	t.Parallel()

	renderPeak := func(x, y float64) float64 {
		eng := newTestEngine(t)
		if err := eng.LoadSound("rain", "🌧️", testClip(8000, 800, 16000)); err != nil {
			t.Fatalf("LoadSound() error = %v", err)
		}
		eng.SetSoundPosition("rain", x, y)

		out := make([]float32, 8000)
		eng.Render(out)

		var peak float64
		for _, v := range out[4000:] {
			if a := math.Abs(float64(v)); a > peak {
				peak = a
			}
		}
		return peak
	}

	center := renderPeak(0, 0)
	mid := renderPeak(50, 0)
	edge := renderPeak(100, 0)

	if !(center > mid && mid > edge) {
		t.Errorf("peaks center %v, mid %v, edge %v: want strictly decreasing", center, mid, edge)
	}
	if edge == 0 {
		t.Error("edge peak = 0, want faintly audible")
	}
}

func TestEngine_LoadScenePreset(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t)
	clip := testClip(8000, 400, 8000)

	for _, id := range []string{"rain", "thunder", "wind"} {
		if err := eng.LoadSound(id, "🔊", clip); err != nil {
			t.Fatalf("LoadSound(%s) error = %v", id, err)
		}
	}

	if err := eng.LoadScenePreset("Rainy Night"); err != nil {
		t.Fatalf("LoadScenePreset() error = %v", err)
	}

	if v, _ := eng.GetSoundVolume("rain"); v != 0.8 {
		t.Errorf("rain volume = %v, want 0.8", v)
	}
	if v, _ := eng.GetSoundVolume("thunder"); v != 0.5 {
		t.Errorf("thunder volume = %v, want 0.5", v)
	}

	// Relative scene coordinates scale by the room half-extent.
	if x, y, _ := eng.GetSoundPosition("thunder"); x != -80 || y != -70 {
		t.Errorf("thunder position = (%v, %v), want (-80, -70)", x, y)
	}

	bands, _ := eng.GetSoundEQ("thunder")
	if bands[0].GainDB != 5 {
		t.Errorf("thunder band 0 GainDB = %v, want 5", bands[0].GainDB)
	}

	if err := eng.LoadScenePreset("Underwater"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("LoadScenePreset(Underwater) error = %v, want ErrUnknownPreset", err)
	}
}

func TestEngine_LoadScenePresetAtomicFailure(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t)

	// Only one of the three sounds the scene needs is loaded.
	if err := eng.LoadSound("rain", "🌧️", testClip(8000, 400, 8000)); err != nil {
		t.Fatalf("LoadSound() error = %v", err)
	}
	eng.SetSoundVolume("rain", 0.3)

	err := eng.LoadScenePreset("Rainy Night")
	if !errors.Is(err, ErrUnknownSound) {
		t.Fatalf("LoadScenePreset() error = %v, want ErrUnknownSound", err)
	}

	// Nothing may have been applied.
	if v, _ := eng.GetSoundVolume("rain"); v != 0.3 {
		t.Errorf("rain volume = %v, want 0.3 (scene must fail atomically)", v)
	}
}

func TestScenePresets(t *testing.T) {
	t.Parallel()

	names := ScenePresets()
	if len(names) == 0 {
		t.Fatal("ScenePresets() empty")
	}

	want := map[string]bool{"Rainy Night": true, "Forest Morning": true, "Seaside": true}
	for _, n := range names {
		if !want[n] {
			t.Errorf("unexpected scene %q", n)
		}
		delete(want, n)
	}
	for n := range want {
		t.Errorf("missing scene %q", n)
	}
}
