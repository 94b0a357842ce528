package anim

import (
	"testing"
	"time"

	"heartrain/internal/config"
	"heartrain/internal/rain"
)

func TestNewDefaults(t *testing.T) {
	m := New(Options{})

	if m.fps != rain.NominalFPS {
		t.Errorf("fps = %d, want %d", m.fps, rain.NominalFPS)
	}
	if m.frame != time.Second/time.Duration(rain.NominalFPS) {
		t.Errorf("frame = %v", m.frame)
	}
	if m.seed == 0 {
		t.Error("seed not drawn from the clock")
	}
	if m.th == nil {
		t.Fatal("theme not defaulted")
	}
	if m.Phase() != PhaseRain {
		t.Errorf("phase = %v without an intro, want PhaseRain", m.Phase())
	}
}

func TestNewWithIntro(t *testing.T) {
	m := New(Options{Intro: time.Second})

	if m.Phase() != PhaseIntro {
		t.Errorf("phase = %v, want PhaseIntro", m.Phase())
	}
	if m.introFor != time.Second {
		t.Errorf("introFor = %v, want 1s", m.introFor)
	}
}

func TestSeedGetter(t *testing.T) {
	m := New(Options{Seed: 42})
	if m.Seed() != 42 {
		t.Errorf("Seed() = %d, want 42", m.Seed())
	}
}

// An absurd frame rate must cap out, not truncate the frame interval to
// zero and spin the tick loop.
func TestAbsurdFPSCapped(t *testing.T) {
	m := New(Options{FPS: 2_000_000_000})

	if m.fps != config.MaxFPS {
		t.Errorf("fps = %d, want the %d cap", m.fps, config.MaxFPS)
	}
	if m.frame <= 0 {
		t.Fatalf("frame interval = %v, must be positive", m.frame)
	}
	if want := time.Second / time.Duration(config.MaxFPS); m.frame != want {
		t.Errorf("frame = %v, want %v", m.frame, want)
	}
}

// Two runs from the same seed must simulate the same rain.
func TestSameSeedSameRain(t *testing.T) {
	a := NewTestModel(t, WithSeed(7))
	b := NewTestModel(t, WithSeed(7))

	a = stepFrames(t, a, 60)
	b = stepFrames(t, b, 60)

	as, bs := a.field.Stats(), b.field.Stats()
	if as.Spawned != bs.Spawned || as.Live != bs.Live || as.Peak != bs.Peak {
		t.Errorf("runs diverged: %+v vs %+v", as, bs)
	}
	if a.message != b.message {
		t.Errorf("messages diverged: %q vs %q", a.message, b.message)
	}
}
