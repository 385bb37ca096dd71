// Package audio plays the sandbox's feedback sounds. Everything is
// synthesized; there are no sample assets to load.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(48000)

// SoundManager owns the speaker and mixes one-shot effects into it.
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

// NewSoundManager creates a sound manager. Call Initialize before playing.
func NewSoundManager() *SoundManager {
	return &SoundManager{mixer: &beep.Mixer{}}
}

// Initialize opens the speaker and starts the mixer.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}
	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup silences the mixer. beep has no speaker Close; clearing the mixer
// is enough to stop output.
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	sm.mixer.Clear()
	sm.initialized = false
}

// PlayHit plays a short thump. Heavier hits pitch lower and ring longer.
func (sm *SoundManager) PlayHit(damage float64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	freq := 320.0 - math.Min(damage, 30.0)*6.0
	dur := time.Millisecond * time.Duration(80+int(math.Min(damage, 30.0)*4.0))
	sm.mixer.Add(beep.Take(sampleRate.N(dur), NewThumpGenerator(sampleRate, freq)))
}

// PlayShield plays the dull knock of a shielded hit.
func (sm *SoundManager) PlayShield() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	sm.mixer.Add(beep.Take(sampleRate.N(time.Millisecond*90), NewThumpGenerator(sampleRate, 140)))
}

// PlayKO plays a falling sweep when a fighter loses a stock.
func (sm *SoundManager) PlayKO() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	sm.mixer.Add(beep.Take(sampleRate.N(time.Millisecond*500), NewSweepGenerator(sampleRate, 600, 80)))
}

// ThumpGenerator generates a sine burst with an exponential decay envelope.
type ThumpGenerator struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

// NewThumpGenerator creates a thump at the given frequency.
func NewThumpGenerator(sr beep.SampleRate, freq float64) *ThumpGenerator {
	return &ThumpGenerator{sr: sr, freq: freq}
}

func (g *ThumpGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		amp := 0.25 * math.Exp(-t*18.0)
		v := amp * math.Sin(2.0*math.Pi*g.freq*t)
		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *ThumpGenerator) Err() error { return nil }

// SweepGenerator generates a tone gliding between two frequencies over half
// a second.
type SweepGenerator struct {
	sr       beep.SampleRate
	from, to float64
	phase    float64
	pos      int
	samples  int
}

// NewSweepGenerator creates a frequency sweep.
func NewSweepGenerator(sr beep.SampleRate, from, to float64) *SweepGenerator {
	return &SweepGenerator{sr: sr, from: from, to: to, samples: sr.N(time.Millisecond * 500)}
}

func (g *SweepGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		progress := math.Min(float64(g.pos)/float64(g.samples), 1.0)
		freq := g.from + (g.to-g.from)*progress
		g.phase += 2.0 * math.Pi * freq / float64(g.sr)
		amp := 0.2 * (1.0 - progress)
		v := amp * math.Sin(g.phase)
		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *SweepGenerator) Err() error { return nil }
