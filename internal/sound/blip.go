package sound

import (
	"math"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
)

// tone is a sine oscillator that stops after a fixed number of samples.
type tone struct {
	freq     float64
	phase    float64
	position int
	total    int
	rate     beep.SampleRate
}

func newTone(freq float64, d time.Duration, rate beep.SampleRate) *tone {
	return &tone{freq: freq, total: rate.N(d), rate: rate}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.position >= t.total {
			return i, i > 0
		}
		v := math.Sin(2 * math.Pi * t.phase)
		samples[i][0] = v
		samples[i][1] = v

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// fade shapes a stream with a linear attack and release.
type fade struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

func newFade(s beep.Streamer, total, attack, release int) *fade {
	if attack+release > total {
		attack = total / 2
		release = total - attack
	}
	return &fade{streamer: s, attack: attack, release: release, total: total}
}

func (f *fade) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = f.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1.0
		if f.position < f.attack {
			vol = float64(f.position) / float64(f.attack)
		}
		if left := f.total - f.position; left <= f.release && f.release > 0 {
			vol = float64(left-1) / float64(f.release)
			if vol < 0 {
				vol = 0
			}
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		f.position++
	}
	return n, ok
}

func (f *fade) Err() error { return f.streamer.Err() }

// Blip builds the short ping tone: a faded sine of the given frequency,
// duration and linear volume in [0, 1].
func Blip(rate beep.SampleRate, freq float64, d time.Duration, volume float64) beep.Streamer {
	t := newTone(freq, d, rate)
	edge := rate.N(d / 5)
	shaped := newFade(t, t.total, edge, edge)
	if volume <= 0 {
		return &effects.Volume{Streamer: shaped, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: shaped, Base: 2, Volume: math.Log2(volume)}
}
