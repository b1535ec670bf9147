package sound

import (
	"fmt"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

const SampleRate = beep.SampleRate(44100)

// Player plays the ping blip on the default audio device.
type Player struct {
	freq   float64
	dur    time.Duration
	volume float64

	play func(s ...beep.Streamer)
	stop func()
}

// NewPlayer initializes the speaker. Audio is optional for the glyph, so
// callers usually log the error and run silent.
func NewPlayer(freq float64, d time.Duration, volume float64) (*Player, error) {
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/20)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	return &Player{freq: freq, dur: d, volume: volume, play: speaker.Play, stop: closeSpeaker}, nil
}

// Ping queues one blip. It does not block.
func (p *Player) Ping() {
	p.play(Blip(SampleRate, p.freq, p.dur, p.volume))
}

// Close drops queued blips and releases the audio device. Calls after the
// first are no-ops.
func (p *Player) Close() {
	if p.stop == nil {
		return
	}
	p.stop()
	p.stop = nil
}

// closeSpeaker must not hold speaker.Lock: speaker.Clear takes the same lock.
func closeSpeaker() {
	speaker.Clear()
	speaker.Close()
}
