package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)
	volume     = 0.25
)

// Buzzer plays short square-wave cues, like a piezo buzzer on the board.
// Until Init succeeds every cue is silently skipped.
type Buzzer struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

func NewBuzzer() *Buzzer {
	return &Buzzer{
		mixer: &beep.Mixer{},
	}
}

// Init opens the audio device
func (b *Buzzer) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(b.mixer)
	b.initialized = true
	return nil
}

// Close silences the buzzer
func (b *Buzzer) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}
	speaker.Lock()
	b.mixer.Clear()
	speaker.Unlock()
	b.initialized = false
}

// Eat plays a short high blip
func (b *Buzzer) Eat() {
	b.play(Tone(1760, 1760, 40*time.Millisecond))
}

// Crash plays a falling tone
func (b *Buzzer) Crash() {
	b.play(Tone(440, 110, 400*time.Millisecond))
}

func (b *Buzzer) play(s beep.Streamer) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}
	speaker.Lock()
	b.mixer.Add(s)
	speaker.Unlock()
}

// sweep is a square wave sliding linearly from one frequency to another
type sweep struct {
	from, to float64
	total    int
	pos      int
	phase    float64
}

// Tone returns a square wave sweeping from one frequency to another over d.
func Tone(from, to float64, d time.Duration) beep.Streamer {
	return &sweep{from: from, to: to, total: sampleRate.N(d)}
}

func (s *sweep) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if s.pos >= s.total {
			return i, i > 0
		}
		freq := s.from + (s.to-s.from)*float64(s.pos)/float64(s.total)
		val := volume
		if s.phase >= 0.5 {
			val = -volume
		}
		samples[i][0], samples[i][1] = val, val

		s.phase += freq / float64(sampleRate)
		s.phase -= math.Floor(s.phase)
		s.pos++
	}
	return len(samples), true
}

func (s *sweep) Err() error {
	return nil
}
