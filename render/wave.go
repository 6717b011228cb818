// Package render turns ticks into sound: sample buffers for live output and
// WAV files for recordings.
package render

import (
	"math"

	"github.com/jsphweid/gyrotone/model"
	"github.com/jsphweid/gyrotone/util"
)

// fade in and out over this many milliseconds to avoid clicks
const fadeMs = 4

func Samples(ms, sampleRate int) int {
	return sampleRate * ms / 1000
}

// Square is a square wave at phase 0..1, like a buzzer driven by a pin.
func Square(phase float64) float64 {
	if phase < 0.5 {
		return 1
	}
	return -1
}

// Tone returns n samples of a square wave at hz. The first sounding samples
// are followed by silence once length samples have played. A zero hz is
// silence.
func Tone(hz, length, n, sampleRate int, amp float64) []float64 {
	out := make([]float64, n)
	if hz <= 0 {
		return out
	}
	length = util.Min(length, n)
	fade := util.Min(Samples(fadeMs, sampleRate), length/2)
	for i := 0; i < length; i++ {
		_, phase := math.Modf(float64(i) * float64(hz) / float64(sampleRate))
		env := 1.0
		if fade > 0 {
			switch {
			case i < fade:
				env = float64(i) / float64(fade)
			case i >= length-fade:
				env = float64(length-1-i) / float64(fade)
			}
		}
		out[i] = amp * env * Square(phase)
	}
	return out
}

// Frames renders one tick as two channels, melody then bass. Both last the
// tick's pace; each voice sounds for its own duration or the pace, whichever
// is shorter.
func Frames(t model.Tick, sampleRate int, amp float64) (melody, bass []float64) {
	n := Samples(t.Pace, sampleRate)
	melody = Tone(t.MelodyOut.Hz, Samples(t.MelodyOut.Duration, sampleRate), n, sampleRate, amp)
	bass = Tone(t.BassOut.Hz, Samples(t.BassOut.Duration, sampleRate), n, sampleRate, amp)
	return melody, bass
}
