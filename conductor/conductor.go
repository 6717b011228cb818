// Package conductor turns one motion sample into the next pair of notes.
package conductor

import (
	"math"
	"math/rand/v2"

	"github.com/jsphweid/gyrotone/duration"
	"github.com/jsphweid/gyrotone/model"
	"github.com/jsphweid/gyrotone/voice"
)

// Conductor owns both voices and the random source they share. It is not safe
// for concurrent use; one sample is processed completely before the next.
type Conductor struct {
	melody *voice.Melody
	bass   *voice.Bass
}

func New(table duration.Table, r duration.Rand) *Conductor {
	s := duration.NewSelector(table, r)
	return &Conductor{
		melody: voice.NewMelody(r, s),
		bass:   voice.NewBass(r, s),
	}
}

// NewSeeded builds a conductor on a PCG source. The same seed and the same
// samples always give the same performance.
func NewSeeded(table duration.Table, seed uint64) *Conductor {
	return New(table, rand.New(rand.NewPCG(seed, seed)))
}

// Magnitudes returns the horizontal-plane norms of acceleration and rotation.
// The z axis and temperature are ignored.
func Magnitudes(s model.MotionSample) (totalAcc, totalSpin float64) {
	totalAcc = math.Sqrt(s.Ax*s.Ax + s.Ay*s.Ay)
	totalSpin = math.Sqrt(s.Gx*s.Gx + s.Gy*s.Gy)
	return totalAcc, totalSpin
}

// Tick advances the melody and then the bass, which harmonizes with the
// melody's new degree. The caller should hold both outputs for Pace
// milliseconds before silencing them and ticking again.
func (c *Conductor) Tick(s model.MotionSample) model.Tick {
	acc, spin := Magnitudes(s)

	melody := c.melody.Advance(acc, spin)
	bass := c.bass.Advance(acc, spin, melody.Pitch)

	return model.Tick{
		Melody:    melody,
		Bass:      bass,
		MelodyOut: c.melody.Command(),
		BassOut:   c.bass.Command(),
		Pace:      melody.Duration,
		TotalAcc:  acc,
		TotalSpin: spin,
	}
}

func (c *Conductor) Melody() model.Note {
	return c.melody.Note()
}

func (c *Conductor) Bass() model.Note {
	return c.bass.Note()
}

const degreesPerRadian = 180 / math.Pi

// Diagnose reports the melody state after tick together with the raw sample,
// rotation converted to degrees. It has no effect on the conductor.
func Diagnose(s model.MotionSample, tick model.Tick) model.Diagnostics {
	return model.Diagnostics{
		MelodyDuration: tick.Melody.Duration,
		MelodyOctave:   tick.Melody.Octave,
		MelodyPitch:    tick.Melody.Pitch,

		AccX: s.Ax,
		AccY: s.Ay,
		AccZ: s.Az,
		RotX: s.Gx * degreesPerRadian,
		RotY: s.Gy * degreesPerRadian,
		RotZ: s.Gz * degreesPerRadian,
		Temp: s.Temp,
	}
}
