package voice

import (
	"github.com/jsphweid/gyrotone/duration"
	"github.com/jsphweid/gyrotone/model"
	"github.com/jsphweid/gyrotone/scale"
)

var MelodyStart = model.Note{Pitch: 0, Octave: 3, Duration: 0}

// Melody is the lead voice. Acceleration drives its octave and note length,
// rotation drives its pitch.
type Melody struct {
	base
}

func NewMelody(r duration.Rand, s *duration.Selector) *Melody {
	return &Melody{base{note: MelodyStart, rand: r, selector: s}}
}

// Advance moves the melody one note forward and returns the new note.
func (m *Melody) Advance(totalAcc, totalSpin float64) model.Note {
	n := m.note

	n.Octave = wrap(step(n.Octave, totalAcc >= 3), maxOctave, 2)

	// 3..4 is a dead zone: the pitch holds
	switch {
	case totalSpin < 3:
		n.Pitch -= m.rand.IntN(maxStep + 1)
	case totalSpin > 4:
		n.Pitch += m.rand.IntN(maxStep + 1)
	}
	n.Pitch = normalize(n.Pitch)

	if totalAcc < 0.5 || totalSpin < 0.5 {
		n.Pitch = scale.SilenceDegree
	}

	n.Duration = m.selector.Select(totalAcc)
	m.note = n
	return n
}
