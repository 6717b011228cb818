package voice

import (
	"github.com/jsphweid/gyrotone/duration"
	"github.com/jsphweid/gyrotone/model"
	"github.com/jsphweid/gyrotone/scale"
)

var BassStart = model.Note{Pitch: 0, Octave: 0, Duration: 0}

// Bass follows the melody. Rotation drives its octave; its degree is one of
// the harmonics of whatever the melody just moved to.
type Bass struct {
	base
}

func NewBass(r duration.Rand, s *duration.Selector) *Bass {
	return &Bass{base{note: BassStart, rand: r, selector: s}}
}

// Advance must be called after the melody has advanced for the same sample,
// with the melody's new degree.
func (b *Bass) Advance(totalAcc, totalSpin float64, melodyPitch int) model.Note {
	n := b.note

	n.Octave = wrap(step(n.Octave, totalSpin >= 3), 2, 0)

	candidates := scale.Harmonics[melodyPitch]
	n.Pitch = candidates[b.rand.IntN(len(candidates))]

	n.Duration = b.selector.Select(totalAcc)
	b.note = n
	return n
}
