// Package voice holds the two note generators. Each one keeps the note it
// played last and moves away from it according to how the sensor is moving,
// so motion shapes the change between notes rather than the notes themselves.
//
// Neither generator is safe for concurrent use.
package voice

import (
	"github.com/jsphweid/gyrotone/duration"
	"github.com/jsphweid/gyrotone/model"
	"github.com/jsphweid/gyrotone/scale"
)

const (
	maxOctave = scale.Octaves - 1
	// highest degree a moving melody may settle on
	maxTone = scale.SilenceDegree - 1
	// pitch steps are drawn from 0..maxStep inclusive
	maxStep = 5
)

// step moves the octave up when up is true and down otherwise.
func step(octave int, up bool) int {
	if up {
		return octave + 1
	}
	return octave - 1
}

// wrap brings an octave that left 0..5 back into range. Each voice has its
// own landing octaves for each side.
func wrap(octave, belowTo, aboveTo int) int {
	if octave < 0 {
		return belowTo
	}
	if octave > maxOctave {
		return aboveTo
	}
	return octave
}

// normalize folds a pitch back into 0..6: negatives are mirrored and anything
// above 6 drops by three until it fits.
func normalize(pitch int) int {
	if pitch < 0 {
		pitch = -pitch
	}
	for pitch > maxTone {
		pitch -= 3
	}
	return pitch
}

type base struct {
	note     model.Note
	rand     duration.Rand
	selector *duration.Selector
}

func (b *base) Note() model.Note {
	return b.note
}

// Pitch resolves the current note against the scale table.
func (b *base) Pitch() scale.Pitch {
	return scale.Lookup(b.note.Octave, b.note.Pitch)
}

// Command is the current note as an output channel should play it.
func (b *base) Command() model.NoteCommand {
	return model.NoteCommand{Hz: b.Pitch().Hz, Duration: b.note.Duration}
}
