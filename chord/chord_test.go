package chord

import (
	"bytes"
	"testing"

	"github.com/jsphweid/gyrotone/midi"
	"github.com/jsphweid/gyrotone/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/smf"
)

func tick(melody, bass model.Note) model.Tick {
	return model.Tick{Melody: melody, Bass: bass, Pace: melody.Duration}
}

var performance = []model.Tick{
	// A4 over C1
	tick(model.Note{Pitch: 6, Octave: 3, Duration: 500}, model.Note{Pitch: 1, Octave: 0, Duration: 250}),
	tick(model.Note{Pitch: 7, Octave: 2, Duration: 250}, model.Note{Pitch: 7, Octave: 2, Duration: 125}),
	// C4 over Bb2
	tick(model.Note{Pitch: 1, Octave: 3, Duration: 125}, model.Note{Pitch: 0, Octave: 1, Duration: 1000}),
}

func TestCreateChordKeyLeavesInputAlone(t *testing.T) {
	notes := []uint8{69, 24, 46}
	assert.Equal(t, "24-46-69", CreateChordKey(notes))
	assert.Equal(t, []uint8{69, 24, 46}, notes)
	assert.Equal(t, "", CreateChordKey(nil))
}

func TestFromTicks(t *testing.T) {
	chords := FromTicks(performance)
	assert.Equal(t, []model.Chord{
		{Offset: 0, Notes: []uint8{69, 24}, Pace: 500},
		{Offset: 750, Notes: []uint8{60, 46}, Pace: 125},
	}, chords)
}

func TestFromTickDropsSilentVoice(t *testing.T) {
	c := FromTick(10, tick(model.Note{Pitch: 7, Octave: 0, Duration: 125}, model.Note{Pitch: 2, Octave: 1, Duration: 500}))
	assert.Equal(t, model.Chord{Offset: 10, Notes: []uint8{38}, Pace: 125}, c)
}

func TestGetChordsFromExport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, midi.WritePerformance(&buf, performance, 120))
	s, err := smf.ReadFrom(&buf)
	require.NoError(t, err)

	chords, err := GetChords(s)
	require.NoError(t, err)
	assert.Equal(t, []model.Chord{
		{Offset: 0, Notes: []uint8{24, 69}, Pace: 250},
		{Offset: 250, Notes: []uint8{69}, Pace: 250},
		{Offset: 750, Notes: []uint8{46, 60}, Pace: 125},
	}, chords)
}

func TestCountAndRankSort(t *testing.T) {
	chords := []model.Chord{
		{Notes: []uint8{60, 46}, Pace: 125},
		{Notes: []uint8{69}, Pace: 1000},
		{Notes: []uint8{46, 60}, Pace: 250},
		{Notes: []uint8{24, 69}, Pace: 1000},
	}
	counts := Count(chords)
	RankSort(counts)

	assert.Equal(t, []model.ChordCount{
		{Key: "46-60", Count: 2, Held: 375},
		{Key: "24-69", Count: 1, Held: 1000},
		{Key: "69", Count: 1, Held: 1000},
	}, counts)
}
