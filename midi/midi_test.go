package midi

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/gyrotone/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/smf"
)

func tick(melody, bass model.Note) model.Tick {
	return model.Tick{Melody: melody, Bass: bass, Pace: melody.Duration}
}

func TestMsToTicks(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(uint32(240), msToTicks(125, 120))
	assert.Equal(uint32(960), msToTicks(500, 120))
	assert.Equal(uint32(2880), msToTicks(1500, 120))
	assert.Equal(uint32(480), msToTicks(500, 60))
}

func TestPerformanceRoundTrip(t *testing.T) {
	ticks := []model.Tick{
		// A4 over C1, bass shorter than the pace
		tick(model.Note{Pitch: 6, Octave: 3, Duration: 500}, model.Note{Pitch: 1, Octave: 0, Duration: 250}),
		// silent melody, silent bass
		tick(model.Note{Pitch: 7, Octave: 2, Duration: 250}, model.Note{Pitch: 7, Octave: 2, Duration: 125}),
		// C4 over Bb2, bass longer than the pace is cut
		tick(model.Note{Pitch: 1, Octave: 3, Duration: 125}, model.Note{Pitch: 0, Octave: 1, Duration: 1000}),
	}

	var buf bytes.Buffer
	require.NoError(t, WritePerformance(&buf, ticks, 120))

	p, err := ReadPerformance(&buf)
	require.NoError(t, err)

	assert.Equal(t, []model.PlayedNote{
		{Offset: 0, Key: 69, Duration: 500},
		{Offset: 750, Key: 60, Duration: 125},
	}, p.Melody)
	assert.Equal(t, []model.PlayedNote{
		{Offset: 0, Key: 24, Duration: 250},
		{Offset: 750, Key: 46, Duration: 125},
	}, p.Bass)
	assert.Equal(t, int64(875), p.LengthMs)
}

func TestEmptyPerformance(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePerformance(&buf, nil, 120))

	p, err := ReadPerformance(&buf)
	require.NoError(t, err)
	assert.Empty(t, p.Melody)
	assert.Empty(t, p.Bass)
}

func TestReadPerformanceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "take.mid")
	f, err := os.Create(path)
	require.NoError(t, err)
	ticks := []model.Tick{tick(model.Note{Pitch: 2, Octave: 4, Duration: 1000}, model.Note{Pitch: 4, Octave: 1, Duration: 1000})}
	require.NoError(t, WritePerformance(f, ticks, 120))
	require.NoError(t, f.Close())

	p, err := ReadPerformanceFile(path)
	require.NoError(t, err)
	require.Len(t, p.Melody, 1)
	assert.Equal(t, int64(1000), p.Melody[0].Duration)
	require.Len(t, p.Bass, 1)

	_, err = ReadPerformanceFile(filepath.Join(t.TempDir(), "missing.mid"))
	assert.Error(t, err)
}

func TestReadGarbage(t *testing.T) {
	_, err := ReadPerformance(bytes.NewReader([]byte("not a midi file")))
	assert.Error(t, err)
}

func TestParseDamagedFile(t *testing.T) {
	ticks := []model.Tick{
		tick(model.Note{Pitch: 6, Octave: 3, Duration: 500}, model.Note{Pitch: 1, Octave: 0, Duration: 250}),
		tick(model.Note{Pitch: 1, Octave: 3, Duration: 125}, model.Note{Pitch: 0, Octave: 1, Duration: 1000}),
	}
	var buf bytes.Buffer
	require.NoError(t, WritePerformance(&buf, ticks, 120))
	good := buf.Bytes()

	check := func(dat []byte) {
		var s *smf.SMF
		var err error
		require.NotPanics(t, func() { s, err = parse(dat) })
		require.NotNil(t, s)
		if err != nil {
			assert.Empty(t, FromSMF(s).Melody)
		}
	}

	for cut := 0; cut < len(good); cut++ {
		check(good[:cut])
	}
	for i := range good {
		for _, b := range []byte{0x00, 0x7f, 0x80, 0xff} {
			dat := bytes.Clone(good)
			dat[i] = b
			check(dat)
		}
	}
}

func TestParseNeverReturnsNil(t *testing.T) {
	s, err := parse([]byte("MThd"))
	assert.Error(t, err)
	assert.NotNil(t, s)
}
