package midi

import (
	"fmt"
	"io"

	"github.com/jsphweid/gyrotone/model"
	"github.com/jsphweid/gyrotone/scale"
	"github.com/jsphweid/gyrotone/util"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	Resolution = 960

	MelodyChannel uint8 = 0
	BassChannel   uint8 = 1

	velocity uint8 = 100
)

// TrackNames in the order they are written, after the tempo track.
var TrackNames = [2]string{"melody", "bass"}

// msToTicks converts milliseconds to ticks at bpm quarter notes per minute.
func msToTicks(ms int, bpm float64) uint32 {
	return uint32(float64(ms) * Resolution * bpm / 60000)
}

// NewPerformance builds a format 1 file: a tempo track, then one track per
// voice. Each tick lasts its pace; a voice sounds for its own duration or the
// pace, whichever is shorter, and rests for the remainder.
func NewPerformance(ticks []model.Tick, bpm float64) (*smf.SMF, error) {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(Resolution)

	var tempo smf.Track
	tempo.Add(0, smf.MetaMeter(4, 4))
	tempo.Add(0, smf.MetaTempo(bpm))
	tempo.Close(0)
	if err := s.Add(tempo); err != nil {
		return nil, fmt.Errorf("error adding tempo track: %w", err)
	}

	voices := [2]struct {
		channel uint8
		note    func(model.Tick) model.Note
	}{
		{MelodyChannel, func(t model.Tick) model.Note { return t.Melody }},
		{BassChannel, func(t model.Tick) model.Note { return t.Bass }},
	}
	for i, v := range voices {
		track := voiceTrack(TrackNames[i], v.channel, ticks, v.note, bpm)
		if err := s.Add(track); err != nil {
			return nil, fmt.Errorf("error adding %v track: %w", TrackNames[i], err)
		}
	}
	return s, nil
}

func voiceTrack(name string, channel uint8, ticks []model.Tick, noteOf func(model.Tick) model.Note, bpm float64) smf.Track {
	var track smf.Track
	track.Add(0, smf.MetaTrackSequenceName(name))

	// ticks of rest owed before the next event
	var gap uint32
	for _, t := range ticks {
		pace := msToTicks(t.Pace, bpm)
		n := noteOf(t)
		held := util.Min(msToTicks(n.Duration, bpm), pace)
		key, ok := scale.Lookup(n.Octave, n.Pitch).MIDI()
		if !ok || held == 0 {
			gap += pace
			continue
		}
		track.Add(gap, midi.NoteOn(channel, key, velocity))
		track.Add(held, midi.NoteOff(channel, key))
		gap = pace - held
	}
	track.Close(gap)
	return track
}

// WritePerformance writes ticks to w as a Standard MIDI File.
func WritePerformance(w io.Writer, ticks []model.Tick, bpm float64) error {
	s, err := NewPerformance(ticks, bpm)
	if err != nil {
		return err
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("error writing midi: %w", err)
	}
	return nil
}
