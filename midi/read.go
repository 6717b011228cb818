package midi

import (
	"fmt"
	"io"

	"github.com/jsphweid/gyrotone/model"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Performance is an exported file read back into notes per voice.
type Performance struct {
	Melody   []model.PlayedNote
	Bass     []model.PlayedNote
	LengthMs int64
}

// ReadPerformance reads a file written by WritePerformance. Notes on the
// melody channel go to Melody, everything else to Bass.
func ReadPerformance(r io.Reader) (*Performance, error) {
	dat, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading midi: %w", err)
	}
	s, err := parse(dat)
	if err != nil {
		return nil, err
	}
	return FromSMF(s), nil
}

func ReadPerformanceFile(path string) (*Performance, error) {
	s, err := ReadMidiFile(path)
	if err != nil {
		return nil, err
	}
	return FromSMF(s), nil
}

func FromSMF(s *smf.SMF) *Performance {
	var p Performance
	for _, events := range s.Tracks {
		// key -> start in microseconds
		pressed := make(map[uint8]int64)
		var absTicks int64
		for _, event := range events {
			absTicks += int64(event.Delta)
			absTime := s.TimeAt(absTicks)
			if absTime/1000 > p.LengthMs {
				p.LengthMs = absTime / 1000
			}

			var channel, key, vel uint8
			switch {
			case event.Message.GetNoteOn(&channel, &key, &vel) && vel > 0:
				pressed[key] = absTime
			case event.Message.GetNoteOff(&channel, &key, &vel),
				event.Message.GetNoteOn(&channel, &key, &vel):
				start, ok := pressed[key]
				if !ok {
					continue
				}
				delete(pressed, key)
				note := model.PlayedNote{
					Offset:   start / 1000,
					Key:      key,
					Duration: (absTime - start) / 1000,
				}
				if channel == MelodyChannel {
					p.Melody = append(p.Melody, note)
				} else {
					p.Bass = append(p.Bass, note)
				}
			}
		}
	}
	return &p
}
