package chord

import (
	"fmt"
	"sort"

	"github.com/jsphweid/gyrotone/model"
	"github.com/jsphweid/gyrotone/scale"
	"github.com/jsphweid/gyrotone/util"
	"gitlab.com/gomidi/midi/v2/smf"
)

type reducedEvent struct {
	// microseconds
	Offset    int64
	IsNoteOff bool
	Note      uint8
}

func CreateChordKey(notes []uint8) string {
	sorted := append([]uint8(nil), notes...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})
	var res string
	for i, note := range sorted {
		res += fmt.Sprintf("%v", note)
		if i < len(sorted)-1 {
			res += "-"
		}
	}
	return res
}

func keyOf(n model.Note) (uint8, bool) {
	return scale.Lookup(n.Octave, n.Pitch).MIDI()
}

// FromTick returns the keys sounding during t. Silent voices are left out.
func FromTick(offset int64, t model.Tick) model.Chord {
	c := model.Chord{Offset: offset, Pace: t.Pace}
	for _, n := range []model.Note{t.Melody, t.Bass} {
		if key, ok := keyOf(n); ok {
			c.Notes = append(c.Notes, key)
		}
	}
	return c
}

// FromTicks lays the ticks end to end and returns the non-empty chords.
func FromTicks(ticks []model.Tick) []model.Chord {
	var chords []model.Chord
	var offset int64
	for _, t := range ticks {
		c := FromTick(offset, t)
		offset += int64(t.Pace)
		if len(c.Notes) > 0 {
			chords = append(chords, c)
		}
	}
	return chords
}

func getChord(pressed map[uint8]int64, offset int64) model.Chord {
	var notes []uint8
	for note := range pressed {
		notes = append(notes, note)
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i] < notes[j] })
	return model.Chord{Offset: offset / 1000, Notes: notes}
}

// GetChords rebuilds the chord sequence of an exported performance. A chord
// lasts until the set of pressed keys changes.
func GetChords(s *smf.SMF) (chords []model.Chord, err error) {
	defer func() {
		if r := recover(); r != nil {
			chords, err = nil, fmt.Errorf("could not read chords: %v", r)
		}
	}()

	var reducedEvents []reducedEvent

	for _, events := range s.Tracks {
		var absTicks int64
		for _, event := range events {
			absTicks += int64(event.Delta)
			absTime := s.TimeAt(absTicks)
			var channel uint8
			var key uint8
			var velocity uint8
			switch {
			case event.Message.GetNoteOn(&channel, &key, &velocity) && velocity > 0:
				reducedEvents = append(reducedEvents, reducedEvent{Offset: absTime, Note: key})
			case event.Message.GetNoteOff(&channel, &key, &velocity),
				event.Message.GetNoteOn(&channel, &key, &velocity):
				reducedEvents = append(reducedEvents, reducedEvent{Offset: absTime, IsNoteOff: true, Note: key})
			}
		}
	}

	// prioritize smaller offset values then note off
	sort.SliceStable(reducedEvents, func(i, j int) bool {
		if reducedEvents[i].Offset != reducedEvents[j].Offset {
			return reducedEvents[i].Offset < reducedEvents[j].Offset
		}
		return reducedEvents[i].IsNoteOff && !reducedEvents[j].IsNoteOff
	})

	timestampToChords := make(map[int64]model.Chord)
	pressed := make(map[uint8]int64)
	for _, evt := range reducedEvents {
		if evt.IsNoteOff {
			delete(pressed, evt.Note)
		} else {
			pressed[evt.Note] = evt.Offset
		}
		timestampToChords[evt.Offset] = getChord(pressed, evt.Offset)
	}

	timestamps := util.SortedKeys(timestampToChords)
	for i, ts := range timestamps {
		c := timestampToChords[ts]
		if len(c.Notes) == 0 {
			continue
		}
		if i+1 < len(timestamps) {
			c.Pace = int((timestamps[i+1] - ts) / 1000)
		}
		chords = append(chords, c)
	}
	return chords, nil
}

// Count tallies chords by key.
func Count(chords []model.Chord) []model.ChordCount {
	byKey := make(map[string]*model.ChordCount)
	for _, c := range chords {
		key := CreateChordKey(c.Notes)
		cc, ok := byKey[key]
		if !ok {
			cc = &model.ChordCount{Key: key}
			byKey[key] = cc
		}
		cc.Count++
		cc.Held += int64(c.Pace)
	}
	res := make([]model.ChordCount, 0, len(byKey))
	for _, key := range util.SortedKeys(byKey) {
		res = append(res, *byKey[key])
	}
	return res
}

// RankSort puts the most frequent chords first, then the longest held.
func RankSort(counts []model.ChordCount) {
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		if counts[i].Held != counts[j].Held {
			return counts[i].Held > counts[j].Held
		}
		return counts[i].Key < counts[j].Key
	})
}
