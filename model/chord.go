package model

type Notes = []uint8

// Chord is the set of MIDI keys sounding at one tick of a performance.
type Chord struct {
	// NOTE: offset in milliseconds from the first tick
	Offset int64
	Notes  Notes
	Pace   int
}

type ChordCount struct {
	Key   string
	Count int
	// total milliseconds the chord was held
	Held int64
}
