package scale

import (
	"fmt"
	"math"
)

const (
	Octaves = 6
	Degrees = 8

	// SilenceDegree is the degree that maps to no tone in every octave.
	SilenceDegree = 7
)

// Pitch is a single entry of the scale table. A zero Hz means silence.
type Pitch struct {
	Name string
	Hz   int
}

var Silence = Pitch{Name: "rest", Hz: 0}

func (p Pitch) IsSilence() bool {
	return p.Hz == 0
}

// MIDI returns the nearest MIDI key for the pitch. Silence has no key and
// returns ok == false.
func (p Pitch) MIDI() (key uint8, ok bool) {
	if p.IsSilence() {
		return 0, false
	}
	n := 69 + 12*math.Log2(float64(p.Hz)/440)
	return uint8(math.Round(n)), true
}

func (p Pitch) String() string {
	if p.IsSilence() {
		return p.Name
	}
	return fmt.Sprintf("%v(%vHz)", p.Name, p.Hz)
}

// Bb major over six octaves, piezo buzzer frequencies. Each row starts on the
// Bb of its octave, so degree 0 sits above degrees 1..6.
var Table = [Octaves][Degrees]Pitch{
	{{"Bb1", 58}, {"C1", 33}, {"D1", 37}, {"Eb1", 39}, {"F1", 44}, {"G1", 49}, {"A1", 55}, Silence},
	{{"Bb2", 117}, {"C2", 65}, {"D2", 73}, {"Eb2", 78}, {"F2", 87}, {"G2", 98}, {"A2", 110}, Silence},
	{{"Bb3", 233}, {"C3", 131}, {"D3", 147}, {"Eb3", 156}, {"F3", 175}, {"G3", 196}, {"A3", 220}, Silence},
	{{"Bb4", 466}, {"C4", 262}, {"D4", 294}, {"Eb4", 311}, {"F4", 349}, {"G4", 392}, {"A4", 440}, Silence},
	{{"Bb5", 932}, {"C5", 523}, {"D5", 587}, {"Eb5", 622}, {"F5", 698}, {"G5", 784}, {"A5", 880}, Silence},
	{{"Bb6", 1865}, {"C6", 1047}, {"D6", 1175}, {"Eb6", 1245}, {"F6", 1397}, {"G6", 1568}, {"A6", 1760}, Silence},
}

// Harmonics maps the melody's degree to three candidate bass degrees.
// Row 7 follows a silent melody with a silent bass.
var Harmonics = [Degrees][3]int{
	{2, 4, 6},
	{3, 5, 0},
	{4, 6, 1},
	{5, 0, 2},
	{6, 1, 3},
	{0, 2, 4},
	{1, 3, 5},
	{7, 7, 7},
}

// Lookup returns the pitch at octave 0..5 and degree 0..7. Indices outside
// that range are a programming error.
func Lookup(octave, degree int) Pitch {
	return Table[octave][degree]
}
