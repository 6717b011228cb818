package model

import "time"

// Note is the state of one voice: a degree, an octave into the scale table and
// a length in milliseconds.
type Note struct {
	Pitch    int `json:"pitch"`
	Octave   int `json:"octave"`
	Duration int `json:"duration"`
}

// MotionSample is one reading of the motion sensor in its native units:
// m/s^2 for acceleration, rad/s for angular velocity, degrees C for
// temperature.
type MotionSample struct {
	Ax   float64 `json:"ax"`
	Ay   float64 `json:"ay"`
	Az   float64 `json:"az"`
	Gx   float64 `json:"gx"`
	Gy   float64 `json:"gy"`
	Gz   float64 `json:"gz"`
	Temp float64 `json:"temp"`
}

// NoteCommand is what an output channel plays: a frequency (0 is silence) for
// a number of milliseconds.
type NoteCommand struct {
	Hz       int `json:"hz"`
	Duration int `json:"duration"`
}

func (c NoteCommand) IsSilence() bool {
	return c.Hz == 0
}

// Tick is the result of feeding one sample through both voices.
type Tick struct {
	Melody    Note        `json:"melody"`
	Bass      Note        `json:"bass"`
	MelodyOut NoteCommand `json:"melody_out"`
	BassOut   NoteCommand `json:"bass_out"`
	Pace      int         `json:"pace"`
	TotalAcc  float64     `json:"total_acc"`
	TotalSpin float64     `json:"total_spin"`
}

func (t Tick) PaceDuration() time.Duration {
	return time.Duration(t.Pace) * time.Millisecond
}

// PlayedNote is a note read back from an exported performance.
type PlayedNote struct {
	// NOTE: offsets are in milliseconds from the start of the performance
	Offset   int64 `json:"offset"`
	Key      uint8 `json:"key"`
	Duration int64 `json:"duration"`
}
