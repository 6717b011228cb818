package model

import "time"

// PerformanceMetadata describes one recorded run of the generator.
type PerformanceMetadata struct {
	Id         string
	Source     string
	Seed       uint64
	Ticks      int
	DurationMs int64
	MidiPath   string
	WavPath    string
	CreatedAt  time.Time
}
