package api

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/jsphweid/gyrotone/conductor"
	"github.com/jsphweid/gyrotone/constants"
	"github.com/jsphweid/gyrotone/duration"
	"github.com/jsphweid/gyrotone/file"
	"github.com/jsphweid/gyrotone/midi"
	"github.com/jsphweid/gyrotone/model"
	"github.com/jsphweid/gyrotone/perform"
)

// Session is one performance driven over HTTP. Its conductor only ever sees
// one sample at a time.
type Session struct {
	Id   string
	Seed uint64

	mu        sync.Mutex
	conductor *conductor.Conductor
	rec       perform.Recorder
	// touched runs after every tick, outside the lock
	touched func()
	// autosave and Flush can both write the file
	saveMu sync.Mutex
}

func newSession(id string, seed uint64, table duration.Table) *Session {
	return &Session{
		Id:        id,
		Seed:      seed,
		conductor: conductor.NewSeeded(table, seed),
	}
}

// Tick feeds one sample through the conductor and returns the index of the
// tick in the session.
func (s *Session) Tick(sample model.MotionSample) (int, model.Tick) {
	s.mu.Lock()
	idx := s.rec.Len()
	tick := s.conductor.Tick(sample)
	s.rec.Record(idx, sample, tick)
	s.mu.Unlock()

	if s.touched != nil {
		s.touched()
	}
	return idx, tick
}

func (s *Session) Summary() model.SessionResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.SessionResponse{
		Id:        s.Id,
		Ticks:     s.rec.Len(),
		ElapsedMs: s.rec.ElapsedMs(),
		Melody:    s.conductor.Melody(),
		Bass:      s.conductor.Bass(),
	}
}

func (s *Session) Ticks() []model.Tick {
	return s.rec.Ticks()
}

func (s *Session) WriteMidi(w io.Writer) error {
	return midi.WritePerformance(w, s.rec.Ticks(), constants.ExportBPM)
}

// Save writes the session so far to <dir>/<id>.mid and returns the path.
func (s *Session) Save(dir string) (string, error) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("could not create %v: %w", dir, err)
	}
	path := file.PerformanceOutputs(dir, s.Id).Midi
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := s.WriteMidi(f); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}
