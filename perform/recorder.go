package perform

import (
	"sync"

	"github.com/jsphweid/gyrotone/model"
	"github.com/jsphweid/gyrotone/util"
)

// Recorder keeps every tick of a run, with the sample that produced it.
type Recorder struct {
	mu      sync.Mutex
	samples []model.MotionSample
	ticks   []model.Tick
}

func (r *Recorder) Record(_ int, s model.MotionSample, t model.Tick) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, s)
	r.ticks = append(r.ticks, t)
}

func (r *Recorder) Ticks() []model.Tick {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Tick(nil), r.ticks...)
}

func (r *Recorder) Samples() []model.MotionSample {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.MotionSample(nil), r.samples...)
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ticks)
}

// ElapsedMs is the sum of the paces recorded so far.
func (r *Recorder) ElapsedMs() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	paces := make([]int, len(r.ticks))
	for i, t := range r.ticks {
		paces[i] = t.Pace
	}
	return int64(util.Sum(paces))
}
