// Package sample supplies motion samples to the conductor: recorded ones from
// CSV and synthetic ones for running without a sensor.
package sample

import (
	"context"
	"errors"

	"github.com/jsphweid/gyrotone/model"
)

// The sensor of the first build was set to ±8 g, ±500 °/s and a 5 Hz low-pass.
const (
	AccelRangeG       = 8
	GyroRangeDPS      = 500
	FilterBandwidthHz = 5

	StandardGravity = 9.80665
)

// ErrExhausted is returned by finite sources once every sample was read.
var ErrExhausted = errors.New("sample source exhausted")

// Source yields one motion sample per call. Any error other than
// ErrExhausted means acquisition failed and the run should stop.
type Source interface {
	Next(ctx context.Context) (model.MotionSample, error)
}

// Slice serves samples from memory, in order.
type Slice struct {
	Samples []model.MotionSample
	pos     int
}

func (s *Slice) Next(ctx context.Context) (model.MotionSample, error) {
	if err := ctx.Err(); err != nil {
		return model.MotionSample{}, err
	}
	if s.pos >= len(s.Samples) {
		return model.MotionSample{}, ErrExhausted
	}
	m := s.Samples[s.pos]
	s.pos++
	return m, nil
}

func (s *Slice) Rewind() {
	s.pos = 0
}

// ReadAll drains src into a slice.
func ReadAll(ctx context.Context, src Source) ([]model.MotionSample, error) {
	var res []model.MotionSample
	for {
		m, err := src.Next(ctx)
		if errors.Is(err, ErrExhausted) {
			return res, nil
		}
		if err != nil {
			return res, err
		}
		res = append(res, m)
	}
}

// Loop replays a finite set of samples forever.
func Loop(samples []model.MotionSample) Source {
	return &loop{samples: samples}
}

type loop struct {
	samples []model.MotionSample
	pos     int
}

func (l *loop) Next(ctx context.Context) (model.MotionSample, error) {
	if err := ctx.Err(); err != nil {
		return model.MotionSample{}, err
	}
	if len(l.samples) == 0 {
		return model.MotionSample{}, ErrExhausted
	}
	m := l.samples[l.pos%len(l.samples)]
	l.pos++
	return m, nil
}
