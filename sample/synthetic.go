package sample

import (
	"context"
	"math"
	"math/rand/v2"

	"github.com/jsphweid/gyrotone/model"
	"github.com/jsphweid/gyrotone/util"
)

var (
	maxAccel = AccelRangeG * StandardGravity
	maxGyro  = GyroRangeDPS * math.Pi / 180
)

// SyntheticSource is a random walk of a sensor being waved around, with
// gravity on z. It never runs out.
type SyntheticSource struct {
	rand *rand.Rand
	// largest change per sample, m/s^2 and rad/s
	AccelStep float64
	GyroStep  float64

	cur model.MotionSample
}

func NewSyntheticSource(seed uint64) *SyntheticSource {
	return &SyntheticSource{
		rand:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		AccelStep: 0.8,
		GyroStep:  0.9,
		cur:       model.MotionSample{Az: StandardGravity, Temp: 24},
	}
}

func (s *SyntheticSource) Next(ctx context.Context) (model.MotionSample, error) {
	if err := ctx.Err(); err != nil {
		return model.MotionSample{}, err
	}
	s.cur.Ax = s.walk(s.cur.Ax, s.AccelStep, maxAccel)
	s.cur.Ay = s.walk(s.cur.Ay, s.AccelStep, maxAccel)
	s.cur.Az = s.walk(s.cur.Az, s.AccelStep/4, maxAccel)
	s.cur.Gx = s.walk(s.cur.Gx, s.GyroStep, maxGyro)
	s.cur.Gy = s.walk(s.cur.Gy, s.GyroStep, maxGyro)
	s.cur.Gz = s.walk(s.cur.Gz, s.GyroStep, maxGyro)
	s.cur.Temp = s.walk(s.cur.Temp, 0.05, 85)
	return s.cur, nil
}

// walk moves v by up to step in either direction, pulled gently back toward
// zero so the motion does not pin at the sensor's range.
func (s *SyntheticSource) walk(v, step, limit float64) float64 {
	v += (s.rand.Float64()*2 - 1) * step
	v *= 0.97
	return util.Clamp(v, -limit, limit)
}
