package perform

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/jsphweid/gyrotone/conductor"
	"github.com/jsphweid/gyrotone/duration"
	"github.com/jsphweid/gyrotone/model"
	"github.com/jsphweid/gyrotone/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type event struct {
	kind   string
	melody model.NoteCommand
	pace   time.Duration
}

type fakePlayer struct {
	events  []event
	playErr error
}

func (p *fakePlayer) Play(ctx context.Context, melody, bass model.NoteCommand, pace time.Duration) error {
	p.events = append(p.events, event{kind: "play", melody: melody, pace: pace})
	return p.playErr
}

func (p *fakePlayer) Silence() error {
	p.events = append(p.events, event{kind: "silence"})
	return nil
}

func (p *fakePlayer) Close() error { return nil }

type failingSource struct{}

func (failingSource) Next(ctx context.Context) (model.MotionSample, error) {
	return model.MotionSample{}, errors.New("device not found")
}

func newConductor(seed uint64) *conductor.Conductor {
	return conductor.New(duration.Default, rand.New(rand.NewPCG(seed, seed)))
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunPlaysSleepsThenSilences(t *testing.T) {
	src := &sample.Slice{Samples: []model.MotionSample{{Ax: 1, Gx: 5}, {Ax: 2, Gy: 6}, {Ax: 0.6, Gx: 1}}}
	out := &fakePlayer{}
	var slept []time.Duration
	rec := &Recorder{}

	n, err := Run(context.Background(), src, newConductor(1), out, Options{
		Logger: quiet(),
		Sleep: func(ctx context.Context, d time.Duration) error {
			slept = append(slept, d)
			return nil
		},
		OnTick: rec.Record,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.Len(t, out.events, 6)

	ticks := rec.Ticks()
	require.Len(t, ticks, 3)
	for i, tick := range ticks {
		assert.Equal(t, "play", out.events[2*i].kind)
		assert.Equal(t, "silence", out.events[2*i+1].kind)
		assert.Equal(t, tick.MelodyOut, out.events[2*i].melody)
		// only the melody paces the loop
		assert.Equal(t, time.Duration(tick.Melody.Duration)*time.Millisecond, slept[i])
		assert.Equal(t, slept[i], out.events[2*i].pace)
	}
	assert.Equal(t, src.Samples, rec.Samples())
	assert.Equal(t, 3, rec.Len())
	assert.Equal(t, int64(ticks[0].Pace+ticks[1].Pace+ticks[2].Pace), rec.ElapsedMs())
}

func TestRunStopsAtMaxTicks(t *testing.T) {
	out := &fakePlayer{}
	n, err := Run(context.Background(), sample.NewSyntheticSource(4), newConductor(2), out, Options{
		MaxTicks: 7,
		Sleep:    NoSleep,
		Logger:   quiet(),
	})
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestRunFailsOnAcquisitionError(t *testing.T) {
	out := &fakePlayer{}
	n, err := Run(context.Background(), failingSource{}, newConductor(3), out, Options{Sleep: NoSleep, Logger: quiet()})
	assert.ErrorContains(t, err, "device not found")
	assert.Equal(t, 0, n)
	assert.Empty(t, out.events)
}

func TestRunReportsPlayerErrors(t *testing.T) {
	out := &fakePlayer{playErr: errors.New("unplugged")}
	src := &sample.Slice{Samples: []model.MotionSample{{Ax: 1}}}
	_, err := Run(context.Background(), src, newConductor(3), out, Options{Sleep: NoSleep, Logger: quiet()})
	assert.ErrorContains(t, err, "unplugged")
}

func TestCancelDuringSleepStillSilences(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	out := &fakePlayer{}
	sleep := func(ctx context.Context, d time.Duration) error {
		cancel()
		return Sleep(ctx, d)
	}
	n, err := Run(ctx, sample.NewSyntheticSource(9), newConductor(9), out, Options{Sleep: sleep, Logger: quiet()})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, n)
	require.Len(t, out.events, 2)
	assert.Equal(t, "silence", out.events[1].kind)
}

func TestSleepWaits(t *testing.T) {
	start := time.Now()
	require.NoError(t, Sleep(context.Background(), 20*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestSameSeedSamePerformance(t *testing.T) {
	run := func() []model.Tick {
		rec := &Recorder{}
		_, err := Run(context.Background(), sample.NewSyntheticSource(5), newConductor(5), &fakePlayer{}, Options{
			MaxTicks: 40, Sleep: NoSleep, Logger: quiet(), OnTick: rec.Record,
		})
		require.NoError(t, err)
		return rec.Ticks()
	}
	assert.Equal(t, run(), run())
}

func TestRecorderElapsed(t *testing.T) {
	rec := &Recorder{}
	assert.Zero(t, rec.ElapsedMs())

	for i, pace := range []int{125, 1500, 250} {
		rec.Record(i, model.MotionSample{}, model.Tick{Pace: pace})
	}
	assert.Equal(t, int64(1875), rec.ElapsedMs())
}
