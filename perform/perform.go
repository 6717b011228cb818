// Package perform runs the sense, compute, drive, sleep loop.
package perform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsphweid/gyrotone/conductor"
	"github.com/jsphweid/gyrotone/model"
	"github.com/jsphweid/gyrotone/player"
	"github.com/jsphweid/gyrotone/sample"
)

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// NoSleep renders as fast as possible, for offline recording.
func NoSleep(ctx context.Context, d time.Duration) error {
	return ctx.Err()
}

type Options struct {
	// MaxTicks stops the run after this many ticks. Zero means no limit.
	MaxTicks int
	Sleep    Sleeper
	Logger   *slog.Logger
	// OnTick is called after each tick has been played.
	OnTick func(index int, s model.MotionSample, t model.Tick)
}

// Run plays samples from src until the source is exhausted, MaxTicks is
// reached or ctx is done. It returns the number of ticks played. Exhausting
// the source or hitting the limit is a normal end and returns a nil error.
func Run(ctx context.Context, src sample.Source, c *conductor.Conductor, out player.Player, opts Options) (int, error) {
	if opts.Sleep == nil {
		opts.Sleep = Sleep
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	n := 0
	for opts.MaxTicks == 0 || n < opts.MaxTicks {
		s, err := src.Next(ctx)
		if errors.Is(err, sample.ErrExhausted) {
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("sensor read failed: %w", err)
		}

		tick := c.Tick(s)
		if err := out.Play(ctx, tick.MelodyOut, tick.BassOut, tick.PaceDuration()); err != nil {
			return n, fmt.Errorf("play tick %v: %w", n, err)
		}

		d := conductor.Diagnose(s, tick)
		logger.Debug(d.String(),
			"duration", d.MelodyDuration,
			"octave", d.MelodyOctave,
			"pitch", d.MelodyPitch)

		if opts.OnTick != nil {
			opts.OnTick(n, s, tick)
		}
		n++

		sleepErr := opts.Sleep(ctx, tick.PaceDuration())
		if err := out.Silence(); err != nil {
			return n, fmt.Errorf("silence after tick %v: %w", n-1, err)
		}
		if sleepErr != nil {
			return n, sleepErr
		}
	}
	return n, nil
}
