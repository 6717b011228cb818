// Package player drives the audio outputs: one channel per voice, each
// sounding until the outputs are silenced.
package player

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jsphweid/gyrotone/config"
	"github.com/jsphweid/gyrotone/midi"
	"github.com/jsphweid/gyrotone/model"
)

// Player starts both voices for one tick. Play does not wait for the pace;
// the caller sleeps and then calls Silence.
type Player interface {
	Play(ctx context.Context, melody, bass model.NoteCommand, pace time.Duration) error
	Silence() error
	Close() error
}

// Open returns the player selected by cfg.Output.
func Open(cfg *config.Config) (Player, error) {
	switch cfg.Output {
	case config.OutputOto:
		p, err := NewOtoPlayer(cfg.SampleRate, cfg.Volume)
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.OutputMidi:
		p, err := midi.OpenPortPlayer(cfg.MidiPort)
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.OutputLog:
		return NewLogPlayer(slog.Default()), nil
	default:
		return nil, fmt.Errorf("unknown output %q", cfg.Output)
	}
}

// Discard plays nothing. Offline rendering uses it.
var Discard Player = NewLogPlayer(slog.New(slog.NewTextHandler(io.Discard, nil)))

// LogPlayer writes what would be played to a logger.
type LogPlayer struct {
	logger *slog.Logger
}

func NewLogPlayer(logger *slog.Logger) *LogPlayer {
	return &LogPlayer{logger: logger}
}

func (p *LogPlayer) Play(ctx context.Context, melody, bass model.NoteCommand, pace time.Duration) error {
	p.logger.InfoContext(ctx, "play",
		"melody_hz", melody.Hz, "melody_ms", melody.Duration,
		"bass_hz", bass.Hz, "bass_ms", bass.Duration,
		"pace", pace)
	return nil
}

func (p *LogPlayer) Silence() error {
	p.logger.Debug("silence")
	return nil
}

func (p *LogPlayer) Close() error {
	return nil
}
