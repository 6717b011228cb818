package midi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jsphweid/gyrotone/model"
	"github.com/jsphweid/gyrotone/scale"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
)

// PortPlayer sends both voices to a MIDI output port, the melody on channel 0
// and the bass on channel 1.
type PortPlayer struct {
	out  drivers.Out
	send func(msg midi.Message) error

	mu sync.Mutex
	// sounding key per channel
	on map[uint8]uint8
	// pending note off per channel, for notes shorter than the pace
	cuts map[uint8]*time.Timer
}

// OpenPortPlayer opens the output port with the given name, or the first
// port when name is empty.
func OpenPortPlayer(name string) (*PortPlayer, error) {
	var out drivers.Out
	var err error
	if name == "" {
		out, err = midi.OutPort(0)
	} else {
		out, err = midi.FindOutPort(name)
	}
	if err != nil {
		return nil, fmt.Errorf("can't find midi output %q: %w", name, err)
	}
	send, err := midi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("can't open midi output %v: %w", out, err)
	}
	return newPortPlayer(out, send), nil
}

func newPortPlayer(out drivers.Out, send func(msg midi.Message) error) *PortPlayer {
	return &PortPlayer{out: out, send: send, on: make(map[uint8]uint8), cuts: make(map[uint8]*time.Timer)}
}

func (p *PortPlayer) Play(ctx context.Context, melody, bass model.NoteCommand, pace time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.releaseLocked(); err != nil {
		return err
	}
	return errors.Join(
		p.startLocked(MelodyChannel, melody, pace),
		p.startLocked(BassChannel, bass, pace),
	)
}

// startLocked sounds cmd on channel. A note shorter than the pace is cut
// when its own duration runs out, the way the exported file writes it.
func (p *PortPlayer) startLocked(channel uint8, cmd model.NoteCommand, pace time.Duration) error {
	key, ok := scale.Pitch{Hz: cmd.Hz}.MIDI()
	if !ok {
		return nil
	}
	if err := p.send(midi.NoteOn(channel, key, velocity)); err != nil {
		return fmt.Errorf("note on: %w", err)
	}
	p.on[channel] = key

	length := time.Duration(cmd.Duration) * time.Millisecond
	if length >= pace {
		return nil
	}
	var cut *time.Timer
	cut = time.AfterFunc(length, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		// released or replaced since
		if p.cuts[channel] != cut {
			return
		}
		delete(p.cuts, channel)
		delete(p.on, channel)
		if err := p.send(midi.NoteOff(channel, key)); err != nil {
			slog.Warn("note off", "channel", channel, "key", key, "error", err)
		}
	})
	p.cuts[channel] = cut
	return nil
}

func (p *PortPlayer) releaseLocked() error {
	for channel, cut := range p.cuts {
		cut.Stop()
		delete(p.cuts, channel)
	}
	var errs []error
	for channel, key := range p.on {
		if err := p.send(midi.NoteOff(channel, key)); err != nil {
			errs = append(errs, fmt.Errorf("note off: %w", err))
		}
		delete(p.on, channel)
	}
	return errors.Join(errs...)
}

func (p *PortPlayer) Silence() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.releaseLocked()
}

func (p *PortPlayer) Close() error {
	err := p.Silence()
	if p.out != nil {
		err = errors.Join(err, p.out.Close())
	}
	midi.CloseDriver()
	return err
}
