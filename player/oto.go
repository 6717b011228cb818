package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/hajimehoshi/oto/v2"
	"github.com/jsphweid/gyrotone/model"
	"github.com/jsphweid/gyrotone/render"
)

const (
	channelCount = 2
	bytesPerPair = 8
)

// OtoPlayer plays square-wave tones on the default audio device, melody on
// the left and bass on the right.
type OtoPlayer struct {
	ctx        *oto.Context
	sampleRate int
	volume     float64

	mu      sync.Mutex
	current oto.Player
}

func NewOtoPlayer(sampleRate int, volume float64) (*OtoPlayer, error) {
	ctx, ready, err := oto.NewContext(sampleRate, channelCount, oto.FormatFloat32LE)
	if err != nil {
		return nil, fmt.Errorf("could not open audio device: %w", err)
	}
	<-ready
	return &OtoPlayer{ctx: ctx, sampleRate: sampleRate, volume: volume}, nil
}

func (p *OtoPlayer) Play(ctx context.Context, melody, bass model.NoteCommand, pace time.Duration) error {
	tick := model.Tick{MelodyOut: melody, BassOut: bass, Pace: int(pace / time.Millisecond)}
	left, right := render.Frames(tick, p.sampleRate, 1)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()

	player := p.ctx.NewPlayer(&frameReader{data: interleave(left, right)})
	player.SetVolume(p.volume)
	player.Play()
	p.current = player
	return nil
}

func (p *OtoPlayer) Silence() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopLocked()
}

func (p *OtoPlayer) stopLocked() error {
	if p.current == nil {
		return nil
	}
	err := p.current.Close()
	p.current = nil
	return err
}

func (p *OtoPlayer) Close() error {
	return errors.Join(p.Silence(), p.ctx.Suspend())
}

// interleave packs two channels as float32 little-endian stereo frames.
func interleave(left, right []float64) []byte {
	buf := make([]byte, len(left)*bytesPerPair)
	for i := range left {
		putF32(buf[i*bytesPerPair:], left[i])
		putF32(buf[i*bytesPerPair+4:], right[i])
	}
	return buf
}

func putF32(buf []byte, sample float64) {
	v := math.Float32bits(float32(sample))
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
	buf[2] = byte(v >> 16)
	buf[3] = byte(v >> 24)
}

type frameReader struct {
	data []byte
	pos  int
}

func (r *frameReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}
