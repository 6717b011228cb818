package render

import (
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/jsphweid/gyrotone/model"
	"github.com/jsphweid/gyrotone/util"
)

const bitDepth = 16

type Options struct {
	SampleRate int
	// Volume is 0..1
	Volume float64
}

func DefaultOptions() Options {
	return Options{SampleRate: 44100, Volume: 0.3}
}

// WAV writes ticks as a 16-bit stereo file: melody on the left, bass on the
// right.
func WAV(w io.WriteSeeker, ticks []model.Tick, opts Options) error {
	if opts.SampleRate <= 0 {
		opts.SampleRate = DefaultOptions().SampleRate
	}
	format := &audio.Format{SampleRate: opts.SampleRate, NumChannels: 2}
	enc := wav.NewEncoder(w, opts.SampleRate, bitDepth, format.NumChannels, 1)

	peak := float64(math.MaxInt16)
	for i, t := range ticks {
		melody, bass := Frames(t, opts.SampleRate, util.Clamp(opts.Volume, 0, 1))
		data := make([]int, 0, 2*len(melody))
		for j := range melody {
			data = append(data, int(melody[j]*peak), int(bass[j]*peak))
		}
		buf := &audio.IntBuffer{Data: data, Format: format, SourceBitDepth: bitDepth}
		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("error writing tick %v: %w", i, err)
		}
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("error closing wav: %w", err)
	}
	return nil
}
