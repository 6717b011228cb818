package player

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/jsphweid/gyrotone/config"
	"github.com/jsphweid/gyrotone/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogPlayerWritesCommands(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogPlayer(slog.New(slog.NewTextHandler(&buf, nil)))

	err := p.Play(context.Background(), model.NoteCommand{Hz: 440, Duration: 250}, model.NoteCommand{Hz: 65, Duration: 500}, 250*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, p.Silence())
	require.NoError(t, p.Close())

	assert.Contains(t, buf.String(), "melody_hz=440")
	assert.Contains(t, buf.String(), "bass_hz=65")
	assert.Contains(t, buf.String(), "pace=250ms")
}

func TestOpenLogAndUnknown(t *testing.T) {
	cfg := config.Default()
	p, err := Open(cfg)
	require.NoError(t, err)
	assert.IsType(t, &LogPlayer{}, p)

	cfg.Output = "speaker"
	_, err = Open(cfg)
	assert.Error(t, err)
}

func TestInterleave(t *testing.T) {
	buf := interleave([]float64{0.5, -1}, []float64{0.25, 1})
	require.Len(t, buf, 16)

	read := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
	}
	assert.Equal(t, float32(0.5), read(0))
	assert.Equal(t, float32(0.25), read(4))
	assert.Equal(t, float32(-1), read(8))
	assert.Equal(t, float32(1), read(12))
}

func TestFrameReader(t *testing.T) {
	r := &frameReader{data: []byte{1, 2, 3, 4, 5}}
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, got)
}
