package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jsphweid/gyrotone/conductor"
	"github.com/jsphweid/gyrotone/config"
	"github.com/jsphweid/gyrotone/constants"
	"github.com/jsphweid/gyrotone/db"
	"github.com/jsphweid/gyrotone/file"
	"github.com/jsphweid/gyrotone/midi"
	"github.com/jsphweid/gyrotone/model"
	"github.com/jsphweid/gyrotone/perform"
	"github.com/jsphweid/gyrotone/player"
	"github.com/jsphweid/gyrotone/render"
	"github.com/jsphweid/gyrotone/sample"
	"github.com/jsphweid/gyrotone/util"
	"github.com/spf13/cobra"
)

type RecordOptions struct {
	// MaxFiles limits how many recordings are rendered. Zero means all.
	MaxFiles int
	Clean    bool
	NoWav    bool
}

var recordOpts RecordOptions

func init() {
	recordCmd.Flags().IntVar(&recordOpts.MaxFiles, "max", 0, "render at most this many recordings")
	recordCmd.Flags().BoolVar(&recordOpts.Clean, "clean", false, "empty the out dir first")
	recordCmd.Flags().BoolVar(&recordOpts.NoWav, "no-wav", false, "only write MIDI")
	rootCmd.AddCommand(recordCmd)
}

var recordCmd = &cobra.Command{
	Use:   "record <samples.csv | dir>",
	Short: "Renders recordings to MIDI and WAV",
	Long: `Renders every recorded sample file under the given path to <out>/<id>.mid
and <out>/<id>.wav, as fast as possible. With dynamo.endpoint set, the
metadata of each performance is stored too.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()
		_, err := Record(ctx, cfg, args[0], recordOpts)
		return err
	},
}

// Record renders each recording found under path with the same seed.
func Record(ctx context.Context, cfg *config.Config, path string, opts RecordOptions) ([]model.PerformanceMetadata, error) {
	if err := util.RecreateOutputDir(cfg.OutDir, opts.Clean); err != nil {
		return nil, err
	}
	paths, err := util.GatherSamplePaths(path, opts.MaxFiles)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no sample files under %v", path)
	}

	var store *db.Store
	if cfg.Dynamo.Enabled() {
		if store, err = db.NewStore(cfg.Dynamo); err != nil {
			return nil, err
		}
	}

	seed := seedFor(cfg)
	idMap := file.CreateIdMap(paths)
	ids := util.SortedKeys(idMap)

	var res []model.PerformanceMetadata
	for i, id := range ids {
		slog.Info("processing recording", "n", i+1, "of", len(ids), "id", id)
		m, err := recordOne(ctx, cfg, id, idMap[id], seed, opts)
		if err != nil {
			return res, fmt.Errorf("%v: %w", idMap[id], err)
		}
		if store != nil {
			if err := store.PutPerformance(m); err != nil {
				return res, err
			}
		}
		res = append(res, m)
	}
	return res, nil
}

func recordOne(ctx context.Context, cfg *config.Config, id, path string, seed uint64, opts RecordOptions) (model.PerformanceMetadata, error) {
	m := model.PerformanceMetadata{Id: id, Source: path, Seed: seed, CreatedAt: time.Now().UTC()}

	src, f, err := sample.OpenCSV(path)
	if err != nil {
		return m, err
	}
	defer f.Close()

	var rec perform.Recorder
	n, err := perform.Run(ctx, src, conductor.NewSeeded(cfg.Durations(), seed), player.Discard, perform.Options{
		Sleep:  perform.NoSleep,
		Logger: slog.Default().With("id", id),
		OnTick: rec.Record,
	})
	if err != nil {
		return m, err
	}
	m.Ticks = n
	m.DurationMs = rec.ElapsedMs()

	outputs := file.PerformanceOutputs(cfg.OutDir, id)
	ticks := rec.Ticks()

	mf, err := os.Create(outputs.Midi)
	if err != nil {
		return m, err
	}
	if err := midi.WritePerformance(mf, ticks, constants.ExportBPM); err != nil {
		mf.Close()
		return m, err
	}
	if err := mf.Close(); err != nil {
		return m, err
	}
	m.MidiPath = outputs.Midi

	if opts.NoWav {
		return m, nil
	}
	wf, err := os.Create(outputs.Wav)
	if err != nil {
		return m, err
	}
	if err := render.WAV(wf, ticks, render.Options{SampleRate: cfg.SampleRate, Volume: cfg.Volume}); err != nil {
		wf.Close()
		return m, err
	}
	if err := wf.Close(); err != nil {
		return m, err
	}
	m.WavPath = outputs.Wav
	return m, nil
}
