package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/jsphweid/gyrotone/conductor"
	"github.com/jsphweid/gyrotone/constants"
	"github.com/jsphweid/gyrotone/file"
	"github.com/jsphweid/gyrotone/midi"
	"github.com/jsphweid/gyrotone/perform"
	"github.com/jsphweid/gyrotone/player"
	"github.com/jsphweid/gyrotone/sample"
	"github.com/jsphweid/gyrotone/util"
	"github.com/spf13/cobra"
)

var (
	playLoop     bool
	playMaxTicks int
	playOutput   string
	playSave     bool
)

func init() {
	playCmd.Flags().BoolVar(&playLoop, "loop", false, "replay the recording forever")
	playCmd.Flags().IntVar(&playMaxTicks, "max-ticks", 0, "stop after this many ticks (0: no limit)")
	playCmd.Flags().StringVar(&playOutput, "output", "", "oto, midi or log (default: config)")
	playCmd.Flags().BoolVar(&playSave, "save", false, "also write the performance to the out dir as MIDI")
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play [samples.csv]",
	Short: "Plays a recording, or synthetic motion without one",
	Long: `Plays recorded motion samples in real time. Without a file, a seeded random
walk stands in for the sensor. Stop with Ctrl-C.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if playOutput != "" {
			cfg.Output = playOutput
		}
		ctx, stop := signalContext()
		defer stop()

		seed := resolveSeed()
		src, closeSrc, err := openSource(ctx, args, seed)
		if err != nil {
			return err
		}
		defer closeSrc()

		out, err := player.Open(cfg)
		if err != nil {
			return err
		}
		defer out.Close()

		var rec perform.Recorder
		n, err := perform.Run(ctx, src, conductor.NewSeeded(cfg.Durations(), seed), out, perform.Options{
			MaxTicks: playMaxTicks,
			Logger:   slog.Default(),
			OnTick:   rec.Record,
		})
		slog.Info("performance over", "ticks", n, "elapsed_ms", rec.ElapsedMs())
		if playSave && rec.Len() > 0 {
			if saveErr := savePlayed(&rec); saveErr != nil {
				return saveErr
			}
		}
		if err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	},
}

func openSource(ctx context.Context, args []string, seed uint64) (sample.Source, func(), error) {
	if len(args) == 0 {
		return sample.NewSyntheticSource(seed), func() {}, nil
	}
	src, f, err := sample.OpenCSV(args[0])
	if err != nil {
		return nil, nil, err
	}
	if !playLoop {
		return src, func() { f.Close() }, nil
	}
	defer f.Close()
	samples, err := sample.ReadAll(ctx, src)
	if err != nil {
		return nil, nil, err
	}
	return sample.Loop(samples), func() {}, nil
}

func savePlayed(rec *perform.Recorder) error {
	if err := util.RecreateOutputDir(cfg.OutDir, false); err != nil {
		return err
	}
	path := file.PerformanceOutputs(cfg.OutDir, uuid.New().String()).Midi
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := midi.WritePerformance(f, rec.Ticks(), constants.ExportBPM); err != nil {
		return fmt.Errorf("could not save performance: %w", err)
	}
	slog.Info("performance saved", "path", path)
	return nil
}
