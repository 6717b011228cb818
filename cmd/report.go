package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/jsphweid/gyrotone/chord"
	"github.com/jsphweid/gyrotone/constants"
	"github.com/jsphweid/gyrotone/db"
	"github.com/jsphweid/gyrotone/file"
	"github.com/jsphweid/gyrotone/midi"
	"github.com/jsphweid/gyrotone/model"
	"github.com/jsphweid/gyrotone/util"
	"github.com/spf13/cobra"
)

var reportTop int

func init() {
	reportCmd.Flags().IntVar(&reportTop, "top", 10, "how many chords to list")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report [performance.mid | dir]",
	Short: "Summarizes exported performances",
	Long: `Summarizes exported performances: note lengths, how much of the time the
melody rests and which chords come up most. Defaults to the out dir.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.OutDir
		if len(args) == 1 {
			path = args[0]
		}
		paths, err := util.GatherPaths(path, ".mid", 0)
		if err != nil {
			return err
		}
		r, err := buildReport(paths)
		if err != nil {
			return err
		}
		r.print(cmd.OutOrStdout(), reportTop)

		if cfg.Dynamo.Enabled() {
			return printMetadata(cmd.OutOrStdout(), util.SortedKeys(file.CreateIdMap(paths)))
		}
		return nil
	},
}

type performanceReport struct {
	numFiles int
	// melody note length in ms -> count
	durations map[int64]int
	lengthMs  int64
	melodyMs  int64
	bassMs    int64
	chords    []model.ChordCount
}

func buildReport(paths []string) (performanceReport, error) {
	r := performanceReport{durations: make(map[int64]int)}
	var allChords []model.Chord
	for _, path := range paths {
		s, err := midi.ReadMidiFile(path)
		if err != nil {
			slog.Warn("skipping", "path", path, "error", err)
			continue
		}
		chords, err := chord.GetChords(s)
		if err != nil {
			slog.Warn("skipping", "path", path, "error", err)
			continue
		}
		r.numFiles++
		allChords = append(allChords, chords...)

		p := midi.FromSMF(s)
		r.lengthMs += p.LengthMs
		for _, n := range p.Melody {
			r.durations[n.Duration]++
			r.melodyMs += n.Duration
		}
		for _, n := range p.Bass {
			r.bassMs += n.Duration
		}
	}
	if r.numFiles == 0 && len(paths) > 0 {
		return r, fmt.Errorf("none of the %v files could be read", len(paths))
	}
	r.chords = chord.Count(allChords)
	chord.RankSort(r.chords)
	return r, nil
}

// restRatio is the share of the total length during which the melody is
// silent.
func (r performanceReport) restRatio() float64 {
	if r.lengthMs == 0 {
		return 0
	}
	return 1 - float64(r.melodyMs)/float64(r.lengthMs)
}

func (r performanceReport) print(w io.Writer, top int) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%v performances, %v ms", r.numFiles, r.lengthMs)))

	fmt.Fprintln(w, labelStyle.Render("melody note lengths"))
	for _, d := range util.SortedKeys(r.durations) {
		fmt.Fprintf(w, "  %5vms  %v\n", d, r.durations[d])
	}
	fmt.Fprintf(w, "%v %.1f%%\n", labelStyle.Render("melody resting"), 100*r.restRatio())
	fmt.Fprintf(w, "%v %vms\n", labelStyle.Render("bass sounding"), r.bassMs)

	fmt.Fprintln(w, labelStyle.Render("chords"))
	for i, c := range r.chords {
		if i >= top {
			break
		}
		fmt.Fprintf(w, "  %-8v %4v  %v\n", c.Key, c.Count, dimStyle.Render(fmt.Sprintf("%vms", c.Held)))
	}
}

func printMetadata(w io.Writer, ids []string) error {
	store, err := db.NewStore(cfg.Dynamo)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, labelStyle.Render("recorded from"))
	for start := 0; start < len(ids); start += constants.MaxMetadataBatch {
		batch := ids[start:util.Min(start+constants.MaxMetadataBatch, len(ids))]
		metadatas, err := store.GetPerformances(batch)
		if err != nil {
			return err
		}
		for _, id := range batch {
			m, ok := metadatas[id]
			if !ok {
				continue
			}
			fmt.Fprintf(w, "  %v  %v  seed %v  %v ticks\n", id, m.Source, m.Seed, m.Ticks)
		}
	}
	return nil
}
