package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"
	"github.com/jsphweid/gyrotone/midi"
	"github.com/jsphweid/gyrotone/model"
	"github.com/spf13/cobra"
)

var inspectDump bool

func init() {
	inspectCmd.Flags().BoolVar(&inspectDump, "dump", false, "dump the parsed performance")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <performance.mid>",
	Short: "Lists the notes of an exported performance",
	Long:  `Lists the notes of an exported performance, per voice.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := midi.ReadPerformanceFile(args[0])
		if err != nil {
			return err
		}
		if inspectDump {
			spew.Fdump(cmd.OutOrStdout(), p)
			return nil
		}
		inspect(cmd.OutOrStdout(), args[0], p)
		return nil
	},
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff9f"))
	labelStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681"))
)

var keyNames = []string{"C", "C#", "D", "Eb", "E", "F", "F#", "G", "Ab", "A", "Bb", "B"}

// KeyName spells a MIDI key, with middle C as C4.
func KeyName(key uint8) string {
	return fmt.Sprintf("%v%v", keyNames[key%12], int(key)/12-1)
}

func inspect(w io.Writer, path string, p *midi.Performance) {
	fmt.Fprintln(w, titleStyle.Render(path))
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("%v ms", p.LengthMs)))
	for _, voice := range []struct {
		name  string
		notes []model.PlayedNote
	}{
		{midi.TrackNames[midi.MelodyChannel], p.Melody},
		{midi.TrackNames[midi.BassChannel], p.Bass},
	} {
		fmt.Fprintln(w, labelStyle.Render(fmt.Sprintf("%v (%v notes)", voice.name, len(voice.notes))))
		for _, n := range voice.notes {
			fmt.Fprintf(w, "  %8v  %-4v %v\n", n.Offset, KeyName(n.Key), dimStyle.Render(fmt.Sprintf("%vms", n.Duration)))
		}
	}
}

