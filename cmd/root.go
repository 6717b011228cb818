package cmd

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/jsphweid/gyrotone/config"
	"github.com/jsphweid/gyrotone/constants"
	"github.com/spf13/cobra"
)

var (
	configPath string
	seedFlag   uint64
	logLevel   string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "gyrotone",
	Short: "Turns motion into a two-voice melody",
	Long: `gyrotone reads a motion sensor (or a recording of one) and plays a melody
and a bass line that follow how hard and how fast it is moved.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", constants.GetConfigPath(), "YAML config file")
	rootCmd.PersistentFlags().Uint64Var(&seedFlag, "seed", 0, "seed for the random source (default: config, then clock)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
}

func setup(cmd *cobra.Command) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("seed") {
		seed := seedFlag
		loaded.Seed = &seed
	}
	if logLevel != "" {
		loaded.LogLevel = logLevel
	}
	level, err := loaded.Level()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	cfg = loaded
	return nil
}

func resolveSeed() uint64 {
	return seedFor(cfg)
}

// seedFor returns the configured seed, or draws and logs one so the run can
// be repeated.
func seedFor(c *config.Config) uint64 {
	if c.Seed != nil {
		return *c.Seed
	}
	seed := rand.Uint64()
	slog.Info("no seed given, drew one", "seed", seed)
	return seed
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
