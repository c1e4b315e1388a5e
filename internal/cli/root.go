// Package cli wires the deck commands.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tessro/deck/internal/config"
	deckerrors "github.com/tessro/deck/internal/errors"
	"github.com/tessro/deck/internal/logger"
	"github.com/tessro/deck/internal/wizard"
)

var (
	cfgFile string
	jsonOut bool
	verbose bool
	noInput bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "deck",
	Short: "Play a folder of music from the terminal",
	Long: `Deck plays local audio files (.wav, .mp3, .flac, .ogg) from a folder tree,
with a terminal UI or as a headless player.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.deckrc)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noInput, "no-input", false, "never prompt, fail instead")
}

// prompter returns the interactive handler, disabled by --no-input.
func prompter() *wizard.Interactive {
	in := wizard.NewInteractive()
	in.SetEnabled(!noInput)
	return in
}

func initConfig() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", deckerrors.ErrInvalidConfig, err)
	}

	return nil
}

// newLogger builds the logger from config. console receives log lines in
// addition to the log file; pass nil when the terminal belongs to the UI.
func newLogger(console io.Writer) (*zap.Logger, error) {
	logCfg := cfg.Log
	if verbose && console != nil {
		logCfg.Level = "debug"
	}
	return logger.New(logCfg, console)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, deckerrors.Format(err))
		os.Exit(1)
	}
}

// Config returns the loaded configuration.
func Config() *config.Config {
	return cfg
}

// JSONOutput returns true if JSON output is requested.
func JSONOutput() bool {
	return jsonOut
}

// Verbose returns true if verbose output is requested.
func Verbose() bool {
	return verbose
}
