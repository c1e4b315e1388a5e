package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/deck/internal/engine"
	"github.com/tessro/deck/internal/tui"
	"github.com/tessro/deck/internal/wizard"
)

var (
	uiRefresh int
	uiNoWatch bool
)

var uiCmd = &cobra.Command{
	Use:     "ui [dir]",
	Aliases: []string{"tui"},
	Short:   "Launch the interactive player",
	Long: `Launch the terminal player on a music folder.

Without a folder argument, library.root from the config is opened. Press o
inside the player to open another folder.

Keyboard shortcuts:
  q, Ctrl+C    Quit
  ?            Help
  Space        Play/Pause
  ←/→          Seek
  ↑/↓, +/-     Volume
  Enter        Play selected track
  j/k          Move cursor
  n/p          Next/previous track
  o            Open folder
  /            Filter library`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUI,
}

func init() {
	uiCmd.Flags().IntVar(&uiRefresh, "refresh", 0, "progress refresh interval in milliseconds (default from config)")
	uiCmd.Flags().BoolVar(&uiNoWatch, "no-watch", false, "do not rescan when files change")
	rootCmd.AddCommand(uiCmd)
}

func runUI(cmd *cobra.Command, args []string) error {
	log, err := newLogger(nil)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	refresh := cfg.TUI.RefreshInterval
	if uiRefresh > 0 {
		refresh = uiRefresh
	}

	eng, err := engine.New(cfg.Audio, log)
	if err != nil {
		return fmt.Errorf("cannot start audio: %w", err)
	}

	opts := tui.Options{
		Root:       wizard.ResolveRoot(args, cfg.Library.Root),
		Extensions: cfg.Library.Extensions,
		Watch:      cfg.Library.Watch && !uiNoWatch,
		Refresh:    time.Duration(refresh) * time.Millisecond,
		Theme:      cfg.TUI.Theme,
		Volume:     cfg.Audio.Volume,
	}
	return tui.Run(eng, opts, log)
}
