package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tessro/deck/internal/core"
	"github.com/tessro/deck/internal/engine"
	deckerrors "github.com/tessro/deck/internal/errors"
	"github.com/tessro/deck/internal/library"
	"github.com/tessro/deck/internal/tail"
	"github.com/tessro/deck/internal/transport"
	"github.com/tessro/deck/internal/wizard"
)

var (
	playStart     int
	playPick      bool
	playVolume    float64
	playNoEmoji   bool
	playTimestamp bool
	playFormat    string
)

var playCmd = &cobra.Command{
	Use:   "play [dir]",
	Short: "Play a folder without the UI",
	Long: `Scan a folder and play it from the first track, printing playback events
as they happen. The playlist wraps around until interrupted with Ctrl+C.

Examples:
  deck play ~/Music
  deck play ~/Music --start 5
  deck play ~/Music --pick
  deck play ~/Music --format '{{.Time}} {{.Type}} {{.Title}}'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().IntVarP(&playStart, "start", "s", 1, "track number to start from")
	playCmd.Flags().BoolVar(&playPick, "pick", false, "choose the start track interactively")
	playCmd.Flags().Float64Var(&playVolume, "volume", -1, "volume level, 1 is unity and above 1 amplifies (default from config)")
	playCmd.Flags().BoolVar(&playNoEmoji, "no-emoji", false, "disable emoji output")
	playCmd.Flags().BoolVarP(&playTimestamp, "timestamp", "t", false, "show timestamps")
	playCmd.Flags().StringVarP(&playFormat, "format", "f", "", "custom format template")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	root := wizard.ResolveRoot(args, cfg.Library.Root)
	if root == "" {
		return deckerrors.WithSuggestion(
			errors.New("no music folder given"),
			"Pass a folder, e.g. 'deck play ~/Music', or set library.root in the config")
	}

	var console io.Writer
	if verbose {
		console = os.Stderr
	}
	log, err := newLogger(console)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	playlist, err := library.Scan(ctx, root, cfg.Library.Extensions)
	if err != nil {
		return err
	}
	if playlist.IsEmpty() {
		return fmt.Errorf("%s: %w", root, deckerrors.ErrEmptyLibrary)
	}

	start := playStart - 1
	if playPick {
		start, err = pickStart(prompter(), playlist)
		if err != nil {
			return err
		}
		if start < 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "No track chosen")
			return nil
		}
	}
	if start < 0 || start >= playlist.Len() {
		return fmt.Errorf("--start must be between 1 and %d", playlist.Len())
	}

	volume := cfg.Audio.Volume
	if playVolume >= 0 {
		volume = playVolume
	}

	eng, err := engine.New(cfg.Audio, log)
	if err != nil {
		return err
	}

	recorder := tail.NewRecorder(eventPrinter(cmd.OutOrStdout()))
	session := transport.NewSession(eng, recorder, transport.Options{Volume: volume}, log)
	recorder.SetPlaylist(session.Playlist)
	defer func() {
		if err := session.Close(); err != nil {
			log.Warn("cannot close audio engine", zap.Error(err))
		}
	}()

	session.LoadPlaylist(playlist)
	if err := session.Select(start); err != nil {
		return err
	}

	commands := make(chan func(*transport.Session))
	if cfg.Library.Watch {
		if err := watchLibrary(ctx, playlist.Root, commands, log); err != nil {
			log.Warn("cannot watch library", zap.Error(err))
		}
	}

	refresh := time.Duration(cfg.TUI.RefreshInterval) * time.Millisecond
	err = session.Run(ctx, refresh, commands)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// pickStart asks for the first track. It fails when no picker can be shown.
func pickStart(in *wizard.Interactive, p *core.Playlist) (int, error) {
	start, err := in.PromptTrack(p)
	if errors.Is(err, wizard.ErrNotInteractive) {
		return -1, deckerrors.WithSuggestion(
			fmt.Errorf("--pick: %w", err),
			"--pick needs a terminal; use --start N to choose the first track")
	}
	return start, err
}

// watchLibrary forwards rescanned playlists to the session loop.
func watchLibrary(ctx context.Context, root string, commands chan<- func(*transport.Session), log *zap.Logger) error {
	w, err := library.NewWatcher(root, cfg.Library.Extensions, log)
	if err != nil {
		return err
	}

	go func() {
		if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Warn("library watcher stopped", zap.Error(err))
		}
	}()

	go func() {
		for u := range w.Updates() {
			if u.Err != nil {
				log.Warn("rescan failed", zap.Error(u.Err))
				continue
			}
			p := u.Playlist
			select {
			case commands <- func(s *transport.Session) { s.LoadPlaylist(p) }:
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// eventPrinter writes each playback event to out as a line of text or JSON.
func eventPrinter(out io.Writer) func(tail.Event) {
	if JSONOutput() {
		enc := json.NewEncoder(out)
		return func(e tail.Event) {
			_ = enc.Encode(eventJSON(e))
		}
	}

	formatter := tail.NewFormatter(
		tail.WithEmoji(!playNoEmoji),
		tail.WithTimestamp(playTimestamp),
		tail.WithTemplate(playFormat),
	)
	return func(e tail.Event) {
		_, _ = fmt.Fprintln(out, formatter.Format(e))
	}
}

func eventJSON(e tail.Event) map[string]interface{} {
	item := map[string]interface{}{
		"type":      e.Type.String(),
		"timestamp": e.Timestamp,
		"index":     e.Index,
	}
	if !e.Track.IsEmpty() {
		item["track"] = e.Track
	}
	if e.Type == tail.EventVolumeChange {
		item["volume"] = e.Volume
		item["tier"] = e.Tier
	}
	if e.Err != nil {
		item["error"] = e.Err.Error()
		if hint := deckerrors.GetSuggestion(e.Err); hint != "" {
			item["suggestion"] = hint
		}
	}
	return item
}
