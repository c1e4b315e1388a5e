// Package wizard holds the interactive prompts shown outside the main UI.
package wizard

import (
	"errors"
	"os"

	"golang.org/x/term"

	"github.com/tessro/deck/internal/core"
)

// ErrNotInteractive is returned when a prompt is needed but input is
// disabled or stdin/stdout are not terminals.
var ErrNotInteractive = errors.New("interactive input is not available")

// Interactive provides interactive fallback functionality.
type Interactive struct {
	enabled  bool
	terminal func() bool
}

// NewInteractive creates a new interactive handler.
func NewInteractive() *Interactive {
	return &Interactive{
		enabled:  true,
		terminal: IsTerminal,
	}
}

// SetEnabled enables or disables interactive mode.
func (i *Interactive) SetEnabled(enabled bool) {
	i.enabled = enabled
}

// IsTerminal returns true if stdin and stdout are terminals.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// CanInteract returns true if interactive mode is available.
func (i *Interactive) CanInteract() bool {
	return i.enabled && i.terminal()
}

// PromptTrack launches the track picker. It returns -1 if the picker was
// cancelled or the playlist is empty, and ErrNotInteractive if no prompt
// can be shown.
func (i *Interactive) PromptTrack(p *core.Playlist) (int, error) {
	if !i.CanInteract() {
		return -1, ErrNotInteractive
	}
	if p.IsEmpty() {
		return -1, nil
	}
	return RunTrackPicker(p)
}

// ResolveRoot picks the music folder: the argument if given, otherwise the
// configured root.
func ResolveRoot(args []string, configured string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return configured
}
