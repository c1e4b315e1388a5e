package tui

import (
	"time"

	"github.com/tessro/deck/internal/core"
	"github.com/tessro/deck/internal/tui/components"
)

const (
	errorDisplay = 5 * time.Second
	maxHistory   = 50

	// A track that reached this fraction before changing counts as played through.
	completeFraction = 0.95
)

// display is the TUI's core.Surface. The session calls it synchronously from
// Update, so it needs no locking; View reads it afterwards.
type display struct {
	now      func() time.Time
	playlist func() *core.Playlist

	index       int
	meta        core.Metadata
	state       core.PlayState
	progress    core.Progress
	seekEnabled bool
	volume      float64
	tier        core.VolumeTier

	err         error
	errorExpiry time.Time

	history []components.HistoryEntry
}

func newDisplay(now func() time.Time) *display {
	return &display{
		now:      now,
		playlist: func() *core.Playlist { return nil },
		index:    -1,
		tier:     core.VolumeMuted,
	}
}

func (d *display) TrackChanged(index int, meta core.Metadata) {
	if len(d.history) > 0 {
		d.history[0].Skipped = d.progress.Fraction < completeFraction
	}

	d.index = index
	d.meta = meta
	d.progress = core.Progress{}

	title := meta.Title
	if track := d.playlist().At(index); track != nil {
		title = track.Title()
	}
	entry := components.HistoryEntry{
		Title:    title,
		Artist:   meta.Artist,
		PlayedAt: d.now(),
	}
	d.history = append([]components.HistoryEntry{entry}, d.history...)
	if len(d.history) > maxHistory {
		d.history = d.history[:maxHistory]
	}
}

func (d *display) StateChanged(state core.PlayState) {
	d.state = state
	if state == core.Stopped {
		d.progress = core.Progress{}
	}
}

func (d *display) Progress(p core.Progress) {
	d.progress = p
}

func (d *display) SeekEnabled(enabled bool) {
	d.seekEnabled = enabled
}

func (d *display) VolumeChanged(level float64, tier core.VolumeTier) {
	d.volume = level
	d.tier = tier
}

func (d *display) Error(err error) {
	d.err = err
	d.errorExpiry = d.now().Add(errorDisplay)
}

// currentError returns the last error while it is still on screen.
func (d *display) currentError() error {
	if d.err != nil && d.now().After(d.errorExpiry) {
		d.err = nil
	}
	return d.err
}
