package transport

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tessro/deck/internal/core"
)

// DefaultInterval is the tick period Run uses when given a non-positive one.
const DefaultInterval = 50 * time.Millisecond

// Options configures a Session.
type Options struct {
	// Volume is applied to the engine when the session starts.
	Volume float64
}

// Session owns everything one running player needs: the engine, the
// transport, the seek control and the reconciler. Gestures from the
// presentation layer enter through its methods.
type Session struct {
	engine     core.Engine
	surface    core.Surface
	log        *zap.Logger
	transport  *Transport
	seek       *SeekControl
	reconciler *Reconciler
}

// NewSession wires a session around engine and applies the initial volume.
func NewSession(engine core.Engine, surface core.Surface, opts Options, log *zap.Logger) *Session {
	if surface == nil {
		surface = nopSurface{}
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &Session{
		engine:  engine,
		surface: surface,
		log:     log,
	}
	s.transport = New(engine, surface, log)
	s.seek = NewSeekControl(s.seekRequested)
	s.reconciler = NewReconciler(s.transport, s.seek, surface, log)

	s.transport.SetVolume(opts.Volume)
	surface.SeekEnabled(false)
	return s
}

// seekRequested handles a user change of the seek control. While paused the
// labels follow the requested position at once, since the tick leaves them
// alone until playback resumes.
func (s *Session) seekRequested(fraction float64) {
	if err := s.transport.Seek(fraction); err != nil {
		return
	}
	if s.transport.State() != core.Paused {
		return
	}
	total := s.transport.voice.TotalSeconds()
	s.surface.Progress(progress(int64(fraction*total), int64(total), fraction))
}

// LoadPlaylist replaces the playlist, e.g. after a folder was chosen or rescanned.
func (s *Session) LoadPlaylist(p *core.Playlist) {
	s.transport.LoadPlaylist(p)
	p = s.transport.Playlist()
	s.log.Info("playlist loaded", zap.String("root", p.Root), zap.Int("tracks", p.Len()))
}

// Playlist returns the current playlist.
func (s *Session) Playlist() *core.Playlist {
	return s.transport.Playlist()
}

// Select plays the track at index and rewinds the seek control.
func (s *Session) Select(index int) error {
	if err := s.transport.Select(index); err != nil {
		return err
	}
	s.seek.Write(0)
	return nil
}

// TogglePlayPause pauses or resumes.
func (s *Session) TogglePlayPause() {
	s.transport.TogglePlayPause()
}

// SeekTo applies a drag of the seek control to fraction.
func (s *Session) SeekTo(fraction float64) bool {
	return s.seek.Set(fraction)
}

// SeekBy moves the seek control by delta. Ignored while it is disabled.
func (s *Session) SeekBy(delta float64) bool {
	return s.seek.Nudge(delta)
}

// SetVolume sets the volume level. Levels above 1 amplify.
func (s *Session) SetVolume(level float64) {
	s.transport.SetVolume(level)
}

// VolumeBy steps the volume by delta, staying within [0, 1].
func (s *Session) VolumeBy(delta float64) {
	s.transport.SetVolume(core.Clamp01(s.transport.Volume() + delta))
}

// Next skips to the following track.
func (s *Session) Next() error {
	if err := s.transport.Advance(); err != nil {
		return err
	}
	s.seek.Write(0)
	return nil
}

// Previous goes back one track.
func (s *Session) Previous() error {
	if err := s.transport.Previous(); err != nil {
		return err
	}
	s.seek.Write(0)
	return nil
}

// Tick runs one reconciliation pass.
func (s *Session) Tick() {
	s.reconciler.Tick()
}

// Snapshot returns the transport state.
func (s *Session) Snapshot() core.Snapshot {
	return s.transport.Snapshot()
}

// SeekControl returns the position slider.
func (s *Session) SeekControl() *SeekControl {
	return s.seek
}

// Run drives the session from the calling goroutine until ctx is done:
// Tick every interval, plus any function posted on commands. Other
// goroutines must go through commands to touch the session.
func (s *Session) Run(ctx context.Context, interval time.Duration, commands <-chan func(*Session)) error {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Tick()
		case cmd, ok := <-commands:
			if !ok {
				commands = nil
				continue
			}
			cmd(s)
		}
	}
}

// Close releases the voice and shuts the engine down.
func (s *Session) Close() error {
	s.transport.Close()
	return s.engine.Close()
}
