// Package transport decides what plays now and keeps the display in step
// with the audio engine.
package transport

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tessro/deck/internal/core"
	deckerrors "github.com/tessro/deck/internal/errors"
)

// Transport is the single authority over the current track and play state.
// It owns at most one engine voice. It is not safe for concurrent use; all
// calls come from the event loop.
type Transport struct {
	engine  core.Engine
	surface core.Surface
	log     *zap.Logger

	playlist    *core.Playlist
	current     int
	state       core.PlayState
	voice       core.Voice
	totalFrames uint64
	volume      float64
}

// New creates a stopped transport with an empty playlist.
func New(engine core.Engine, surface core.Surface, log *zap.Logger) *Transport {
	if surface == nil {
		surface = nopSurface{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Transport{
		engine:   engine,
		surface:  surface,
		log:      log,
		playlist: core.NewPlaylist("", nil),
		current:  -1,
		state:    core.Stopped,
	}
}

// Select releases the current voice and starts the track at index.
func (t *Transport) Select(index int) error {
	if index < 0 || index >= t.playlist.Len() {
		err := fmt.Errorf("%w: select %d of %d tracks", deckerrors.ErrInvariant, index, t.playlist.Len())
		t.log.Warn("select out of range", zap.Int("index", index), zap.Int("tracks", t.playlist.Len()))
		t.surface.Error(err)
		return err
	}

	t.release()

	track := t.playlist.At(index)
	voice, err := t.engine.Load(track.Path)
	if err != nil {
		return t.loadFailed(track, err)
	}
	if err := voice.Start(); err != nil {
		_ = voice.Close()
		return t.loadFailed(track, err)
	}

	t.voice = voice
	t.current = index
	t.totalFrames = voice.TotalFrames()
	t.state = core.Playing

	t.log.Info("playing",
		zap.Int("index", index),
		zap.String("path", track.Path),
		zap.Uint64("frames", t.totalFrames))

	t.surface.TrackChanged(index, track.Metadata())
	t.surface.StateChanged(core.Playing)
	return nil
}

func (t *Transport) loadFailed(track *core.Track, err error) error {
	loadErr := &deckerrors.LoadError{Path: track.Path, Err: err}
	t.log.Warn("cannot load track", zap.String("path", track.Path), zap.Error(err))
	t.surface.StateChanged(core.Stopped)
	t.surface.Error(loadErr)
	return loadErr
}

// release drops the current voice and returns to Stopped.
func (t *Transport) release() {
	if t.voice != nil {
		if err := t.voice.Close(); err != nil {
			t.log.Warn("cannot release voice", zap.Error(err))
		}
	}
	t.voice = nil
	t.current = -1
	t.totalFrames = 0
	t.state = core.Stopped
}

// TogglePlayPause pauses a playing track or resumes a paused one. It does
// nothing while stopped.
func (t *Transport) TogglePlayPause() {
	switch t.state {
	case core.Playing:
		if err := t.voice.Stop(); err != nil {
			t.commandFailed("stop", err)
			return
		}
		t.state = core.Paused
	case core.Paused:
		if err := t.voice.Start(); err != nil {
			t.commandFailed("start", err)
			return
		}
		t.state = core.Playing
	default:
		return
	}
	t.surface.StateChanged(t.state)
}

// Seek jumps to fraction of the current track. The play state is unchanged.
func (t *Transport) Seek(fraction float64) error {
	if t.state == core.Stopped {
		return nil
	}

	frame := uint64(core.Clamp01(fraction) * float64(t.totalFrames))
	if frame > t.totalFrames {
		frame = t.totalFrames
	}
	if err := t.voice.SeekToFrame(frame); err != nil {
		return t.commandFailed("seek", err)
	}
	return nil
}

func (t *Transport) commandFailed(op string, err error) error {
	qe := &deckerrors.QueryError{Op: op, Err: err}
	t.log.Warn("engine command failed", zap.String("op", op), zap.Error(err))
	t.surface.Error(qe)
	return qe
}

// SetVolume applies level to the engine immediately. Levels above 1
// amplify; negative levels are treated as 0.
func (t *Transport) SetVolume(level float64) {
	if level < 0 {
		level = 0
	}
	t.volume = level
	t.engine.SetVolume(level)
	t.surface.VolumeChanged(level, core.TierFor(level))
}

// Advance selects the next track, wrapping to the first. It is a no-op on
// an empty playlist.
func (t *Transport) Advance() error {
	n := t.playlist.Len()
	if n == 0 {
		t.log.Debug("advance on empty playlist ignored")
		return nil
	}
	return t.Select((t.current + 1) % n)
}

// Previous selects the track before the current one, wrapping to the last.
func (t *Transport) Previous() error {
	n := t.playlist.Len()
	if n == 0 {
		return nil
	}
	if t.current < 0 {
		return t.Select(0)
	}
	return t.Select((t.current - 1 + n) % n)
}

// LoadPlaylist replaces the playlist. Playback continues if the current
// track is still present; otherwise the transport stops.
func (t *Transport) LoadPlaylist(p *core.Playlist) {
	if p == nil {
		p = core.NewPlaylist("", nil)
	}

	var path string
	if track := t.playlist.At(t.current); track != nil {
		path = track.Path
	}
	t.playlist = p

	if path == "" {
		return
	}
	if i := p.IndexOf(path); i >= 0 {
		t.current = i
		return
	}

	t.log.Info("current track left the playlist", zap.String("path", path))
	t.release()
	t.surface.StateChanged(core.Stopped)
}

// Close releases the voice. The transport is Stopped afterwards.
func (t *Transport) Close() {
	t.release()
}

// Playlist returns the current playlist.
func (t *Transport) Playlist() *core.Playlist {
	return t.playlist
}

// State returns the play state.
func (t *Transport) State() core.PlayState {
	return t.state
}

// Current returns the current index, or -1 when nothing is selected.
func (t *Transport) Current() int {
	return t.current
}

// Volume returns the last applied volume level.
func (t *Transport) Volume() float64 {
	return t.volume
}

// TotalFrames returns the cached length of the current track.
func (t *Transport) TotalFrames() uint64 {
	return t.totalFrames
}

// Snapshot returns a copy of the transport state.
func (t *Transport) Snapshot() core.Snapshot {
	return core.Snapshot{
		Track:       t.playlist.At(t.current),
		Index:       t.current,
		State:       t.state,
		TotalFrames: t.totalFrames,
		Volume:      t.volume,
	}
}

type nopSurface struct{}

func (nopSurface) TrackChanged(int, core.Metadata) {}
func (nopSurface) StateChanged(core.PlayState) {}
func (nopSurface) Progress(core.Progress) {}
func (nopSurface) SeekEnabled(bool) {}
func (nopSurface) VolumeChanged(float64, core.VolumeTier) {}
func (nopSurface) Error(error) {}
