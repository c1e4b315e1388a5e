package tail

import (
	"time"

	"github.com/tessro/deck/internal/core"
)

// EventType represents the type of playback event.
type EventType int

const (
	EventTrackChange EventType = iota
	EventTrackComplete
	EventTrackSkip
	EventPause
	EventResume
	EventStop
	EventVolumeChange
	EventError
)

// Event represents a playback state change.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Index     int
	Track     core.Metadata
	Volume    float64
	Tier      core.VolumeTier
	Err       error
}

// completeFraction is how far a track must have played to count as finished
// rather than skipped.
const completeFraction = 0.95

// Recorder is a core.Surface for headless playback. It turns the session's
// display updates into discrete events and hands each one to emit.
type Recorder struct {
	emit     func(Event)
	now      func() time.Time
	playlist func() *core.Playlist

	index    int
	track    core.Metadata
	state    core.PlayState
	fraction float64
}

// NewRecorder creates a recorder that reports to emit.
func NewRecorder(emit func(Event)) *Recorder {
	return &Recorder{
		emit:     emit,
		now:      time.Now,
		playlist: func() *core.Playlist { return nil },
		index:    -1,
	}
}

// SetPlaylist gives the recorder a way to name tracks that have no title tag.
func (r *Recorder) SetPlaylist(fn func() *core.Playlist) {
	r.playlist = fn
}

func (r *Recorder) send(e Event) {
	e.Timestamp = r.now()
	r.emit(e)
}

func (r *Recorder) TrackChanged(index int, meta core.Metadata) {
	if meta.Title == "" {
		if track := r.playlist().At(index); track != nil {
			meta.Title = track.Title()
		}
	}

	if r.index >= 0 {
		ended := EventTrackSkip
		if r.fraction >= completeFraction {
			ended = EventTrackComplete
		}
		r.send(Event{Type: ended, Index: r.index, Track: r.track})
	}

	// The state change that follows belongs to the new track.
	r.index = index
	r.track = meta
	r.state = core.Stopped
	r.fraction = 0
	r.send(Event{Type: EventTrackChange, Index: index, Track: meta})
}

func (r *Recorder) StateChanged(state core.PlayState) {
	prev := r.state
	r.state = state

	switch {
	case prev == core.Playing && state == core.Paused:
		r.send(Event{Type: EventPause, Index: r.index, Track: r.track})
	case prev == core.Paused && state == core.Playing:
		r.send(Event{Type: EventResume, Index: r.index, Track: r.track})
	case prev != core.Stopped && state == core.Stopped:
		r.send(Event{Type: EventStop, Index: r.index, Track: r.track})
		r.index = -1
		r.fraction = 0
	}
}

func (r *Recorder) Progress(p core.Progress) {
	r.fraction = p.Fraction
}

func (r *Recorder) SeekEnabled(bool) {}

func (r *Recorder) VolumeChanged(level float64, tier core.VolumeTier) {
	r.send(Event{Type: EventVolumeChange, Index: r.index, Volume: level, Tier: tier})
}

func (r *Recorder) Error(err error) {
	r.send(Event{Type: EventError, Index: r.index, Track: r.track, Err: err})
}
