// Package tail prints playback events for headless sessions.
package tail

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/tessro/deck/internal/core"
)

// Formatter formats events for output.
type Formatter struct {
	showEmoji     bool
	showTimestamp bool
	template      *template.Template
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithEmoji enables emoji output.
func WithEmoji(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showEmoji = enabled
	}
}

// WithTimestamp enables timestamp output.
func WithTimestamp(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showTimestamp = enabled
	}
}

// WithTemplate sets a custom format template.
func WithTemplate(tmpl string) FormatterOption {
	return func(f *Formatter) {
		if tmpl != "" {
			t, err := template.New("format").Parse(tmpl)
			if err == nil {
				f.template = t
			}
		}
	}
}

// NewFormatter creates a new formatter with the given options.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{
		showEmoji:     true,
		showTimestamp: false,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format formats an event as a string.
func (f *Formatter) Format(e Event) string {
	if f.template != nil {
		return f.formatTemplate(e)
	}
	return f.formatLine(e)
}

// formatLine formats an event as a simple line.
func (f *Formatter) formatLine(e Event) string {
	var parts []string

	if f.showTimestamp {
		parts = append(parts, e.Timestamp.Format("15:04:05"))
	}

	if f.showEmoji {
		parts = append(parts, eventEmoji(e))
	}

	parts = append(parts, f.eventDescription(e))

	return strings.Join(parts, " ")
}

// formatTemplate formats an event using a custom template.
func (f *Formatter) formatTemplate(e Event) string {
	data := templateData{
		Type:      e.Type.String(),
		Emoji:     eventEmoji(e),
		Timestamp: e.Timestamp,
		Time:      e.Timestamp.Format("15:04:05"),
		Index:     e.Index + 1,
		Title:     e.Track.Title,
		Artist:    e.Track.Artist,
		Album:     e.Track.Album,
		Volume:    percent(e.Volume),
		Tier:      string(e.Tier),
	}
	if e.Err != nil {
		data.Error = e.Err.Error()
	}

	var buf bytes.Buffer
	if err := f.template.Execute(&buf, data); err != nil {
		return f.formatLine(e)
	}
	return buf.String()
}

type templateData struct {
	Type      string
	Emoji     string
	Timestamp time.Time
	Time      string
	Index     int
	Title     string
	Artist    string
	Album     string
	Volume    int
	Tier      string
	Error     string
}

// eventDescription returns a human-readable description of the event.
func (f *Formatter) eventDescription(e Event) string {
	switch e.Type {
	case EventTrackChange:
		return "Now playing: " + trackLabel(e)

	case EventTrackComplete:
		return "Finished: " + trackLabel(e)

	case EventTrackSkip:
		return "Skipped: " + trackLabel(e)

	case EventPause:
		return "Paused"

	case EventResume:
		return "Resumed"

	case EventStop:
		return "Stopped"

	case EventVolumeChange:
		return fmt.Sprintf("Volume: %d%% (%s)", percent(e.Volume), e.Tier)

	case EventError:
		if e.Err != nil {
			return "Error: " + e.Err.Error()
		}
		return "Error"

	default:
		return "Unknown event"
	}
}

func trackLabel(e Event) string {
	switch {
	case e.Track.Artist != "" && e.Track.Title != "":
		return fmt.Sprintf("%s - %s", e.Track.Artist, e.Track.Title)
	case e.Track.Title != "":
		return e.Track.Title
	default:
		return fmt.Sprintf("track %d", e.Index+1)
	}
}

func percent(level float64) int {
	return int(level*100 + 0.5)
}

// eventEmoji returns an emoji for the event.
func eventEmoji(e Event) string {
	switch e.Type {
	case EventTrackChange:
		return "🎵"
	case EventTrackComplete:
		return "✅"
	case EventTrackSkip:
		return "⏭️"
	case EventPause:
		return "⏸️"
	case EventResume:
		return "▶️"
	case EventStop:
		return "⏹️"
	case EventVolumeChange:
		return volumeEmoji(e)
	case EventError:
		return "⚠️"
	default:
		return "❓"
	}
}

func volumeEmoji(e Event) string {
	switch e.Tier {
	case core.VolumeMuted:
		return "🔇"
	case core.VolumeLow:
		return "🔈"
	case core.VolumeMedium:
		return "🔉"
	default:
		return "🔊"
	}
}

// String returns the name of the event type.
func (t EventType) String() string {
	switch t {
	case EventTrackChange:
		return "track_change"
	case EventTrackComplete:
		return "track_complete"
	case EventTrackSkip:
		return "track_skip"
	case EventPause:
		return "pause"
	case EventResume:
		return "resume"
	case EventStop:
		return "stop"
	case EventVolumeChange:
		return "volume_change"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}
