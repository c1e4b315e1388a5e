package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/deck/internal/core"
	"github.com/tessro/deck/internal/tui/styles"
)

// Library lists the playlist with a cursor and an optional filter.
type Library struct {
	cursor int
	offset int
	filter string
}

// NewLibrary creates a new Library component
func NewLibrary() *Library {
	return &Library{}
}

// SetFilter narrows the list to tracks whose title, artist or file name
// contains query, ignoring case.
func (l *Library) SetFilter(query string) {
	l.filter = strings.ToLower(strings.TrimSpace(query))
	l.cursor = 0
	l.offset = 0
}

// Filter returns the active filter.
func (l *Library) Filter() string {
	return l.filter
}

// Reset clears the filter and moves the cursor to the top.
func (l *Library) Reset() {
	l.SetFilter("")
}

// MoveDown moves the cursor down
func (l *Library) MoveDown(p *core.Playlist) {
	if l.cursor < len(l.visible(p))-1 {
		l.cursor++
	}
}

// MoveUp moves the cursor up
func (l *Library) MoveUp() {
	if l.cursor > 0 {
		l.cursor--
	}
}

// Focus moves the cursor to playlist index i if it is visible.
func (l *Library) Focus(p *core.Playlist, i int) {
	for pos, idx := range l.visible(p) {
		if idx == i {
			l.cursor = pos
			return
		}
	}
}

// Selected returns the playlist index under the cursor, or -1.
func (l *Library) Selected(p *core.Playlist) int {
	visible := l.visible(p)
	if l.cursor < 0 || l.cursor >= len(visible) {
		return -1
	}
	return visible[l.cursor]
}

// visible returns the playlist indexes that pass the filter.
func (l *Library) visible(p *core.Playlist) []int {
	if p == nil {
		return nil
	}
	out := make([]int, 0, p.Len())
	for i, t := range p.Tracks {
		if l.filter == "" || matches(t, l.filter) {
			out = append(out, i)
		}
	}
	return out
}

func matches(t *core.Track, query string) bool {
	meta := t.Metadata()
	for _, s := range []string{meta.Title, meta.Artist, meta.Album, t.Name} {
		if strings.Contains(strings.ToLower(s), query) {
			return true
		}
	}
	return false
}

// Render renders the library panel. current is the playing index, or -1.
func (l *Library) Render(p *core.Playlist, current, width, height int, focused bool) string {
	name := "Library"
	if l.filter != "" {
		name = fmt.Sprintf("Library /%s", l.filter)
	}
	title := styles.PanelTitle(name, focused)

	var content string
	switch {
	case p == nil || p.IsEmpty():
		content = styles.Muted.Render("No tracks. Press o to open a folder")
	default:
		visible := l.visible(p)
		if len(visible) == 0 {
			content = styles.Muted.Render("No matches")
		} else {
			content = l.renderTracks(p, visible, current, width-4, height-4)
		}
	}

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		content,
	))
}

func (l *Library) renderTracks(p *core.Playlist, visible []int, current, width, maxLines int) string {
	if l.cursor >= len(visible) {
		l.cursor = len(visible) - 1
	}

	visibleCount := maxLines - 1 // Leave room for "more" indicator
	if visibleCount < 1 {
		visibleCount = 1
	}

	// Keep the cursor on screen
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+visibleCount {
		l.offset = l.cursor - visibleCount + 1
	}

	start := l.offset
	end := start + visibleCount
	if end > len(visible) {
		end = len(visible)
	}

	lines := make([]string, 0, end-start+1)

	// Fixed overhead: "XXX. " (5) + "▶ " or "  " (2) + " — " (3) = 10 chars
	const overhead = 10

	for pos := start; pos < end; pos++ {
		i := visible[pos]
		track := p.Tracks[i]
		meta := track.Metadata()

		num := fmt.Sprintf("%3d.", i+1)

		available := width - overhead
		titleText := track.Title()
		artistText := meta.Artist

		var title, artist string
		if len(titleText)+len(artistText) <= available {
			title = titleText
			artist = artistText
		} else {
			// Give artist at least 1/3 of the space (min 10 chars)
			minArtist := available / 3
			if minArtist < 10 {
				minArtist = 10
			}
			if minArtist > available-10 {
				minArtist = available - 10
			}

			artistSpace := minArtist
			if len(artistText) < artistSpace {
				artistSpace = len(artistText)
			}

			title = truncate(titleText, available-artistSpace)
			artist = truncate(artistText, artistSpace)
		}

		sep := ""
		if artist != "" {
			sep = " — "
		}

		var line string
		if i == current {
			line = styles.Playing.Render(fmt.Sprintf("%s ▶ %s%s%s", num, title, sep, artist))
		} else {
			line = fmt.Sprintf("%s   %s%s%s",
				styles.Dim.Render(num),
				title,
				sep,
				styles.Muted.Render(artist))
		}
		if pos == l.cursor {
			line = styles.Selected.Render(line)
		}

		lines = append(lines, line)
	}

	if end < len(visible) {
		more := styles.Dim.Render(fmt.Sprintf("     ... and %d more", len(visible)-end))
		lines = append(lines, more)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
