package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/deck/internal/tui/styles"
)

// HistoryEntry is a track that was played in this session.
type HistoryEntry struct {
	Title    string
	Artist   string
	PlayedAt time.Time
	Skipped  bool
}

// History displays recently played tracks, newest first
type History struct{}

// NewHistory creates a new History component
func NewHistory() *History {
	return &History{}
}

// Render renders the history panel
func (h *History) Render(entries []HistoryEntry, now time.Time, width, height int, focused bool) string {
	title := styles.PanelTitle("History", focused)

	var content string
	if len(entries) == 0 {
		content = styles.Muted.Render("No history yet")
	} else {
		content = h.renderHistory(entries, now, width-4, height-4)
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

func (h *History) renderHistory(entries []HistoryEntry, now time.Time, width, maxLines int) string {
	lines := make([]string, 0, maxLines)

	// Fixed overhead: icon (2) + " " (1) + " — " (3) + padding for time (8)
	const overhead = 14

	for i, entry := range entries {
		if i >= maxLines {
			break
		}

		timeAgo := formatTimeAgo(entry.PlayedAt, now)
		timeWidth := len(timeAgo)

		icon := "✓"
		if entry.Skipped {
			icon = "⏭"
		}

		available := width - overhead - timeWidth
		var title, artist string
		if len(entry.Title)+len(entry.Artist) <= available {
			title = entry.Title
			artist = entry.Artist
		} else {
			minArtist := available / 3
			if minArtist < 8 {
				minArtist = 8
			}
			if minArtist > available-8 {
				minArtist = available - 8
			}

			artistSpace := minArtist
			if len(entry.Artist) < artistSpace {
				artistSpace = len(entry.Artist)
			}

			title = truncate(entry.Title, available-artistSpace)
			artist = truncate(entry.Artist, artistSpace)
		}

		trackInfo := title
		if artist != "" {
			trackInfo = fmt.Sprintf("%s — %s", title, artist)
		}

		padding := width - 2 - lipgloss.Width(trackInfo) - timeWidth // 2 for icon + space
		if padding < 1 {
			padding = 1
		}

		line := fmt.Sprintf("%s %s%s%s",
			styles.Dim.Render(icon),
			trackInfo,
			lipgloss.NewStyle().Width(padding).Render(""),
			styles.Dim.Render(timeAgo))

		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func formatTimeAgo(t, now time.Time) string {
	d := now.Sub(t)

	if d < time.Minute {
		return "now"
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return t.Format("Jan 2")
}
