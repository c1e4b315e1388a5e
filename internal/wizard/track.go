package wizard

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/deck/internal/core"
)

// TrackModel is the bubbletea model for the start track picker.
type TrackModel struct {
	playlist *core.Playlist
	cursor   int
	offset   int
	selected int
	width    int
	height   int
}

// Styles for the track picker
var (
	trackTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	trackItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	trackSelectedStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Background(lipgloss.Color("237"))

	trackMetaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// NewTrackModel creates a new track picker model.
func NewTrackModel(p *core.Playlist) TrackModel {
	return TrackModel{
		playlist: p,
		selected: -1,
		width:    80,
		height:   20,
	}
}

// Init initializes the model.
func (m TrackModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m TrackModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	n := m.playlist.Len()

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return m, tea.Quit

		case "enter", " ":
			if m.cursor < n {
				m.selected = m.cursor
				return m, tea.Quit
			}

		case "up", "k", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j", "ctrl+n":
			if m.cursor < n-1 {
				m.cursor++
			}

		case "home", "g":
			m.cursor = 0

		case "end", "G":
			if n > 0 {
				m.cursor = n - 1
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	m.scroll()
	return m, nil
}

// scroll keeps the cursor inside the visible window.
func (m *TrackModel) scroll() {
	rows := m.rows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}

func (m TrackModel) rows() int {
	// Title, blank line and two help lines
	if r := m.height - 5; r > 1 {
		return r
	}
	return 1
}

// View renders the model.
func (m TrackModel) View() string {
	var b strings.Builder

	b.WriteString(trackTitleStyle.Render("🎵 Start from"))
	b.WriteString("\n\n")

	if m.playlist.IsEmpty() {
		b.WriteString(trackMetaStyle.Render("No tracks found"))
	} else {
		end := m.offset + m.rows()
		if end > m.playlist.Len() {
			end = m.playlist.Len()
		}
		for i := m.offset; i < end; i++ {
			track := m.playlist.Tracks[i]

			var line strings.Builder
			line.WriteString(fmt.Sprintf("%3d. ", i+1))
			line.WriteString(track.Title())
			if artist := track.Metadata().Artist; artist != "" {
				line.WriteString(trackMetaStyle.Render(" — " + artist))
			}

			if i == m.cursor {
				b.WriteString(trackSelectedStyle.Render("▸ " + line.String()))
			} else {
				b.WriteString(trackItemStyle.Render("  " + line.String()))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(trackMetaStyle.Render("↑/↓ navigate • enter play • esc quit"))

	return b.String()
}

// Selected returns the chosen playlist index, or -1 if none.
func (m TrackModel) Selected() int {
	return m.selected
}

// RunTrackPicker shows the picker and returns the chosen index, or -1 if
// the user quit without choosing.
func RunTrackPicker(p *core.Playlist) (int, error) {
	model := NewTrackModel(p)
	prog := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := prog.Run()
	if err != nil {
		return -1, err
	}
	return finalModel.(TrackModel).Selected(), nil
}
