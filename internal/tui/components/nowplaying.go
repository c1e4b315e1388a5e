package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/deck/internal/core"
	"github.com/tessro/deck/internal/tui/styles"
)

// PlayerView is what the now playing panel shows.
type PlayerView struct {
	Meta        core.Metadata
	Name        string
	HasTrack    bool
	State       core.PlayState
	Progress    core.Progress
	SeekEnabled bool
	Volume      float64
	Tier        core.VolumeTier
}

// Control is a mouse target inside the now playing panel.
type Control int

const (
	ControlNone Control = iota
	ControlSeek
	ControlVolume
)

// The panel's content starts after the left border and padding and below
// the top border.
const (
	frameLeft = 2
	frameTop  = 1

	volumeBarWidth = 20
)

// bar is the cells one horizontal control occupies, in panel coordinates.
type bar struct {
	row   int
	start int
	width int
}

func (b bar) contains(x, y int) bool {
	return y == b.row && x >= b.start && x < b.start+b.width
}

// fraction maps column x onto the bar, clamped to [0, 1].
func (b bar) fraction(x int) float64 {
	if b.width <= 1 {
		return 0
	}
	f := float64(x-b.start) / float64(b.width-1)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// NowPlaying displays the current track and transport state
type NowPlaying struct{}

// NewNowPlaying creates a new NowPlaying component
func NewNowPlaying() *NowPlaying {
	return &NowPlaying{}
}

// Render renders the now playing panel
func (n *NowPlaying) Render(view PlayerView, width, height int, focused bool) string {
	title := styles.PanelTitle("Now Playing", focused)

	var content string
	if !view.HasTrack {
		content = lipgloss.JoinVertical(lipgloss.Left,
			styles.Muted.Render("Nothing playing"),
			"",
			n.renderProgress(view, width-4),
			"",
			n.renderVolume(view),
		)
	} else {
		content = n.renderTrack(view, width-4)
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

func (n *NowPlaying) renderTrack(view PlayerView, width int) string {
	icon := styles.StatusIcon(view.State)

	name := view.Meta.Title
	if name == "" {
		name = view.Name
	}
	title := styles.Title.Render(truncate(name, width-4))

	artist := styles.Subtitle.Render(orDash(view.Meta.Artist))
	album := styles.Dim.Render(orDash(view.Meta.Album))

	return lipgloss.JoinVertical(lipgloss.Left,
		icon+" "+title,
		"  "+artist,
		"  "+album,
		"",
		n.renderProgress(view, width),
		"",
		n.renderVolume(view),
	)
}

// renderProgress draws "elapsed [bar] total (-remaining)".
func (n *NowPlaying) renderProgress(view PlayerView, width int) string {
	p := progressOf(view)
	remaining := "-" + p.Remaining
	seekBar := styles.SeekBar(p.Fraction, seekBarWidth(p, width), view.SeekEnabled)
	return fmt.Sprintf("%s %s %s %s", p.Elapsed, seekBar, p.Total, styles.Dim.Render(remaining))
}

// renderVolume draws "icon [bar] percent". The bar spans 0 to 100%.
func (n *NowPlaying) renderVolume(view PlayerView) string {
	level := view.Volume
	if level > 1 {
		level = 1
	}
	volumeBar := styles.SeekBar(level, volumeBarWidth, true)
	percent := styles.Muted.Render(fmt.Sprintf("%d%%", int(view.Volume*100+0.5)))
	return styles.VolumeIcon(view.Tier) + " " + volumeBar + " " + percent
}

func progressOf(view PlayerView) core.Progress {
	if view.Progress.Elapsed == "" {
		return core.Progress{Elapsed: "0:00", Total: "0:00", Remaining: "0:00"}
	}
	return view.Progress
}

func seekBarWidth(p core.Progress, width int) int {
	w := width - len(p.Elapsed) - len(p.Total) - len(p.Remaining) - 4
	if w < 10 {
		w = 10
	}
	return w
}

// bars locates the seek and volume bars of a panel rendered at width.
func (n *NowPlaying) bars(view PlayerView, width int) (seek, volume bar) {
	// Rows below the title and its blank line.
	progressRow, volumeRow := 2, 4
	if view.HasTrack {
		progressRow, volumeRow = 4, 6
	}

	p := progressOf(view)
	seek = bar{
		row:   frameTop + 2 + progressRow,
		start: frameLeft + len(p.Elapsed) + 1,
		width: seekBarWidth(p, width-4),
	}
	volume = bar{
		row:   frameTop + 2 + volumeRow,
		start: frameLeft + lipgloss.Width(styles.VolumeIcon(view.Tier)) + 1,
		width: volumeBarWidth,
	}
	return seek, volume
}

// HitTest reports which control, if any, lies under x, y. Coordinates are
// relative to the panel's top-left corner.
func (n *NowPlaying) HitTest(view PlayerView, width, x, y int) Control {
	seek, volume := n.bars(view, width)
	switch {
	case view.SeekEnabled && seek.contains(x, y):
		return ControlSeek
	case volume.contains(x, y):
		return ControlVolume
	}
	return ControlNone
}

// Fraction maps column x onto control c. Points past either end clamp, so
// a drag can leave the bar and still reach 0 or 1.
func (n *NowPlaying) Fraction(view PlayerView, width int, c Control, x int) float64 {
	seek, volume := n.bars(view, width)
	switch c {
	case ControlSeek:
		return seek.fraction(x)
	case ControlVolume:
		return volume.fraction(x)
	}
	return 0
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
