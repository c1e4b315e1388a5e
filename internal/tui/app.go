package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/tessro/deck/internal/core"
	deckerrors "github.com/tessro/deck/internal/errors"
	"github.com/tessro/deck/internal/library"
	"github.com/tessro/deck/internal/transport"
	"github.com/tessro/deck/internal/tui/components"
	"github.com/tessro/deck/internal/tui/styles"
)

const (
	seekStep   = 0.1
	volumeStep = 0.1
)

// Panel represents which panel is focused
type Panel int

const (
	PanelLibrary Panel = iota
	PanelNowPlaying
	PanelHistory
	panelCount
)

// mode is what the keyboard currently drives.
type mode int

const (
	modeNormal mode = iota
	modeOpen
	modeFilter
)

// Options configures the TUI.
type Options struct {
	// Root is scanned at startup when set.
	Root       string
	Extensions []string
	Watch      bool
	Refresh    time.Duration
	Theme      string
	Volume     float64
}

// Model is the main TUI model
type Model struct {
	session *transport.Session
	display *display
	opts    Options
	log     *zap.Logger
	now     func() time.Time

	width        int
	height       int
	focusedPanel Panel

	// Components
	library    *components.Library
	nowPlaying *components.NowPlaying
	history    *components.History

	// Overlays and prompts
	showHelp bool
	mode     mode
	input    textinput.Model
	scanning bool

	// Control held by the left mouse button
	drag components.Control

	// Folder watching
	watchGen  int
	stopWatch context.CancelFunc
	updates   <-chan library.Update

	quitting bool
}

// NewModel creates a new TUI model playing through engine.
func NewModel(engine core.Engine, opts Options, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Refresh <= 0 {
		opts.Refresh = transport.DefaultInterval
	}

	now := time.Now
	d := newDisplay(now)
	session := transport.NewSession(engine, d, transport.Options{Volume: opts.Volume}, log)
	d.playlist = session.Playlist

	ti := textinput.New()
	ti.CharLimit = 512
	ti.Width = 50

	return Model{
		session:      session,
		display:      d,
		opts:         opts,
		log:          log,
		now:          now,
		focusedPanel: PanelLibrary,
		library:      components.NewLibrary(),
		nowPlaying:   components.NewNowPlaying(),
		history:      components.NewHistory(),
		input:        ti,
	}
}

// Messages
type tickMsg time.Time

type scannedMsg struct {
	root     string
	playlist *core.Playlist
	err      error
}

type libraryMsg struct {
	gen    int
	update library.Update
	closed bool
}

// Commands
func (m Model) tick() tea.Cmd {
	return tea.Tick(m.opts.Refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) scan(root string) tea.Cmd {
	exts := m.opts.Extensions
	return func() tea.Msg {
		p, err := library.Scan(context.Background(), root, exts)
		return scannedMsg{root: root, playlist: p, err: err}
	}
}

func waitForUpdate(gen int, updates <-chan library.Update) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-updates
		return libraryMsg{gen: gen, update: u, closed: !ok}
	}
}

// watch replaces the folder watcher with one on root.
func (m *Model) watch(root string) tea.Cmd {
	m.unwatch()
	m.watchGen++

	w, err := library.NewWatcher(root, m.opts.Extensions, m.log)
	if err != nil {
		m.log.Warn("cannot watch library", zap.String("root", root), zap.Error(err))
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.stopWatch = cancel
	m.updates = w.Updates()

	log := m.log
	go func() {
		if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Warn("library watcher stopped", zap.Error(err))
		}
	}()

	return waitForUpdate(m.watchGen, m.updates)
}

func (m *Model) unwatch() {
	if m.stopWatch != nil {
		m.stopWatch()
		m.stopWatch = nil
	}
	m.updates = nil
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.tick()}
	if m.opts.Root != "" {
		cmds = append(cmds, m.scan(m.opts.Root))
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.session.Tick()
		return m, m.tick()

	case scannedMsg:
		m.scanning = false
		if msg.err != nil {
			m.display.Error(msg.err)
			return m, nil
		}
		m.loadPlaylist(msg.playlist)
		if m.opts.Watch {
			return m, m.watch(msg.playlist.Root)
		}
		return m, nil

	case libraryMsg:
		if msg.gen != m.watchGen || msg.closed {
			return m, nil
		}
		if msg.update.Err != nil {
			m.display.Error(msg.update.Err)
		} else {
			m.session.LoadPlaylist(msg.update.Playlist)
		}
		return m, waitForUpdate(m.watchGen, m.updates)
	}

	// Forward other messages (cursor blink) to the prompt
	if m.mode != modeNormal {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

// loadPlaylist installs a freshly opened folder.
func (m *Model) loadPlaylist(p *core.Playlist) {
	m.session.LoadPlaylist(p)
	m.library.Reset()
	if p.IsEmpty() {
		m.display.Error(deckerrors.ErrEmptyLibrary)
	}
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.showHelp {
		switch msg.String() {
		case "?", "esc", "q":
			m.showHelp = false
		}
		return m, nil
	}

	if m.mode != modeNormal {
		return m.handlePromptKeyPress(msg)
	}

	playlist := m.session.Playlist()

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "?":
		m.showHelp = true

	case "o":
		m.mode = modeOpen
		m.input.Placeholder = "Folder to open"
		m.input.SetValue(playlist.Root)
		m.input.CursorEnd()
		m.input.Focus()
		return m, textinput.Blink

	case "/":
		m.mode = modeFilter
		m.input.Placeholder = "Filter tracks"
		m.input.SetValue(m.library.Filter())
		m.input.CursorEnd()
		m.input.Focus()
		return m, textinput.Blink

	case "esc":
		m.library.Reset()

	case "tab":
		m.focusedPanel = (m.focusedPanel + 1) % panelCount

	case "shift+tab":
		m.focusedPanel = (m.focusedPanel + panelCount - 1) % panelCount

	// Playback
	case " ":
		m.session.TogglePlayPause()
	case "right":
		m.session.SeekBy(seekStep)
	case "left":
		m.session.SeekBy(-seekStep)
	case "up", "+", "=":
		m.session.VolumeBy(volumeStep)
	case "down", "-":
		m.session.VolumeBy(-volumeStep)
	case "n":
		_ = m.session.Next()
		m.library.Focus(playlist, m.session.Snapshot().Index)
	case "p":
		_ = m.session.Previous()
		m.library.Focus(playlist, m.session.Snapshot().Index)

	// Library
	case "j":
		m.library.MoveDown(playlist)
	case "k":
		m.library.MoveUp()
	case "enter":
		if i := m.library.Selected(playlist); i >= 0 {
			_ = m.session.Select(i)
		}
	}

	return m, nil
}

// handleMouse turns clicks and drags on the seek and volume bars into
// gestures. A drag keeps its control until the button is released, even
// when the pointer leaves the bar.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showHelp || m.width == 0 {
		return m, nil
	}

	view := m.playerView(m.session.Snapshot())
	width := m.nowPlayingWidth()

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		m.drag = m.nowPlaying.HitTest(view, width, msg.X, msg.Y)
		if m.drag != components.ControlNone {
			m.focusedPanel = PanelNowPlaying
		}
	case tea.MouseActionMotion, tea.MouseActionRelease:
	default:
		return m, nil
	}

	control := m.drag
	if msg.Action == tea.MouseActionRelease {
		m.drag = components.ControlNone
	}

	fraction := m.nowPlaying.Fraction(view, width, control, msg.X)
	switch control {
	case components.ControlSeek:
		m.session.SeekTo(fraction)
	case components.ControlVolume:
		m.session.SetVolume(fraction)
	}
	return m, nil
}

func (m Model) handlePromptKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.mode == modeFilter {
			m.library.Reset()
		}
		m.closePrompt()
		return m, nil

	case "enter":
		value := strings.TrimSpace(m.input.Value())
		current := m.mode
		m.closePrompt()
		if current == modeOpen && value != "" {
			m.scanning = true
			return m, m.scan(value)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.mode == modeFilter {
		m.library.SetFilter(m.input.Value())
	}
	return m, cmd
}

func (m *Model) closePrompt() {
	m.mode = modeNormal
	m.input.Blur()
}

// Close stops the folder watcher and releases the audio engine.
func (m Model) Close() error {
	m.unwatch()
	return m.session.Close()
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.width == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	// Left: Now Playing (top), Library (bottom). Right: History.
	leftWidth := m.leftWidth()
	rightWidth := m.width - leftWidth - 2
	topHeight := 12
	if topHeight > m.height/2 {
		topHeight = m.height / 2
	}
	bottomHeight := m.height - topHeight - 3
	playlist := m.session.Playlist()
	snapshot := m.session.Snapshot()

	nowPlaying := m.nowPlaying.Render(m.playerView(snapshot), m.nowPlayingWidth(), topHeight-2, m.focusedPanel == PanelNowPlaying)
	libraryView := m.library.Render(playlist, snapshot.Index, leftWidth-2, bottomHeight, m.focusedPanel == PanelLibrary)
	historyView := m.history.Render(m.display.history, m.now(), rightWidth-2, m.height-3, m.focusedPanel == PanelHistory)

	leftCol := lipgloss.JoinVertical(lipgloss.Left, nowPlaying, libraryView)
	main := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, historyView)

	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func (m Model) leftWidth() int {
	return m.width * 65 / 100
}

// nowPlayingWidth is the width of the now playing panel, drawn at the
// top-left corner of the screen.
func (m Model) nowPlayingWidth() int {
	return m.leftWidth() - 2
}

func (m Model) playerView(snapshot core.Snapshot) components.PlayerView {
	view := components.PlayerView{
		HasTrack:    snapshot.HasTrack(),
		State:       snapshot.State,
		Progress:    m.display.progress,
		SeekEnabled: m.display.seekEnabled,
		Volume:      m.display.volume,
		Tier:        m.display.tier,
	}
	if view.HasTrack {
		view.Meta = m.display.meta
		view.Name = snapshot.Track.DisplayName()
	}
	return view
}

func (m Model) renderStatusBar() string {
	var status string
	switch {
	case m.mode == modeOpen:
		status = styles.Highlight.Render("Open: ") + m.input.View()
	case m.mode == modeFilter:
		status = styles.Highlight.Render("/") + m.input.View()
	case m.scanning:
		status = styles.Muted.Render("Scanning...")
	case m.display.currentError() != nil:
		err := m.display.currentError()
		status = styles.ErrorText.Render("Error: " + err.Error())
		if hint := deckerrors.GetSuggestion(err); hint != "" {
			status += "  " + styles.Dim.Render(hint)
		}
	default:
		status = styles.Dim.Render("q:quit  ?:help  space:play/pause  ←/→:seek  ↑/↓:volume  enter:play  n/p:next/prev  o:open  /:filter")
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(status)
}

func (m Model) renderHelp() string {
	title := "Deck - Keyboard Shortcuts"
	divider := strings.Repeat("═", len(title))

	help := `
  ` + title + `
  ` + divider + `

  Global
  ──────
  q, Ctrl+C    Quit
  ?            Toggle help
  Tab          Next panel
  Shift+Tab    Previous panel
  o            Open folder
  /            Filter library
  Esc          Clear filter

  Playback
  ────────
  Space        Play/Pause
  ←/→          Seek back/forward
  ↑/↓, +/-     Volume up/down
  n            Next track
  p            Previous track

  Library
  ───────
  j/k          Move cursor
  Enter        Play selected

  Mouse
  ─────
  Click/drag the seek bar or the volume bar

  Press ? or Esc to close
`

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.BorderStyle.Render(help))
}

// Run starts the TUI application
func Run(engine core.Engine, opts Options, log *zap.Logger) error {
	styles.ApplyTheme(opts.Theme)

	model := NewModel(engine, opts, log)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	final, err := p.Run()
	if m, ok := final.(Model); ok {
		if cerr := m.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
