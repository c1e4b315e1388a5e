package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/deck/internal/core"
	deckerrors "github.com/tessro/deck/internal/errors"
)

type stubEngine struct {
	loaded []string
	volume float64
	voice  *stubVoice
}

func (e *stubEngine) Load(path string) (core.Voice, error) {
	e.loaded = append(e.loaded, path)
	e.voice = &stubVoice{total: 44100 * 100}
	return e.voice, nil
}

func (e *stubEngine) SetVolume(level float64) { e.volume = level }
func (e *stubEngine) Close() error { return nil }

type stubVoice struct {
	total   uint64
	pos     uint64
	playing bool
	atEnd   bool
}

func (v *stubVoice) Start() error {
	v.playing = true
	return nil
}

func (v *stubVoice) Stop() error {
	v.playing = false
	return nil
}

func (v *stubVoice) SeekToFrame(f uint64) error {
	v.pos = f
	return nil
}

func (v *stubVoice) ElapsedFrames() (uint64, error) { return v.pos, nil }
func (v *stubVoice) ElapsedMs() (uint64, error) { return v.pos * 1000 / 44100, nil }
func (v *stubVoice) TotalFrames() uint64 { return v.total }
func (v *stubVoice) TotalSeconds() float64 { return float64(v.total) / 44100 }
func (v *stubVoice) AtEnd() bool { return v.atEnd }
func (v *stubVoice) Close() error { return nil }

func testPlaylist(names ...string) *core.Playlist {
	tracks := make([]*core.Track, len(names))
	for i, name := range names {
		meta := core.Metadata{Title: name, Artist: "Band"}
		tracks[i] = core.NewTrack("/music/"+name+".mp3", ".mp3", 0, func(string) (core.Metadata, error) {
			return meta, nil
		})
	}
	return core.NewPlaylist("/music", tracks)
}

func newTestModel(t *testing.T, names ...string) (Model, *stubEngine) {
	t.Helper()
	engine := &stubEngine{}
	m := NewModel(engine, Options{Volume: 0.5, Refresh: time.Millisecond}, nil)
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = update(t, m, scannedMsg{root: "/music", playlist: testPlaylist(names...)})
	return m, engine
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T, want Model", next)
	}
	return model
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m = update(t, m, msg)
	}
	return m
}

func TestEnterPlaysSelectedTrack(t *testing.T) {
	m, engine := newTestModel(t, "one", "two", "three")

	m = press(t, m, "j", "j", "k", "enter")

	if len(engine.loaded) != 1 || engine.loaded[0] != "/music/two.mp3" {
		t.Fatalf("loaded = %v, want [/music/two.mp3]", engine.loaded)
	}
	if got := m.session.Snapshot().Index; got != 1 {
		t.Errorf("Index = %d, want 1", got)
	}
	if !strings.Contains(m.View(), "two") {
		t.Error("View() should show the playing track")
	}
}

func TestPlaybackKeys(t *testing.T) {
	m, engine := newTestModel(t, "one", "two")
	m = press(t, m, "enter")
	m = update(t, m, tickMsg(time.Now()))

	m = press(t, m, "space")
	if got := m.session.Snapshot().State; got != core.Paused {
		t.Errorf("State after space = %v, want paused", got)
	}
	m = press(t, m, "space")
	if got := m.session.Snapshot().State; got != core.Playing {
		t.Errorf("State after second space = %v, want playing", got)
	}

	m = press(t, m, "right", "right")
	if want := uint64(44100 * 20); engine.voice.pos != want {
		t.Errorf("pos after seeking = %d, want %d", engine.voice.pos, want)
	}

	m = press(t, m, "up", "+", "=")
	if engine.volume < 0.79 || engine.volume > 0.81 {
		t.Errorf("volume = %v, want 0.8", engine.volume)
	}
	m = press(t, m, "down", "-")
	if engine.volume < 0.59 || engine.volume > 0.61 {
		t.Errorf("volume = %v, want 0.6", engine.volume)
	}

	m = press(t, m, "n")
	if got := m.session.Snapshot().Index; got != 1 {
		t.Errorf("Index after n = %d, want 1", got)
	}
	m = press(t, m, "n")
	if got := m.session.Snapshot().Index; got != 0 {
		t.Errorf("Index after wrap = %d, want 0", got)
	}
	m = press(t, m, "p")
	if got := m.session.Snapshot().Index; got != 1 {
		t.Errorf("Index after p = %d, want 1", got)
	}
}

// locate returns the screen cell where needle first appears in the view.
func locate(t *testing.T, m Model, needle string) (x, y int) {
	t.Helper()
	for row, line := range strings.Split(m.View(), "\n") {
		if i := strings.Index(line, needle); i >= 0 {
			return lipgloss.Width(line[:i]), row
		}
	}
	t.Fatalf("View() does not contain %q", needle)
	return 0, 0
}

func mouse(t *testing.T, m Model, action tea.MouseAction, x, y int) Model {
	t.Helper()
	return update(t, m, tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft})
}

func TestMouseDragSeeks(t *testing.T) {
	m, engine := newTestModel(t, "one", "two")
	m = press(t, m, "enter")
	m = update(t, m, tickMsg(time.Now()))

	// "0:00 ───── 1:40 -1:40"
	elapsedX, row := locate(t, m, "0:00")
	totalX, _ := locate(t, m, "1:40")
	start := elapsedX + len("0:00 ")
	last := totalX - 2

	m = mouse(t, m, tea.MouseActionPress, last, row)
	if want := uint64(44100 * 100); engine.voice.pos != want {
		t.Errorf("pos after click at bar end = %d, want %d", engine.voice.pos, want)
	}
	if m.focusedPanel != PanelNowPlaying {
		t.Errorf("focusedPanel = %v, want now playing", m.focusedPanel)
	}

	m = mouse(t, m, tea.MouseActionMotion, start-3, row+2)
	if engine.voice.pos != 0 {
		t.Errorf("pos after dragging past the start = %d, want 0", engine.voice.pos)
	}

	m = mouse(t, m, tea.MouseActionRelease, start+(last-start)/2, row)
	if engine.voice.pos < 44100*40 || engine.voice.pos > 44100*60 {
		t.Errorf("pos after release mid-bar = %d, want about half", engine.voice.pos)
	}

	released := engine.voice.pos
	m = mouse(t, m, tea.MouseActionMotion, last, row)
	if engine.voice.pos != released {
		t.Errorf("pos = %d after motion with the button up, want %d", engine.voice.pos, released)
	}
	if got := m.session.Snapshot().State; got != core.Playing {
		t.Errorf("State = %v, want playing", got)
	}
}

func TestMouseClickSetsVolume(t *testing.T) {
	m, engine := newTestModel(t, "one")

	// Volume 0.5 fills the first half of the bar.
	barX, row := locate(t, m, "━")
	pctX, _ := locate(t, m, "50%")
	last := pctX - 2

	m = mouse(t, m, tea.MouseActionPress, last, row)
	m = mouse(t, m, tea.MouseActionRelease, last, row)
	if engine.volume != 1 {
		t.Errorf("volume after click at bar end = %v, want 1", engine.volume)
	}
	if m.display.tier != core.VolumeOveramplified {
		t.Errorf("tier = %v, want overamplified", m.display.tier)
	}

	m = mouse(t, m, tea.MouseActionPress, barX, row)
	if engine.volume != 0 {
		t.Errorf("volume after click at bar start = %v, want 0", engine.volume)
	}
	if m.display.tier != core.VolumeMuted {
		t.Errorf("tier = %v, want muted", m.display.tier)
	}
}

func TestMouseOutsideBarsIgnored(t *testing.T) {
	m, engine := newTestModel(t, "one")
	m = press(t, m, "enter")
	m = update(t, m, tickMsg(time.Now()))

	m = mouse(t, m, tea.MouseActionPress, 1, 1)
	m = mouse(t, m, tea.MouseActionMotion, 40, 7)
	m = mouse(t, m, tea.MouseActionRelease, 40, 7)
	if engine.voice.pos != 0 || engine.volume != 0.5 {
		t.Errorf("pos = %d, volume = %v, want untouched", engine.voice.pos, engine.volume)
	}
	if m.focusedPanel != PanelLibrary {
		t.Errorf("focusedPanel = %v, want library", m.focusedPanel)
	}
}

func TestTickAdvancesAtEnd(t *testing.T) {
	m, engine := newTestModel(t, "one", "two")
	m = press(t, m, "enter")

	engine.voice.pos = 44100 * 99
	m = update(t, m, tickMsg(time.Now()))
	if got := m.display.progress.Elapsed; got != "1:39" {
		t.Errorf("Elapsed = %q, want %q", got, "1:39")
	}

	engine.voice.atEnd = true
	m = update(t, m, tickMsg(time.Now()))

	if got := m.session.Snapshot().Index; got != 1 {
		t.Errorf("Index = %d, want 1", got)
	}
	if got := m.display.progress.Elapsed; got != "0:00" {
		t.Errorf("Elapsed = %q, want %q", got, "0:00")
	}
	if len(m.display.history) != 2 || m.display.history[1].Skipped {
		t.Errorf("history = %+v, want the first track played through", m.display.history)
	}
}

func TestSkippedTrackInHistory(t *testing.T) {
	m, _ := newTestModel(t, "one", "two")
	m = press(t, m, "enter", "n")

	if len(m.display.history) != 2 {
		t.Fatalf("history has %d entries, want 2", len(m.display.history))
	}
	if !m.display.history[1].Skipped {
		t.Error("first track should be marked skipped")
	}
	if m.display.history[0].Title != "two" {
		t.Errorf("history[0].Title = %q, want %q", m.display.history[0].Title, "two")
	}
}

func TestFilterPrompt(t *testing.T) {
	m, engine := newTestModel(t, "alpha", "beta", "gamma")

	m = press(t, m, "/", "g", "a", "m", "enter")
	if m.mode != modeNormal {
		t.Fatalf("mode = %v, want normal", m.mode)
	}
	if got := m.library.Filter(); got != "gam" {
		t.Errorf("Filter() = %q, want %q", got, "gam")
	}

	m = press(t, m, "enter")
	if len(engine.loaded) != 1 || engine.loaded[0] != "/music/gamma.mp3" {
		t.Errorf("loaded = %v, want [/music/gamma.mp3]", engine.loaded)
	}

	m = press(t, m, "esc")
	if got := m.library.Filter(); got != "" {
		t.Errorf("Filter() after esc = %q, want empty", got)
	}
}

func TestOpenPromptScansFolder(t *testing.T) {
	m, _ := newTestModel(t, "one")

	m = press(t, m, "o")
	if m.mode != modeOpen {
		t.Fatalf("mode = %v, want open", m.mode)
	}
	if got := m.input.Value(); got != "/music" {
		t.Errorf("prompt = %q, want current root", got)
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if !m.scanning || cmd == nil {
		t.Error("enter should start a scan")
	}
}

func TestEmptyFolderShowsError(t *testing.T) {
	m, _ := newTestModel(t)

	err := m.display.currentError()
	if !errors.Is(err, deckerrors.ErrEmptyLibrary) {
		t.Fatalf("currentError() = %v, want ErrEmptyLibrary", err)
	}
	if !strings.Contains(m.View(), "Choose a folder") {
		t.Error("status bar should show the suggestion")
	}
}

func TestErrorExpires(t *testing.T) {
	m, _ := newTestModel(t, "one")
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m.display.now = func() time.Time { return now }

	m.display.Error(errors.New("boom"))
	if m.display.currentError() == nil {
		t.Fatal("error should be visible")
	}

	now = now.Add(errorDisplay + time.Second)
	if err := m.display.currentError(); err != nil {
		t.Errorf("currentError() = %v, want nil after expiry", err)
	}
}

func TestStaleWatcherUpdateIgnored(t *testing.T) {
	m, _ := newTestModel(t, "one")
	m.watchGen = 3

	m = update(t, m, libraryMsg{gen: 2})
	if got := m.session.Playlist().Len(); got != 1 {
		t.Errorf("playlist has %d tracks, want 1", got)
	}
}

func TestHelpOverlay(t *testing.T) {
	m, _ := newTestModel(t, "one")

	m = press(t, m, "?")
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("help should be shown")
	}
	m = press(t, m, "esc")
	if m.showHelp {
		t.Error("esc should close help")
	}
}
