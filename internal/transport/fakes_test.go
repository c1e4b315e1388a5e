package transport

import (
	"errors"
	"fmt"

	"github.com/tessro/deck/internal/core"
)

// fakeEngine records every call the transport makes.
type fakeEngine struct {
	calls  []string
	voices []*fakeVoice
	failOn map[string]error
	noPlay map[string]error
	frames uint64
	rate   uint64
	volume float64
	closed bool
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		failOn: map[string]error{},
		noPlay: map[string]error{},
		frames: 44100 * 200,
		rate:   44100,
	}
}

func (e *fakeEngine) Load(path string) (core.Voice, error) {
	e.calls = append(e.calls, "load "+path)
	if err, ok := e.failOn[path]; ok {
		return nil, err
	}
	v := &fakeVoice{engine: e, path: path, total: e.frames, rate: e.rate, startErr: e.noPlay[path]}
	e.voices = append(e.voices, v)
	return v, nil
}

func (e *fakeEngine) SetVolume(level float64) {
	e.calls = append(e.calls, fmt.Sprintf("volume %.2f", level))
	e.volume = level
}

func (e *fakeEngine) Close() error {
	e.closed = true
	return nil
}

// live returns the voices that have not been closed.
func (e *fakeEngine) live() []*fakeVoice {
	var out []*fakeVoice
	for _, v := range e.voices {
		if !v.closed {
			out = append(out, v)
		}
	}
	return out
}

type fakeVoice struct {
	engine   *fakeEngine
	path     string
	total    uint64
	rate     uint64
	pos      uint64
	playing  bool
	closed   bool
	atEnd    bool
	queryErr error
	startErr error
	seeks    []uint64
}

func (v *fakeVoice) record(op string) {
	v.engine.calls = append(v.engine.calls, op+" "+v.path)
}

func (v *fakeVoice) Start() error {
	v.record("start")
	if v.startErr != nil {
		return v.startErr
	}
	v.playing = true
	return nil
}

func (v *fakeVoice) Stop() error {
	v.record("stop")
	v.playing = false
	return nil
}

func (v *fakeVoice) SeekToFrame(frame uint64) error {
	v.record("seek")
	if frame > v.total {
		frame = v.total
	}
	v.pos = frame
	v.seeks = append(v.seeks, frame)
	return nil
}

func (v *fakeVoice) ElapsedFrames() (uint64, error) {
	if v.queryErr != nil {
		return 0, v.queryErr
	}
	return v.pos, nil
}

func (v *fakeVoice) ElapsedMs() (uint64, error) {
	if v.queryErr != nil {
		return 0, v.queryErr
	}
	return v.pos * 1000 / v.rate, nil
}

func (v *fakeVoice) TotalFrames() uint64 { return v.total }
func (v *fakeVoice) TotalSeconds() float64 { return float64(v.total) / float64(v.rate) }
func (v *fakeVoice) AtEnd() bool { return v.atEnd }

func (v *fakeVoice) Close() error {
	v.record("close")
	if v.closed {
		return errors.New("double close")
	}
	v.closed = true
	return nil
}

// advance simulates the engine playing for d frames.
func (v *fakeVoice) advance(d uint64) {
	v.pos += d
}

// recordingSurface keeps what the player asked to display.
type recordingSurface struct {
	tracks   []int
	metas    []core.Metadata
	states   []core.PlayState
	progress []core.Progress
	enabled  []bool
	tiers    []core.VolumeTier
	errs     []error
}

func (s *recordingSurface) TrackChanged(i int, m core.Metadata) {
	s.tracks = append(s.tracks, i)
	s.metas = append(s.metas, m)
}
func (s *recordingSurface) StateChanged(st core.PlayState) { s.states = append(s.states, st) }
func (s *recordingSurface) Progress(p core.Progress) { s.progress = append(s.progress, p) }
func (s *recordingSurface) SeekEnabled(b bool) { s.enabled = append(s.enabled, b) }
func (s *recordingSurface) VolumeChanged(_ float64, tier core.VolumeTier) {
	s.tiers = append(s.tiers, tier)
}
func (s *recordingSurface) Error(err error) { s.errs = append(s.errs, err) }

func (s *recordingSurface) lastProgress() core.Progress {
	if len(s.progress) == 0 {
		return core.Progress{}
	}
	return s.progress[len(s.progress)-1]
}

func playlistOf(names ...string) *core.Playlist {
	tracks := make([]*core.Track, len(names))
	for i, name := range names {
		meta := core.Metadata{Title: name, Artist: "Artist " + name}
		tracks[i] = core.NewTrack("/music/"+name+".mp3", ".mp3", 0, func(string) (core.Metadata, error) {
			return meta, nil
		})
	}
	return core.NewPlaylist("/music", tracks)
}
