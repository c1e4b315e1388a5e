// Package engine plays decoded audio through the system speaker.
package engine

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	"go.uber.org/zap"

	"github.com/tessro/deck/internal/config"
	"github.com/tessro/deck/internal/core"
	deckerrors "github.com/tessro/deck/internal/errors"
)

// speakerLock guards state the speaker goroutine reads while mixing.
type speakerLock struct{}

func (speakerLock) Lock()   { speaker.Lock() }
func (speakerLock) Unlock() { speaker.Unlock() }

// Engine mixes at most one voice into the speaker behind a master volume.
type Engine struct {
	lock       sync.Locker
	sampleRate beep.SampleRate
	mixer      *beep.Mixer
	volume     *effects.Volume
	release    func()
	closeOnce  sync.Once
	log        *zap.Logger
}

// New initializes the speaker and starts mixing. Failure here is fatal to
// the player and wraps ErrEngineInit.
func New(cfg config.AudioConfig, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}

	sr := beep.SampleRate(cfg.SampleRate)
	buffer := sr.N(time.Duration(cfg.BufferMs) * time.Millisecond)
	if err := speaker.Init(sr, buffer); err != nil {
		return nil, fmt.Errorf("%w: %v", deckerrors.ErrEngineInit, err)
	}

	e := newEngine(sr, speakerLock{}, log)
	e.release = func() {
		speaker.Clear()
		speaker.Close()
	}
	speaker.Play(e.volume)

	log.Info("audio engine started",
		zap.Int("sample_rate", cfg.SampleRate),
		zap.Int("buffer_samples", buffer))
	return e, nil
}

func newEngine(sr beep.SampleRate, lock sync.Locker, log *zap.Logger) *Engine {
	mixer := &beep.Mixer{}
	return &Engine{
		lock:       lock,
		sampleRate: sr,
		mixer:      mixer,
		volume: &effects.Volume{
			Streamer: mixer,
			Base:     2,
			Volume:   0,
			Silent:   false,
		},
		release: func() {},
		log:     log,
	}
}

// Load decodes the file at path into a stopped voice.
func (e *Engine) Load(path string) (core.Voice, error) {
	streamer, format, err := Decode(path)
	if err != nil {
		return nil, err
	}

	v := newVoice(streamer, format, e.sampleRate, e.mixer, e.lock)
	e.log.Debug("voice loaded",
		zap.String("path", path),
		zap.Int("sample_rate", int(format.SampleRate)),
		zap.Uint64("frames", v.TotalFrames()))
	return v, nil
}

// SetVolume sets the master gain. 1 is unity, 0 mutes, values above 1 amplify.
func (e *Engine) SetVolume(level float64) {
	e.lock.Lock()
	defer e.lock.Unlock()

	if level <= 0 {
		e.volume.Silent = true
		return
	}
	e.volume.Silent = false
	e.volume.Volume = math.Log2(level)
}

// Close stops everything the engine is mixing and closes the audio device.
// Calls after the first do nothing.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		e.lock.Lock()
		e.mixer.Clear()
		e.lock.Unlock()

		e.release()
		e.log.Info("audio engine closed")
	})
	return nil
}
