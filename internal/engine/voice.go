package engine

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/faiface/beep"
)

var errClosed = errors.New("voice closed")

// voice is one decoded stream. The cursor lives in the decoder, in frames at
// the file's own sample rate; the ctrl feeds the mixer, resampled if needed.
type voice struct {
	lock     sync.Locker
	mixer    *beep.Mixer
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl

	queued bool
	closed bool
	ended  atomic.Bool
}

func newVoice(s beep.StreamSeekCloser, format beep.Format, out beep.SampleRate, mixer *beep.Mixer, lock sync.Locker) *voice {
	var stream beep.Streamer = s
	if format.SampleRate != out {
		stream = beep.Resample(4, format.SampleRate, out, s)
	}

	return &voice{
		lock:     lock,
		mixer:    mixer,
		streamer: s,
		format:   format,
		ctrl:     &beep.Ctrl{Streamer: stream, Paused: true},
	}
}

func (v *voice) Start() error {
	v.lock.Lock()
	defer v.lock.Unlock()

	if v.closed {
		return errClosed
	}
	if !v.queued {
		v.enqueueLocked()
	}
	v.ctrl.Paused = false
	return nil
}

// enqueueLocked adds the voice to the mixer, followed by the end marker.
func (v *voice) enqueueLocked() {
	v.ended.Store(false)
	v.queued = true
	v.mixer.Add(beep.Seq(v.ctrl, beep.Callback(func() {
		v.ended.Store(true)
		v.queued = false
	})))
}

func (v *voice) Stop() error {
	v.lock.Lock()
	defer v.lock.Unlock()

	if v.closed {
		return errClosed
	}
	v.ctrl.Paused = true
	return nil
}

func (v *voice) SeekToFrame(frame uint64) error {
	v.lock.Lock()
	defer v.lock.Unlock()

	if v.closed {
		return errClosed
	}

	total := v.streamer.Len()
	p := int(frame)
	if frame > uint64(total) {
		p = total
	}
	if err := v.streamer.Seek(p); err != nil {
		return err
	}

	// Seeking back into a finished stream makes it playable again.
	if v.ended.Load() && p < total {
		v.enqueueLocked()
	}
	return nil
}

func (v *voice) position() (int, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	if v.closed {
		return 0, errClosed
	}
	if err := v.streamer.Err(); err != nil {
		return 0, err
	}
	return v.streamer.Position(), nil
}

func (v *voice) ElapsedFrames() (uint64, error) {
	pos, err := v.position()
	if err != nil {
		return 0, err
	}
	return uint64(pos), nil
}

func (v *voice) ElapsedMs() (uint64, error) {
	pos, err := v.position()
	if err != nil {
		return 0, err
	}
	return uint64(pos) * 1000 / uint64(v.format.SampleRate), nil
}

func (v *voice) TotalFrames() uint64 {
	return uint64(v.streamer.Len())
}

func (v *voice) TotalSeconds() float64 {
	return float64(v.streamer.Len()) / float64(v.format.SampleRate)
}

func (v *voice) AtEnd() bool {
	if v.ended.Load() {
		return true
	}
	pos, err := v.position()
	return err == nil && pos >= v.streamer.Len()
}

// Close detaches the voice from the mixer and closes the decoder. The mixer
// only reads the ctrl under the lock, so the decoder is idle once it is nil.
func (v *voice) Close() error {
	v.lock.Lock()
	if v.closed {
		v.lock.Unlock()
		return nil
	}
	v.closed = true
	v.ctrl.Streamer = nil
	v.lock.Unlock()

	return v.streamer.Close()
}
