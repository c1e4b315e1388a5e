package transport

import (
	"go.uber.org/zap"

	"github.com/tessro/deck/internal/core"
	deckerrors "github.com/tessro/deck/internal/errors"
)

// Reconciler polls the engine once per tick and mirrors its position onto
// the seek control and time labels. It keeps nothing between ticks.
type Reconciler struct {
	transport *Transport
	seek      *SeekControl
	surface   core.Surface
	log       *zap.Logger
}

// NewReconciler creates a reconciler for t that drives seek.
func NewReconciler(t *Transport, seek *SeekControl, surface core.Surface, log *zap.Logger) *Reconciler {
	if surface == nil {
		surface = nopSurface{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{transport: t, seek: seek, surface: surface, log: log}
}

// Tick runs one reconciliation pass.
func (r *Reconciler) Tick() {
	t := r.transport

	if t.voice == nil {
		r.setEnabled(false)
		return
	}
	r.setEnabled(true)

	if t.state == core.Paused {
		return
	}

	voice := t.voice
	elapsed, err := voice.ElapsedFrames()
	if err != nil {
		r.skip("elapsed_frames", err)
		return
	}

	total := t.totalFrames
	if (total > 0 && elapsed >= total) || voice.AtEnd() {
		r.finished()
		return
	}

	ms, err := voice.ElapsedMs()
	if err != nil {
		r.skip("elapsed_ms", err)
		return
	}

	fraction := 0.0
	if total > 0 {
		fraction = float64(elapsed) / float64(total)
	}

	r.surface.Progress(progress(int64(ms/1000), int64(voice.TotalSeconds()), fraction))
	r.seek.Write(fraction)
}

// finished moves on to the next track and rewinds the display.
func (r *Reconciler) finished() {
	t := r.transport
	r.log.Debug("track finished", zap.Int("index", t.current))

	if err := t.Advance(); err != nil {
		r.log.Warn("auto-advance failed", zap.Error(err))
	}

	total := int64(0)
	if t.voice != nil {
		total = int64(t.voice.TotalSeconds())
	}
	r.surface.Progress(progress(0, total, 0))
	r.seek.Write(0)
}

func (r *Reconciler) skip(op string, err error) {
	qe := &deckerrors.QueryError{Op: op, Err: err}
	r.log.Debug("tick skipped", zap.Error(qe))
	r.surface.Error(qe)
}

func (r *Reconciler) setEnabled(enabled bool) {
	if r.seek.SetEnabled(enabled) {
		r.surface.SeekEnabled(enabled)
	}
}

func progress(elapsed, total int64, fraction float64) core.Progress {
	remaining := total - elapsed
	return core.Progress{
		Elapsed:   core.FormatClock(elapsed),
		Total:     core.FormatClock(total),
		Remaining: core.FormatClock(remaining),
		Fraction:  core.Clamp01(fraction),
	}
}
