package transport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessro/deck/internal/core"
)

func TestSessionAppliesInitialVolume(t *testing.T) {
	_, engine, surface := newSession()

	assert.Equal(t, 0.5, engine.volume)
	assert.Equal(t, []core.VolumeTier{core.VolumeMedium}, surface.tiers)
}

func TestSessionSeekGestures(t *testing.T) {
	s, engine, _ := newSession("a")
	engine.frames = 1000

	assert.False(t, s.SeekBy(0.1), "ignored before anything plays")

	require.NoError(t, s.Select(0))
	s.Tick()
	voice := engine.voices[0]

	assert.True(t, s.SeekBy(0.1))
	assert.Equal(t, uint64(100), voice.pos)

	assert.True(t, s.SeekTo(0.9))
	assert.True(t, s.SeekBy(0.1))
	assert.True(t, s.SeekBy(0.1))
	assert.Equal(t, 1.0, s.SeekControl().Value())
	assert.Equal(t, uint64(1000), voice.pos)

	assert.True(t, s.SeekTo(0.2))
	assert.True(t, s.SeekBy(-0.5))
	assert.Equal(t, 0.0, s.SeekControl().Value())
	assert.Equal(t, uint64(0), voice.pos)
}

func TestSessionSeekWhilePausedUpdatesDisplay(t *testing.T) {
	s, engine, surface := newSession("a")
	engine.frames = 44100 * 100
	require.NoError(t, s.Select(0))
	s.Tick()

	s.TogglePlayPause()
	require.True(t, s.SeekTo(0.5))

	assert.Equal(t, "0:50", surface.lastProgress().Elapsed)
	assert.Equal(t, 0.5, surface.lastProgress().Fraction)
	assert.Equal(t, uint64(44100*50), engine.voices[0].pos)

	s.TogglePlayPause()
	s.Tick()
	assert.Equal(t, "0:50", surface.lastProgress().Elapsed, "resume continues from the seek target")
}

func TestSessionVolumeSteps(t *testing.T) {
	s, engine, surface := newSession()

	for i := 0; i < 8; i++ {
		s.VolumeBy(0.1)
	}
	assert.Equal(t, 1.0, engine.volume)
	assert.Equal(t, core.VolumeOveramplified, surface.tiers[len(surface.tiers)-1])

	for i := 0; i < 12; i++ {
		s.VolumeBy(-0.1)
	}
	assert.Equal(t, 0.0, engine.volume)
	assert.Equal(t, core.VolumeMuted, surface.tiers[len(surface.tiers)-1])

	s.SetVolume(1.4)
	assert.Equal(t, 1.4, engine.volume)
	s.VolumeBy(0.1)
	assert.Equal(t, 1.0, engine.volume)
}

func TestSessionNextPrevious(t *testing.T) {
	s, _, _ := newSession("a", "b", "c")

	require.NoError(t, s.Next())
	assert.Equal(t, 0, s.Snapshot().Index)
	require.NoError(t, s.Next())
	require.NoError(t, s.Next())
	require.NoError(t, s.Next())
	assert.Equal(t, 0, s.Snapshot().Index)

	require.NoError(t, s.Previous())
	assert.Equal(t, 2, s.Snapshot().Index)
	assert.Equal(t, 0.0, s.SeekControl().Value())
}

func TestSessionRun(t *testing.T) {
	s, engine, surface := newSession("a", "b")

	ctx, cancel := context.WithCancel(context.Background())
	commands := make(chan func(*Session))
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, 5*time.Millisecond, commands) }()

	commands <- func(s *Session) { _ = s.Select(0) }
	commands <- func(s *Session) { engine.voices[0].atEnd = true }

	require.Eventually(t, func() bool {
		result := make(chan int)
		commands <- func(s *Session) { result <- s.Snapshot().Index }
		return <-result == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Contains(t, surface.tracks, 1)
}

func TestSessionRunZeroInterval(t *testing.T) {
	s, engine, _ := newSession("a", "b")

	ctx, cancel := context.WithCancel(context.Background())
	commands := make(chan func(*Session))
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, 0, commands) }()

	commands <- func(s *Session) { _ = s.Select(0) }
	commands <- func(s *Session) { engine.voices[0].atEnd = true }

	require.Eventually(t, func() bool {
		result := make(chan int)
		commands <- func(s *Session) { result <- s.Snapshot().Index }
		return <-result == 1
	}, 2*time.Second, 10*time.Millisecond, "ticks at the default interval")

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestSessionClose(t *testing.T) {
	s, engine, _ := newSession("a")
	require.NoError(t, s.Select(0))

	require.NoError(t, s.Close())
	assert.True(t, engine.closed)
	assert.Empty(t, engine.live())
	assert.Equal(t, core.Stopped, s.Snapshot().State)
}
