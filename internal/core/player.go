package core

// Engine is the audio engine the transport drives. Implementations mix on
// their own goroutine; every method must be safe to call from the event loop.
type Engine interface {
	// Load opens and decodes the file at path into a new, stopped voice.
	Load(path string) (Voice, error)
	// SetVolume sets the master gain. 1 is unity, values above 1 amplify.
	SetVolume(level float64)
	Close() error
}

// Voice is one loaded audio stream with its own playback cursor.
type Voice interface {
	Start() error
	Stop() error
	SeekToFrame(frame uint64) error

	ElapsedFrames() (uint64, error)
	ElapsedMs() (uint64, error)
	TotalFrames() uint64
	TotalSeconds() float64

	// AtEnd reports whether the stream has been played to completion.
	AtEnd() bool

	// Close releases the stream and its file.
	Close() error
}

// Surface receives everything the player wants displayed.
type Surface interface {
	TrackChanged(index int, meta Metadata)
	StateChanged(state PlayState)
	Progress(p Progress)
	SeekEnabled(enabled bool)
	VolumeChanged(level float64, tier VolumeTier)
	Error(err error)
}
