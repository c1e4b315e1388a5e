package core

// PlayState is the transport's playback state.
type PlayState int

const (
	Stopped PlayState = iota
	Playing
	Paused
)

func (s PlayState) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// Snapshot is a copy of the transport state for rendering.
type Snapshot struct {
	Track       *Track    `json:"track"`
	Index       int       `json:"index"`
	State       PlayState `json:"state"`
	TotalFrames uint64    `json:"total_frames"`
	Volume      float64   `json:"volume"`
}

// HasTrack returns true if there is a current track.
func (s *Snapshot) HasTrack() bool {
	return s != nil && s.Track != nil
}

// IsPlaying returns true if the current track is playing.
func (s *Snapshot) IsPlaying() bool {
	return s != nil && s.State == Playing
}

// Progress is the per-tick position report.
type Progress struct {
	Elapsed   string  `json:"elapsed"`
	Total     string  `json:"total"`
	Remaining string  `json:"remaining"`
	Fraction  float64 `json:"fraction"`
}
