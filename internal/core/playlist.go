package core

// Playlist is an ordered, read-only sequence of tracks.
type Playlist struct {
	Root   string   `json:"root"`
	Tracks []*Track `json:"tracks"`
}

// NewPlaylist creates a playlist from tracks.
func NewPlaylist(root string, tracks []*Track) *Playlist {
	return &Playlist{Root: root, Tracks: tracks}
}

// At returns the track at index i, or nil if i is out of range.
func (p *Playlist) At(i int) *Track {
	if p == nil || i < 0 || i >= len(p.Tracks) {
		return nil
	}
	return p.Tracks[i]
}

// IndexOf returns the index of the track with the given path, or -1.
func (p *Playlist) IndexOf(path string) int {
	if p == nil {
		return -1
	}
	for i, t := range p.Tracks {
		if t.Path == path {
			return i
		}
	}
	return -1
}

// Len returns the total number of tracks in the playlist.
func (p *Playlist) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Tracks)
}

// IsEmpty returns true if the playlist has no tracks.
func (p *Playlist) IsEmpty() bool {
	return p.Len() == 0
}
