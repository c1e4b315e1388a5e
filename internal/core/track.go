package core

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Metadata holds the display tags of a track. Missing tags are empty strings.
type Metadata struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Album  string `json:"album"`
	Genre  string `json:"genre"`
}

// IsEmpty returns true if no tag is set.
func (m Metadata) IsEmpty() bool {
	return m.Title == "" && m.Artist == "" && m.Album == "" && m.Genre == ""
}

// MetadataReader reads tags for the file at path.
type MetadataReader func(path string) (Metadata, error)

// Track represents a playable audio file.
type Track struct {
	ID   string `json:"id"`
	Path string `json:"path"`
	Name string `json:"name"`
	Ext  string `json:"ext"`
	Size int64  `json:"size"`

	once   sync.Once
	meta   Metadata
	reader MetadataReader
}

// NewTrack creates a track for the resolved path. The accepted extension ext is
// stripped from the display name. reader may be nil.
func NewTrack(path, ext string, size int64, reader MetadataReader) *Track {
	return &Track{
		ID:     uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+path)).String(),
		Path:   path,
		Name:   filepath.Base(path),
		Ext:    ext,
		Size:   size,
		reader: reader,
	}
}

// Metadata returns the track's tags, reading them on first use.
func (t *Track) Metadata() Metadata {
	t.once.Do(func() {
		if t.reader == nil {
			return
		}
		if m, err := t.reader(t.Path); err == nil {
			t.meta = m
		}
	})
	return t.meta
}

// DisplayName returns the file name without its extension.
func (t *Track) DisplayName() string {
	if t.Ext != "" {
		return strings.TrimSuffix(t.Name, t.Ext)
	}
	return strings.TrimSuffix(t.Name, filepath.Ext(t.Name))
}

// Title returns the tagged title, falling back to the display name.
func (t *Track) Title() string {
	if title := t.Metadata().Title; title != "" {
		return title
	}
	return t.DisplayName()
}
