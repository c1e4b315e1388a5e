package library

import (
	"os"
	"strings"

	"github.com/dhowden/tag"

	"github.com/tessro/deck/internal/core"
)

// ReadMetadata reads the title, artist, album and genre tags of the file at path.
func ReadMetadata(path string) (core.Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return core.Metadata{}, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return core.Metadata{}, err
	}

	return core.Metadata{
		Title:  strings.TrimSpace(m.Title()),
		Artist: strings.TrimSpace(m.Artist()),
		Album:  strings.TrimSpace(m.Album()),
		Genre:  strings.TrimSpace(m.Genre()),
	}, nil
}
