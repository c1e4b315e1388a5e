package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"

	deckerrors "github.com/tessro/deck/internal/errors"
)

// Decode opens the file at path and returns a seekable stream of its samples.
func Decode(path string) (beep.StreamSeekCloser, beep.Format, error) {
	var decode func(f *os.File) (beep.StreamSeekCloser, beep.Format, error)

	switch filepath.Ext(path) {
	case ".mp3":
		decode = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return mp3.Decode(f) }
	case ".wav":
		decode = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(f) }
	case ".flac":
		decode = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return flac.Decode(f) }
	case ".ogg":
		decode = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return vorbis.Decode(f) }
	default:
		return nil, beep.Format{}, fmt.Errorf("%s: %w", filepath.Base(path), deckerrors.ErrUnsupported)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}

	streamer, format, err := decode(f)
	if err != nil {
		f.Close()
		return nil, beep.Format{}, err
	}
	return streamer, format, nil
}
