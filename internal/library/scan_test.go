package library

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessro/deck/internal/core"
)

var testExts = []string{".wav", ".mp3", ".flac"}

func touch(t *testing.T, root string, rel string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("data"), 0644))
}

func noTags(string) (core.Metadata, error) {
	return core.Metadata{}, errors.New("no tags")
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name    string
		wantExt string
		wantOK  bool
	}{
		{"song.mp3", ".mp3", true},
		{"notawave.mp3", ".mp3", true},
		{"a.wav.flac", ".flac", true},
		{"mp3extra.txt", "", false},
		{"song.MP3", "", false},
		{".mp3", "", false},
		{"song.mp3.bak", "", false},
	}

	for _, tt := range tests {
		ext, ok := Match(tt.name, testExts)
		assert.Equal(t, tt.wantOK, ok, tt.name)
		assert.Equal(t, tt.wantExt, ext, tt.name)
	}
}

func TestScanRecursiveDedupe(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "b.mp3")
	touch(t, root, "a.wav")
	touch(t, root, "notes.txt")
	touch(t, root, "sub/c.flac")
	touch(t, root, "sub/b.mp3")
	touch(t, root, "sub/deeper/d.mp3")

	var counts []int
	playlist, err := Scan(context.Background(), root, testExts,
		WithMetadataReader(noTags),
		WithProgress(func(n int) { counts = append(counts, n) }),
	)
	require.NoError(t, err)

	var names []string
	for _, track := range playlist.Tracks {
		names = append(names, track.Name)
		assert.True(t, filepath.IsAbs(track.Path), track.Path)
		assert.Equal(t, int64(4), track.Size)
	}

	assert.Equal(t, []string{"a.wav", "b.mp3", "c.flac", "d.mp3"}, names)
	assert.Equal(t, []int{1, 2, 3, 4}, counts)

	resolvedRoot, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Equal(t, resolvedRoot, playlist.Root)
	assert.Equal(t, filepath.Join(resolvedRoot, "b.mp3"), playlist.At(1).Path)
}

func TestScanDisplayNames(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "Track One.flac")

	playlist, err := Scan(context.Background(), root, testExts, WithMetadataReader(noTags))
	require.NoError(t, err)
	require.Equal(t, 1, playlist.Len())

	track := playlist.At(0)
	assert.Equal(t, "Track One", track.DisplayName())
	assert.Equal(t, "Track One", track.Title())
	assert.True(t, track.Metadata().IsEmpty())
}

func TestScanEmptyAndMissing(t *testing.T) {
	playlist, err := Scan(context.Background(), t.TempDir(), testExts)
	require.NoError(t, err)
	assert.True(t, playlist.IsEmpty())

	_, err = Scan(context.Background(), filepath.Join(t.TempDir(), "missing"), testExts)
	assert.Error(t, err)
}

func TestScanCanceled(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a.mp3")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Scan(ctx, root, testExts)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadMetadataUntagged(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "plain.mp3")

	_, err := ReadMetadata(filepath.Join(root, "plain.mp3"))
	assert.Error(t, err)

	_, err = ReadMetadata(filepath.Join(root, "missing.mp3"))
	assert.Error(t, err)
}
