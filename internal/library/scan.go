// Package library discovers playable audio files on disk.
package library

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/tessro/deck/internal/core"
)

// Match returns the accepted extension that name ends with. A name that is
// nothing but the extension does not match. Matching is case-sensitive.
func Match(name string, extensions []string) (string, bool) {
	for _, ext := range extensions {
		if len(name) > len(ext) && strings.HasSuffix(name, ext) {
			return ext, true
		}
	}
	return "", false
}

// ScanOption configures a scan.
type ScanOption func(*scanner)

// WithProgress registers fn to be called with the running count of accepted files.
func WithProgress(fn func(found int)) ScanOption {
	return func(s *scanner) {
		s.progress = fn
	}
}

// WithMetadataReader overrides how track tags are read.
func WithMetadataReader(r core.MetadataReader) ScanOption {
	return func(s *scanner) {
		s.reader = r
	}
}

type scanner struct {
	extensions []string
	progress   func(int)
	reader     core.MetadataReader
}

// Scan walks root recursively and returns the playable files in lexical
// order. Files whose name was already seen in another directory are skipped.
// Unreadable subdirectories are skipped; an unreadable root is an error.
func Scan(ctx context.Context, root string, extensions []string, opts ...ScanOption) (*core.Playlist, error) {
	s := &scanner{extensions: extensions, reader: ReadMetadata}
	for _, opt := range opts {
		opt(s)
	}

	resolved, err := resolveRoot(root)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var tracks []*core.Track

	err = filepath.WalkDir(resolved, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == resolved {
				return err
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		name := d.Name()
		ext, ok := Match(name, s.extensions)
		if !ok || seen[name] {
			return nil
		}
		seen[name] = true

		var size int64
		if info, err := d.Info(); err == nil {
			size = info.Size()
		}

		tracks = append(tracks, core.NewTrack(path, ext, size, s.reader))
		if s.progress != nil {
			s.progress(len(tracks))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	return core.NewPlaylist(resolved, tracks), nil
}

func resolveRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", root, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", root, err)
	}
	return resolved, nil
}
