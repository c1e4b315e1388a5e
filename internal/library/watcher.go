package library

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/tessro/deck/internal/core"
)

const defaultDebounce = 500 * time.Millisecond

// Update is a rescanned playlist, or the error that prevented the rescan.
type Update struct {
	Playlist *core.Playlist
	Err      error
}

// Watcher rescans a folder tree whenever playable files appear, disappear or
// are renamed in it.
type Watcher struct {
	root       string
	extensions []string
	debounce   time.Duration
	opts       []ScanOption
	log        *zap.Logger

	fsw     *fsnotify.Watcher
	updates chan Update
}

// NewWatcher creates a watcher for root. Start must be called to begin watching.
func NewWatcher(root string, extensions []string, log *zap.Logger, opts ...ScanOption) (*Watcher, error) {
	resolved, err := resolveRoot(root)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if log == nil {
		log = zap.NewNop()
	}

	return &Watcher{
		root:       resolved,
		extensions: extensions,
		debounce:   defaultDebounce,
		opts:       opts,
		log:        log,
		fsw:        fsw,
		updates:    make(chan Update, 1),
	}, nil
}

// SetDebounce sets how long the watcher waits for changes to settle before rescanning.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Updates returns the channel of rescanned playlists.
func (w *Watcher) Updates() <-chan Update {
	return w.updates
}

// Start watches until ctx is done. It closes the Updates channel on return.
func (w *Watcher) Start(ctx context.Context) error {
	defer close(w.updates)
	defer w.fsw.Close()

	if err := w.addTree(w.root); err != nil {
		return err
	}

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending bool
	)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debug("library changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			pending = true
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("library watch error", zap.Error(err))

		case <-timerC:
			timerC = nil
			if !pending {
				continue
			}
			pending = false
			w.rescan(ctx)
		}
	}
}

func (w *Watcher) rescan(ctx context.Context) {
	playlist, err := Scan(ctx, w.root, w.extensions, w.opts...)
	update := Update{Playlist: playlist, Err: err}

	// Only the latest rescan matters.
	select {
	case <-w.updates:
	default:
	}
	select {
	case w.updates <- update:
	case <-ctx.Done():
	}
}

// relevant reports whether event can change the playlist. New directories
// are added to the watch list as a side effect.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&fsnotify.Create == fsnotify.Create {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.addTree(event.Name)
			return true
		}
	}
	if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if _, ok := Match(filepath.Base(event.Name), w.extensions); ok {
		return true
	}
	// A removed or renamed directory takes its tracks with it.
	return event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 && filepath.Ext(event.Name) == ""
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return fs.SkipDir
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			w.log.Warn("cannot watch directory", zap.String("path", path), zap.Error(err))
		}
		return nil
	})
}
