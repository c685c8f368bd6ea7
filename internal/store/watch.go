package store

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/rcliao/happy-days/internal/model"
)

// DefaultWatchDebounce is the delay between the last change and re-enumeration.
const DefaultWatchDebounce = 300 * time.Millisecond

// Watcher re-enumerates the store whenever its artifacts change and hands
// each fresh snapshot to a callback.
type Watcher struct {
	store    *FileStore
	fsw      *fsnotify.Watcher
	debounce time.Duration
	onChange func([]model.Memory)
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	// debounce state
	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher creates a watcher for s. onChange runs on the watcher's
// own goroutine, never concurrently with itself.
func NewWatcher(s *FileStore, debounce time.Duration, onChange func([]model.Memory)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	return &Watcher{
		store:    s,
		fsw:      fsw,
		debounce: debounce,
		onChange: onChange,
	}, nil
}

// Start begins watching the store directory.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.fsw.Add(w.store.Dir()); err != nil {
		return &StorageError{Op: "watch", Path: w.store.Dir(), Err: err}
	}

	ctx, w.cancel = context.WithCancel(ctx)

	w.wg.Add(1)
	go w.loop(ctx)

	slog.Info("memory watcher started", "dir", w.store.Dir())
	return nil
}

// Stop shuts down the watcher and waits for a pending callback to finish.
func (w *Watcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
	w.fsw.Close()

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()

	flush := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if relevant(event) {
				w.schedule(flush)
			}

		case <-flush:
			w.onChange(w.store.Enumerate(ctx))

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("memory watcher error", "error", err)
		}
	}
}

// schedule (re)arms the debounce timer; when it fires a token lands on flush.
func (w *Watcher) schedule(flush chan<- struct{}) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case flush <- struct{}{}:
		default:
		}
	})
}

// relevant ignores temp files and anything that is not a memory artifact.
func relevant(event fsnotify.Event) bool {
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return false
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	for _, a := range model.Artifacts {
		if strings.HasSuffix(name, a.Suffix()) {
			return true
		}
	}
	return false
}
