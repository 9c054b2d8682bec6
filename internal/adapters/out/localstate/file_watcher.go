// internal/adapters/out/localstate/file_watcher.go
package localstate

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher calls onChange when the file backing key is replaced by another
// process (e.g. `storefront cart add` while `storefront serve` runs).
// Writes made through the same FileStorage are ignored.
type Watcher struct {
	storage  *FileStorage
	key      string
	onChange func(ctx context.Context) error
	log      *zap.Logger
	debounce time.Duration

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewWatcher(storage *FileStorage, key string, onChange func(ctx context.Context) error, log *zap.Logger) *Watcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		storage:  storage,
		key:      key,
		onChange: onChange,
		log:      log.Named("state_watcher"),
		debounce: 150 * time.Millisecond,
	}
}

// Start is non-blocking. The watch loop ends on Stop or ctx cancellation.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// watch the directory: rename-into-place replaces the inode
	if err := fw.Add(w.storage.Dir()); err != nil {
		_ = fw.Close()
		return err
	}

	w.watcher = fw
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})

	go w.run(ctx, fw, w.stopCh, w.doneCh)

	w.log.Info("watching", zap.String("path", w.storage.Path(w.key)))
	return nil
}

// Stop ends the loop and waits for it.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	stopCh, doneCh, fw := w.stopCh, w.doneCh, w.watcher
	w.mu.Unlock()

	close(stopCh)
	<-doneCh
	if err := fw.Close(); err != nil {
		w.log.Warn("close watcher", zap.Error(err))
	}
}

func (w *Watcher) run(ctx context.Context, fw *fsnotify.Watcher, stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	target := filepath.Clean(w.storage.Path(w.key))

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return

		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.log.Error("watch error", zap.Error(err))

		case <-fire:
			fire = nil
			w.handleChange(ctx, target)
		}
	}
}

func (w *Watcher) handleChange(ctx context.Context, path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		w.log.Debug("changed file unreadable", zap.String("path", path), zap.Error(err))
		return
	}
	if w.storage.ownWrite(w.key, content) {
		return
	}
	if w.onChange == nil {
		return
	}
	if err := w.onChange(ctx); err != nil {
		w.log.Warn("reload failed", zap.String("path", path), zap.Error(err))
		return
	}
	w.log.Info("reloaded external change", zap.String("path", path))
}
