package secrets

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher observes the local secrets file so operators can see credential
// rollovers in the logs. It never caches values; the resolver keeps reading
// the file fresh on every request.
type Watcher struct {
	path         string
	watcher      *fsnotify.Watcher
	onChange     func(string)
	logger       zerolog.Logger
	mu           sync.RWMutex
	running      bool
	stopCh       chan struct{}
	debounceTime time.Duration
}

// NewWatcher creates a watcher for the secrets file at path. onChange may be
// nil; changes are then only logged.
func NewWatcher(path string, onChange func(string), logger zerolog.Logger) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		path:         path,
		watcher:      watcher,
		onChange:     onChange,
		logger:       logger,
		stopCh:       make(chan struct{}),
		debounceTime: time.Second,
	}, nil
}

// Start begins watching the secrets file for changes.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	// Watch the directory: editors and deploy scripts replace the file by
	// writing a temp file and renaming it over the target.
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}

	w.logger.Info().Str("path", w.path).Msg("secrets watcher started")

	go w.watchLoop(ctx)
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	return w.watcher.Close()
}

// IsRunning reports whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

func (w *Watcher) watchLoop(ctx context.Context) {
	var debounceTimer *time.Timer

	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if !w.isSecretsFileEvent(event) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			// Debounce rapid successive writes into one notification.
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounceTime, w.notify)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error().Err(err).Msg("secrets watcher error")

		case <-w.stopCh:
			w.logger.Info().Msg("secrets watcher stopped")
			return

		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) isSecretsFileEvent(event fsnotify.Event) bool {
	eventPath, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	watchPath, err := filepath.Abs(w.path)
	if err != nil {
		return false
	}
	return eventPath == watchPath
}

func (w *Watcher) notify() {
	w.logger.Info().Str("path", w.path).Msg("secrets file changed")
	if w.onChange != nil {
		w.onChange(w.path)
	}
}
