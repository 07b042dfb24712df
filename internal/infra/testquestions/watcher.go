package testquestions

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yanqian/faq-matcher/internal/domain/faq"
)

const defaultDebounce = 200 * time.Millisecond

// Watcher reloads a local test question file into set whenever it changes.
type Watcher struct {
	path     string
	set      *faq.TestQuestionSet
	logger   *slog.Logger
	debounce time.Duration
}

// NewWatcher constructs a watcher for path.
func NewWatcher(path string, set *faq.TestQuestionSet, logger *slog.Logger) *Watcher {
	return &Watcher{
		path:     filepath.Clean(path),
		set:      set,
		logger:   logger.With("component", "testquestions.watcher"),
		debounce: defaultDebounce,
	}
}

// Run blocks until ctx is done. The parent directory is watched so editors
// that replace the file via rename are picked up too.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	w.logger.Info("watching test questions", "path", w.path)

	var (
		timer   *time.Timer
		reloadC <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			reloadC = timer.C
		case <-reloadC:
			reloadC = nil
			w.reload()
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("test questions watcher error", "error", err)
		}
	}
}

func (w *Watcher) reload() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			w.set.Replace(nil)
			w.logger.Info("test questions file removed")
			return
		}
		w.logger.Warn("read test questions failed", "error", err)
		return
	}
	items, err := decode(data)
	if err != nil {
		// keep serving the previous list
		w.logger.Warn("reload test questions failed", "error", err)
		return
	}
	w.set.Replace(items)
	w.logger.Info("test questions reloaded", "count", len(items))
}
