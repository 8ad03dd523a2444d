// Package inbox watches a directory for beam workbooks and writes an
// analysed copy next to each one.
package inbox

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"Stratum/internal/calc/batch"

	"github.com/fsnotify/fsnotify"
	"github.com/sgostarter/i/l"
)

const (
	resultSuffix    = "_results"
	defaultDebounce = 300 * time.Millisecond
)

type Watcher struct {
	dir      string
	analyzer batch.Analyzer
	logger   l.Wrapper
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func New(dir string, analyzer batch.Analyzer, logger l.Wrapper) (*Watcher, error) {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}
	return &Watcher{
		dir:      dir,
		analyzer: analyzer,
		logger:   logger.WithFields(l.StringField(l.ClsKey, "inbox"), l.StringField("dir", dir)),
		watcher:  w,
		debounce: defaultDebounce,
		timers:   make(map[string]*time.Timer),
	}, nil
}

// Run handles events until ctx is done or the watcher is closed. A file is
// processed once writes to it have settled for the debounce interval.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	ready := make(chan string, 16)
	w.logger.Info("watching for workbooks")
	for {
		select {
		case <-ctx.Done():
			w.stopTimers()
			return ctx.Err()
		case path := <-ready:
			if _, err := w.Process(ctx, path); err != nil {
				w.logger.WithFields(l.StringField("file", path), l.ErrorField(err)).Warn("process workbook")
			}
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !isWorkbook(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			w.schedule(ctx, event.Name, ready)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.WithFields(l.ErrorField(err)).Error("watcher")
		}
	}
}

func (w *Watcher) schedule(ctx context.Context, path string, ready chan<- string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		select {
		case ready <- path:
		case <-ctx.Done():
		}
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

// Process analyses one workbook and writes its results. It returns the
// path of the written file.
func (w *Watcher) Process(ctx context.Context, path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	items, err := batch.ReadWorkbook(bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	res := batch.Run(ctx, w.analyzer, items, 0)

	out := ResultPath(path)
	tmp, err := os.CreateTemp(w.dir, ".stratum-*")
	if err != nil {
		return "", err
	}
	if err := batch.WriteWorkbook(tmp, res); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), out); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}

	w.logger.WithFields(
		l.StringField("file", filepath.Base(path)),
		l.IntField("count", res.Count),
		l.IntField("failed", res.Failed),
	).Info("workbook analysed")
	return out, nil
}

// ResultPath maps beams.xlsx to beams_results.xlsx.
func ResultPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + resultSuffix + ext
}

func isWorkbook(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~$") {
		return false
	}
	if !strings.EqualFold(filepath.Ext(base), ".xlsx") {
		return false
	}
	return !strings.HasSuffix(strings.TrimSuffix(base, filepath.Ext(base)), resultSuffix)
}
