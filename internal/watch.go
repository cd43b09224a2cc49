package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	tt "github.com/gnolang/fol/internal/types"
	"go.uber.org/zap"
)

// FormulaFileExt is the extension of files holding one formula per line.
const FormulaFileExt = ".fol"

// ReportFunc receives the results of a re-run triggered by a file change.
type ReportFunc func(filename string, results []tt.Result)

// Watcher re-runs an Engine over formula files as they are written.
type Watcher struct {
	engine   *Engine
	logger   *zap.Logger
	watcher  *fsnotify.Watcher
	dirs     []string
	report   ReportFunc
	debounce time.Duration

	mu         sync.Mutex
	isWatching bool
	done       chan struct{}
}

func NewWatcher(engine *Engine, logger *zap.Logger, dirs []string, report ReportFunc) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("error creating watcher: %w", err)
	}
	return &Watcher{
		engine:   engine,
		logger:   logger,
		watcher:  fw,
		dirs:     dirs,
		report:   report,
		debounce: 100 * time.Millisecond,
	}, nil
}

// Start registers every directory below the watched roots and begins
// handling events until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isWatching {
		return errors.New("already watching")
	}

	for _, dir := range w.dirs {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return w.watcher.Add(path)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}

	w.isWatching = true
	w.done = make(chan struct{})
	go w.watchLoop(ctx, w.done)
	return nil
}

// Stop ends watching and releases the underlying watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.isWatching {
		w.logger.Debug("not watching")
		return w.watcher.Close()
	}

	w.isWatching = false
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) watchLoop(ctx context.Context, done <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFileEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleFileEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if !strings.HasSuffix(event.Name, FormulaFileExt) {
		return
	}

	// let bursts of writes settle into one run
	time.Sleep(w.debounce)

	results, err := w.engine.Run(event.Name)
	if err != nil {
		w.logger.Error("error processing file", zap.String("file", event.Name), zap.Error(err))
		return
	}
	w.logger.Info("processed file",
		zap.String("file", event.Name),
		zap.Int("formulas", len(results)),
		zap.Int("issues", len(tt.Issues(results))))
	if w.report != nil {
		w.report(event.Name, results)
	}
}
