package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/lecture-flow/internal/logger"
)

var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".avi":  true,
	".mkv":  true,
	".webm": true,
	".m4v":  true,
	".flv":  true,
}

type implWatcher struct {
	opts    Options
	submit  SubmitFunc
	logger  logger.Logger
	watcher *fsnotify.Watcher
	now     func() time.Time

	mu      sync.Mutex
	pending map[string]struct{}
	wg      sync.WaitGroup
}

// Start picks up videos already in the inbox, then handles new ones until ctx is done
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "watcher: monitoring %s", w.opts.InboxDir)

	entries, err := os.ReadDir(w.opts.InboxDir)
	if err != nil {
		return fmt.Errorf("read inbox: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			w.dispatch(ctx, filepath.Join(w.opts.InboxDir, e.Name()))
		}
	}

	for {
		select {
		case <-ctx.Done():
			w.wg.Wait()
			w.logger.Info(ctx, "watcher: stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				w.wg.Wait()
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Has(fsnotify.Create) {
				w.dispatch(ctx, event.Name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				w.wg.Wait()
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "watcher: %v", err)
		}
	}
}

func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

func (w *implWatcher) dispatch(ctx context.Context, path string) {
	if !isVideoFile(path) {
		w.logger.Debug(ctx, "watcher: ignoring %s", path)
		return
	}

	w.mu.Lock()
	if _, ok := w.pending[path]; ok {
		w.mu.Unlock()
		return
	}
	w.pending[path] = struct{}{}
	w.mu.Unlock()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			delete(w.pending, path)
			w.mu.Unlock()
		}()

		if err := w.accept(ctx, path); err != nil {
			w.logger.Error(ctx, "watcher: %s: %v", path, err)
		}
	}()
}

// accept waits for the file to settle, moves it to the uploads dir and submits it
func (w *implWatcher) accept(ctx context.Context, path string) error {
	if err := w.waitSettled(ctx, path); err != nil {
		return err
	}

	base := filepath.Base(path)
	title := strings.TrimSuffix(base, filepath.Ext(base))
	dest := filepath.Join(w.opts.UploadsDir, fmt.Sprintf("%d_%s", w.now().UnixNano(), base))

	if err := os.Rename(path, dest); err != nil {
		return fmt.Errorf("move to uploads: %w", err)
	}
	w.logger.Info(ctx, "watcher: new video %s -> %s", base, dest)

	return w.submit(ctx, title, dest)
}

func (w *implWatcher) waitSettled(ctx context.Context, path string) error {
	var last int64 = -1
	for {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("stat: %w", err)
		}
		if info.Size() == last && info.Size() > 0 {
			return nil
		}
		last = info.Size()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.opts.Settle):
		}
	}
}

func isVideoFile(path string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(path))]
}
