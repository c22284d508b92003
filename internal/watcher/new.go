package watcher

import (
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/lecture-flow/internal/logger"
)

const defaultSettle = 500 * time.Millisecond

// Options configures a Watcher. Settle is how long a file size must stay unchanged before the
// file is considered fully written.
type Options struct {
	InboxDir   string
	UploadsDir string
	Settle     time.Duration
}

// New creates a Watcher over opts.InboxDir. Accepted videos are moved to opts.UploadsDir.
func New(opts Options, submit SubmitFunc, log logger.Logger) (Watcher, error) {
	if err := os.MkdirAll(opts.UploadsDir, 0755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(opts.InboxDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if opts.Settle <= 0 {
		opts.Settle = defaultSettle
	}

	return &implWatcher{
		opts:    opts,
		submit:  submit,
		logger:  log,
		watcher: watcher,
		pending: make(map[string]struct{}),
		now:     time.Now,
	}, nil
}
