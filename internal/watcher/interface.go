package watcher

import "context"

// Watcher monitors the inbox directory for dropped lecture videos
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// SubmitFunc receives each accepted video after it has been moved out of the inbox
type SubmitFunc func(ctx context.Context, title, videoPath string) error
