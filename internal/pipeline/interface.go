package pipeline

import (
	"context"

	"github.com/nguyentantai21042004/lecture-flow/internal/models"
)

// Orchestrator runs one lecture through every stage. It is the error boundary of a run:
// failures are persisted on the record and never returned.
type Orchestrator interface {
	RunFile(ctx context.Context, lectureID, videoPath, title string)
	RunYoutube(ctx context.Context, lectureID, url, title string)
	// Fail records err as the terminal failure of the lecture
	Fail(ctx context.Context, lectureID string, err error)
}

// Scheduler starts runs in the background and tracks which lectures are in flight
type Scheduler interface {
	StartFileRun(ctx context.Context, lectureID, videoPath, title string) error
	StartYoutubeRun(ctx context.Context, lectureID, url, title string) error
	InFlight() int
	IsRunning(lectureID string) bool
	// Wait blocks until every started run has returned
	Wait()
}

// Service is the surface used by invokers (HTTP, inbox watcher)
type Service interface {
	SubmitFile(ctx context.Context, title, videoPath string) (string, error)
	SubmitYoutube(ctx context.Context, title, url string) (string, error)
	Progress(ctx context.Context, lectureID string) (models.Progress, error)
	Get(ctx context.Context, lectureID string) (*models.Lecture, error)
}

// Renderer converts generated text into display markup
type Renderer interface {
	Render(src string) (string, error)
}
