package events

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/lecture-flow/internal/models"
)

// StageChanged is published every time a lecture moves to a new processing stage
type StageChanged struct {
	EventID    string       `json:"eventId"`
	LectureID  string       `json:"lectureId"`
	Stage      models.Stage `json:"stage"`
	Error      string       `json:"error,omitempty"`
	OccurredAt time.Time    `json:"occurredAt"`
}

// Publisher emits stage events. Publishing is best-effort: callers log failures and carry on.
type Publisher interface {
	PublishStageChanged(ctx context.Context, lectureID string, stage models.Stage, errMsg string) error
	Close() error
}
