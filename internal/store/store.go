package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/lecture-flow/internal/models"
)

// Store is the durable lecture record store.
// Update has merge semantics and no optimistic concurrency check: last writer wins.
type Store interface {
	Create(ctx context.Context, l *models.Lecture) (string, error)
	Update(ctx context.Context, id string, u models.LectureUpdate) error
	Get(ctx context.Context, id string) (*models.Lecture, error)
}

// prepare fills the fields every new record must carry
func prepare(l *models.Lecture, now time.Time) error {
	if l == nil {
		return models.ErrInvalidArgument
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now
	}
	if l.ProcessingStage == "" {
		l.ProcessingStage = models.StageUploaded
	}
	if !l.ProcessingStage.Valid() {
		return models.ErrInvalidArgument
	}
	return nil
}
