package store

import (
	"context"
	"sync"
	"time"

	"github.com/nguyentantai21042004/lecture-flow/internal/models"
)

type Memory struct {
	mu   sync.RWMutex
	data map[string]*models.Lecture
}

func NewMemory() *Memory {
	return &Memory{
		data: make(map[string]*models.Lecture),
	}
}

func (m *Memory) Create(ctx context.Context, l *models.Lecture) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := prepare(l, time.Now().UTC()); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.data[l.ID]; exists {
		return "", models.ErrConflict
	}
	// stored copy so callers cannot mutate it
	m.data[l.ID] = l.Clone()

	return l.ID, nil
}

func (m *Memory) Update(ctx context.Context, id string, u models.LectureUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.data[id]
	if !ok {
		return models.ErrNotFound
	}
	u.Apply(l)
	return nil
}

func (m *Memory) Get(ctx context.Context, id string) (*models.Lecture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.data[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return l.Clone(), nil
}
