package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/lecture-flow/internal/logger"
	"github.com/nguyentantai21042004/lecture-flow/internal/models"
)

func TestSchedulerRunsInBackground(t *testing.T) {
	f := newFixture(90)
	f.proc.block = make(chan struct{})
	id := f.create(t, models.SourceFile)

	s := NewScheduler(context.Background(), f.orch, 0, logger.Nop())
	require.NoError(t, s.StartFileRun(context.Background(), id, "/uploads/intro.mp4", "Intro"))

	assert.True(t, s.IsRunning(id))
	assert.Equal(t, 1, s.InFlight())

	err := s.StartFileRun(context.Background(), id, "/uploads/intro.mp4", "Intro")
	require.ErrorIs(t, err, models.ErrConflict)

	close(f.proc.block)
	s.Wait()

	assert.False(t, s.IsRunning(id))
	assert.Equal(t, 0, s.InFlight())

	l, err := f.store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.StageComplete, l.ProcessingStage)
}

func TestSchedulerDetachesFromRequestContext(t *testing.T) {
	f := newFixture(90)
	id := f.create(t, models.SourceFile)

	reqCtx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewScheduler(context.Background(), f.orch, 0, logger.Nop())
	require.NoError(t, s.StartFileRun(reqCtx, id, "/uploads/intro.mp4", "Intro"))
	s.Wait()

	l, err := f.store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.StageComplete, l.ProcessingStage)
}

func TestSchedulerRecoversPanic(t *testing.T) {
	f := newFixture(90)
	f.proc.failAt = "panic"
	id := f.create(t, models.SourceFile)

	s := NewScheduler(context.Background(), f.orch, 0, logger.Nop())
	require.NoError(t, s.StartFileRun(context.Background(), id, "/uploads/intro.mp4", "Intro"))
	s.Wait()

	l, err := f.store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.StageFailed, l.ProcessingStage)
	assert.Contains(t, l.ProcessingError, "whisper exploded")
}

func TestSchedulerLimitsConcurrency(t *testing.T) {
	f := newFixture(90)
	f.proc.block = make(chan struct{})
	first := f.create(t, models.SourceFile)
	second := f.create(t, models.SourceFile)

	s := NewScheduler(context.Background(), f.orch, 1, logger.Nop())
	require.NoError(t, s.StartFileRun(context.Background(), first, "/uploads/a.mp4", "A"))

	require.Eventually(t, func() bool {
		return len(f.store.stagesOf(first)) == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, s.StartFileRun(context.Background(), second, "/uploads/b.mp4", "B"))
	assert.Equal(t, 2, s.InFlight())

	// the second run waits for a slot and keeps its initial stage
	time.Sleep(20 * time.Millisecond)
	l, err := f.store.Get(context.Background(), second)
	require.NoError(t, err)
	assert.Equal(t, models.StageUploaded, l.ProcessingStage)

	close(f.proc.block)
	s.Wait()

	for _, id := range []string{first, second} {
		l, err := f.store.Get(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, models.StageComplete, l.ProcessingStage)
	}
}

func TestSchedulerCancelledWhileQueued(t *testing.T) {
	f := newFixture(90)
	f.proc.block = make(chan struct{})
	first := f.create(t, models.SourceFile)
	second := f.create(t, models.SourceFile)

	ctx, cancel := context.WithCancel(context.Background())
	s := NewScheduler(ctx, f.orch, 1, logger.Nop())
	require.NoError(t, s.StartFileRun(context.Background(), first, "/uploads/a.mp4", "A"))
	require.Eventually(t, func() bool {
		return len(f.store.stagesOf(first)) == 1
	}, time.Second, 5*time.Millisecond)
	require.NoError(t, s.StartFileRun(context.Background(), second, "/uploads/b.mp4", "B"))

	cancel()
	require.Eventually(t, func() bool { return !s.IsRunning(second) }, time.Second, 5*time.Millisecond)

	close(f.proc.block)
	s.Wait()

	assert.Empty(t, f.store.stagesOf(second))
}
