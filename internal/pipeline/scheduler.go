package pipeline

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/lecture-flow/internal/models"
)

func (s *implScheduler) StartFileRun(ctx context.Context, lectureID, videoPath, title string) error {
	return s.start(ctx, lectureID, func(runCtx context.Context) {
		s.orchestrator.RunFile(runCtx, lectureID, videoPath, title)
	})
}

func (s *implScheduler) StartYoutubeRun(ctx context.Context, lectureID, url, title string) error {
	return s.start(ctx, lectureID, func(runCtx context.Context) {
		s.orchestrator.RunYoutube(runCtx, lectureID, url, title)
	})
}

func (s *implScheduler) start(ctx context.Context, lectureID string, run func(context.Context)) error {
	s.mu.Lock()
	if _, ok := s.running[lectureID]; ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: lecture %s is already running", models.ErrConflict, lectureID)
	}
	s.running[lectureID] = struct{}{}
	s.wg.Add(1)
	s.mu.Unlock()

	// the run outlives the request that started it
	runCtx := context.WithoutCancel(ctx)

	go func() {
		defer s.wg.Done()
		defer s.finish(lectureID)

		if s.sem != nil {
			if err := s.sem.acquire(s.ctx); err != nil {
				s.logger.Warn(runCtx, "scheduler: lecture %s not started: %v", lectureID, err)
				return
			}
			defer s.sem.release()
		}

		defer func() {
			if r := recover(); r != nil {
				s.logger.Error(runCtx, "scheduler: lecture %s panicked: %v", lectureID, r)
				s.orchestrator.Fail(runCtx, lectureID, fmt.Errorf("internal error: %v", r))
			}
		}()

		run(runCtx)
	}()

	return nil
}

func (s *implScheduler) finish(lectureID string) {
	s.mu.Lock()
	delete(s.running, lectureID)
	s.mu.Unlock()
}

func (s *implScheduler) InFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.running)
}

func (s *implScheduler) IsRunning(lectureID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.running[lectureID]
	return ok
}

func (s *implScheduler) Wait() {
	s.wg.Wait()
}
