package pipeline

import (
	"context"
	"sync"

	"github.com/nguyentantai21042004/lecture-flow/internal/events"
	"github.com/nguyentantai21042004/lecture-flow/internal/generator"
	"github.com/nguyentantai21042004/lecture-flow/internal/logger"
	"github.com/nguyentantai21042004/lecture-flow/internal/processor"
	"github.com/nguyentantai21042004/lecture-flow/internal/store"
)

type implOrchestrator struct {
	store     store.Store
	processor processor.Processor
	generator generator.Generator
	renderer  Renderer
	events    events.Publisher
	logger    logger.Logger
}

// NewOrchestrator wires the stage adapters into a run state machine
func NewOrchestrator(
	st store.Store,
	proc processor.Processor,
	gen generator.Generator,
	r Renderer,
	pub events.Publisher,
	log logger.Logger,
) Orchestrator {
	if pub == nil {
		pub = events.NewNoop()
	}
	return &implOrchestrator{
		store:     st,
		processor: proc,
		generator: gen,
		renderer:  r,
		events:    pub,
		logger:    log,
	}
}

type implScheduler struct {
	ctx          context.Context
	orchestrator Orchestrator
	sem          *semaphore
	logger       logger.Logger

	mu      sync.Mutex
	running map[string]struct{}
	wg      sync.WaitGroup
}

// NewScheduler creates a Scheduler. maxConcurrent <= 0 means no limit.
// Cancelling ctx releases runs still waiting for a slot; started runs are not cancelled.
func NewScheduler(ctx context.Context, orch Orchestrator, maxConcurrent int, log logger.Logger) Scheduler {
	s := &implScheduler{
		ctx:          ctx,
		orchestrator: orch,
		logger:       log,
		running:      make(map[string]struct{}),
	}
	if maxConcurrent > 0 {
		s.sem = newSemaphore(maxConcurrent)
	}
	return s
}

type implService struct {
	store     store.Store
	scheduler Scheduler
	logger    logger.Logger
}

func NewService(st store.Store, sched Scheduler, log logger.Logger) Service {
	return &implService{
		store:     st,
		scheduler: sched,
		logger:    log,
	}
}
