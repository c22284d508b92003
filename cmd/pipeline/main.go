package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nguyentantai21042004/lecture-flow/internal/config"
	"github.com/nguyentantai21042004/lecture-flow/internal/document"
	"github.com/nguyentantai21042004/lecture-flow/internal/events"
	"github.com/nguyentantai21042004/lecture-flow/internal/generator"
	"github.com/nguyentantai21042004/lecture-flow/internal/httpapi"
	"github.com/nguyentantai21042004/lecture-flow/internal/llm"
	"github.com/nguyentantai21042004/lecture-flow/internal/logger"
	"github.com/nguyentantai21042004/lecture-flow/internal/pipeline"
	"github.com/nguyentantai21042004/lecture-flow/internal/processor"
	"github.com/nguyentantai21042004/lecture-flow/internal/render"
	"github.com/nguyentantai21042004/lecture-flow/internal/store"
	"github.com/nguyentantai21042004/lecture-flow/internal/watcher"
	"github.com/nguyentantai21042004/lecture-flow/pkg/executor"
)

func main() {
	ctx := context.Background()

	// .env is optional
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithFormat(cfg.Logging.Level, cfg.Logging.Format, os.Stdout)
	log.Info(ctx, "lecture pipeline starting on %s/%s (%d cpus)", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
	log.Info(ctx, "store=%s llm=%s/%s max_concurrent=%d", cfg.Store.Driver, cfg.LLM.Provider, cfg.LLM.Model, cfg.Performance.MaxConcurrent)

	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Error(ctx, "Failed to open %s store: %v", cfg.Store.Driver, err)
		os.Exit(1)
	}
	defer closeStore.Close()

	pub := events.NewNoop()
	if len(cfg.Kafka.Brokers) > 0 {
		pub, err = events.NewKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Error(ctx, "Failed to create kafka publisher: %v", err)
			os.Exit(1)
		}
		log.Info(ctx, "publishing stage events to %s", cfg.Kafka.Topic)
	}
	defer pub.Close()

	proc := processor.New(cfg, executor.New(), log)
	gen := generator.New(llm.New(cfg.LLM, log), log)
	orch := pipeline.NewOrchestrator(st, proc, gen, render.New(), pub, log)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sched := pipeline.NewScheduler(ctx, orch, cfg.Performance.MaxConcurrent, log)
	svc := pipeline.NewService(st, sched, log)

	w, err := watcher.New(watcher.Options{
		InboxDir:   cfg.Paths.Inbox,
		UploadsDir: cfg.Paths.Uploads,
	}, func(ctx context.Context, title, videoPath string) error {
		_, err := svc.SubmitFile(ctx, title, videoPath)
		return err
	}, log)
	if err != nil {
		log.Error(ctx, "Failed to create watcher: %v", err)
		os.Exit(1)
	}
	defer w.Stop()

	api := httpapi.New(svc, document.New(log), httpapi.Options{
		UploadsDir:     cfg.Paths.Uploads,
		FramesDir:      cfg.Paths.Frames,
		OutputDir:      cfg.Paths.Output,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	}, log)
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 2)
	go func() {
		if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errChan <- fmt.Errorf("watcher: %w", err)
		}
	}()
	go func() {
		log.Info(ctx, "http listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http: %w", err)
		}
	}()

	log.Info(ctx, "inbox: %s, frames: %s, output: %s", cfg.Paths.Inbox, cfg.Paths.Frames, cfg.Paths.Output)

	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "%v", err)
	}

	log.Info(ctx, "Shutting down gracefully...")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 15*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn(ctx, "http shutdown: %v", err)
	}
	cancel()

	if n := sched.InFlight(); n > 0 {
		log.Info(ctx, "waiting for %d running lectures", n)
	}
	sched.Wait()

	log.Info(ctx, "Lecture pipeline stopped")
}

// openStore builds the configured lecture store and the resource to release on shutdown
func openStore(ctx context.Context, cfg *config.Config) (store.Store, io.Closer, error) {
	switch cfg.Store.Driver {
	case "postgres":
		db, err := store.Connect(ctx, cfg.Store.DSN)
		if err != nil {
			return nil, nil, err
		}
		pg := store.NewPostgres(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return pg, db, nil

	case "redis":
		client, err := store.NewRedisClient(ctx, cfg.Store.RedisAddr, cfg.Store.RedisPassword, cfg.Store.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return store.NewRedis(client), client, nil

	default:
		return store.NewMemory(), nopCloser{}, nil
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Inbox,
		cfg.Paths.Uploads,
		cfg.Paths.Downloads,
		cfg.Paths.Frames,
		cfg.Paths.Output,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
