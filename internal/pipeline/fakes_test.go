package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nguyentantai21042004/lecture-flow/internal/models"
	"github.com/nguyentantai21042004/lecture-flow/internal/processor"
	"github.com/nguyentantai21042004/lecture-flow/internal/store"
)

// recordingStore remembers every persisted stage in order
type recordingStore struct {
	*store.Memory

	mu     sync.Mutex
	stages map[string][]models.Stage
}

func newRecordingStore() *recordingStore {
	return &recordingStore{Memory: store.NewMemory(), stages: make(map[string][]models.Stage)}
}

func (s *recordingStore) Update(ctx context.Context, id string, u models.LectureUpdate) error {
	if err := s.Memory.Update(ctx, id, u); err != nil {
		return err
	}
	if u.Stage != nil {
		s.mu.Lock()
		s.stages[id] = append(s.stages[id], *u.Stage)
		s.mu.Unlock()
	}
	return nil
}

func (s *recordingStore) stagesOf(id string) []models.Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Stage(nil), s.stages[id]...)
}

type fakeProcessor struct {
	mu         sync.Mutex
	duration   float64
	failAt     string
	removed    []string
	downloaded []string
	block      chan struct{}
}

func (p *fakeProcessor) fail(op string) error {
	switch op {
	case "download":
		return fmt.Errorf("%w: yt-dlp exited with code 1", models.ErrAcquisition)
	case "audio", "frames":
		return fmt.Errorf("%w: ffmpeg exited with code 1", models.ErrMedia)
	case "transcribe":
		return fmt.Errorf("%w: whisper exited with code 1", models.ErrTranscription)
	}
	return errors.New(op)
}

func (p *fakeProcessor) Download(_ context.Context, lectureID, url string) (string, error) {
	if p.failAt == "download" {
		return "", p.fail("download")
	}
	p.mu.Lock()
	p.downloaded = append(p.downloaded, url)
	p.mu.Unlock()
	return "/downloads/" + lectureID + ".mp4", nil
}

func (p *fakeProcessor) ExtractAudio(_ context.Context, videoPath string) (string, error) {
	if p.block != nil {
		<-p.block
	}
	if p.failAt == "audio" {
		return "", p.fail("audio")
	}
	return videoPath + ".wav", nil
}

func (p *fakeProcessor) Transcribe(context.Context, string) (string, error) {
	if p.failAt == "transcribe" {
		return "", p.fail("transcribe")
	}
	if p.failAt == "panic" {
		panic("whisper exploded")
	}
	return "hello world this is the lecture", nil
}

func (p *fakeProcessor) ExtractFrames(_ context.Context, _ string, lectureID string) (processor.Frames, error) {
	if p.failAt == "frames" {
		return processor.Frames{}, p.fail("frames")
	}
	n := processor.FrameCount(p.duration)
	slides := make([]models.Slide, n)
	for i := range slides {
		slides[i] = models.Slide{
			Timestamp: processor.FrameTimestamp(i, n, p.duration),
			Image:     fmt.Sprintf("/frames/%s/frame_%03d.jpg", lectureID, i+1),
		}
	}
	return processor.Frames{DurationSeconds: p.duration, Slides: slides}, nil
}

func (p *fakeProcessor) Remove(_ context.Context, path string) {
	p.mu.Lock()
	p.removed = append(p.removed, path)
	p.mu.Unlock()
}

type fakeGenerator struct {
	quizErr error
}

func (g *fakeGenerator) FormatTranscript(_ context.Context, t string) (string, error) {
	return "# Transcript\n\n" + t, nil
}

func (g *fakeGenerator) Summarize(context.Context, string) (string, error) {
	return "## Summary\n\n- **point** one", nil
}

func (g *fakeGenerator) GenerateQuiz(context.Context, string) ([]models.QuizItem, error) {
	if g.quizErr != nil {
		return nil, g.quizErr
	}
	items := make([]models.QuizItem, 5)
	for i := range items {
		items[i] = models.QuizItem{
			Question:      fmt.Sprintf("q%d", i),
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: i % 4,
		}
	}
	return items, nil
}

type fakeRenderer struct{}

func (fakeRenderer) Render(src string) (string, error) {
	return "<p>" + src + "</p>", nil
}

type fakePublisher struct {
	mu     sync.Mutex
	stages []models.Stage
	err    error
}

func (p *fakePublisher) PublishStageChanged(_ context.Context, _ string, stage models.Stage, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stages = append(p.stages, stage)
	return p.err
}

func (p *fakePublisher) Close() error { return nil }
