package pipeline

import (
	"context"
	"fmt"
	"math"

	"github.com/nguyentantai21042004/lecture-flow/internal/models"
)

func (o *implOrchestrator) RunFile(ctx context.Context, lectureID, videoPath, title string) {
	o.logger.Info(ctx, "pipeline: starting lecture %s (%q) from %s", lectureID, title, videoPath)

	if err := o.process(ctx, lectureID, videoPath); err != nil {
		o.Fail(ctx, lectureID, err)
		return
	}
	o.logger.Info(ctx, "pipeline: lecture %s complete", lectureID)
}

func (o *implOrchestrator) RunYoutube(ctx context.Context, lectureID, url, title string) {
	videoPath, err := o.acquire(ctx, lectureID, url)
	if err != nil {
		o.Fail(ctx, lectureID, err)
		return
	}
	o.RunFile(ctx, lectureID, videoPath, title)
}

func (o *implOrchestrator) acquire(ctx context.Context, lectureID, url string) (string, error) {
	if err := o.advance(ctx, lectureID, models.StageUpdate(models.StageDownloading)); err != nil {
		return "", err
	}

	videoPath, err := o.processor.Download(ctx, lectureID, url)
	if err != nil {
		return "", err
	}

	if err := o.store.Update(ctx, lectureID, models.LectureUpdate{VideoPath: &videoPath}); err != nil {
		return "", fmt.Errorf("persist video path: %w", err)
	}
	return videoPath, nil
}

func (o *implOrchestrator) process(ctx context.Context, lectureID, videoPath string) error {
	if err := o.advance(ctx, lectureID, models.StageUpdate(models.StageExtractingAudio)); err != nil {
		return err
	}
	audioPath, err := o.processor.ExtractAudio(ctx, videoPath)
	if err != nil {
		return err
	}

	if err := o.advance(ctx, lectureID, models.StageUpdate(models.StageTranscribing)); err != nil {
		return err
	}
	raw, err := o.processor.Transcribe(ctx, audioPath)
	if err != nil {
		return err
	}

	transcript, err := o.generator.FormatTranscript(ctx, raw)
	if err != nil {
		return fmt.Errorf("format transcript: %w", err)
	}
	transcriptHTML, err := o.renderer.Render(transcript)
	if err != nil {
		return err
	}

	summarizing := models.StageUpdate(models.StageSummarizing)
	summarizing.Transcript = &transcript
	summarizing.TranscriptHTML = &transcriptHTML
	if err := o.advance(ctx, lectureID, summarizing); err != nil {
		return err
	}

	summary, err := o.generator.Summarize(ctx, transcript)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}
	summaryHTML, err := o.renderer.Render(summary)
	if err != nil {
		return err
	}

	quizzes, err := o.generator.GenerateQuiz(ctx, transcript)
	if err != nil {
		return err
	}

	frames, err := o.processor.ExtractFrames(ctx, videoPath, lectureID)
	if err != nil {
		return err
	}
	duration := int(math.Round(frames.DurationSeconds))

	final := models.StageUpdate(models.StageComplete)
	final.Summary = &summary
	final.SummaryHTML = &summaryHTML
	final.Quizzes = quizzes
	final.Slides = frames.Slides
	final.DurationSeconds = &duration
	if err := o.advance(ctx, lectureID, final); err != nil {
		return err
	}

	o.processor.Remove(ctx, audioPath)
	return nil
}

// advance persists u, which always carries a stage, and announces the transition
func (o *implOrchestrator) advance(ctx context.Context, lectureID string, u models.LectureUpdate) error {
	stage := *u.Stage
	if err := o.store.Update(ctx, lectureID, u); err != nil {
		return fmt.Errorf("persist stage %s: %w", stage, err)
	}
	o.logger.Info(ctx, "pipeline: lecture %s -> %s", lectureID, stage)
	o.publish(ctx, lectureID, stage, "")
	return nil
}

func (o *implOrchestrator) Fail(ctx context.Context, lectureID string, err error) {
	msg := err.Error()
	o.logger.Error(ctx, "pipeline: lecture %s failed: %s", lectureID, msg)

	if uerr := o.store.Update(ctx, lectureID, models.FailedUpdate(msg)); uerr != nil {
		o.logger.Error(ctx, "pipeline: persist failure of lecture %s: %v", lectureID, uerr)
		return
	}
	o.publish(ctx, lectureID, models.StageFailed, msg)
}

func (o *implOrchestrator) publish(ctx context.Context, lectureID string, stage models.Stage, errMsg string) {
	if err := o.events.PublishStageChanged(ctx, lectureID, stage, errMsg); err != nil {
		o.logger.Warn(ctx, "pipeline: publish %s event for lecture %s: %v", stage, lectureID, err)
	}
}
