package processor

import (
	"context"

	"github.com/nguyentantai21042004/lecture-flow/internal/models"
)

// Frames is the result of sampling a video: its probed duration and the slides produced
type Frames struct {
	DurationSeconds float64
	Slides          []models.Slide
}

// Processor defines the media and transcription adapters used by the pipeline.
// Each operation wraps one or two external tool invocations.
type Processor interface {
	// Download fetches a remote video to a path derived from lectureID
	Download(ctx context.Context, lectureID, url string) (string, error)
	// ExtractAudio writes a 16kHz mono PCM WAV next to the video and returns its path
	ExtractAudio(ctx context.Context, videoPath string) (string, error)
	// Transcribe returns the trimmed transcript of an audio file
	Transcribe(ctx context.Context, audioPath string) (string, error)
	// ExtractFrames samples evenly spaced frames into a per-lecture directory
	ExtractFrames(ctx context.Context, videoPath, lectureID string) (Frames, error)
	// Remove deletes a working file, logging instead of failing
	Remove(ctx context.Context, path string)
}
