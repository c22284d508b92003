package processor

import (
	"context"
	"fmt"
	"math"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/lecture-flow/internal/models"
)

const (
	// FramesURLPrefix is the public path under which frame images are served
	FramesURLPrefix = "/frames"

	secondsPerFrame = 30
	minFrames       = 4
	maxFrames       = 12
	frameSize       = "1280:720"
	framePattern    = "frame_%03d.jpg"
)

// FrameCount returns roughly one frame per 30 seconds, clamped to [4, 12]
func FrameCount(durationSeconds float64) int {
	n := int(math.Floor(durationSeconds / secondsPerFrame))
	if n < minFrames {
		return minFrames
	}
	if n > maxFrames {
		return maxFrames
	}
	return n
}

// FrameTimestamp labels frame i of count at an even subdivision of the duration,
// not at the instant the frame was actually sampled.
func FrameTimestamp(i, count int, durationSeconds float64) int {
	return int(math.Floor(float64(i+1) * (durationSeconds / float64(count))))
}

// ExtractFrames probes the video duration, then samples FrameCount frames at 1280x720
// into <frames>/<lectureID>/.
func (p *implProcessor) ExtractFrames(ctx context.Context, videoPath, lectureID string) (Frames, error) {
	dir := filepath.Join(p.cfg.Paths.Frames, lectureID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Frames{}, fmt.Errorf("%w: create frames dir: %v", models.ErrMedia, err)
	}

	duration, err := p.probeDuration(ctx, videoPath)
	if err != nil {
		return Frames{}, err
	}

	count := FrameCount(duration)
	p.logger.Info(ctx, "Extracting %d frames from %s (duration %.1fs)", count, videoPath, duration)

	rate := fmt.Sprintf("%d/%s", count, strconv.FormatFloat(math.Max(duration, 1), 'f', 3, 64))
	args := []string{
		"-y",
		"-i", videoPath,
		"-vf", fmt.Sprintf("fps=%s,scale=%s", rate, frameSize),
		"-frames:v", strconv.Itoa(count),
		filepath.Join(dir, framePattern),
	}

	res, err := p.executor.Run(ctx, p.cfg.FFmpeg.BinaryPath, args...)
	if err != nil {
		return Frames{}, fmt.Errorf("%w: ffmpeg could not be started: %v", models.ErrMedia, err)
	}
	if !res.Success() {
		return Frames{}, fmt.Errorf("%w: ffmpeg frame extraction exited with code %d: %s",
			models.ErrMedia, res.ExitCode, lastLines(res.Stderr, 5))
	}

	names, err := listFrames(dir)
	if err != nil {
		return Frames{}, fmt.Errorf("%w: list frames: %v", models.ErrMedia, err)
	}

	slides := make([]models.Slide, 0, len(names))
	for i, name := range names {
		slides = append(slides, models.Slide{
			Timestamp: FrameTimestamp(i, count, duration),
			Image:     path.Join(FramesURLPrefix, lectureID, name),
		})
	}

	p.logger.Info(ctx, "Extracted %d frames into %s", len(slides), dir)
	return Frames{DurationSeconds: duration, Slides: slides}, nil
}

func (p *implProcessor) probeDuration(ctx context.Context, videoPath string) (float64, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "csv=p=0",
		videoPath,
	}

	res, err := p.executor.Run(ctx, p.cfg.FFmpeg.ProbePath, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: ffprobe could not be started: %v", models.ErrMedia, err)
	}
	if !res.Success() {
		return 0, fmt.Errorf("%w: ffprobe exited with code %d: %s",
			models.ErrMedia, res.ExitCode, lastLines(res.Stderr, 5))
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(res.Stdout), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: parse ffprobe duration %q: %v", models.ErrMedia, strings.TrimSpace(res.Stdout), err)
	}
	return duration, nil
}

// listFrames returns the image files in dir sorted lexicographically
func listFrames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png":
			names = append(names, e.Name())
		}
	}

	sort.Strings(names)
	return names, nil
}
