package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/lecture-flow/internal/models"
)

// ExtractAudio extracts audio from video file and converts to 16kHz mono WAV.
// The WAV is a sibling of the video with the same basename.
func (p *implProcessor) ExtractAudio(ctx context.Context, videoPath string) (string, error) {
	audioPath := strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".wav"

	p.logger.Info(ctx, "Extracting audio: %s", videoPath)

	// -vn: no video
	// -ar 16000 -ac 1 -c:a pcm_s16le: 16kHz mono 16-bit PCM, what whisper expects
	args := []string{
		"-y",
		"-i", videoPath,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		audioPath,
	}

	res, err := p.executor.Run(ctx, p.cfg.FFmpeg.BinaryPath, args...)
	if err != nil {
		return "", fmt.Errorf("%w: ffmpeg could not be started: %v", models.ErrMedia, err)
	}
	if !res.Success() {
		return "", fmt.Errorf("%w: ffmpeg audio extraction exited with code %d: %s",
			models.ErrMedia, res.ExitCode, lastLines(res.Stderr, 5))
	}

	p.logger.Info(ctx, "Audio extracted successfully: %s", audioPath)
	return audioPath, nil
}
