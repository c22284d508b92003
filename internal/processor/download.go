package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nguyentantai21042004/lecture-flow/internal/models"
)

// Download fetches a YouTube video with yt-dlp into <downloads>/<lectureID>.mp4
func (p *implProcessor) Download(ctx context.Context, lectureID, url string) (string, error) {
	if err := os.MkdirAll(p.cfg.Paths.Downloads, 0755); err != nil {
		return "", fmt.Errorf("%w: create downloads dir: %v", models.ErrAcquisition, err)
	}
	outputPath := filepath.Join(p.cfg.Paths.Downloads, lectureID+".mp4")

	p.logger.Info(ctx, "Downloading video for lecture %s: %s", lectureID, url)

	args := []string{
		"-f", p.cfg.YtDlp.Format,
		"--no-playlist",
		"--merge-output-format", "mp4",
		"-o", outputPath,
		url,
	}

	res, err := p.executor.Run(ctx, p.cfg.YtDlp.BinaryPath, args...)
	if err != nil {
		return "", fmt.Errorf("%w: yt-dlp could not be started: %v", models.ErrAcquisition, err)
	}
	if !res.Success() {
		return "", fmt.Errorf("%w: yt-dlp exited with code %d: %s",
			models.ErrAcquisition, res.ExitCode, lastLines(res.Stderr, 5))
	}

	p.logger.Info(ctx, "Video downloaded: %s", outputPath)
	return outputPath, nil
}
