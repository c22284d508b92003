package pipeline

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/nguyentantai21042004/lecture-flow/internal/models"
)

func (s *implService) SubmitFile(ctx context.Context, title, videoPath string) (string, error) {
	if strings.TrimSpace(videoPath) == "" {
		return "", fmt.Errorf("%w: video path is required", models.ErrInvalidArgument)
	}
	title = cleanTitle(title)
	if title == "" {
		title = cleanTitle(strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath)))
	}

	id, err := s.store.Create(ctx, &models.Lecture{
		Title:          title,
		SourceKind:     models.SourceFile,
		SourceLocation: videoPath,
		VideoPath:      videoPath,
	})
	if err != nil {
		return "", fmt.Errorf("create lecture: %w", err)
	}

	if err := s.scheduler.StartFileRun(ctx, id, videoPath, title); err != nil {
		return "", err
	}
	s.logger.Info(ctx, "service: accepted file lecture %s", id)
	return id, nil
}

func (s *implService) SubmitYoutube(ctx context.Context, title, rawURL string) (string, error) {
	if err := validateYoutubeURL(rawURL); err != nil {
		return "", err
	}
	title = cleanTitle(title)
	if title == "" {
		title = rawURL
	}

	id, err := s.store.Create(ctx, &models.Lecture{
		Title:          title,
		SourceKind:     models.SourceYoutube,
		SourceLocation: rawURL,
	})
	if err != nil {
		return "", fmt.Errorf("create lecture: %w", err)
	}

	if err := s.scheduler.StartYoutubeRun(ctx, id, rawURL, title); err != nil {
		return "", err
	}
	s.logger.Info(ctx, "service: accepted youtube lecture %s", id)
	return id, nil
}

func (s *implService) Progress(ctx context.Context, lectureID string) (models.Progress, error) {
	l, err := s.store.Get(ctx, lectureID)
	if err != nil {
		return models.Progress{}, err
	}
	return models.ProgressOf(l), nil
}

func (s *implService) Get(ctx context.Context, lectureID string) (*models.Lecture, error) {
	return s.store.Get(ctx, lectureID)
}

// cleanTitle trims and NFC-normalizes a title
func cleanTitle(title string) string {
	return norm.NFC.String(strings.TrimSpace(title))
}

func validateYoutubeURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: not an http(s) url: %q", models.ErrInvalidArgument, raw)
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch {
	case host == "youtu.be", host == "youtube.com", strings.HasSuffix(host, ".youtube.com"):
		return nil
	}
	return fmt.Errorf("%w: not a youtube url: %q", models.ErrInvalidArgument, raw)
}
