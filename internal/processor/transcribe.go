package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/lecture-flow/internal/models"
)

// Transcribe uses whisper.cpp to convert audio to plain text.
// The intermediate .txt file is removed once its content has been read.
func (p *implProcessor) Transcribe(ctx context.Context, audioPath string) (string, error) {
	// whisper appends .txt to the output prefix
	outputPrefix := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))
	txtPath := outputPrefix + ".txt"

	p.logger.Info(ctx, "Starting transcription with %d threads: %s", p.cfg.Whisper.Threads, audioPath)

	// -m: model path (base model)
	// -l: force language
	// -otxt: plain text output
	args := []string{
		"-m", p.cfg.Whisper.ModelPath,
		"-f", audioPath,
		"-l", p.cfg.Whisper.Language,
		"-t", strconv.Itoa(p.cfg.Whisper.Threads),
		"-otxt",
		"--output-file", outputPrefix,
	}

	res, err := p.executor.Run(ctx, p.cfg.Whisper.BinaryPath, args...)
	if err != nil {
		return "", fmt.Errorf("%w: whisper could not be started: %v", models.ErrTranscription, err)
	}
	if !res.Success() {
		return "", fmt.Errorf("%w: whisper exited with code %d: %s",
			models.ErrTranscription, res.ExitCode, lastLines(res.Stderr, 10))
	}

	data, err := os.ReadFile(txtPath)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: whisper exited successfully but produced no output file %s",
			models.ErrTranscription, txtPath)
	}
	if err != nil {
		return "", fmt.Errorf("%w: read transcript: %v", models.ErrTranscription, err)
	}

	p.Remove(ctx, txtPath)

	text := strings.TrimSpace(string(data))
	p.logger.Info(ctx, "Transcription completed: %d characters", len(text))
	return text, nil
}
