package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/lecture-flow/internal/config"
	"github.com/nguyentantai21042004/lecture-flow/internal/logger"
	"github.com/nguyentantai21042004/lecture-flow/internal/models"
	"github.com/nguyentantai21042004/lecture-flow/pkg/executor"
)

type call struct {
	name string
	args []string
}

type fakeExecutor struct {
	calls []call
	fn    func(name string, args []string) (executor.Result, error)
}

func (f *fakeExecutor) Run(_ context.Context, name string, args ...string) (executor.Result, error) {
	f.calls = append(f.calls, call{name: name, args: args})
	if f.fn == nil {
		return executor.Result{}, nil
	}
	return f.fn(name, args)
}

func argAfter(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func newTestProcessor(t *testing.T, fe *fakeExecutor) (*implProcessor, *config.Config) {
	t.Helper()
	root := t.TempDir()
	cfg := &config.Config{
		Whisper: config.WhisperConfig{ModelPath: "models/ggml-base.en.bin", BinaryPath: "whisper-cli"},
		Paths: config.PathsConfig{
			Downloads: filepath.Join(root, "downloads"),
			Frames:    filepath.Join(root, "frames"),
		},
	}
	require.NoError(t, cfg.Validate())
	return New(cfg, fe, logger.Nop()).(*implProcessor), cfg
}

func TestExtractAudio(t *testing.T) {
	fe := &fakeExecutor{}
	p, _ := newTestProcessor(t, fe)

	out, err := p.ExtractAudio(context.Background(), "/data/uploads/lecture.mp4")
	require.NoError(t, err)
	assert.Equal(t, "/data/uploads/lecture.wav", out)

	require.Len(t, fe.calls, 1)
	c := fe.calls[0]
	assert.Equal(t, "ffmpeg", c.name)
	assert.Equal(t, "/data/uploads/lecture.mp4", argAfter(c.args, "-i"))
	assert.Equal(t, "16000", argAfter(c.args, "-ar"))
	assert.Equal(t, "1", argAfter(c.args, "-ac"))
	assert.Equal(t, "pcm_s16le", argAfter(c.args, "-c:a"))
	assert.Equal(t, "/data/uploads/lecture.wav", c.args[len(c.args)-1])
}

func TestExtractAudioFailures(t *testing.T) {
	tests := []struct {
		name    string
		res     executor.Result
		err     error
		wantMsg string
	}{
		{"non-zero exit", executor.Result{ExitCode: 1, Stderr: "Invalid data found when processing input"}, nil, "exited with code 1"},
		{"not installed", executor.Result{}, errors.New("executable file not found in $PATH"), "could not be started"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe := &fakeExecutor{fn: func(string, []string) (executor.Result, error) { return tt.res, tt.err }}
			p, _ := newTestProcessor(t, fe)

			_, err := p.ExtractAudio(context.Background(), "/v.mp4")
			require.ErrorIs(t, err, models.ErrMedia)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestDownload(t *testing.T) {
	fe := &fakeExecutor{}
	p, cfg := newTestProcessor(t, fe)

	out, err := p.Download(context.Background(), "abc", "https://youtu.be/xyz")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.Paths.Downloads, "abc.mp4"), out)

	require.Len(t, fe.calls, 1)
	assert.Equal(t, "yt-dlp", fe.calls[0].name)
	assert.Equal(t, out, argAfter(fe.calls[0].args, "-o"))
	assert.Equal(t, "https://youtu.be/xyz", fe.calls[0].args[len(fe.calls[0].args)-1])
}

func TestDownloadFailures(t *testing.T) {
	tests := []struct {
		name    string
		res     executor.Result
		err     error
		wantMsg string
	}{
		{"exit code reported", executor.Result{ExitCode: 2, Stderr: "ERROR: Video unavailable"}, nil, "exited with code 2"},
		{"start failure reported", executor.Result{}, errors.New("exec: \"yt-dlp\": executable file not found"), "executable file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe := &fakeExecutor{fn: func(string, []string) (executor.Result, error) { return tt.res, tt.err }}
			p, _ := newTestProcessor(t, fe)

			_, err := p.Download(context.Background(), "abc", "https://youtu.be/xyz")
			require.ErrorIs(t, err, models.ErrAcquisition)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestTranscribe(t *testing.T) {
	dir := t.TempDir()
	audio := filepath.Join(dir, "lecture.wav")

	fe := &fakeExecutor{fn: func(name string, args []string) (executor.Result, error) {
		prefix := argAfter(args, "--output-file")
		return executor.Result{}, os.WriteFile(prefix+".txt", []byte("  Hello world.\n\n"), 0644)
	}}
	p, _ := newTestProcessor(t, fe)

	text, err := p.Transcribe(context.Background(), audio)
	require.NoError(t, err)
	assert.Equal(t, "Hello world.", text)

	c := fe.calls[0]
	assert.Equal(t, "whisper-cli", c.name)
	assert.Equal(t, "en", argAfter(c.args, "-l"))
	assert.Equal(t, "models/ggml-base.en.bin", argAfter(c.args, "-m"))
	assert.Contains(t, c.args, "-otxt")

	_, err = os.Stat(filepath.Join(dir, "lecture.txt"))
	assert.True(t, os.IsNotExist(err), "intermediate text file is removed")
}

func TestTranscribeFailures(t *testing.T) {
	tests := []struct {
		name    string
		res     executor.Result
		err     error
		wantMsg string
	}{
		{"non-zero exit includes diagnostics", executor.Result{ExitCode: 1, Stderr: "failed to load model"}, nil, "failed to load model"},
		{"zero exit without output file", executor.Result{}, nil, "produced no output file"},
		{"cannot start", executor.Result{}, errors.New("permission denied"), "could not be started"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe := &fakeExecutor{fn: func(string, []string) (executor.Result, error) { return tt.res, tt.err }}
			p, _ := newTestProcessor(t, fe)

			_, err := p.Transcribe(context.Background(), filepath.Join(t.TempDir(), "a.wav"))
			require.ErrorIs(t, err, models.ErrTranscription)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestFrameCount(t *testing.T) {
	tests := []struct {
		duration float64
		want     int
	}{
		{1, 4},
		{90, 4},
		{119.9, 4},
		{150, 5},
		{299, 9},
		{360, 12},
		{7200, 12},
	}

	for _, tt := range tests {
		got := FrameCount(tt.duration)
		assert.Equal(t, tt.want, got, "duration %v", tt.duration)
		assert.GreaterOrEqual(t, got, 4)
		assert.LessOrEqual(t, got, 12)
	}
}

func TestFrameTimestamp(t *testing.T) {
	assert.Equal(t, []int{22, 45, 67, 90}, []int{
		FrameTimestamp(0, 4, 90),
		FrameTimestamp(1, 4, 90),
		FrameTimestamp(2, 4, 90),
		FrameTimestamp(3, 4, 90),
	})
}

func TestExtractFrames(t *testing.T) {
	fe := &fakeExecutor{fn: func(name string, args []string) (executor.Result, error) {
		if name == "ffprobe" {
			return executor.Result{Stdout: "90.000000\n"}, nil
		}
		pattern := args[len(args)-1]
		// written out of order to check sorting
		for _, i := range []int{3, 1, 4, 2} {
			if err := os.WriteFile(fmt.Sprintf(pattern, i), []byte("jpg"), 0644); err != nil {
				return executor.Result{}, err
			}
		}
		return executor.Result{}, nil
	}}
	p, cfg := newTestProcessor(t, fe)

	frames, err := p.ExtractFrames(context.Background(), "/v/lecture.mp4", "lec1")
	require.NoError(t, err)

	assert.Equal(t, 90.0, frames.DurationSeconds)
	require.Len(t, frames.Slides, 4)
	assert.Equal(t, models.Slide{Timestamp: 22, Image: "/frames/lec1/frame_001.jpg"}, frames.Slides[0])
	assert.Equal(t, models.Slide{Timestamp: 90, Image: "/frames/lec1/frame_004.jpg"}, frames.Slides[3])
	for i := 1; i < len(frames.Slides); i++ {
		assert.Greater(t, frames.Slides[i].Timestamp, frames.Slides[i-1].Timestamp)
	}

	require.Len(t, fe.calls, 2)
	extract := fe.calls[1]
	assert.Equal(t, "4", argAfter(extract.args, "-frames:v"))
	assert.Contains(t, argAfter(extract.args, "-vf"), "scale=1280:720")
	assert.Equal(t, filepath.Join(cfg.Paths.Frames, "lec1", "frame_%03d.jpg"), extract.args[len(extract.args)-1])
}

func TestExtractFramesProbeFailures(t *testing.T) {
	tests := []struct {
		name string
		res  executor.Result
	}{
		{"probe exits non-zero", executor.Result{ExitCode: 1, Stderr: "moov atom not found"}},
		{"unparseable duration", executor.Result{Stdout: "N/A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe := &fakeExecutor{fn: func(string, []string) (executor.Result, error) { return tt.res, nil }}
			p, _ := newTestProcessor(t, fe)

			_, err := p.ExtractFrames(context.Background(), "/v.mp4", "lec1")
			require.ErrorIs(t, err, models.ErrMedia)
			assert.Len(t, fe.calls, 1, "no sampling after a failed probe")
		})
	}
}

func TestRemove(t *testing.T) {
	p, _ := newTestProcessor(t, &fakeExecutor{})
	f := filepath.Join(t.TempDir(), "a.wav")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0644))

	p.Remove(context.Background(), f)
	_, err := os.Stat(f)
	assert.True(t, os.IsNotExist(err))

	// missing files only log
	p.Remove(context.Background(), f)
}
