package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: Config{
				Whisper: WhisperConfig{
					ModelPath:  "models/ggml-base.en.bin",
					BinaryPath: "./whisper-cli",
				},
			},
			wantErr: false,
		},
		{
			name: "missing model path",
			config: Config{
				Whisper: WhisperConfig{
					BinaryPath: "./whisper-cli",
				},
			},
			wantErr: true,
		},
		{
			name: "unknown llm provider",
			config: Config{
				Whisper: WhisperConfig{ModelPath: "m.bin", BinaryPath: "w"},
				LLM:     LLMConfig{Provider: "claude-on-a-toaster"},
			},
			wantErr: true,
		},
		{
			name: "postgres without dsn",
			config: Config{
				Whisper: WhisperConfig{ModelPath: "m.bin", BinaryPath: "w"},
				Store:   StoreConfig{Driver: "postgres"},
			},
			wantErr: true,
		},
		{
			name: "redis without address",
			config: Config{
				Whisper: WhisperConfig{ModelPath: "m.bin", BinaryPath: "w"},
				Store:   StoreConfig{Driver: "redis"},
			},
			wantErr: true,
		},
		{
			name: "negative concurrency",
			config: Config{
				Whisper:     WhisperConfig{ModelPath: "m.bin", BinaryPath: "w"},
				Performance: PerformanceConfig{MaxConcurrent: -1},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Config{Whisper: WhisperConfig{ModelPath: "m.bin", BinaryPath: "w"}}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, "https://api.openai.com/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "en", cfg.Whisper.Language)
	assert.Equal(t, "ffmpeg", cfg.FFmpeg.BinaryPath)
	assert.Equal(t, "ffprobe", cfg.FFmpeg.ProbePath)
	assert.Equal(t, "yt-dlp", cfg.YtDlp.BinaryPath)
	assert.Equal(t, "data/frames", cfg.Paths.Frames)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Empty(t, cfg.LLM.APIKey)
}

func TestLoad(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-from-env")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")

	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	content := `
whisper:
  model_path: "models/ggml-base.en.bin"
  binary_path: "./whisper-cli"
  language: "en"

paths:
  frames: "data/frames"
  uploads: "data/uploads"

llm:
  provider: "openai"
  model: "gpt-4o-mini"

logging:
  level: "debug"
  format: "text"
`

	_, err = tmpfile.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	require.NoError(t, err)

	assert.Equal(t, "models/ggml-base.en.bin", cfg.Whisper.ModelPath)
	assert.Equal(t, "data/uploads", cfg.Paths.Uploads)
	assert.Equal(t, "sk-from-env", cfg.LLM.APIKey)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}
