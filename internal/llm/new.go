package llm

import (
	"net/http"
	"time"

	"github.com/nguyentantai21042004/lecture-flow/internal/config"
	"github.com/nguyentantai21042004/lecture-flow/internal/logger"
)

// New creates the Client selected by cfg.Provider
func New(cfg config.LLMConfig, log logger.Logger) Client {
	if cfg.Provider == "gemini" {
		return newGemini(splitKeys(cfg.APIKey), cfg.Model, float32(cfg.Temperature), log)
	}

	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	return NewOpenAI(OpenAIOptions{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		HTTPClient:  &http.Client{Timeout: timeout},
	}, log)
}
