package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/lecture-flow/internal/logger"
	"github.com/nguyentantai21042004/lecture-flow/internal/models"
)

// geminiClient spreads calls over one or more api keys.
// A key that hits a rate limit is skipped by the next call; the failing call itself is not retried.
type geminiClient struct {
	apiKeys     []string
	model       string
	temperature float32
	logger      logger.Logger

	mu         sync.Mutex
	currentKey int
}

func newGemini(apiKeys []string, model string, temperature float32, log logger.Logger) *geminiClient {
	return &geminiClient{
		apiKeys:     apiKeys,
		model:       model,
		temperature: temperature,
		logger:      log,
	}
}

// Complete sends the conversation to Gemini. System messages become the system instruction.
func (g *geminiClient) Complete(ctx context.Context, messages []Message, maxTokens int) (string, error) {
	if len(g.apiKeys) == 0 {
		return "", fmt.Errorf("%w: gemini api key is not configured", models.ErrConfiguration)
	}

	keyIndex, key := g.key()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("%w: create client: %v", models.ErrService, err)
	}

	contents, system := toGeminiContents(messages)
	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokens),
		Temperature:     genai.Ptr(g.temperature),
	}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	g.logger.Debug(ctx, "Calling Gemini: model=%s messages=%d max_tokens=%d", g.model, len(messages), maxTokens)

	result, err := client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		if isRateLimited(err) {
			g.rotateFrom(keyIndex)
			g.logger.Warn(ctx, "Gemini key %d rate limited, rotating", keyIndex+1)
		}
		return "", fmt.Errorf("%w: generate content: %v", models.ErrService, err)
	}

	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var text strings.Builder
		for _, part := range result.Candidates[0].Content.Parts {
			if part.Text != "" {
				text.WriteString(part.Text)
			}
		}
		return text.String(), nil
	}

	return "", fmt.Errorf("%w: empty response from Gemini", models.ErrService)
}

func toGeminiContents(messages []Message) ([]*genai.Content, string) {
	var (
		contents []*genai.Content
		system   []string
	)
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			system = append(system, m.Content)
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	return contents, strings.Join(system, "\n\n")
}

func (g *geminiClient) key() (int, string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.currentKey, g.apiKeys[g.currentKey]
}

// rotateFrom advances past index unless another call already did
func (g *geminiClient) rotateFrom(index int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.currentKey == index {
		g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
	}
}

func isRateLimited(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

// splitKeys accepts a single key or a comma-separated list
func splitKeys(raw string) []string {
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
