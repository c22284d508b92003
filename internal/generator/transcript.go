package generator

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/lecture-flow/internal/llm"
)

const formatPrompt = `Format the following lecture transcript into readable paragraphs.

Rules:
- Only insert paragraph breaks (blank lines) where the topic or speaker's thought changes
- Do NOT change, add, remove or reorder any words
- Do NOT add headings, bullet points, commentary or a summary
- Return only the formatted transcript

Transcript:
---
%s
---`

// FormatTranscript asks the model to add paragraph breaks without changing wording
func (g *implGenerator) FormatTranscript(ctx context.Context, transcript string) (string, error) {
	g.logger.Info(ctx, "Formatting transcript (%d characters)", len(transcript))

	out, err := g.client.Complete(ctx, userPrompt(fmt.Sprintf(formatPrompt, transcript)), formatMaxTokens)
	if err != nil {
		return "", err
	}
	return out, nil
}

func userPrompt(content string) []llm.Message {
	return []llm.Message{{Role: llm.RoleUser, Content: content}}
}
