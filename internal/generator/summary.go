package generator

import (
	"context"
	"fmt"
)

const summaryPrompt = `You are an expert teaching assistant. Based on the lecture transcript below, write a COMPREHENSIVE summary in English.

Requirements:
- Start with a one-sentence overview heading describing the lecture topic
- Organize the content under markdown headings in the order it is taught
- Use bullet points for key ideas, definitions, examples and important caveats
- Use bold for key terms
- Finish with a "Key Takeaways" section

Lecture transcript:
---
%s
---`

// Summarize produces a heading and bullet organized markdown summary
func (g *implGenerator) Summarize(ctx context.Context, transcript string) (string, error) {
	g.logger.Info(ctx, "Generating summary (%d characters)", len(transcript))

	out, err := g.client.Complete(ctx, userPrompt(fmt.Sprintf(summaryPrompt, transcript)), summaryMaxTokens)
	if err != nil {
		return "", err
	}
	return out, nil
}
