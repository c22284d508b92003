package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/lecture-flow/internal/models"
)

const quizPrompt = `Create exactly %d multiple-choice questions that test understanding of the lecture transcript below.

Return ONLY a JSON array, with no explanation before or after it, in this exact format:
[
  {
    "question": "question text",
    "options": ["option A", "option B", "option C", "option D"],
    "correctAnswer": 0,
    "explanation": "why the correct option is right"
  }
]

Each question must have exactly %d options. "correctAnswer" is the zero-based index of the correct option.

Lecture transcript:
---
%s
---`

const quizFixPrompt = `The following text was supposed to be a JSON array of quiz questions but it is not valid JSON.
Fix the JSON syntax errors and return ONLY the corrected JSON array, with no explanation.

%s`

var errNoJSONArray = errors.New("no JSON array found in response")

// GenerateQuiz asks for a 5 question quiz. A response that cannot be parsed gets exactly one
// corrective round; if that also fails a *models.QuizGenerationError carrying the last raw
// response is returned. Options of every parsed question are shuffled.
func (g *implGenerator) GenerateQuiz(ctx context.Context, transcript string) ([]models.QuizItem, error) {
	g.logger.Info(ctx, "Generating quiz (%d characters)", len(transcript))

	raw, err := g.client.Complete(ctx, userPrompt(fmt.Sprintf(quizPrompt, quizQuestions, quizOptions, transcript)), quizMaxTokens)
	if err != nil {
		return nil, err
	}

	items, parseErr := parseQuiz(raw)
	if parseErr != nil {
		g.logger.Warn(ctx, "Quiz response is not valid JSON (%v), asking the model to fix it", parseErr)

		raw, err = g.client.Complete(ctx, userPrompt(fmt.Sprintf(quizFixPrompt, raw)), quizMaxTokens)
		if err != nil {
			return nil, err
		}

		items, parseErr = parseQuiz(raw)
		if parseErr != nil {
			return nil, &models.QuizGenerationError{Raw: raw, Err: parseErr}
		}
	}

	for i := range items {
		g.shuffleOptions(&items[i])
	}

	g.logger.Info(ctx, "Quiz generated with %d questions", len(items))
	return items, nil
}

// extractJSONArray slices from the first '[' to the last ']' so that prose around the array is ignored
func extractJSONArray(raw string) (string, bool) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end < start {
		return "", false
	}
	return raw[start : end+1], true
}

func parseQuiz(raw string) ([]models.QuizItem, error) {
	arr, ok := extractJSONArray(raw)
	if !ok {
		return nil, errNoJSONArray
	}

	var items []models.QuizItem
	if err := json.Unmarshal([]byte(arr), &items); err != nil {
		return nil, fmt.Errorf("decode quiz: %w", err)
	}

	if len(items) == 0 {
		return nil, errors.New("quiz has no questions")
	}
	for i, it := range items {
		if len(it.Options) != quizOptions {
			return nil, fmt.Errorf("question %d has %d options, want %d", i+1, len(it.Options), quizOptions)
		}
		if it.CorrectAnswer < 0 || it.CorrectAnswer >= len(it.Options) {
			return nil, fmt.Errorf("question %d has out of range correctAnswer %d", i+1, it.CorrectAnswer)
		}
	}

	return items, nil
}

// shuffleOptions permutes the options uniformly and re-points CorrectAnswer at the
// option text that was correct before the shuffle
func (g *implGenerator) shuffleOptions(item *models.QuizItem) {
	correct := item.Options[item.CorrectAnswer]

	g.shuffle(len(item.Options), func(i, j int) {
		item.Options[i], item.Options[j] = item.Options[j], item.Options[i]
	})

	for i, opt := range item.Options {
		if opt == correct {
			item.CorrectAnswer = i
			return
		}
	}
}
