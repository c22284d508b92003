package generator

import (
	"context"

	"github.com/nguyentantai21042004/lecture-flow/internal/models"
)

// Generator turns a transcript into the derived text artifacts of a lecture
type Generator interface {
	FormatTranscript(ctx context.Context, transcript string) (string, error)
	Summarize(ctx context.Context, transcript string) (string, error)
	GenerateQuiz(ctx context.Context, transcript string) ([]models.QuizItem, error)
}
