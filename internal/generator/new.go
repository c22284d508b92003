package generator

import (
	"math/rand/v2"

	"github.com/nguyentantai21042004/lecture-flow/internal/llm"
	"github.com/nguyentantai21042004/lecture-flow/internal/logger"
)

const (
	formatMaxTokens  = 2500
	summaryMaxTokens = 1500
	quizMaxTokens    = 2000
	quizQuestions    = 5
	quizOptions      = 4
)

type implGenerator struct {
	client  llm.Client
	logger  logger.Logger
	shuffle func(n int, swap func(i, j int))
}

// New creates a Generator backed by the given AI client
func New(client llm.Client, log logger.Logger) Generator {
	return &implGenerator{
		client:  client,
		logger:  log,
		shuffle: rand.Shuffle,
	}
}
