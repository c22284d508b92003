package document

import "github.com/nguyentantai21042004/lecture-flow/internal/logger"

type implBuilder struct {
	logger logger.Logger
}

func New(log logger.Logger) Builder {
	return &implBuilder{logger: log}
}
