package generator

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/nguyentantai21042004/lecture-flow/internal/llm"
)

type ClientMock struct {
	mock.Mock
}

func (m *ClientMock) Complete(ctx context.Context, messages []llm.Message, maxTokens int) (string, error) {
	args := m.Called(ctx, messages, maxTokens)
	return args.String(0), args.Error(1)
}
