package httpapi

import (
	"github.com/nguyentantai21042004/lecture-flow/internal/document"
	"github.com/nguyentantai21042004/lecture-flow/internal/logger"
	"github.com/nguyentantai21042004/lecture-flow/internal/pipeline"
)

// Options locates the directories the API reads from and writes to
type Options struct {
	UploadsDir     string
	FramesDir      string
	OutputDir      string
	MaxUploadBytes int64
}

type Handler struct {
	service pipeline.Service
	docs    document.Builder
	opts    Options
	logger  logger.Logger
}

func New(svc pipeline.Service, docs document.Builder, opts Options, log logger.Logger) *Handler {
	return &Handler{
		service: svc,
		docs:    docs,
		opts:    opts,
		logger:  log,
	}
}
