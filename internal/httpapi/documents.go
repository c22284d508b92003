package httpapi

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/nguyentantai21042004/lecture-flow/internal/document"
	"github.com/nguyentantai21042004/lecture-flow/internal/models"
	"github.com/nguyentantai21042004/lecture-flow/internal/processor"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

var errNotReady = fmt.Errorf("%w: artifact not ready", models.ErrNotFound)

func (h *Handler) slidesDocx(w http.ResponseWriter, r *http.Request) {
	h.serveDocument(w, r, "slides.docx", func(l *models.Lecture, out string) error {
		if len(l.Slides) == 0 {
			return errNotReady
		}
		images, err := document.ResolveImages(h.opts.FramesDir, processor.FramesURLPrefix, l.Slides)
		if err != nil {
			return err
		}
		_, err = h.docs.BuildDeck(l.Title, images, out)
		return err
	})
}

func (h *Handler) summaryDocx(w http.ResponseWriter, r *http.Request) {
	h.serveDocument(w, r, "summary.docx", func(l *models.Lecture, out string) error {
		if l.Summary == "" {
			return errNotReady
		}
		return h.docs.BuildSummary(l.Title, l.Summary, out)
	})
}

func (h *Handler) transcriptDocx(w http.ResponseWriter, r *http.Request) {
	h.serveDocument(w, r, "transcript.docx", func(l *models.Lecture, out string) error {
		if l.Transcript == "" {
			return errNotReady
		}
		return h.docs.BuildTranscript(l.Title, l.Transcript, out)
	})
}

// serveDocument builds the document into <output>/<lectureId>/<name> and streams it back
func (h *Handler) serveDocument(w http.ResponseWriter, r *http.Request, name string, build func(*models.Lecture, string) error) {
	l, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	dir := filepath.Join(h.opts.OutputDir, l.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		h.fail(w, r, fmt.Errorf("create output dir: %w", err))
		return
	}
	out := filepath.Join(dir, name)

	if err := build(l, out); err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", docxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeFile(w, r, out)
}
