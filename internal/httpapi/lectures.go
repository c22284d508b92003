package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nguyentantai21042004/lecture-flow/internal/models"
)

const maxMemory = 32 << 20

type youtubeRequest struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

type acceptedResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	h.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) submitYoutube(w http.ResponseWriter, r *http.Request) {
	var req youtubeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, r, fmt.Errorf("%w: invalid json body", models.ErrInvalidArgument))
		return
	}

	id, err := h.service.SubmitYoutube(r.Context(), req.Title, req.URL)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, http.StatusAccepted, acceptedResponse{ID: id, Message: "processing started"})
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	if h.opts.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)
	}
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			h.json(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "upload too large"})
			return
		}
		h.fail(w, r, fmt.Errorf("%w: invalid multipart form", models.ErrInvalidArgument))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("video")
	if err != nil {
		h.fail(w, r, fmt.Errorf("%w: video file is required", models.ErrInvalidArgument))
		return
	}
	defer file.Close()

	videoPath, err := h.save(file, header.Filename)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		title = strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
	}

	id, err := h.service.SubmitFile(r.Context(), title, videoPath)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, http.StatusAccepted, acceptedResponse{ID: id, Message: "processing started"})
}

// save stores the upload under a generated name, keeping only the client's extension
func (h *Handler) save(src io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".mp4"
	}
	if err := os.MkdirAll(h.opts.UploadsDir, 0755); err != nil {
		return "", fmt.Errorf("create uploads dir: %w", err)
	}

	path := filepath.Join(h.opts.UploadsDir, uuid.NewString()+ext)
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write upload: %w", err)
	}
	return path, nil
}

func (h *Handler) getLecture(w http.ResponseWriter, r *http.Request) {
	l, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, http.StatusOK, l)
}

func (h *Handler) progress(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Progress(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, http.StatusOK, p)
}
