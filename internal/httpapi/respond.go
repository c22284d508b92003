package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nguyentantai21042004/lecture-flow/internal/models"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, models.ErrInvalidArgument):
		code = http.StatusBadRequest
	case errors.Is(err, models.ErrConflict):
		code = http.StatusConflict
	}

	msg := err.Error()
	if code == http.StatusInternalServerError {
		h.logger.Error(r.Context(), "http: %s %s: %v", r.Method, r.URL.Path, err)
		msg = "internal error"
	}
	h.json(w, code, errorResponse{Error: msg})
}
