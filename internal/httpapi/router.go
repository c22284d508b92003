package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nguyentantai21042004/lecture-flow/internal/processor"
)

// Router exposes lecture submission, polling and artifact downloads
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		h.accessLog,
	)

	r.Get("/health", h.health)

	r.Route("/api/lectures", func(r chi.Router) {
		r.Post("/youtube", h.submitYoutube)
		r.Post("/upload", h.upload)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getLecture)
			r.Get("/progress", h.progress)
			r.Get("/slides.docx", h.slidesDocx)
			r.Get("/summary.docx", h.summaryDocx)
			r.Get("/transcript.docx", h.transcriptDocx)
		})
	})

	frames := processor.FramesURLPrefix + "/"
	r.Handle(frames+"*", http.StripPrefix(frames, http.FileServer(http.Dir(h.opts.FramesDir))))

	return r
}

func (h *Handler) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.Debug(r.Context(), "http: %s %s %d %s", r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}
