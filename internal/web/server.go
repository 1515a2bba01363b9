package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"codeberg.org/snonux/vocabdeck/internal/processor"
	"codeberg.org/snonux/vocabdeck/internal/workspace"
)

// EmptyInputWarning is shown when the form holds no words
const EmptyInputWarning = "Please enter at least one word!"

// maxFormBytes limits the submitted word list
const maxFormBytes = 1 << 20

//go:embed templates/*.html
var templateFS embed.FS

// Generator builds a deck from submitted text; processor.Processor implements it
type Generator interface {
	Generate(ctx context.Context, text string) (*processor.Result, error)
}

// RunStore resolves runs for download; workspace.Workspace implements it
type RunStore interface {
	Open(id string) (*workspace.Run, error)
}

// Server is the HTTP front end
type Server struct {
	gen    Generator
	runs   RunStore
	logger *slog.Logger
	tmpl   *template.Template

	// One generation at a time: the pipeline is strictly sequential
	mu sync.Mutex
}

type pageData struct {
	Words   string
	Warning string
	Error   string
	Result  *resultView
}

type resultView struct {
	RunID       string
	DownloadURL string
	Cards       int
	Fallbacks   int
	Reports     []processor.CardReport
}

// NewServer creates the front end
func NewServer(gen Generator, runs RunStore, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Server{gen: gen, runs: runs, logger: logger, tmpl: tmpl}, nil
}

// Routes returns the router with all middleware and handlers
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/generate", s.handleGenerate)
	r.Get("/download/{runID}", s.handleDownload)
	r.Get("/health", s.handleHealth)

	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, pageData{})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		s.render(w, r, http.StatusBadRequest, pageData{Error: "Could not read the submitted words."})
		return
	}
	text := r.PostFormValue("words")

	s.mu.Lock()
	res, err := s.gen.Generate(r.Context(), text)
	s.mu.Unlock()

	switch {
	case errors.Is(err, processor.ErrEmptyInput):
		s.render(w, r, http.StatusUnprocessableEntity, pageData{Words: text, Warning: EmptyInputWarning})
		return
	case err != nil:
		s.logger.Error("generation failed", "request_id", middleware.GetReqID(r.Context()), "error", err)
		s.render(w, r, http.StatusInternalServerError, pageData{Words: text, Error: "Generating the deck failed: " + err.Error()})
		return
	}

	s.render(w, r, http.StatusOK, pageData{
		Words: text,
		Result: &resultView{
			RunID:       res.RunID,
			DownloadURL: "/download/" + res.RunID,
			Cards:       len(res.Cards),
			Fallbacks:   res.FallbackCount(),
			Reports:     res.Reports,
		},
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	run, err := s.runs.Open(chi.URLParam(r, "runID"))
	switch {
	case errors.Is(err, workspace.ErrInvalidRunID):
		http.Error(w, "invalid run id", http.StatusBadRequest)
		return
	case err != nil:
		http.NotFound(w, r)
		return
	}

	f, err := os.Open(run.Path(processor.DeckFileName))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		http.Error(w, "failed to read deck", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="`+processor.DeckFileName+`"`)
	http.ServeContent(w, r, processor.DeckFileName, info.ModTime(), f)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		s.logger.Error("failed to write health check response", "error", err)
	}
}

// render executes the page into a buffer so template errors never produce
// half-written responses
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "index.html", data); err != nil {
		s.logger.Error("failed to render page", "request_id", middleware.GetReqID(r.Context()), "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// requestLogger logs every request with slog
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"remote", r.RemoteAddr,
			"duration", time.Since(start).Round(time.Millisecond))
	})
}
