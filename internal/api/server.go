// Package api exposes the study pipeline over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"studygen/internal/config"
	"studygen/internal/domain"
	"studygen/internal/format"
	"studygen/internal/pipeline"
	"studygen/internal/summarizer"
)

// Server serves summaries, flashcards, quizzes and insights as JSON, or as
// display text when the request asks for ?format=text.
type Server struct {
	cfg      *config.AppConfig
	settings pipeline.Settings
	log      zerolog.Logger
}

// NewServer validates cfg and prepares the generator settings.
func NewServer(cfg *config.AppConfig, log zerolog.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	settings, err := pipeline.SettingsFrom(cfg)
	if err != nil {
		return nil, err
	}
	return &Server{cfg: cfg, settings: settings, log: log}, nil
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	if s.cfg.Server.TimeoutSecs > 0 {
		r.Use(middleware.Timeout(time.Duration(s.cfg.Server.TimeoutSecs) * time.Second))
	}

	r.Get("/health", s.handleHealth)
	r.Post("/summarize", s.handleSummarize)
	r.Post("/flashcards", s.handleFlashcards)
	r.Post("/quiz", s.handleQuiz)
	r.Post("/insights", s.handleInsights)
	return r
}

// ListenAndServe serves until ctx is cancelled and then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Server.TimeoutSecs+5) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Server.Addr).Msg("api server starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	s.log.Info().Msg("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

type errorResponse struct {
	Error string `json:"error"`
}

type summarizeRequest struct {
	Text          string              `json:"text"`
	Algorithm     string              `json:"algorithm"`
	Ratio         *float64            `json:"ratio"`
	SentenceCount int                 `json:"sentence_count"`
	Weights       *summarizer.Weights `json:"weights"`
}

type countRequest struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

type textRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// newPipeline returns a fresh pipeline per request; a Pipeline keeps
// per-text state and must not be shared between goroutines.
func (s *Server) newPipeline(r *http.Request) *pipeline.Pipeline {
	log := s.log.With().Str("request_id", middleware.GetReqID(r.Context())).Logger()
	return pipeline.New(s.settings, log)
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if !s.decode(w, r, &req) {
		return
	}
	sr := pipeline.SummaryRequest{Algorithm: req.Algorithm, Ratio: req.Ratio, SentenceCount: req.SentenceCount}
	if req.Weights != nil {
		sr.Weights = *req.Weights
	}
	summary, err := s.newPipeline(r).Summarize(req.Text, sr)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, summary, func() string { return format.Summary(summary) })
}

func (s *Server) handleFlashcards(w http.ResponseWriter, r *http.Request) {
	var req countRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Count == 0 {
		req.Count = s.cfg.Flashcards.Count
	}
	cards, err := s.newPipeline(r).Flashcards(req.Text, req.Count)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, cards, func() string { return format.Flashcards(cards) })
}

func (s *Server) handleQuiz(w http.ResponseWriter, r *http.Request) {
	var req countRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Count == 0 {
		req.Count = s.cfg.Quiz.Count
	}
	q, err := s.newPipeline(r).Quiz(req.Text, req.Count)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, q, func() string { return format.Quiz(q) + "\n\n" + format.AnswerKey(q) })
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !s.decode(w, r, &req) {
		return
	}
	in, err := s.newPipeline(r).Insights(req.Text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, in, func() string { return format.Insights(in) })
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return false
	}
	return true
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, payload any, text func() string) {
	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(text() + "\n"))
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrUnknownAlgorithm):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrEmptyInput), errors.Is(err, domain.ErrInsufficientContent):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInputTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("elapsed", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
