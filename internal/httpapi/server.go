// Package httpapi exposes ingestion and claim suggestion over HTTP.
package httpapi

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"claimdesk/internal/apperr"
	"claimdesk/internal/model"
	"claimdesk/internal/suggest"
)

// Ingester runs one ingestion pass over sources.
type Ingester interface {
	Run(ctx context.Context, sources []string) (model.IngestResult, error)
}

// Suggester answers claim suggestion requests.
type Suggester interface {
	Suggest(ctx context.Context, key, articleID string) (*suggest.Result, error)
}

// Server holds the HTTP handlers.
type Server struct {
	ingester  Ingester
	suggester Suggester
	secret    string
	feeds     []string
	log       *slog.Logger
}

// New creates a Server. secret is the ingestion bearer token; when empty
// every ingestion request is rejected.
func New(ingester Ingester, suggester Suggester, secret string, feeds []string, log *slog.Logger) *Server {
	return &Server{
		ingester:  ingester,
		suggester: suggester,
		secret:    secret,
		feeds:     feeds,
		log:       log,
	}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/api/ingest", s.handleIngest)
	r.Post("/api/ingest", s.handleIngest)
	r.HandleFunc("/api/suggest-claims", s.handleSuggest)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	})
	return r
}

type ingestResponse struct {
	OK bool `json:"ok"`
	model.IngestResult
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	res, err := s.ingester.Run(r.Context(), s.feeds)
	if err != nil {
		s.log.Error("ingest failed", "error", err, "scanned", res.Scanned, "inserted", res.Inserted)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ingestResponse{OK: true, IngestResult: res})
}

func (s *Server) authorized(r *http.Request) bool {
	if s.secret == "" {
		return false
	}
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.secret)) == 1
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	q := r.URL.Query()
	res, err := s.suggester.Suggest(r.Context(), q.Get("key"), q.Get("articleId"))
	if err != nil {
		if apperr.KindOf(err) == apperr.KindUpstream || apperr.KindOf(err) == apperr.KindInternal {
			s.log.Error("suggest claims failed", "error", err, "article_id", q.Get("articleId"))
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	body := map[string]string{"error": apperr.Message(err)}
	if apperr.KindOf(err) == apperr.KindUpstream {
		body["detail"] = apperr.Detail(err)
	}
	writeJSON(w, apperr.HTTPStatus(err), body)
}

// requestLogger writes one line per request.
func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
