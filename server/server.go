package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"ghostwriter/generator"
)

//go:embed web
var embeddedStatic embed.FS

const (
	// pipelineTimeout caps one scrape-and-generate run.
	pipelineTimeout = 3 * time.Minute
	maxBodyBytes    = 1 << 20
)

// PostGenerator runs the scrape-and-generate pipeline for one request.
type PostGenerator interface {
	Run(ctx context.Context, req generator.Request) (generator.PostBatch, error)
}

type Server struct {
	gen      PostGenerator
	pages    fs.FS
	staticFS http.Handler
}

func New(gen PostGenerator) (*Server, error) {
	if gen == nil {
		return nil, errors.New("post generator required")
	}

	sub, err := fs.Sub(embeddedStatic, "web")
	if err != nil {
		return nil, err
	}

	return &Server{
		gen:      gen,
		pages:    sub,
		staticFS: http.FileServer(http.FS(sub)),
	}, nil
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger)
	r.Use(recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{requestIDHeader},
	}))

	r.Post("/generate-posts", s.handleGeneratePosts)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/", s.page("index.html"))
	r.Get("/signin.html", s.page("signin.html"))
	r.Get("/generator.html", s.page("generator.html"))
	r.Handle("/*", s.staticFS)
	return r
}

func (s *Server) page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, s.pages, name)
	}
}

// --- Handlers ---

type postsResp struct {
	Posts generator.PostBatch `json:"posts"`
}

type errorResp struct {
	Error string `json:"error"`
}

func (s *Server) handleGeneratePosts(w http.ResponseWriter, r *http.Request) {
	log := loggerFrom(r.Context())

	var req generator.Request
	// An empty body is treated like {} so it gets the missing-field error.
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResp{Error: "invalid request body"})
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp{Error: err.Error()})
		return
	}

	log.Info("[Server] Generating posts", slog.String("url", req.URL), slog.String("topic", req.Topic))
	ctx, cancel := context.WithTimeout(r.Context(), pipelineTimeout)
	defer cancel()

	posts, err := s.gen.Run(ctx, req)
	if err != nil {
		log.Error("[Server] Error generating posts", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, postsResp{Posts: posts})
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
