// Package api exposes the visualization pipeline over HTTP.
//
// The service is intentionally small: clients POST declaration source and
// get back the resolved diagram, computed positions, and any requested
// artifacts in one response. Nothing is persisted server-side; the diagram
// id only correlates log lines with responses.
package api

import (
	"encoding/base64"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/pkranz/memviz/pkg/buildinfo"
	"github.com/pkranz/memviz/pkg/diagram"
	"github.com/pkranz/memviz/pkg/errors"
	"github.com/pkranz/memviz/pkg/pipeline"
)

// maxSourceBytes caps request bodies. Declaration snippets are tiny;
// anything larger is a mistake or abuse.
const maxSourceBytes = 64 << 10

// Server handles HTTP requests for the visualization pipeline.
type Server struct {
	router chi.Router
	runner *pipeline.Runner
	logger *log.Logger
}

// NewServer creates a server around a pipeline runner.
func NewServer(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/diagrams", s.handleCreateDiagram)
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// DiagramRequest is the body of POST /api/v1/diagrams.
type DiagramRequest struct {
	Source  string   `json:"source"`
	VizType string   `json:"viz_type,omitempty"`
	Formats []string `json:"formats,omitempty"`
	Refresh bool     `json:"refresh,omitempty"`
}

// DiagramResponse is the result of a pipeline run. Artifacts are keyed by
// format; binary formats (png) are base64-encoded, text formats are sent
// as-is.
type DiagramResponse struct {
	ID        string             `json:"id"`
	GraphHash string             `json:"graph_hash"`
	Diagram   diagram.Diagram    `json:"diagram"`
	Artifacts map[string]string  `json:"artifacts,omitempty"`
	Stats     DiagramStats       `json:"stats"`
	Cache     pipeline.CacheInfo `json:"cache"`
}

// DiagramStats mirrors pipeline.Stats with JSON-friendly durations.
type DiagramStats struct {
	Objects   int    `json:"objects"`
	Edges     int    `json:"edges"`
	ResolveMS int64  `json:"resolve_ms"`
	LayoutMS  int64  `json:"layout_ms"`
	RenderMS  int64  `json:"render_ms"`
}

func (s *Server) handleCreateDiagram(w http.ResponseWriter, r *http.Request) {
	var req DiagramRequest
	body := http.MaxBytesReader(w, r.Body, maxSourceBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}

	id := uuid.NewString()
	opts := pipeline.Options{
		Source:  req.Source,
		VizType: req.VizType,
		Formats: req.Formats,
		Refresh: req.Refresh,
		Logger:  s.logger.With("diagram_id", id),
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := DiagramResponse{
		ID:        id,
		GraphHash: result.GraphHash,
		Diagram:   diagram.FromGraph(result.Graph).WithLayout(result.Layout),
		Artifacts: encodeArtifacts(result.Artifacts),
		Stats: DiagramStats{
			Objects:   result.Stats.ObjectCount,
			Edges:     result.Stats.EdgeCount,
			ResolveMS: result.Stats.ResolveTime.Milliseconds(),
			LayoutMS:  result.Stats.LayoutTime.Milliseconds(),
			RenderMS:  result.Stats.RenderTime.Milliseconds(),
		},
		Cache: result.CacheInfo,
	}
	s.writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
		"date":    buildinfo.Date,
	})
}

func encodeArtifacts(artifacts map[string][]byte) map[string]string {
	if len(artifacts) == 0 {
		return nil
	}
	out := make(map[string]string, len(artifacts))
	for format, data := range artifacts {
		if format == pipeline.FormatPNG {
			out[format] = base64.StdEncoding.EncodeToString(data)
		} else {
			out[format] = string(data)
		}
	}
	return out
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

// errorResponse is the JSON body for failed requests.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "error", err)
	}
	s.writeJSON(w, status, errorResponse{
		Error: errors.UserMessage(err),
		Code:  string(errors.GetCode(err)),
	})
}

func statusFor(err error) int {
	var serrs errors.SyntaxErrors
	if stderrors.As(err, &serrs) {
		return http.StatusUnprocessableEntity
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidSyntax,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidVizType,
		errors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
