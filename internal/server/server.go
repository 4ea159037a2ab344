// Package server exposes the tile analysis pipeline over HTTP.
//
// Routes:
//
//	GET /healthz                  liveness probe
//	GET /v1/analyze?url=          full tile analysis as JSON
//	GET /v1/export?url=&layer=&format=csv|markdown&limit=&all=
//	                              one layer's statistics as a downloadable artifact
//
// Errors are returned as JSON with a machine-readable code. Upstream tile
// failures map to gateway statuses (502/504), malformed tiles to 422, and
// input validation to 400. The server itself holds no per-request state;
// concurrent requests run independent pipeline executions.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/tileprobe/tileprobe/pkg/config"
	apperrors "github.com/tileprobe/tileprobe/pkg/errors"
	"github.com/tileprobe/tileprobe/pkg/export"
	"github.com/tileprobe/tileprobe/pkg/fetch"
	"github.com/tileprobe/tileprobe/pkg/mvt"
	"github.com/tileprobe/tileprobe/pkg/pipeline"
)

// Server serves the analysis API.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	http   *http.Server
}

// New creates a server around the given runner. A nil logger gets the
// process default.
func New(cfg config.Config, runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, logger: logger}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(recoverer(logger))
	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/analyze", s.handleAnalyze)
		r.Get("/export", s.handleExport)
	})

	s.http = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
	}
	return s
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.http.Handler }

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.ListenAndServe()
	}()
	s.logger.Info("listening", "addr", s.http.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.http.WriteTimeout)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if err := apperrors.ValidateTileURL(url); err != nil {
		s.writeError(w, r, err)
		return
	}

	analysis, err := s.runner.FetchAndAnalyze(r.Context(), url)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := pipeline.Options{
		URL:     q.Get("url"),
		ShowAll: q.Get("all") == "true",
	}
	if layer := q.Get("layer"); layer != "" {
		opts.Layers = []string{layer}
	} else {
		s.writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidLayer, "layer parameter is required"))
		return
	}

	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatCSV
	}
	opts.Formats = []string{format}

	if limit := q.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			s.writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidLimit, "limit %q is not an integer", limit))
			return
		}
		opts.SampleLimit = n
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	layer := opts.Layers[0]
	var filename, mediaType string
	switch format {
	case pipeline.FormatCSV:
		filename, mediaType = export.CSVFilename(layer), export.MediaTypeCSV
	case pipeline.FormatMarkdown:
		filename, mediaType = export.MarkdownFilename(layer), export.MediaTypeMarkdown
	default:
		s.writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidFormat, "format %q is not exportable", format))
		return
	}

	w.Header().Set("Content-Type", mediaType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(result.Artifacts[filename])
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error  string `json:"error"`
	Code   string `json:"code,omitempty"`
	Status int    `json:"upstream_status,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// writeError maps pipeline errors onto HTTP statuses: validation errors to
// 400, missing layers to 404, upstream HTTP failures to 502, transport
// failures to 504, and malformed tiles to 422.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	body := errorBody{Error: apperrors.UserMessage(err), Code: string(apperrors.GetCode(err))}
	status := http.StatusInternalServerError

	var httpErr *fetch.HTTPError
	var transportErr *fetch.TransportError
	var formatErr *mvt.FormatError

	switch {
	case errors.As(err, &httpErr):
		status = http.StatusBadGateway
		body.Code = string(apperrors.ErrCodeHTTP)
		body.Status = httpErr.Status
	case errors.As(err, &transportErr):
		status = http.StatusGatewayTimeout
		body.Code = string(apperrors.ErrCodeNetwork)
	case errors.As(err, &formatErr):
		status = http.StatusUnprocessableEntity
		body.Code = string(apperrors.ErrCodeDecode)
		body.Offset = formatErr.Offset
	case apperrors.Is(err, apperrors.ErrCodeLayerNotFound):
		status = http.StatusNotFound
	case apperrors.GetCode(err) != "":
		status = http.StatusBadRequest
	}

	s.logger.Warn("request failed", "path", r.URL.Path, "status", status, "err", err)
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json;charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
