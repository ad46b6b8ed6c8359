// Package serve hands decoded structures to a browser over HTTP. The
// viewer asks for /api/structures/{id} and gets the coordinates, the
// metadata and enough geometry to place the camera.
package serve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/andrew-torda/cifview/pdb"
	"github.com/andrew-torda/cifview/pdb/cmmn"
	"github.com/andrew-torda/cifview/pdb/geom"
	"github.com/andrew-torda/cifview/pdb/mmcif"
)

// Source is where structures come from. *pdb.Fetcher is one.
type Source interface {
	FetchStructure(ctx context.Context, id string) (*cmmn.ProteinData, error)
	FetchFasta(ctx context.Context, id string) (string, error)
}

// Server is the router plus what it needs.
type Server struct {
	src    Source
	logger *slog.Logger
	router *chi.Mux
}

// New builds the router.
func New(src Source, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{src: src, logger: logger, router: chi.NewRouter()}
	s.router.Use(middleware.RequestID)
	s.router.Use(requestLogger(logger))
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})
	s.router.Get("/api/structures/{id}", s.handleStructure)
	s.router.Get("/api/structures/{id}/fasta", s.handleFasta)
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe runs until ctx is done, then shuts down, giving requests
// in flight a few seconds to finish.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)
	select {
	case err := <-errc:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}
	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	return srv.Shutdown(shutCtx)
}

// requestLogger writes one line per request
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"elapsed", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()))
		})
	}
}

// Bounds is what the viewer needs to point the camera.
type Bounds struct {
	Min    [3]float64 `json:"min"`
	Max    [3]float64 `json:"max"`
	Centre [3]float64 `json:"centre"`
	Radius float64    `json:"radius"`
}

// ElementCount says how many atoms of each element there are, in order of
// first appearance. The viewer makes one instanced mesh per element.
type ElementCount struct {
	Element string `json:"element"`
	Count   int    `json:"count"`
}

// StructureResponse is ProteinData plus the geometry.
type StructureResponse struct {
	ID string `json:"id"`
	*cmmn.ProteinData
	Bounds   Bounds         `json:"bounds"`
	Elements []ElementCount `json:"elements"`
}

// NewStructureResponse adds the geometry to pd. id is upper cased.
func NewStructureResponse(id string, pd *cmmn.ProteinData) StructureResponse {
	resp := StructureResponse{ID: strings.ToUpper(id), ProteinData: pd}
	resp.Bounds.Min, resp.Bounds.Max, _ = geom.Bounds(pd.Coordinates)
	resp.Bounds.Centre, _ = geom.Centre(pd.Coordinates)
	resp.Bounds.Radius = geom.Radius(pd.Coordinates, resp.Bounds.Centre)
	for _, g := range geom.GroupByElement(pd.Coordinates) {
		resp.Elements = append(resp.Elements, ElementCount{Element: g.Element, Count: len(g.Index)})
	}
	return resp
}

func (s *Server) handleStructure(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pd, err := s.src.FetchStructure(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NewStructureResponse(id, pd))
}

func (s *Server) handleFasta(w http.ResponseWriter, r *http.Request) {
	txt, err := s.src.FetchFasta(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(txt))
}

// ErrorResponse is the body of every error
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// classify maps an error to an http status and a kind for the client.
func classify(err error) (int, string) {
	var se *mmcif.StructureError
	var fe *pdb.FetchError
	switch {
	case errors.Is(err, pdb.ErrBadID):
		return http.StatusBadRequest, pdb.FetchBadID.String()
	case errors.Is(err, pdb.ErrNotFound):
		return http.StatusNotFound, pdb.FetchNotFound.String()
	case errors.Is(err, pdb.ErrNetwork):
		return http.StatusBadGateway, pdb.FetchNetwork.String()
	case errors.As(err, &se):
		return http.StatusUnprocessableEntity, se.Kind.String()
	case errors.As(err, &fe):
		return http.StatusInternalServerError, fe.Kind.String()
	}
	return http.StatusInternalServerError, "Internal"
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := classify(err)
	s.logger.Warn("request failed", "id", chi.URLParam(r, "id"), "status", status, "kind", kind, "err", err)
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Kind: kind})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
