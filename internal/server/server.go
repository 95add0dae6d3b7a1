// Package server serves a live dashboard whose rows re-sort in place.
//
// One dataset is loaded at startup and ranked into a shared
// [rowlayout.Layout]. Clicking a column header in the page POSTs to
// /sort/{column}; the response carries the new row offsets, which the page
// applies to the existing row elements so the CSS transition animates the
// reorder.
//
// # Routes
//
//	GET  /             HTML page with the chart inlined
//	GET  /chart.svg    chart for the shared state, or ?sort=&dir=&delay= for a one-off ranking
//	POST /sort/{col}   toggle the shared sort and return the JSON layout
//	POST /reload       re-read the dataset, keep the sort and return the JSON layout
//	GET  /order        JSON layout of the shared state
//	GET  /version      build information
//
// [rowlayout.Layout]: github.com/matzehuels/classviz/pkg/rowlayout#Layout
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"html/template"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/classviz/pkg/buildinfo"
	"github.com/matzehuels/classviz/pkg/cache"
	"github.com/matzehuels/classviz/pkg/engagement"
	"github.com/matzehuels/classviz/pkg/errors"
	pkgio "github.com/matzehuels/classviz/pkg/io"
	"github.com/matzehuels/classviz/pkg/observability"
	"github.com/matzehuels/classviz/pkg/pipeline"
	"github.com/matzehuels/classviz/pkg/rowlayout"
)

const shutdownTimeout = 5 * time.Second

// Server holds one ranked dataset and serves it over HTTP.
type Server struct {
	runner *pipeline.Runner
	opts   pipeline.Options
	logger *log.Logger

	ds     *pkgio.Dataset
	hash   string
	layout *rowlayout.Layout

	// mu keeps a toggle or reload and the JSON describing it together.
	mu sync.Mutex
	// data guards ds and hash. Renders hold it for reading so rows of a new
	// dataset are never cached under the hash of the old one.
	data sync.RWMutex

	router chi.Router
}

// New imports and ranks the dataset named by opts.
func New(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*Server, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	data, ds, err := runner.Import(ctx, opts)
	if err != nil {
		return nil, err
	}
	l, err := runner.Layout(ctx, ds, opts)
	if err != nil {
		return nil, err
	}

	s := &Server{
		runner: runner,
		opts:   opts,
		logger: runner.Logger,
		ds:     ds,
		hash:   cache.Hash(data),
		layout: l,
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Layout returns the shared layout.
func (s *Server) Layout() *rowlayout.Layout {
	return s.layout
}

// Kind returns the kind of the served dataset.
func (s *Server) Kind() engagement.Kind {
	s.data.RLock()
	defer s.data.RUnlock()
	return s.ds.Kind
}

// Reload re-reads the dataset named by the server's options and replaces
// the rows of the shared layout. The sort state is kept; the dataset must
// keep its kind.
func (s *Server) Reload(ctx context.Context) error {
	data, ds, err := s.runner.Import(ctx, s.opts)
	if err != nil {
		return err
	}

	s.data.Lock()
	defer s.data.Unlock()
	if err := pipeline.CheckKind(ds, s.ds.Kind); err != nil {
		return err
	}
	if err := s.layout.SetRows(ds.Rows()); err != nil {
		return pipeline.LayoutError(err)
	}
	s.ds = ds
	s.hash = cache.Hash(data)
	return nil
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	s.data.RLock()
	kind, students := s.ds.Kind, s.ds.Len()
	s.data.RUnlock()

	go func() {
		s.logger.Info("serving dashboard", "addr", addr, "kind", kind, "students", students)
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/", s.handleIndex)
	r.Get("/chart.svg", s.handleChart)
	r.Get("/order", s.handleOrder)
	r.Post("/sort/{column}", s.handleSort)
	r.Post("/reload", s.handleReload)
	r.Get("/version", s.handleVersion)
	return r
}

// observe reports every request to the server hooks and the debug log.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		observability.Server().OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.Server().OnResponse(r.Context(), r.Method, route, status, time.Since(start))
		s.logger.Debug("request", "method", r.Method, "route", route, "status", status, "duration", time.Since(start))
	})
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.data.RLock()
	defer s.data.RUnlock()

	svg, _, err := s.render(r.Context(), s.layout, s.opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, template.HTML(svg)); err != nil {
		s.logger.Warn("write page", "error", err)
	}
}

// handleChart renders the shared layout, or a one-off ranking when sort is
// given. A one-off ranking never changes the shared state.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	opts, oneOff, err := s.queryOptions(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.data.RLock()
	defer s.data.RUnlock()

	l := s.layout
	if oneOff {
		l, err = pipeline.BuildLayout(s.ds, opts)
		if err != nil {
			if errors.Is(err, errors.ErrCodeInvalidSortColumn) {
				observability.Sort().OnInvalidColumn(r.Context(), opts.SortColumn)
			}
			s.writeError(w, err)
			return
		}
	}

	svg, hit, err := s.render(r.Context(), l, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("X-Cache", cacheStatus(hit))
	w.Write(svg)
}

func (s *Server) handleSort(w http.ResponseWriter, r *http.Request) {
	column := chi.URLParam(r, "column")

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.layout.ToggleSort(column); err != nil {
		observability.Sort().OnInvalidColumn(r.Context(), column)
		s.writeError(w, pipeline.LayoutError(err))
		return
	}

	moved := 0
	for _, m := range s.layout.LastMoves() {
		if m.Moved() {
			moved++
		}
	}
	state := s.layout.State()
	observability.Sort().OnToggle(r.Context(), state.Column, state.Direction.String(), moved)
	s.logger.Info("toggled sort", "sort", state, "moved", moved)

	s.writeLayout(w, r)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Reload(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("reloaded dataset", "kind", s.Kind(), "sort", s.layout.State())
	s.writeLayout(w, r)
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeLayout(w, r)
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

// =============================================================================
// Helpers
// =============================================================================

// render draws the SVG for l, going through the artifact cache. Callers
// hold s.data for reading.
func (s *Server) render(ctx context.Context, l *rowlayout.Layout, opts pipeline.Options) ([]byte, bool, error) {
	opts.Formats = []string{pipeline.FormatSVG}
	artifacts, hit, err := s.runner.RenderWithCacheInfo(ctx, s.ds, s.hash, l, opts)
	if err != nil {
		return nil, false, err
	}
	return artifacts[pipeline.FormatSVG], hit, nil
}

// writeLayout writes the JSON layout of the shared state, including the
// moves of the last toggle. It bypasses the cache because moves are not
// part of the artifact key.
func (s *Server) writeLayout(w http.ResponseWriter, r *http.Request) {
	s.data.RLock()
	defer s.data.RUnlock()

	opts := s.opts
	opts.Formats = []string{pipeline.FormatJSON}
	out, err := pipeline.Render(r.Context(), s.ds, s.layout, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(out[pipeline.FormatJSON])
}

// queryOptions overlays ?sort=&dir=&delay= onto the server's options. The
// bool reports whether the query asks for its own ranking.
func (s *Server) queryOptions(r *http.Request) (pipeline.Options, bool, error) {
	opts := s.opts
	q := r.URL.Query()

	oneOff := false
	if col := q.Get("sort"); col != "" {
		dir, err := rowlayout.ParseDirection(q.Get("dir"))
		if err != nil {
			return opts, false, errors.Wrap(errors.ErrCodeInvalidDirection, err, "dir")
		}
		opts.SortColumn = col
		opts.SortDirection = dir.String()
		oneOff = true
	} else if q.Get("dir") != "" {
		return opts, false, errors.New(errors.ErrCodeInvalidSortColumn, "dir given without sort")
	}

	if d := q.Get("delay"); d != "" {
		delay, err := strconv.ParseFloat(d, 64)
		if err != nil || delay <= 0 {
			return opts, false, errors.New(errors.ErrCodeInvalidInput, "delay must be a positive number of minutes, got %q", d)
		}
		opts.Delay = delay
	}
	return opts, oneOff, nil
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.IsCallerError(err) {
		status = http.StatusBadRequest
	} else {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{
		Code:    string(errors.GetCode(err)),
		Message: message(err),
	})
}

// message is the user message plus its cause, without the code prefix.
func message(err error) string {
	var e *errors.Error
	if stderrors.As(err, &e) && e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return errors.UserMessage(err)
}

type errorResponse struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
