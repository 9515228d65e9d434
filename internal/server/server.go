// Package server exposes the chart renderer over HTTP: a small HTML page,
// a JSON API per chart kind, the artifact files, and Prometheus metrics.
package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/KaramelBytes/dataset-explorer/internal/chart"
)

type ctxKey struct{}

// Server adapts HTTP requests to chart.Renderer calls.
type Server struct {
	renderer *chart.Renderer
	log      logrus.FieldLogger
	router   chi.Router

	registry *prometheus.Registry
	renders  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New wires routes and metrics for r.
func New(r *chart.Renderer, log logrus.FieldLogger) *Server {
	s := &Server{
		renderer: r,
		log:      log,
		registry: prometheus.NewRegistry(),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dsexplorer_renders_total",
			Help: "Chart render requests by kind and outcome.",
		}, []string{"kind", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dsexplorer_render_duration_seconds",
			Help:    "Time spent rendering charts.",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
	}
	s.registry.MustRegister(s.renders, s.duration)

	rt := chi.NewRouter()
	rt.Use(middleware.RealIP)
	rt.Use(s.requestLog)
	rt.Use(middleware.Recoverer)
	rt.Get("/", s.handleIndex)
	rt.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	rt.Get("/api/columns", s.handleColumns)
	rt.Post("/api/charts/scatter", s.handleScatter)
	rt.Post("/api/charts/errorbar", s.handleErrorBar)
	rt.Post("/api/charts/heatmap", s.handleHeatmap)
	rt.Get("/artifacts/{file}", s.handleArtifact)
	rt.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	s.router = rt
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.log.WithField("addr", addr).Info("serving dataset explorer")
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// requestLog tags each request with an ID and logs its outcome.
func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
		s.log.WithFields(logrus.Fields{
			"id":     id,
			"method": r.Method,
			"path":   r.URL.Path,
			"status": ww.Status(),
			"took":   time.Since(start).String(),
		}).Debug("request")
	})
}

func requestID(r *http.Request) string {
	id, _ := r.Context().Value(ctxKey{}).(string)
	return id
}

type columnsResponse struct {
	Columns     []string `json:"columns"`
	Continuous  []string `json:"continuous"`
	Categorical []string `json:"categorical"`
	Groups      []string `json:"groups"`
}

func (s *Server) handleColumns(w http.ResponseWriter, _ *http.Request) {
	sc := s.renderer.Schema()
	writeJSON(w, http.StatusOK, columnsResponse{
		Columns:     s.renderer.Dataset().Columns(),
		Continuous:  nonNil(sc.Continuous),
		Categorical: nonNil(sc.Categorical),
		Groups:      nonNil(sc.GroupOrder),
	})
}

type scatterRequest struct {
	X string `json:"x"`
	Y string `json:"y"`
}

type errorBarRequest struct {
	Field string `json:"field"`
}

type heatmapRequest struct {
	Fields []string `json:"fields"`
}

// chartResponse mirrors chart.Result; Path is null when nothing was rendered.
type chartResponse struct {
	ID      string     `json:"id"`
	Kind    chart.Kind `json:"kind"`
	Path    *string    `json:"path"`
	Message string     `json:"message"`
	Image   string     `json:"image,omitempty"`
}

func (s *Server) handleScatter(w http.ResponseWriter, r *http.Request) {
	var req scatterRequest
	if !decode(w, r, &req) {
		return
	}
	s.respond(w, r, chart.KindScatter, func() chart.Result { return s.renderer.Scatter(req.X, req.Y) })
}

func (s *Server) handleErrorBar(w http.ResponseWriter, r *http.Request) {
	var req errorBarRequest
	if !decode(w, r, &req) {
		return
	}
	s.respond(w, r, chart.KindErrorBar, func() chart.Result { return s.renderer.GroupedErrorBar(req.Field) })
}

func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	var req heatmapRequest
	if !decode(w, r, &req) {
		return
	}
	s.respond(w, r, chart.KindHeatmap, func() chart.Result { return s.renderer.CorrelationHeatmap(req.Fields) })
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, kind chart.Kind, render func() chart.Result) {
	start := time.Now()
	res := render()
	s.duration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	s.renders.WithLabelValues(string(kind), outcome(res)).Inc()

	out := chartResponse{ID: requestID(r), Kind: kind, Message: res.Message}
	if res.OK() {
		p := res.Path
		out.Path = &p
		out.Image = "data:image/png;base64," + base64.StdEncoding.EncodeToString(res.Image)
	}
	writeJSON(w, http.StatusOK, out)
}

func outcome(res chart.Result) string {
	switch {
	case res.OK():
		return "ok"
	case chart.Rejected(res.Err):
		return "rejected"
	default:
		return "error"
	}
}

func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "file")
	for _, k := range chart.Kinds {
		p := s.renderer.Path(k)
		if filepath.Base(p) == name {
			w.Header().Set("Cache-Control", "no-store")
			http.ServeFile(w, r, p)
			return
		}
	}
	http.NotFound(w, r)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
