// Package playground serves a scenario form over HTTP so it can be driven
// from a browser, curl, or a websocket client.
package playground

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vango-dev/vform/internal/scenario"
	"github.com/vango-dev/vform/pkg/field"
	"github.com/vango-dev/vform/pkg/form"
	"github.com/vango-dev/vform/pkg/render"
	"github.com/vango-dev/vform/pkg/vdom"
)

// Config configures a playground Server.
type Config struct {
	// Scenario is the form to serve. Required.
	Scenario *scenario.Scenario

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Observer receives the form's lifecycle events.
	Observer form.Observer

	// WrapSubmit decorates the scenario's submit handler, e.g. with tracing.
	WrapSubmit func(form.SubmitFunc) form.SubmitFunc

	// Gatherer enables the metrics endpoint when set.
	Gatherer prometheus.Gatherer

	// MetricsPath is where metrics are served. Default: "/metrics".
	MetricsPath string

	// WriteTimeout bounds each websocket write. Default: 10s.
	WriteTimeout time.Duration

	// CheckOrigin validates websocket origins. Default: same host only.
	CheckOrigin func(r *http.Request) bool

	// Pretty enables indented HTML.
	Pretty bool
}

// Server hosts one mounted scenario form.
type Server struct {
	config   Config
	logger   *slog.Logger
	form     *scenario.Form
	ctrl     *form.Controller
	renderer *render.Renderer
	upgrader websocket.Upgrader
	router   chi.Router
}

// New compiles the scenario, mounts it on a fresh controller and builds the
// router.
func New(cfg Config) (*Server, error) {
	if cfg.Scenario == nil {
		return nil, errors.New("playground: scenario is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}

	formCfg := cfg.Scenario.Compile()
	formCfg.Logger = cfg.Logger
	formCfg.Observer = cfg.Observer
	if cfg.WrapSubmit != nil {
		formCfg.OnSubmit = cfg.WrapSubmit(formCfg.OnSubmit)
	}
	ctrl := form.New(formCfg)

	f, err := scenario.Mount(cfg.Scenario, ctrl, field.OnError(func(err error) {
		cfg.Logger.Error("field handler failed", "error", err)
	}))
	if err != nil {
		ctrl.Dispose()
		return nil, err
	}

	s := &Server{
		config:   cfg,
		logger:   cfg.Logger.With("component", "playground", "form", ctrl.Name()),
		form:     f,
		ctrl:     ctrl,
		renderer: render.NewRenderer(render.RendererConfig{Pretty: cfg.Pretty}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     cfg.CheckOrigin,
		},
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/", s.handlePage)
	r.Get("/state", s.handleState)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Post("/change", s.handleChange)
	r.Post("/blur", s.handleBlur)
	r.Post("/submit", s.handleSubmit)
	r.Post("/reset", s.handleReset)

	if s.config.Gatherer != nil {
		r.Handle(s.config.MetricsPath, promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Handler returns the playground's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Controller returns the served form's controller.
func (s *Server) Controller() *form.Controller {
	return s.ctrl
}

// Close unmounts the form and disposes its controller.
func (s *Server) Close() {
	s.form.Close()
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully and closes the form.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("playground listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		s.Close()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	if err != nil {
		return fmt.Errorf("playground: shutdown: %w", err)
	}
	return nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	state := s.ctrl.Snapshot()
	stateJSON, _ := json.MarshalIndent(state, "", "  ")

	title := s.config.Scenario.Title
	if title == "" {
		title = s.ctrl.Name()
	}

	body := vdom.Div(vdom.Class("playground"),
		s.form.Node(vdom.Action("/submit"), vdom.Method("post")),
		vdom.Pre(vdom.ID("state"), string(stateJSON)),
	)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.RenderPage(w, render.PageData{Title: title, Body: body}); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, stateResponse{State: s.ctrl.Snapshot()})
}

type stateResponse struct {
	State form.State `json:"state"`
	Error string     `json:"error,omitempty"`
}

func (s *Server) binding(w http.ResponseWriter, r *http.Request) (*field.Binding, bool) {
	name := r.FormValue("field")
	b, ok := s.form.Binding(name)
	if !ok {
		s.writeJSON(w, http.StatusNotFound, stateResponse{
			State: s.ctrl.Snapshot(),
			Error: fmt.Sprintf("unknown field %q", name),
		})
		return nil, false
	}
	return b, true
}

func (s *Server) handleChange(w http.ResponseWriter, r *http.Request) {
	b, ok := s.binding(w, r)
	if !ok {
		return
	}
	if err := b.HandleChange(s.fieldValue(b.Name(), r)); err != nil {
		s.writeJSON(w, http.StatusUnprocessableEntity, stateResponse{State: s.ctrl.Snapshot(), Error: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, stateResponse{State: s.ctrl.Snapshot()})
}

func (s *Server) handleBlur(w http.ResponseWriter, r *http.Request) {
	b, ok := s.binding(w, r)
	if !ok {
		return
	}
	b.HandleBlur()
	s.writeJSON(w, http.StatusOK, stateResponse{State: s.ctrl.Snapshot()})
}

// handleSubmit accepts either a native form post carrying every field, or
// an empty post that submits the current values. JSON clients get the
// settled state; browsers are redirected back to the page.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(r.PostForm) > 0 {
		for _, def := range s.config.Scenario.Fields {
			b, ok := s.form.Binding(def.Name)
			if !ok {
				continue
			}
			if _, posted := r.PostForm[def.Name]; !posted && !def.Checkbox() {
				continue
			}
			if err := b.HandleChange(s.fieldValue(def.Name, r)); err != nil {
				s.writeJSON(w, http.StatusUnprocessableEntity, stateResponse{State: s.ctrl.Snapshot(), Error: err.Error()})
				return
			}
			b.HandleBlur()
		}
	}

	sub := s.ctrl.Submit(r.Context(), nil)
	err := sub.Wait()

	if wantsJSON(r) {
		resp := stateResponse{State: s.ctrl.Snapshot()}
		status := http.StatusOK
		switch {
		case err != nil:
			resp.Error = err.Error()
		case !sub.Invoked():
			status = http.StatusUnprocessableEntity
			resp.Error = "form has errors"
		}
		s.writeJSON(w, status, resp)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.ctrl.Reset()
	if wantsJSON(r) {
		s.writeJSON(w, http.StatusOK, stateResponse{State: s.ctrl.Snapshot()})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// fieldValue reads a posted value: checkboxes become booleans, the "value"
// key is used for single-field posts, the field name for whole-form posts.
func (s *Server) fieldValue(name string, r *http.Request) any {
	key := name
	if _, ok := r.Form["value"]; ok && r.FormValue("field") == name {
		key = "value"
	}
	if def, ok := s.config.Scenario.Field(name); ok && def.Checkbox() {
		switch r.FormValue(key) {
		case "", "false", "off", "0":
			return false
		default:
			return true
		}
	}
	return r.FormValue(key)
}

func wantsJSON(r *http.Request) bool {
	return r.Header.Get("Accept") == "application/json" || r.URL.Query().Get("format") == "json"
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write json failed", "error", err)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
