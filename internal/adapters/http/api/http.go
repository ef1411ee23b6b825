// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"sort"

	"github.com/okian/folio/internal/domain/profile"
	"github.com/okian/folio/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Profile(ctx context.Context) (*profile.Document, error)
	Section(ctx context.Context, name profile.SectionName) (profile.Section, error)
	Field(ctx context.Context, name profile.SectionName, key string) (any, error)
	List(ctx context.Context, key string) (any, error)
	Merge(ctx context.Context, name profile.SectionName, patch profile.Section) (profile.Section, error)
}

const defaultMaxBodyBytes = 100 << 10

// Server wires HTTP routes for the profile API.
type Server struct {
	deps         Dependencies
	logger       logger.Logger
	maxBodyBytes int64
	exit         func(code int)

	routes []route
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLogger sets the logger used by handlers and middleware.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxBodyBytes caps the size of PUT bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// WithExitFunc replaces the function called after a handler panic.
func WithExitFunc(exit func(code int)) Option {
	return func(s *Server) {
		if exit != nil {
			s.exit = exit
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		deps:         deps,
		maxBodyBytes: defaultMaxBodyBytes,
		exit:         os.Exit,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("api")
	}
	s.routes = s.buildRoutes()
	return s
}

// route binds one method on one path pattern to a handler.
type route struct {
	method   string
	pattern  string
	endpoint string // metrics label
	handler  http.HandlerFunc
}

func (s *Server) buildRoutes() []route {
	return []route{
		{http.MethodGet, "/api/personal", "personal", s.handleGetSection(profile.Personal)},
		{http.MethodPut, "/api/personal", "personal", s.handleMergeSection(profile.Personal, "Personal information updated")},
		{http.MethodGet, "/api/personal/{field}", "personal_field", s.handleGetField(profile.Personal)},
		{http.MethodGet, "/api/professional", "professional", s.handleGetSection(profile.Professional)},
		{http.MethodPut, "/api/professional", "professional", s.handleMergeSection(profile.Professional, "Professional information updated")},
		{http.MethodGet, "/api/professional/{field}", "professional_field", s.handleGetField(profile.Professional)},
		{http.MethodGet, "/api/profile", "profile", s.handleGetProfile},
		{http.MethodGet, "/api/skills", "skills", s.handleGetList(profile.KeySkills)},
		{http.MethodGet, "/api/experience", "experience", s.handleGetList(profile.KeyExperience)},
		{http.MethodGet, "/api/projects", "projects", s.handleGetList(profile.KeyProjects)},
		{http.MethodGet, "/api/expertise", "expertise", s.handleGetList(profile.KeyExpertise)},
		{http.MethodGet, "/api/health", "health", s.handleHealth},
	}
}

// Register attaches all API routes to mux, plus a catch-all under /api/ that
// answers 404 with the route list.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	byPattern := make(map[string]map[string]http.HandlerFunc)
	var patterns []string
	for _, rt := range s.routes {
		if byPattern[rt.pattern] == nil {
			byPattern[rt.pattern] = make(map[string]http.HandlerFunc)
			patterns = append(patterns, rt.pattern)
		}
		h := MetricsMiddleware(rt.handler, rt.endpoint)
		byPattern[rt.pattern][rt.method] = h
		if rt.method == http.MethodGet {
			byPattern[rt.pattern][http.MethodHead] = h
		}
	}
	for _, p := range patterns {
		mux.HandleFunc(p, s.dispatch(byPattern[p]))
	}
	mux.HandleFunc("/api/", MetricsMiddleware(s.HandleNotFound, "not_found"))
}

// dispatch selects the handler by method. A method the path does not support
// is treated like an unknown route.
func (s *Server) dispatch(methods map[string]http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h, ok := methods[r.Method]; ok {
			h(w, r)
			return
		}
		MetricsMiddleware(s.HandleNotFound, "not_found")(w, r)
	}
}

// Routes lists the known routes as "METHOD /path", sorted by path.
func (s *Server) Routes() []string {
	out := make([]string, 0, len(s.routes))
	for _, rt := range s.routes {
		out = append(out, rt.method+" "+rt.pattern)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return routePath(out[i]) < routePath(out[j])
	})
	return out
}

func routePath(r string) string {
	for i := 0; i < len(r); i++ {
		if r[i] == ' ' {
			return r[i+1:]
		}
	}
	return r
}

// errorResponse keeps the "error" key older clients read next to the
// machine-readable code and the detailed message.
type errorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type notFoundResponse struct {
	Error   string   `json:"error"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Routes  []string `json:"routes"`
}

type updateResponse struct {
	Message string          `json:"message"`
	Data    profile.Section `json:"data"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Error: msg, Code: code, Message: msg})
}
