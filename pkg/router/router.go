package router

import (
	"context"
	"net/http"

	"github.com/facepass-lab/backend/config"
	"github.com/facepass-lab/backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

// HandlerFunc is the shape of every domain method exposed over HTTP.
type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before or after a handler. A non-nil returned context
// replaces the context of the request; an error stops the chain.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc always runs once the response is written.
type CloserFunc func(ctx context.Context)

type Router struct {
	mux     chi.Router
	db      *gorm.DB
	cfg     config.Configs
	logger  logger.Logger
	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc
}

func New(db *gorm.DB, cfg config.Configs, logger logger.Logger) *Router {
	return &Router{
		mux:    chi.NewRouter(),
		db:     db,
		cfg:    cfg,
		logger: logger,
	}
}

// Branch returns a router sharing the same routes, whose middlewares are a
// copy of r's.
func (r *Router) Branch() *Router {
	return &Router{
		mux:     r.mux,
		db:      r.db,
		cfg:     r.cfg,
		logger:  r.logger,
		befores: append([]MiddlewareFunc{}, r.befores...),
		afters:  append([]MiddlewareFunc{}, r.afters...),
		closers: append([]CloserFunc{}, r.closers...),
	}
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) After(middleware MiddlewareFunc) {
	r.afters = append(r.afters, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

// Use adds a plain net/http middleware. It must be called before any route
// is registered.
func (r *Router) Use(middlewares ...func(http.Handler) http.Handler) {
	r.mux.Use(middlewares...)
}

// Handle mounts a plain http.Handler, bypassing the middleware chains.
func (r *Router) Handle(pattern string, handler http.Handler) {
	r.mux.Handle(pattern, handler)
}

func (r *Router) Handler() http.Handler {
	return r.mux
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.Get(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.Post(pattern, wrapHandler(r, http.MethodPost, handler))
}
