package router

import (
	"context"
	"net/http"

	"github.com/plumehq/backend/config"
	"github.com/plumehq/backend/internal/model"
	"github.com/plumehq/backend/pkg/authenticator"
	"github.com/plumehq/backend/pkg/logger"
	"github.com/rs/cors"
	"gorm.io/gorm"
)

// HandlerFunc handles a decoded request DTO and returns a response DTO
// or an errorx error.
type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. It can enrich the context or
// reject the request by returning an error.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the handler and the response have been
// processed, regardless of outcome.
type CloserFunc func(ctx context.Context)

type Router struct {
	mux    *http.ServeMux
	cfg    config.Configs
	db     *gorm.DB
	logger logger.Logger

	tokenEngine authenticator.TokenEngine[model.AccessToken]

	befores []MiddlewareFunc
	closers []CloserFunc
}

func New(db *gorm.DB, cfg config.Configs, logger logger.Logger) *Router {
	return &Router{
		mux:         http.NewServeMux(),
		cfg:         cfg,
		db:          db,
		logger:      logger,
		tokenEngine: authenticator.NewTokenEngine[model.AccessToken](cfg.Auth.AccessToken),
	}
}

// Branch returns a router sharing the same mux but with an independent
// middleware chain, so a group of endpoints can carry extra middlewares
// without affecting the others.
func (r *Router) Branch() *Router {
	branch := &Router{
		mux:         r.mux,
		cfg:         r.cfg,
		db:          r.db,
		logger:      r.logger,
		tokenEngine: r.tokenEngine,
	}

	branch.befores = append(branch.befores, r.befores...)
	branch.closers = append(branch.closers, r.closers...)
	return branch
}

func (r *Router) Before(m MiddlewareFunc) {
	r.befores = append(r.befores, m)
}

func (r *Router) AddCloser(c CloserFunc) {
	r.closers = append(r.closers, c)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodPost, handler))
}

func (r *Router) Handler() http.Handler {
	if r.cfg.ApiServer.AllowCORS {
		return cors.New(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{http.MethodGet, http.MethodPost},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
		}).Handler(r.mux)
	}

	return r.mux
}
