package router

import (
	"context"
	"net/http"
	"time"

	"github.com/questbelief/backend/config"
	"github.com/questbelief/backend/internal/model"
	"github.com/questbelief/backend/pkg/authenticator"
	"github.com/questbelief/backend/pkg/errorx"
	"github.com/questbelief/backend/pkg/logger"
	"github.com/questbelief/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler and can enrich the context or
// short-circuit the request with an error.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the response has been written. The context
// carries the response or the error via xcontext.
type CloserFunc func(ctx context.Context)

type Router struct {
	mux     *http.ServeMux
	baseCtx context.Context

	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc
}

func New(db *gorm.DB, cfg config.Configs, logger logger.Logger) *Router {
	ctx := context.Background()
	ctx = xcontext.WithDB(ctx, db)
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger)
	ctx = xcontext.WithTokenEngine(ctx,
		authenticator.NewTokenEngine[model.AccessToken](cfg.Auth.TokenSecret, cfg.Auth.TokenExpiration))

	return &Router{
		mux:     http.NewServeMux(),
		baseCtx: ctx,
	}
}

// Branch returns a router sharing the same mux but with its own copy
// of the middleware chains.
func (r *Router) Branch() *Router {
	return &Router{
		mux:     r.mux,
		baseCtx: r.baseCtx,
		befores: append([]MiddlewareFunc{}, r.befores...),
		afters:  append([]MiddlewareFunc{}, r.afters...),
		closers: append([]CloserFunc{}, r.closers...),
	}
}

func (r *Router) Before(middleware ...MiddlewareFunc) {
	r.befores = append(r.befores, middleware...)
}

func (r *Router) After(middleware ...MiddlewareFunc) {
	r.afters = append(r.afters, middleware...)
}

func (r *Router) AddCloser(closer ...CloserFunc) {
	r.closers = append(r.closers, closer...)
}

func (r *Router) Static(pattern, root string) {
	r.mux.Handle(pattern, http.FileServer(http.Dir(root)))
}

func (r *Router) Handler() http.Handler {
	return r.mux
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	route(r, http.MethodGet, pattern, handler)
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	route(r, http.MethodPost, pattern, handler)
}

func route[Request, Response any](
	router *Router, method, pattern string, handler HandlerFunc[Request, Response],
) {
	// Snapshot the chains at registration time so later Before/After
	// calls on the branch do not retroactively change this route.
	befores := append([]MiddlewareFunc{}, router.befores...)
	afters := append([]MiddlewareFunc{}, router.afters...)
	closers := append([]CloserFunc{}, router.closers...)

	router.mux.HandleFunc(pattern, func(w http.ResponseWriter, hr *http.Request) {
		ctx := xcontext.WithHTTPRequest(router.baseCtx, hr)
		ctx = xcontext.WithStartTime(ctx, time.Now())

		resp, err := func() (*Response, error) {
			if hr.Method != method {
				return nil, errorx.New(errorx.BadRequest, "Not supported method %s", hr.Method)
			}

			var req Request
			if err := bindRequest(hr, &req); err != nil {
				xcontext.Logger(ctx).Debugf("Cannot bind the request: %v", err)
				return nil, errorx.New(errorx.BadRequest, "Cannot bind the request")
			}

			var err error
			for _, middleware := range befores {
				if ctx, err = middleware(ctx); err != nil {
					return nil, err
				}
			}

			resp, err := handler(ctx, &req)
			if err != nil {
				return nil, err
			}

			for _, middleware := range afters {
				if ctx, err = middleware(ctx); err != nil {
					return nil, err
				}
			}

			return resp, nil
		}()

		if err != nil {
			ctx = xcontext.WithError(ctx, err)
			writeJSON(ctx, w, newErrorResponse(err))
		} else {
			ctx = xcontext.WithResponse(ctx, resp)
			writeJSON(ctx, w, newResponse(resp))
		}

		for _, closer := range closers {
			closer(ctx)
		}
	})
}
