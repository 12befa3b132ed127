package router

import (
	"net/http"

	"github.com/ferdiebergado/goexpress"
)

type goexpressRouter struct {
	mux *goexpress.Router
}

var _ Router = (*goexpressRouter)(nil)

// NewGoexpressRouter returns a Router backed by goexpress.
func NewGoexpressRouter() Router {
	return &goexpressRouter{mux: goexpress.New()}
}

func (r *goexpressRouter) Get(pattern string, handler http.HandlerFunc, middlewares ...Middleware) {
	r.mux.Get(pattern, handler, middlewares...)
}

func (r *goexpressRouter) Post(pattern string, handler http.HandlerFunc, middlewares ...Middleware) {
	r.mux.Post(pattern, handler, middlewares...)
}

func (r *goexpressRouter) Use(middleware Middleware) {
	r.mux.Use(middleware)
}

func (r *goexpressRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Group shares the parent mux. The group starts with the parent's current middlewares
// followed by middlewares.
func (r *goexpressRouter) Group(prefix string, fn func(r Router), middlewares ...Middleware) {
	group := goexpress.New()
	group.SetPrefix(prefix)
	group.SetMux(r.mux.Mux())

	inherited := r.mux.Middlewares()
	chain := make([]Middleware, 0, len(inherited)+len(middlewares))
	chain = append(chain, inherited...)
	chain = append(chain, middlewares...)
	group.SetMiddlewares(chain)

	fn(&goexpressRouter{mux: group})
}
