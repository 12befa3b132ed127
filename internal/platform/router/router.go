package router

import "net/http"

// Middleware wraps a handler.
type Middleware = func(next http.Handler) http.Handler

// Router mounts the auth and ops endpoints. Middlewares passed to Use apply only to routes
// mounted after the call, so global middlewares are registered first.
type Router interface {
	http.Handler
	Get(pattern string, handler http.HandlerFunc, middlewares ...Middleware)
	Post(pattern string, handler http.HandlerFunc, middlewares ...Middleware)
	Use(middleware Middleware)
	Group(prefix string, fn func(r Router), middlewares ...Middleware)
}
