package middleware

import "net/http"

// InjectWriter wraps the response in a SafeResponseWriter. It must run before LogRequest.
func InjectWriter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(NewSafeResponseWriter(r.Context(), w), r)
	})
}
