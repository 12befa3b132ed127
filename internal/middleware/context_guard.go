package middleware

import (
	"net/http"

	"github.com/ferdiebergado/susi/internal/pkg/web"
)

const msgRequestAborted = "Request cancelled or timed out."

// ContextGuard stops requests whose context is already done before any code is generated
// or mailed for them.
func ContextGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.Context().Err(); err != nil {
			web.RespondRequestTimeout(w, err, msgRequestAborted, nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}
