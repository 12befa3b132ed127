package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ferdiebergado/susi/internal/pkg/message"
	"github.com/ferdiebergado/susi/internal/pkg/web"
	"github.com/ferdiebergado/susi/internal/platform/validation"
)

var errInvalidInput = errors.New("invalid input")

// ValidateInput checks the T decoded by DecodePayload against its validate tags. Field
// errors are returned to the client under "errors".
func ValidateInput[T any](validator validation.Validator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			params, err := web.ParamsFromContext[T](r.Context())
			if err != nil {
				web.RespondBadRequest(w, err, message.InvalidInput, nil)
				return
			}

			if errs := validator.ValidateStruct(params); len(errs) > 0 {
				slog.Debug("Input failed validation.", "path", r.URL.Path, "fields", errs)
				web.RespondBadRequest(w, errInvalidInput, message.InvalidInput, errs)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
