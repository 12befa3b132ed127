package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ferdiebergado/susi/internal/pkg/message"
	"github.com/ferdiebergado/susi/internal/pkg/web"
)

const msgUnknownField = "Unknown field in payload."

var errTrailingData = errors.New("request body must contain a single JSON object")

// DecodePayload decodes the JSON body into a T and stores it in the request context for
// ValidateInput and the handler. Bodies larger than bodySize are rejected with 413.
func DecodePayload[T any](bodySize int64) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, bodySize)

			var decoded T
			if err := decodeStrict(r.Body, &decoded); err != nil {
				slog.Debug("Payload rejected.", "path", r.URL.Path, "reason", err)
				respondDecodeError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(web.NewContextWithParams(r.Context(), decoded)))
		})
	}
}

func decodeStrict(body io.Reader, dst any) error {
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return err
	}

	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}

func respondDecodeError(w http.ResponseWriter, err error) {
	var (
		tooLarge *http.MaxBytesError
		typeErr  *json.UnmarshalTypeError
	)

	switch {
	case errors.As(err, &tooLarge):
		web.RespondRequestEntityTooLarge(w, err, message.InvalidInput, nil)
	case errors.As(err, &typeErr) && typeErr.Field != "":
		details := map[string]string{typeErr.Field: fmt.Sprintf("%s must be a %s", typeErr.Field, typeErr.Type)}
		web.RespondBadRequest(w, err, message.InvalidInput, details)
	default:
		if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
			web.RespondUnprocessableEntity(w, err, msgUnknownField, map[string]string{"field": strings.Trim(field, `"`)})
			return
		}
		web.RespondBadRequest(w, err, message.InvalidInput, nil)
	}
}
