package middleware

import (
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/ferdiebergado/susi/internal/pkg/message"
	"github.com/ferdiebergado/susi/internal/pkg/web"
)

// CheckContentType rejects POST, PUT and PATCH bodies that are not application/json. A utf-8
// charset parameter is accepted.
func CheckContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			if err := checkJSON(r.Header.Get(web.HeaderContentType)); err != nil {
				web.RespondUnsupportedMediaType(w, err, message.InvalidInput, nil)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

func checkJSON(contentType string) error {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return fmt.Errorf("parse content-type %q: %w", contentType, err)
	}

	if mediaType != web.MimeJSON {
		return fmt.Errorf("unsupported content-type: %q", mediaType)
	}

	if charset, ok := params["charset"]; ok && !strings.EqualFold(charset, "utf-8") {
		return fmt.Errorf("unsupported charset: %q", charset)
	}
	return nil
}
