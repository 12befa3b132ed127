package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ferdiebergado/susi/internal/pkg/security"
	"github.com/ferdiebergado/susi/internal/pkg/web"
	"github.com/ferdiebergado/susi/internal/platform/jwt"
)

var ErrInvalidToken = errors.New("invalid token")

// RequireToken verifies the bearer token and stores its subject in the request context.
func RequireToken(signer jwt.Signer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			slog.Debug("Verifying session token...")

			token, err := security.ExtractBearerToken(r)
			if err != nil {
				web.RespondUnauthorized(w, err, MsgInvalidToken, nil)
				return
			}

			claims, err := signer.Verify(token)
			if err != nil {
				web.RespondUnauthorized(w, err, MsgInvalidToken, nil)
				return
			}

			if claims.Subject == "" {
				web.RespondUnauthorized(w, ErrInvalidToken, MsgInvalidToken, nil)
				return
			}

			ctx := ContextWithAccount(r.Context(), claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
