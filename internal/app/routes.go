package app

import (
	"context"
	"net/http"
	"time"

	"github.com/ferdiebergado/susi/internal/account"
	"github.com/ferdiebergado/susi/internal/auth"
	"github.com/ferdiebergado/susi/internal/middleware"
	"github.com/ferdiebergado/susi/internal/pkg/web"
	"github.com/ferdiebergado/susi/internal/platform/jwt"
	"github.com/ferdiebergado/susi/internal/platform/router"
	"github.com/ferdiebergado/susi/internal/platform/validation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const healthCheckTimeout = 2 * time.Second

func mountAuthRoutes(r router.Router, handler *auth.Handler, validator validation.Validator, signer jwt.Signer, maxBodySize int64) {
	r.Group("/auth", func(gr router.Router) {
		gr.Post("/register", handler.Register,
			middleware.DecodePayload[auth.RegisterRequest](maxBodySize),
			middleware.ValidateInput[auth.RegisterRequest](validator))
		gr.Post("/verify/resend", handler.ResendVerification,
			middleware.DecodePayload[auth.EmailRequest](maxBodySize),
			middleware.ValidateInput[auth.EmailRequest](validator))
		gr.Post("/verify", handler.VerifyEmail,
			middleware.DecodePayload[auth.VerifyEmailRequest](maxBodySize),
			middleware.ValidateInput[auth.VerifyEmailRequest](validator))
		gr.Post("/login", handler.Login,
			middleware.DecodePayload[auth.LoginRequest](maxBodySize),
			middleware.ValidateInput[auth.LoginRequest](validator))
		gr.Post("/password/forgot", handler.ForgotPassword,
			middleware.DecodePayload[auth.EmailRequest](maxBodySize),
			middleware.ValidateInput[auth.EmailRequest](validator))
		gr.Post("/password/reset", handler.ResetPassword,
			middleware.DecodePayload[auth.ResetPasswordRequest](maxBodySize),
			middleware.ValidateInput[auth.ResetPasswordRequest](validator))
		gr.Get("/session", handler.Session, auth.RequireToken(signer))
	})
}

func mountOpsRoutes(r router.Router, store account.Store, registry *prometheus.Registry) {
	r.Get("/healthz", healthz(store))
	r.Get("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}).ServeHTTP)
}

type healthResponse struct {
	Status string `json:"status"`
}

func healthz(store account.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			web.RespondServiceUnavailable(w, err, "Store unavailable.", nil)
			return
		}

		web.RespondOK(w, nil, &healthResponse{Status: "ok"})
	}
}
