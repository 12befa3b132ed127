package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ferdiebergado/susi/internal/account"
	"github.com/ferdiebergado/susi/internal/pkg/message"
	"github.com/ferdiebergado/susi/internal/pkg/web"
)

const maskChar = "*"

// AccountService is the set of lifecycle operations served over HTTP.
type AccountService interface {
	Register(ctx context.Context, email, password string) (account.Account, error)
	ResendVerification(ctx context.Context, email string) error
	VerifyEmail(ctx context.Context, email, code string) error
	Login(ctx context.Context, email, password string) (Session, error)
	SendResetCode(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}

var _ AccountService = (*Service)(nil)

type Handler struct {
	svc AccountService
}

func NewHandler(svc AccountService) *Handler {
	return &Handler{svc: svc}
}

type RegisterRequest struct {
	Email    string `json:"email,omitempty" validate:"required"`
	Password string `json:"password,omitempty" validate:"required"`
}

func (r *RegisterRequest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("email", account.MaskEmail(r.Email)),
		slog.String("password", maskChar),
	)
}

type RegisterResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	req, err := web.ParamsFromContext[RegisterRequest](r.Context())
	if err != nil {
		web.RespondBadRequest(w, err, message.InvalidInput, nil)
		return
	}

	acct, err := h.svc.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	msg := MsgRegisterSuccess
	data := &RegisterResponse{
		ID:       acct.ID,
		Email:    acct.Email,
		Verified: acct.Verified,
	}
	web.RespondCreated(w, &msg, data)
}

type EmailRequest struct {
	Email string `json:"email,omitempty" validate:"required"`
}

func (r *EmailRequest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("email", account.MaskEmail(r.Email)),
	)
}

func (h *Handler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	req, err := web.ParamsFromContext[EmailRequest](r.Context())
	if err != nil {
		web.RespondBadRequest(w, err, message.InvalidInput, nil)
		return
	}

	if err := h.svc.ResendVerification(r.Context(), req.Email); err != nil {
		respondError(w, err)
		return
	}

	msg := MsgVerificationResent
	web.RespondOK(w, &msg, &struct{}{})
}

type VerifyEmailRequest struct {
	Email string `json:"email,omitempty" validate:"required"`
	Code  string `json:"code,omitempty" validate:"required"`
}

func (r *VerifyEmailRequest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("email", account.MaskEmail(r.Email)),
		slog.String("code", maskChar),
	)
}

func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	req, err := web.ParamsFromContext[VerifyEmailRequest](r.Context())
	if err != nil {
		web.RespondBadRequest(w, err, message.InvalidInput, nil)
		return
	}

	if err := h.svc.VerifyEmail(r.Context(), req.Email, req.Code); err != nil {
		respondError(w, err)
		return
	}

	msg := MsgVerifySuccess
	web.RespondOK(w, &msg, &struct{}{})
}

type LoginRequest struct {
	Email    string `json:"email,omitempty" validate:"required"`
	Password string `json:"password,omitempty" validate:"required"`
}

func (r *LoginRequest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("email", account.MaskEmail(r.Email)),
		slog.String("password", maskChar),
	)
}

type SessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  SessionUser `json:"user"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := web.ParamsFromContext[LoginRequest](r.Context())
	if err != nil {
		web.RespondBadRequest(w, err, message.InvalidInput, nil)
		return
	}

	session, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	msg := MsgLoggedIn
	data := &LoginResponse{
		Token: session.Token,
		User: SessionUser{
			ID:    session.AccountID,
			Email: session.Email,
		},
	}
	web.RespondOK(w, &msg, data)
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	req, err := web.ParamsFromContext[EmailRequest](r.Context())
	if err != nil {
		web.RespondBadRequest(w, err, message.InvalidInput, nil)
		return
	}

	if err := h.svc.SendResetCode(r.Context(), req.Email); err != nil {
		respondError(w, err)
		return
	}

	msg := MsgResetCodeSent
	web.RespondOK(w, &msg, &struct{}{})
}

type ResetPasswordRequest struct {
	Email    string `json:"email,omitempty" validate:"required"`
	Code     string `json:"code,omitempty" validate:"required"`
	Password string `json:"password,omitempty" validate:"required"`
}

func (r *ResetPasswordRequest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("email", account.MaskEmail(r.Email)),
		slog.String("code", maskChar),
		slog.String("password", maskChar),
	)
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	req, err := web.ParamsFromContext[ResetPasswordRequest](r.Context())
	if err != nil {
		web.RespondBadRequest(w, err, message.InvalidInput, nil)
		return
	}

	if err := h.svc.ResetPassword(r.Context(), req.Email, req.Code, req.Password); err != nil {
		respondError(w, err)
		return
	}

	msg := MsgPasswordResetSuccess
	web.RespondOK(w, &msg, &struct{}{})
}

type SessionResponse struct {
	AccountID string `json:"account_id"`
}

// Session echoes the account bound to the bearer token. It must be mounted behind
// RequireToken.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	accountID, err := AccountFromContext(r.Context())
	if err != nil {
		web.RespondUnauthorized(w, err, MsgInvalidToken, nil)
		return
	}

	msg := MsgSessionActive
	web.RespondOK(w, &msg, &SessionResponse{AccountID: accountID})
}

func respondError(w http.ResponseWriter, err error) {
	switch KindOf(err) {
	case KindValidation:
		var e *Error
		var fields map[string]string
		if errors.As(err, &e) {
			fields = e.Fields
		}
		web.RespondBadRequest(w, err, message.InvalidInput, fields)
	case KindAlreadyRegistered:
		web.RespondConflict(w, err, MsgAlreadyRegistered, nil)
	case KindAlreadyVerified:
		web.RespondBadRequest(w, err, MsgAlreadyVerified, nil)
	case KindInvalidCode:
		web.RespondBadRequest(w, err, MsgInvalidCode, nil)
	case KindCodeExpired:
		web.RespondBadRequest(w, err, MsgCodeExpired, nil)
	case KindInvalidOrExpiredCode:
		web.RespondBadRequest(w, err, MsgInvalidOrExpiredCode, nil)
	case KindNotFound:
		web.RespondNotFound(w, err, MsgNotFound, nil)
	case KindInvalidCredentials:
		web.RespondForbidden(w, err, MsgInvalidCredentials, nil)
	case KindEmailNotVerified:
		web.RespondForbidden(w, err, MsgNotVerified, nil)
	case KindEmailDeliveryFailed:
		web.RespondBadGateway(w, err, MsgDeliveryFailed, nil)
	default: // KindInternal, KindConfigurationFault
		web.RespondInternalServerError(w, err)
	}
}
