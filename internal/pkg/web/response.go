package web

import (
	"log/slog"
	"net/http"

	"github.com/ferdiebergado/gopherkit/http/response"
	"github.com/ferdiebergado/susi/internal/pkg/message"
)

// OKResponse is the body of every successful response. Data is omitted when nil.
type OKResponse[T any] struct {
	Message string `json:"message,omitempty"`
	Data    T      `json:"data,omitempty"`
}

// ErrorResponse is the body of every failed response. Errors carries per-field messages,
// keyed by the JSON field name.
type ErrorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// OK writes {"message": msg, "data": data} with status.
func OK[T any](w http.ResponseWriter, status int, msg *string, data *T) {
	payload := &OKResponse[*T]{Data: data}
	if msg != nil {
		payload.Message = *msg
	}

	response.JSON(w, status, payload)
}

// Fail writes {"message": msg, "errors": errs} with status. reason never reaches the client;
// it is logged at error level for 5xx and at info level otherwise.
func Fail(w http.ResponseWriter, status int, reason error, msg string, errs map[string]string) {
	if status >= http.StatusInternalServerError {
		slog.Error("Request failed.", "status", status, "reason", reason)
	} else {
		slog.Info("Request rejected.", "status", status, "reason", reason)
	}

	response.JSON(w, status, &ErrorResponse{Message: msg, Errors: errs})
}

func RespondOK[T any](w http.ResponseWriter, msg *string, data *T) {
	OK(w, http.StatusOK, msg, data)
}

func RespondCreated[T any](w http.ResponseWriter, msg *string, data *T) {
	OK(w, http.StatusCreated, msg, data)
}

func RespondBadRequest(w http.ResponseWriter, err error, msg string, errs map[string]string) {
	Fail(w, http.StatusBadRequest, err, msg, errs)
}

func RespondUnauthorized(w http.ResponseWriter, err error, msg string, errs map[string]string) {
	Fail(w, http.StatusUnauthorized, err, msg, errs)
}

func RespondForbidden(w http.ResponseWriter, err error, msg string, errs map[string]string) {
	Fail(w, http.StatusForbidden, err, msg, errs)
}

func RespondNotFound(w http.ResponseWriter, err error, msg string, errs map[string]string) {
	Fail(w, http.StatusNotFound, err, msg, errs)
}

func RespondConflict(w http.ResponseWriter, err error, msg string, errs map[string]string) {
	Fail(w, http.StatusConflict, err, msg, errs)
}

func RespondUnsupportedMediaType(w http.ResponseWriter, err error, msg string, errs map[string]string) {
	Fail(w, http.StatusUnsupportedMediaType, err, msg, errs)
}

func RespondUnprocessableEntity(w http.ResponseWriter, err error, msg string, errs map[string]string) {
	Fail(w, http.StatusUnprocessableEntity, err, msg, errs)
}

func RespondRequestEntityTooLarge(w http.ResponseWriter, err error, msg string, errs map[string]string) {
	Fail(w, http.StatusRequestEntityTooLarge, err, msg, errs)
}

func RespondRequestTimeout(w http.ResponseWriter, err error, msg string, errs map[string]string) {
	Fail(w, http.StatusRequestTimeout, err, msg, errs)
}

func RespondBadGateway(w http.ResponseWriter, err error, msg string, errs map[string]string) {
	Fail(w, http.StatusBadGateway, err, msg, errs)
}

func RespondServiceUnavailable(w http.ResponseWriter, err error, msg string, errs map[string]string) {
	Fail(w, http.StatusServiceUnavailable, err, msg, errs)
}

func RespondInternalServerError(w http.ResponseWriter, err error) {
	Fail(w, http.StatusInternalServerError, err, message.Unexpected, nil)
}
