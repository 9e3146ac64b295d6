// Package response contains the uniform JSON envelope of the HTTP handlers
// and the mapping from domain errors to status codes.
package response

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/room-management/internal/lib/sl"
	"github.com/magabrotheeeer/room-management/internal/models"
)

// Response is the JSON envelope of every answer.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse documents failed answers in the swagger annotations.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

const (
	StatusOK    = "OK"
	StatusError = "Error"
)

// StatusOKWithData wraps data into a successful Response.
func StatusOKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error returns an ErrorResponse carrying msg.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError joins every violated rule into one readable message.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "numeric":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only numbers", err.Field()))
		case "uuid":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only uuid", err.Field()))
		case "month":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a month in format MM/YYYY", err.Field()))
		case "datetime":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a date in format %s", err.Field(), err.Param()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at least %s", err.Field(), err.Param()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at most %s", err.Field(), err.Param()))
		case "gte":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must not be less than %s", err.Field(), err.Param()))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be one of [%s]", err.Field(), err.Param()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Response{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}

// StatusFor maps a domain error to the HTTP status it is answered with.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrCodeTaken),
		errors.Is(err, models.ErrRoomInUse),
		errors.Is(err, models.ErrCustomerInUse),
		errors.Is(err, models.ErrBillExists),
		errors.Is(err, models.ErrKindInUse),
		errors.Is(err, models.ErrUserExists):
		return http.StatusConflict
	case errors.Is(err, models.ErrBillLocked):
		return http.StatusForbidden
	case errors.Is(err, models.ErrInvalidMonth),
		errors.Is(err, models.ErrInvalidInterval),
		errors.Is(err, models.ErrInvalidDate),
		errors.Is(err, models.ErrInvalidPreset):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// messages are the texts shown to clients for domain errors; anything else
// is reported as an internal error without detail.
var messages = []error{
	models.ErrNotFound,
	models.ErrCodeTaken,
	models.ErrRoomInUse,
	models.ErrCustomerInUse,
	models.ErrBillExists,
	models.ErrKindInUse,
	models.ErrBillLocked,
	models.ErrInvalidMonth,
	models.ErrInvalidInterval,
	models.ErrInvalidDate,
	models.ErrInvalidPreset,
	models.ErrUserExists,
	models.ErrInvalidCredentials,
}

// Message returns the client-facing text of err.
func Message(err error) string {
	for _, known := range messages {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "internal error"
}

// Fail logs err and answers with its status and message.
func Fail(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", sl.Err(err))
	} else {
		log.Info("request rejected", slog.Int("status", status), sl.Err(err))
	}
	render.Status(r, status)
	render.JSON(w, r, Error(Message(err)))
}
