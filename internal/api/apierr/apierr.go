// Package apierr ошибки сервисов в HTTP ответы
package apierr

import (
	"errors"
	"net/http"

	"speen_backend/internal/model"
	"speen_backend/pkg/resp"
)

// Status HTTP статус для ошибки сервиса
func Status(err error) int {
	switch {
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, model.ErrBoosterNotOwned),
		errors.Is(err, model.ErrSequenceViolation):
		return http.StatusConflict
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// Write Ответ с ошибкой. Текст внутренних ошибок не раскрывается
func Write(w http.ResponseWriter, err error) {
	status := Status(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	resp.WriteError(w, status, msg)
}

// BadRequest Тело запроса не разобрано
func BadRequest(w http.ResponseWriter) {
	resp.WriteError(w, http.StatusBadRequest, "invalid request")
}
