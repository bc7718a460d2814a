// apierrors стандартизирует ответы об ошибках HTTP-слоя engagement-ядра.
// На вход — ошибка сервисного слоя, на выход — корректный HTTP-статус
// и краткое безопасное message без утечки внутренних деталей.
package apierrors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avikulina/kinolenta/internal/service"
)

// APIError — единый формат для фронта.
// Code — короткий стабильный код для машиночитаемой обработки на FE.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует ошибку сервисного слоя в HTTP-статус и
// унифицированный ответ.
//
// Маппинг:
//   - ErrInvalidArgument -> 400;
//   - ErrUnauthenticated -> 401;
//   - ErrNotFound -> 404;
//   - ErrParentNotFound / ErrMaxDepthExceeded -> 412 (логические
//     ограничения ветки, в духе failed precondition);
//   - прочее (включая ErrInternal и nil) -> 500 без деталей.
func ToHTTP(err error) (int, ErrorResponse) {
	build := func(status int, code, msg string) (int, ErrorResponse) {
		return status, ErrorResponse{Error: APIError{Code: code, Message: msg}}
	}

	switch {
	case err == nil:
		// Программная ошибка вызова: не маскируем баг кодом 200.
		return build(http.StatusInternalServerError, "internal", "internal error")
	case errors.Is(err, service.ErrInvalidArgument):
		return build(http.StatusBadRequest, "invalid_argument", "invalid argument")
	case errors.Is(err, service.ErrUnauthenticated):
		return build(http.StatusUnauthorized, "unauthenticated", "unauthenticated")
	case errors.Is(err, service.ErrNotFound):
		return build(http.StatusNotFound, "not_found", "not found")
	case errors.Is(err, service.ErrParentNotFound):
		return build(http.StatusPreconditionFailed, "parent_not_found", "parent comment not found")
	case errors.Is(err, service.ErrMaxDepthExceeded):
		return build(http.StatusPreconditionFailed, "max_depth_exceeded", "replies cannot be nested")
	default:
		return build(http.StatusInternalServerError, "internal", "internal error")
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
