// Package middleware — HTTP-мидлвары engagement-сервиса: паники,
// request id, логирование, идентичность пользователя, таймаут.
package middleware

import (
	"net/http"
)

// Middleware — обёртка http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain навешивает мидлвары на обработчик в порядке перечисления:
// первый в списке оказывается внешним. Используется там, где нет
// chi-роутера (служебный mux проб и метрик).
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}

	return h
}

// statusWriter перехватывает статус и объём ответа для лога запроса.
type statusWriter struct {
	http.ResponseWriter
	status int
	count  int
}

func newStatusWriter(w http.ResponseWriter) *statusWriter {
	return &statusWriter{ResponseWriter: w}
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	// Write без явного WriteHeader — неявный 200.
	if w.status == 0 {
		w.status = http.StatusOK
	}

	count, err := w.ResponseWriter.Write(p)
	w.count += count

	return count, err
}
