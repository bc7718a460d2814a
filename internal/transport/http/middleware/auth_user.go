package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// ctxActorKey — ключ контекста для идентификатора пользователя.
type ctxActorKey struct{}

// AuthUser извлекает идентификатор аутентифицированного пользователя
// из X-User-Id (его проставляет платформенный edge после проверки
// токена) и кладёт в контекст. Отсутствующий или битый заголовок —
// анонимный запрос: чтения отдадут негативные значения, записи
// отклонит сервисный слой. Ошибку здесь не отдаём намеренно.
func AuthUser() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("X-User-Id")
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := uuid.Parse(raw)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ctxActorKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFrom возвращает идентификатор пользователя из контекста.
// uuid.Nil — анонимный запрос.
func ActorFrom(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(ctxActorKey{}).(uuid.UUID); ok {
		return id
	}

	return uuid.Nil
}
