// Package log протаскивает request-scoped логгер через context.
//
// Логирующий мидлвар кладёт в контекст запроса логгер с уже
// привязанным request_id; нижние слои (сервис, хранилища, контроллер
// вовлечённости) достают его через From и пишут, не зная про HTTP.
// Вне запроса From отдаёт slog.Default — фоновые горутины и тесты
// работают без подготовки контекста.
package log

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// Into возвращает контекст с привязанным логгером.
func Into(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From достаёт логгер запроса; без него — slog.Default().
func From(ctx context.Context) *slog.Logger {
	if v := ctx.Value(ctxKey{}); v != nil {
		if l, ok := v.(*slog.Logger); ok && l != nil {
			return l
		}
	}

	return slog.Default()
}
