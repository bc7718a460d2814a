// Package http собирает HTTP-роутер engagement-ядра: REST-эндпойнты
// лайков, веток комментариев и просмотров поверх сервисного слоя.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/avikulina/kinolenta/internal/films"
	"github.com/avikulina/kinolenta/internal/service"
	"github.com/avikulina/kinolenta/internal/transport/http/handlers"
	"github.com/avikulina/kinolenta/internal/transport/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	BasePath string // например, "/api"; если пустой — роуты регистрируются на корне.
	// Films включает эндпойнт внешнего каталога; nil — эндпойнта нет.
	Films *films.Loader
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
		middleware.AuthUser(),           // вынимаем X-User-Id в контекст; аноним допустим
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	h := handlers.New(svc, opts.Films)

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	// likes
	r.Post("/likes", h.ToggleLike)
	r.Get("/likes/state", h.LikeState)
	r.Post("/likes/batch", h.LikesBatch)

	// comments
	r.Post("/comments", h.CreateComment)
	r.Delete("/comments/{id}", h.DeleteComment)
	r.Get("/posts/{post_id}/thread", h.GetThread)

	// views
	r.Post("/views", h.MarkSeen)

	// films (внешний каталог)
	if h.Films != nil {
		r.Get("/films/{id}", h.Film)
	}
}
