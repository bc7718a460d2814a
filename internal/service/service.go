// service содержит бизнес-логику engagement-ядра: лайки, ветки
// комментариев и отметки просмотров поверх хранилища.
package service

import (
	"errors"

	"github.com/avikulina/kinolenta/internal/config"
	"github.com/avikulina/kinolenta/internal/storage"
)

var (
	// ErrNotFound — сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument — неверные входные параметры запроса к сервису.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnauthenticated — операция записи без аутентифицированного пользователя.
	// Отдаётся до какого-либо похода в хранилище.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrParentNotFound — ответ на несуществующий комментарий.
	ErrParentNotFound = errors.New("parent not found")
	// ErrMaxDepthExceeded — попытка ответить на ответ (глубина — один уровень).
	ErrMaxDepthExceeded = errors.New("max depth exceeded")
	// ErrInternal — внутренняя ошибка (сторадж/БД/контекст/и т.д.).
	ErrInternal = errors.New("internal")
)

// Service — бизнес-логика engagement-ядра.
type Service struct {
	storage storage.Engagement
	cfg     config.Config
}

// New создает новый экземпляр Service.
func New(storage storage.Engagement, cfg config.Config) *Service {
	return &Service{
		storage: storage,
		cfg:     cfg,
	}
}
