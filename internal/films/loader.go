package films

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/avikulina/kinolenta/internal/cache"
	"github.com/avikulina/kinolenta/internal/pkg/log"
)

// NavState — одноразовый навигационный payload: данные фильма, уже
// полученные предыдущим экраном и переданные при переходе на экран
// оценки. Payload читается ровно один раз и исчезает.
type NavState struct {
	mu       sync.Mutex
	payloads map[string]json.RawMessage
}

// NewNavState создаёт пустое навигационное состояние.
func NewNavState() *NavState {
	return &NavState{payloads: map[string]json.RawMessage{}}
}

// Put кладёт payload для перехода на экран фильма.
func (n *NavState) Put(id string, payload json.RawMessage) {
	n.mu.Lock()
	n.payloads[id] = payload
	n.mu.Unlock()
}

// Take забирает payload, удаляя его: повторное чтение — промах.
func (n *NavState) Take(id string) (json.RawMessage, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	p, ok := n.payloads[id]
	if ok {
		delete(n.payloads, id)
	}

	return p, ok
}

// Loader — трёхступенчатый доступ к данным фильма:
// одноразовый навигационный payload -> долговечный кэш -> живая
// выборка из каталога (с записью в кэш).
type Loader struct {
	nav   *NavState
	cache *cache.Store
	src   Fetcher
}

// NewLoader собирает загрузчик. nav может быть nil — тогда первая
// ступень всегда промахивается.
func NewLoader(nav *NavState, store *cache.Store, src Fetcher) *Loader {
	return &Loader{nav: nav, cache: store, src: src}
}

// Film возвращает payload фильма по внешнему идентификатору.
func (l *Loader) Film(ctx context.Context, id string) (json.RawMessage, error) {
	const op = "films/loader/Film"

	if l.nav != nil {
		if payload, ok := l.nav.Take(id); ok {
			return payload, nil
		}
	}

	var cached json.RawMessage
	hit, err := l.cache.GetAPI(ctx, id, &cached)
	if err != nil {
		// Кэш сломан — не фатально, идём в сеть.
		log.From(ctx).Warn("film cache read failed", "op", op, "film_id", id, "err", err)
	}
	if hit {
		return cached, nil
	}

	payload, err := l.src.FilmByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// TTL по умолчанию из настроек кэша.
	if err := l.cache.SetAPI(ctx, id, payload, 0); err != nil {
		log.From(ctx).Warn("film cache write failed", "op", op, "film_id", id, "err", err)
	}

	return payload, nil
}
