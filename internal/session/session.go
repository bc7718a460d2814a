// Package session реализует контроллер вовлечённости поста: по одному
// экземпляру на показанный пост, со своим состоянием ветки, счётчиков
// и раскрытия ответов. Контроллер создаётся при показе поста и
// закрывается при уходе с него; завершения запросов, пришедшие после
// Close, не трогают уже разобранное состояние.
//
// Жизненный цикл — явный конечный автомат Loading -> Hydrating -> Ready.
// Все мутации оптимистичны: локальное состояние меняется синхронно,
// поход в шлюз выполняется следом, откат — к точному снимку.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avikulina/kinolenta/internal/models"
	"github.com/avikulina/kinolenta/internal/rating"
	"github.com/avikulina/kinolenta/internal/service"
	"github.com/avikulina/kinolenta/internal/thread"
)

// ErrRejected — текст не прошёл модерацию; причина в тексте ошибки.
var ErrRejected = errors.New("rejected by moderation")

// State — фаза жизненного цикла контроллера.
type State int

const (
	// StateLoading — контроллер создан, гидрация не начиналась.
	StateLoading State = iota
	// StateHydrating — идёт загрузка состояния лайков, ветки и счётчиков.
	StateHydrating
	// StateReady — обе фазы гидрации завершены, комментарии можно
	// показывать без неопределённых счётчиков.
	StateReady
)

// String — читаемое имя фазы для логов.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateHydrating:
		return "hydrating"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Gateway — операции шлюза вовлечённости, нужные контроллеру.
// Реализуется сервисным слоем (*service.Service).
type Gateway interface {
	ToggleLike(ctx context.Context, actor uuid.UUID, target models.LikeTarget, targetID string, liked bool) error
	IsLiked(ctx context.Context, actor uuid.UUID, target models.LikeTarget, targetID string) (bool, error)
	CountLikes(ctx context.Context, target models.LikeTarget, targetID string) (int64, error)
	CountLikesMany(ctx context.Context, target models.LikeTarget, ids []string) (map[string]int64, error)
	LikedMany(ctx context.Context, actor uuid.UUID, target models.LikeTarget, ids []string) (map[string]struct{}, error)
	FetchThread(ctx context.Context, postID uuid.UUID) (*models.Thread, error)
	CreateComment(ctx context.Context, in service.CreateCommentInput) (*models.Comment, error)
	DeleteComment(ctx context.Context, actor uuid.UUID, id string) (int64, error)
	MarkSeen(ctx context.Context, actor uuid.UUID, target models.SeenTarget, targetID string) error
}

var _ Gateway = (*service.Service)(nil)

// PostMeta — оценка и теги поста, принадлежащие соседней подсистеме.
// Контроллер их не трактует, только загружает вместе с остальной
// фазой 1 и отдаёт в снимке.
type PostMeta struct {
	Rating *rating.Draft
	Tags   []string
}

// MetaFetcher загружает оценку и теги поста.
type MetaFetcher func(ctx context.Context, postID uuid.UUID) (PostMeta, error)

// Params — идентичность поста и действующего пользователя.
// Actor == uuid.Nil означает анонимный просмотр: чтения отдают
// негативные значения, записи до шлюза не доходят.
type Params struct {
	PostID         uuid.UUID
	PosterUsername string
	Actor          uuid.UUID
	ActorUsername  string
	ActorAvatar    string
}

// defaultNoticeDelay — время показа причины отказа модерации.
const defaultNoticeDelay = 2500 * time.Millisecond

// Option настраивает контроллер.
type Option func(*Controller)

// WithNoticeDelay меняет время показа причины отказа (для тестов).
func WithNoticeDelay(d time.Duration) Option {
	return func(c *Controller) { c.noticeDelay = d }
}

// WithMetaFetcher добавляет в фазу 1 гидрации параллельную загрузку
// оценки и тегов поста. Без него эти поля снимка остаются пустыми.
func WithMetaFetcher(fn MetaFetcher) Option {
	return func(c *Controller) { c.meta = fn }
}

// WithListener регистрирует колбэк, вызываемый после каждого
// изменения видимого состояния. Колбэк зовётся вне внутреннего
// мьютекса; внутри него безопасно читать Snapshot.
func WithListener(fn func()) Option {
	return func(c *Controller) { c.listener = fn }
}

// Controller — состояние вовлечённости одного поста.
type Controller struct {
	gw     Gateway
	params Params

	noticeDelay time.Duration
	listener    func()
	meta        MetaFetcher

	mu     sync.Mutex
	closed bool
	state  State

	liked        bool
	likeCount    int64
	commentCount int
	postMeta     PostMeta

	idx    *thread.Index
	reveal *thread.RevealState

	likedByID map[string]bool
	countByID map[string]int64

	replyTo     string
	submitting  bool
	draft       string
	notice      string
	noticeSeq   int
	highlightID string
}

// New создаёт контроллер в состоянии Loading.
func New(gw Gateway, params Params, opts ...Option) *Controller {
	c := &Controller{
		gw:          gw,
		params:      params,
		noticeDelay: defaultNoticeDelay,
		state:       StateLoading,
		idx:         thread.Assemble(nil),
		reveal:      thread.NewRevealState(),
		likedByID:   map[string]bool{},
		countByID:   map[string]int64{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Close помечает контроллер разобранным: все последующие операции и
// поздние завершения уже выданных запросов становятся no-op.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// Snapshot — копия видимого состояния для отрисовки.
type Snapshot struct {
	State        State
	Liked        bool
	LikeCount    int64
	CommentCount int
	Meta         PostMeta

	Roots       []thread.Node
	LikedByID   map[string]bool
	CountByID   map[string]int64

	ReplyTo     string
	Submitting  bool
	Draft       string
	Notice      string
	HighlightID string
}

// Snapshot возвращает согласованную копию видимого состояния.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	liked := make(map[string]bool, len(c.likedByID))
	for k, v := range c.likedByID {
		liked[k] = v
	}

	counts := make(map[string]int64, len(c.countByID))
	for k, v := range c.countByID {
		counts[k] = v
	}

	roots := make([]thread.Node, len(c.idx.Roots))
	copy(roots, c.idx.Roots)

	meta := c.postMeta
	if len(meta.Tags) > 0 {
		meta.Tags = append([]string(nil), meta.Tags...)
	}

	return Snapshot{
		State:        c.state,
		Liked:        c.liked,
		LikeCount:    c.likeCount,
		CommentCount: c.commentCount,
		Meta:         meta,
		Roots:        roots,
		LikedByID:    liked,
		CountByID:    counts,
		ReplyTo:      c.replyTo,
		Submitting:   c.submitting,
		Draft:        c.draft,
		Notice:       c.notice,
		HighlightID:  c.highlightID,
	}
}

// VisibleReplies — видимый префикс ответов корня с учётом раскрытия.
func (c *Controller) VisibleReplies(parentID string) []thread.Node {
	c.mu.Lock()
	defer c.mu.Unlock()

	bucket := c.idx.VisibleReplies(c.reveal, parentID)
	out := make([]thread.Node, len(bucket))
	copy(out, bucket)

	return out
}

// RevealReplies раскрывает очередную порцию ответов корня.
func (c *Controller) RevealReplies(parentID string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	c.reveal.Reveal(parentID, len(c.idx.RepliesByParent[parentID]))
	c.mu.Unlock()

	c.notify()
}

// HideReplies сворачивает ответы корня.
func (c *Controller) HideReplies(parentID string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	c.reveal.Hide(parentID)
	c.mu.Unlock()

	c.notify()
}

// BeginReply запоминает корень, на который пользователь отвечает.
func (c *Controller) BeginReply(parentID string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	c.replyTo = parentID
	c.mu.Unlock()

	c.notify()
}

// CancelReply сбрасывает контекст ответа.
func (c *Controller) CancelReply() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	c.replyTo = ""
	c.mu.Unlock()

	c.notify()
}

// notify зовёт слушателя вне мьютекса.
func (c *Controller) notify() {
	if c.listener != nil {
		c.listener()
	}
}

// optimistic — общий протокол оптимистичной мутации: apply меняет
// состояние под мьютексом и возвращает откат к точному снимку; op —
// поход в шлюз. При ошибке шлюза состояние откатывается и слушатель
// уведомляется повторно. Закрытый контроллер — no-op целиком; закрытие
// между apply и завершением op оставляет откат невыполненным — ничьё
// состояние уже не видно.
func (c *Controller) optimistic(apply func() (revert func()), op func() error) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}

	revert := apply()
	c.mu.Unlock()

	c.notify()

	err := op()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}

	if err != nil {
		revert()
		c.mu.Unlock()

		c.notify()

		return err
	}
	c.mu.Unlock()

	return nil
}
