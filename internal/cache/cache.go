// Package cache реализует локальное кэш-хранилище kinolenta:
// один версионированный JSON-документ с двумя независимыми пространствами —
// транзитные ответы внешних кино-каталогов и долгоживущие черновики оценок.
//
// Документ целиком лежит в долговечном KV под одним известным ключом и
// перезаписывается атомарно при каждой записи (last-writer-wins).
// Истечение — ленивое: фоновых чисток нет, протухшие записи невидимы на
// чтении; протухший черновик дополнительно удаляется и документ
// пересохраняется, чтобы черновики не копились бесконечно.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/avikulina/kinolenta/internal/pkg/log"
	"github.com/avikulina/kinolenta/internal/rating"
	"github.com/avikulina/kinolenta/internal/storage"
)

// SchemaVersion — текущая версия схемы документа.
// Документ с другой версией отбрасывается целиком, без миграции.
const SchemaVersion = 2

// Значения TTL по умолчанию.
const (
	DefaultAPITTL   = 48 * time.Hour
	DefaultDraftTTL = 7 * 24 * time.Hour
)

// DefaultKey — ключ документа в KV.
const DefaultKey = "kinolenta:cache:v2"

// entry — запись кэша с меткой времени и сроком жизни.
// Запись жива, пока now - cachedAt <= timeToLiveMs.
type entry struct {
	Data      json.RawMessage `json:"data"`
	CachedAt  int64           `json:"cachedAt"`
	TTLMillis int64           `json:"timeToLiveMs"`
}

// live — чистая функция трёх сохранённых полей.
func (e entry) live(now time.Time) bool {
	return now.UnixMilli()-e.CachedAt <= e.TTLMillis
}

// document — корневой документ кэша.
type document struct {
	Version int              `json:"v"`
	API     map[string]entry `json:"api"`
	Drafts  map[string]entry `json:"drafts"`
}

func emptyDocument() document {
	return document{
		Version: SchemaVersion,
		API:     map[string]entry{},
		Drafts:  map[string]entry{},
	}
}

// Store — доступ к документу кэша поверх KV.
type Store struct {
	kv       storage.KV
	key      string
	apiTTL   time.Duration
	draftTTL time.Duration
	now      func() time.Time
}

// Option настраивает Store.
type Option func(*Store)

// WithKey переопределяет ключ документа в KV.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithAPITTL переопределяет TTL по умолчанию для API-записей.
func WithAPITTL(ttl time.Duration) Option {
	return func(s *Store) { s.apiTTL = ttl }
}

// WithDraftTTL переопределяет TTL по умолчанию для черновиков.
func WithDraftTTL(ttl time.Duration) Option {
	return func(s *Store) { s.draftTTL = ttl }
}

// WithClock подменяет источник времени (для тестов).
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New создаёт Store поверх готового KV.
func New(kv storage.KV, opts ...Option) *Store {
	s := &Store{
		kv:       kv,
		key:      DefaultKey,
		apiTTL:   DefaultAPITTL,
		draftTTL: DefaultDraftTTL,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ForProfile возвращает представление хранилища над документом
// конкретного профиля: к базовому ключу дописывается идентификатор.
// Черновики оценок приватны и не могут жить в общем документе — иначе
// черновик одного пользователя виден другому, а ClearAll стирает всех.
// Пустой идентификатор возвращает хранилище без изменений.
func (s *Store) ForProfile(profileID string) *Store {
	if profileID == "" {
		return s
	}

	cp := *s
	cp.key = s.key + ":" + profileID

	return &cp
}

// load читает и разбирает документ.
// Отсутствие ключа, битый JSON и несовпадение версии схемы —
// не ошибки: документ считается пустым.
func (s *Store) load(ctx context.Context) (document, error) {
	const op = "cache/cache/load"

	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return document{}, fmt.Errorf("%s: %w", op, err)
	}

	if !ok {
		return emptyDocument(), nil
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		log.From(ctx).Warn("cache_document_corrupted", "err", err.Error())
		return emptyDocument(), nil
	}

	if doc.Version != SchemaVersion {
		log.From(ctx).Warn("cache_document_version_mismatch", "version", doc.Version)
		return emptyDocument(), nil
	}

	if doc.API == nil {
		doc.API = map[string]entry{}
	}

	if doc.Drafts == nil {
		doc.Drafts = map[string]entry{}
	}

	return doc, nil
}

// persist сохраняет документ целиком.
func (s *Store) persist(ctx context.Context, doc document) error {
	const op = "cache/cache/persist"

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.kv.Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// GetAPI читает живую API-запись в dst. Протухшая или отсутствующая
// запись — промах (false, nil); документ при этом не трогаем:
// транзитный мусор перетирается следующей записью по тому же ключу.
func (s *Store) GetAPI(ctx context.Context, key string, dst any) (bool, error) {
	const op = "cache/cache/GetAPI"

	doc, err := s.load(ctx)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	e, ok := doc.API[key]
	if !ok {
		apiMisses.Inc()
		return false, nil
	}

	if !e.live(s.now()) {
		apiExpired.Inc()
		return false, nil
	}

	if err := json.Unmarshal(e.Data, dst); err != nil {
		return false, fmt.Errorf("%s: decode: %w", op, err)
	}

	apiHits.Inc()
	return true, nil
}

// SetAPI сохраняет API-запись с указанным TTL (0 — TTL по умолчанию).
func (s *Store) SetAPI(ctx context.Context, key string, data any, ttl time.Duration) error {
	const op = "cache/cache/SetAPI"

	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("%s: encode: %w", op, err)
	}

	if ttl <= 0 {
		ttl = s.apiTTL
	}

	doc, err := s.load(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	doc.API[key] = entry{
		Data:      raw,
		CachedAt:  s.now().UnixMilli(),
		TTLMillis: ttl.Milliseconds(),
	}

	return s.persist(ctx, doc)
}

// GetDraft возвращает живой черновик оценки.
// Протухший черновик удаляется из документа с пересохранением
// (жадное удаление), после чего ведёт себя как промах.
func (s *Store) GetDraft(ctx context.Context, key string) (*rating.Draft, bool, error) {
	const op = "cache/cache/GetDraft"

	doc, err := s.load(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	e, ok := doc.Drafts[key]
	if !ok {
		draftMisses.Inc()
		return nil, false, nil
	}

	if !e.live(s.now()) {
		draftExpired.Inc()
		delete(doc.Drafts, key)
		if err := s.persist(ctx, doc); err != nil {
			return nil, false, fmt.Errorf("%s: %w", op, err)
		}

		return nil, false, nil
	}

	var d rating.Draft
	if err := json.Unmarshal(e.Data, &d); err != nil {
		return nil, false, fmt.Errorf("%s: decode: %w", op, err)
	}

	draftHits.Inc()
	return &d, true, nil
}

// SetDraft сохраняет черновик с указанным TTL (0 — TTL по умолчанию).
func (s *Store) SetDraft(ctx context.Context, key string, draft rating.Draft, ttl time.Duration) error {
	const op = "cache/cache/SetDraft"

	raw, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("%s: encode: %w", op, err)
	}

	if ttl <= 0 {
		ttl = s.draftTTL
	}

	doc, err := s.load(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	doc.Drafts[key] = entry{
		Data:      raw,
		CachedAt:  s.now().UnixMilli(),
		TTLMillis: ttl.Milliseconds(),
	}

	return s.persist(ctx, doc)
}

// PatchDraft накладывает частичное обновление на живой черновик и
// пересохраняет его со свежей меткой времени. Если живого черновика
// нет — (nil, false, nil) и никакой записи не происходит.
func (s *Store) PatchDraft(ctx context.Context, key string, patch rating.Patch) (*rating.Draft, bool, error) {
	const op = "cache/cache/PatchDraft"

	doc, err := s.load(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	e, ok := doc.Drafts[key]
	if !ok || !e.live(s.now()) {
		return nil, false, nil
	}

	var d rating.Draft
	if err := json.Unmarshal(e.Data, &d); err != nil {
		return nil, false, fmt.Errorf("%s: decode: %w", op, err)
	}

	next := patch.Apply(d)

	raw, err := json.Marshal(next)
	if err != nil {
		return nil, false, fmt.Errorf("%s: encode: %w", op, err)
	}

	doc.Drafts[key] = entry{
		Data:      raw,
		CachedAt:  s.now().UnixMilli(),
		TTLMillis: e.TTLMillis,
	}

	if err := s.persist(ctx, doc); err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	return &next, true, nil
}

// ClearDraft удаляет черновик; отсутствие черновика — не ошибка.
func (s *Store) ClearDraft(ctx context.Context, key string) error {
	const op = "cache/cache/ClearDraft"

	doc, err := s.load(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, ok := doc.Drafts[key]; !ok {
		return nil
	}

	delete(doc.Drafts, key)

	return s.persist(ctx, doc)
}

// ClearAll стирает документ целиком.
func (s *Store) ClearAll(ctx context.Context) error {
	const op = "cache/cache/ClearAll"

	if err := s.kv.Del(ctx, s.key); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
