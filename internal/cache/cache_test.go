package cache

// Тесты локального кэш-хранилища (internal/cache/cache.go).
//
//  Проверяем:
//  - живость записи — чистая функция (cachedAt, ttl, now);
//  - протухшая запись неотличима от отсутствующей;
//  - GetDraft жадно удаляет протухший черновик (с пересохранением),
//    GetAPI протухшие записи не трогает;
//  - PatchDraft: на отсутствующем/протухшем черновике — (absent, без записи),
//    на живом — меняются только поля патча, cachedAt обновляется;
//  - round-trip: записанный черновик читается deep-equal до истечения TTL;
//  - документ чужой версии схемы отбрасывается целиком, без ошибки;
//  - ClearAll стирает документ.

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/avikulina/kinolenta/internal/rating"
)

// memKV — KV в памяти для тестов.
type memKV struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemKV() *memKV {
	return &memKV{data: map[string][]byte{}}
}

func (m *memKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.sets++
	return nil
}

func (m *memKV) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memKV) Close() error { return nil }

// testClock — управляемое время.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newStore(t *testing.T) (*Store, *memKV, *testClock) {
	t.Helper()
	kv := newMemKV()
	clock := &testClock{now: time.Unix(1_700_000_000, 0).UTC()}
	return New(kv, WithClock(clock.Now)), kv, clock
}

func sampleDraft() rating.Draft {
	d := rating.Draft{
		MediaID:     "tt0068646",
		Kind:        rating.KindMovie,
		Title:       "The Godfather",
		ReleaseDate: "1972-03-24",
		Criteria:    rating.Criteria{Acting: 10, Climax: 9, Visuals: 8, Story: 10, Pacing: 8, Ending: 9},
		UpdatedAt:   time.Unix(1_700_000_000, 0).UTC(),
	}
	d.Normalize()
	return d
}

func TestStore_API_RoundTripAndExpiry(t *testing.T) {
	s, _, clock := newStore(t)
	ctx := context.Background()

	in := map[string]any{"title": "Dune", "year": float64(2021)}
	require.NoError(t, s.SetAPI(ctx, "tt1160419", in, 0))

	var out map[string]any
	ok, err := s.GetAPI(ctx, "tt1160419", &out)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, in, out)

	// Ровно на границе TTL запись ещё жива.
	clock.Advance(DefaultAPITTL)
	ok, err = s.GetAPI(ctx, "tt1160419", &out)
	require.NoError(t, err)
	require.True(t, ok)

	// За границей — промах.
	clock.Advance(time.Millisecond)
	ok, err = s.GetAPI(ctx, "tt1160419", &out)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStore_GetAPI_ExpiredDoesNotRewrite(t *testing.T) {
	s, kv, clock := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetAPI(ctx, "k", "v", time.Minute))
	before := kv.sets

	clock.Advance(2 * time.Minute)
	var out string
	ok, err := s.GetAPI(ctx, "k", &out)
	require.NoError(t, err)
	require.False(t, ok)

	// Ленивое истечение без жадного удаления: записей в KV не прибавилось.
	require.Equal(t, before, kv.sets)
}

func TestStore_GetDraft_ExpiredEagerlyDeleted(t *testing.T) {
	s, kv, clock := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetDraft(ctx, "m1", sampleDraft(), time.Hour))
	before := kv.sets

	clock.Advance(2 * time.Hour)
	_, ok, err := s.GetDraft(ctx, "m1")
	require.NoError(t, err)
	require.False(t, ok)

	// Протухший черновик удалён с пересохранением документа.
	require.Equal(t, before+1, kv.sets)

	// Ключа больше нет даже при «старом» времени.
	raw, found, err := kv.Get(ctx, DefaultKey)
	require.NoError(t, err)
	require.True(t, found)
	var doc document
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.NotContains(t, doc.Drafts, "m1")
}

func TestStore_Draft_RoundTrip(t *testing.T) {
	s, _, _ := newStore(t)
	ctx := context.Background()

	in := sampleDraft()
	require.NoError(t, s.SetDraft(ctx, in.MediaID, in, 0))

	out, ok, err := s.GetDraft(ctx, in.MediaID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, in.MediaID, out.MediaID)
	require.Equal(t, in.Kind, out.Kind)
	require.Equal(t, in.Title, out.Title)
	require.Equal(t, in.ReleaseDate, out.ReleaseDate)
	require.Equal(t, in.Overall, out.Overall)
	require.Equal(t, in.Criteria, out.Criteria)
	// time.Time сравниваем через Equal: внутреннее представление
	// после JSON round-trip отличается.
	require.True(t, in.UpdatedAt.Equal(out.UpdatedAt))
}

func TestStore_PatchDraft_AbsentOrExpired(t *testing.T) {
	s, kv, clock := newStore(t)
	ctx := context.Background()

	title := "x"

	// Нет черновика — absent, никаких записей.
	got, ok, err := s.PatchDraft(ctx, "none", rating.Patch{Title: &title})
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, got)
	require.Zero(t, kv.sets)

	// Протухший черновик — тоже absent и без записи.
	require.NoError(t, s.SetDraft(ctx, "m1", sampleDraft(), time.Hour))
	before := kv.sets
	clock.Advance(2 * time.Hour)

	got, ok, err = s.PatchDraft(ctx, "m1", rating.Patch{Title: &title})
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, got)
	require.Equal(t, before, kv.sets)
}

func TestStore_PatchDraft_MergesAndRefreshes(t *testing.T) {
	s, _, clock := newStore(t)
	ctx := context.Background()

	in := sampleDraft()
	require.NoError(t, s.SetDraft(ctx, in.MediaID, in, 0))

	clock.Advance(time.Hour)

	crit := in.Criteria
	crit.Ending = 10
	got, ok, err := s.PatchDraft(ctx, in.MediaID, rating.Patch{Criteria: &crit})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, crit, got.Criteria)
	require.Equal(t, crit.Overall(rating.KindMovie), got.Overall)
	// Прочие поля не тронуты.
	require.Equal(t, in.Title, got.Title)
	require.Equal(t, in.ReleaseDate, got.ReleaseDate)

	// cachedAt обновлён: черновик живёт ещё полный TTL от момента патча.
	clock.Advance(DefaultDraftTTL - time.Minute)
	_, ok, err = s.GetDraft(ctx, in.MediaID)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestStore_VersionMismatchDiscarded(t *testing.T) {
	s, kv, _ := newStore(t)
	ctx := context.Background()

	// Документ «прошлой» схемы с живой записью.
	raw, err := json.Marshal(map[string]any{
		"v":      1,
		"api":    map[string]any{"k": map[string]any{"data": "v", "cachedAt": time.Now().UnixMilli(), "timeToLiveMs": 1 << 40}},
		"drafts": map[string]any{},
	})
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, DefaultKey, raw))

	var out string
	ok, err := s.GetAPI(ctx, "k", &out)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStore_CorruptedDocumentTreatedAsEmpty(t *testing.T) {
	s, kv, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, DefaultKey, []byte("{not json")))

	var out string
	ok, err := s.GetAPI(ctx, "k", &out)
	require.NoError(t, err)
	require.False(t, ok)

	// Запись поверх битого документа создаёт свежий.
	require.NoError(t, s.SetAPI(ctx, "k", "v", 0))
	ok, err = s.GetAPI(ctx, "k", &out)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", out)
}

func TestStore_NamespacesIndependent(t *testing.T) {
	s, _, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetAPI(ctx, "same-key", "api-data", 0))
	require.NoError(t, s.SetDraft(ctx, "same-key", sampleDraft(), 0))

	var out string
	ok, err := s.GetAPI(ctx, "same-key", &out)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, s.ClearDraft(ctx, "same-key"))

	// Удаление черновика не задевает API-пространство.
	ok, err = s.GetAPI(ctx, "same-key", &out)
	require.NoError(t, err)
	require.True(t, ok)
}

// Документы профилей независимы: черновики не пересекаются по одному
// media id, ClearAll одного профиля не трогает другой и общий документ.
func TestStore_ForProfile_Isolation(t *testing.T) {
	s, kv, _ := newStore(t)
	ctx := context.Background()

	alice := s.ForProfile("u-alice")
	bob := s.ForProfile("u-bob")

	da := sampleDraft()
	da.Title = "alice cut"
	db := sampleDraft()
	db.Title = "bob cut"

	require.NoError(t, alice.SetDraft(ctx, da.MediaID, da, 0))
	require.NoError(t, bob.SetDraft(ctx, db.MediaID, db, 0))

	got, ok, err := alice.GetDraft(ctx, da.MediaID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "alice cut", got.Title)

	got, ok, err = bob.GetDraft(ctx, db.MediaID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "bob cut", got.Title)

	// В общем документе черновиков профилей нет.
	_, ok, err = s.GetDraft(ctx, da.MediaID)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, alice.ClearAll(ctx))

	_, ok, err = bob.GetDraft(ctx, db.MediaID)
	require.NoError(t, err)
	require.True(t, ok)

	// Пустой идентификатор — то же хранилище, тот же ключ.
	require.NoError(t, s.ForProfile("").SetAPI(ctx, "k", "v", 0))
	_, found, err := kv.Get(ctx, DefaultKey)
	require.NoError(t, err)
	require.True(t, found)
}

func TestStore_ClearAll(t *testing.T) {
	s, kv, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetAPI(ctx, "k", "v", 0))
	require.NoError(t, s.SetDraft(ctx, "d", sampleDraft(), 0))
	require.NoError(t, s.ClearAll(ctx))

	_, found, err := kv.Get(ctx, DefaultKey)
	require.NoError(t, err)
	require.False(t, found)
}
