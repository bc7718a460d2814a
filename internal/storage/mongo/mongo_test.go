package mongo

// Интеграционные тесты хранилища engagement (MongoDB в testcontainers).
//
// Запуск:
//   GO_TEST_INTEGRATION=1 go test ./internal/storage/mongo -v -count=1
//
// Без GO_TEST_INTEGRATION контейнер не поднимается, интеграционные
// тесты скипаются; чистые хелперы проверяются всегда.

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/avikulina/kinolenta/internal/config"
	"github.com/avikulina/kinolenta/internal/models"
	"github.com/avikulina/kinolenta/internal/storage"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// testTimeout — общий дедлайн на операции с БД в тестах.
const testTimeout = 10 * time.Second

// TestMain запускает MongoDB в контейнере один раз на весь пакет тестов.
// Адрес контейнера прокидывается в ENV DATABASE_URL, а каждый тест
// создаёт свою БД с уникальным именем (см. newTestConfig).
func TestMain(m *testing.M) {
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		os.Exit(m.Run())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "mongo:7.0",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForLog("Waiting for connections").WithStartupTimeout(90 * time.Second),
	}

	mongoC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start mongo testcontainer: %v\n", err)
		os.Exit(1)
	}

	host, err := mongoC.Host(ctx)
	if err != nil {
		_ = mongoC.Terminate(ctx)
		fmt.Fprintf(os.Stderr, "failed to get container host: %v\n", err)
		os.Exit(1)
	}

	port, err := mongoC.MappedPort(ctx, "27017/tcp")
	if err != nil {
		_ = mongoC.Terminate(ctx)
		fmt.Fprintf(os.Stderr, "failed to get mapped port: %v\n", err)
		os.Exit(1)
	}

	uri := fmt.Sprintf("mongodb://%s:%s", host, port.Port())
	_ = os.Setenv("DATABASE_URL", uri)

	code := m.Run()

	_ = mongoC.Terminate(context.Background())
	os.Exit(code)
}

// newTestConfig создаёт конфиг с отдельной тестовой БД.
func newTestConfig(t *testing.T) *config.Config {
	t.Helper()

	baseURL := os.Getenv("DATABASE_URL")
	if baseURL == "" {
		baseURL = "mongodb://localhost:27017"
	}

	dbName := "engagement_test_" + uuid.New().String()
	if baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL + dbName
	} else {
		baseURL = baseURL + "/" + dbName
	}

	return &config.Config{
		DB: config.DBConfig{
			URL: baseURL,
		},
	}
}

// mustNewMongo подключается к тестовой БД и регистрирует очистку.
func mustNewMongo(t *testing.T, cfg *config.Config) *Mongo {
	t.Helper()

	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("set GO_TEST_INTEGRATION=1 to run mongo integration tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	m, err := New(ctx, cfg)
	if err != nil {
		t.Fatalf("cannot connect to MongoDB in container: %v (DATABASE_URL=%s)", err, cfg.DB.URL)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		defer cancel()
		_ = m.db.Drop(ctx)
		_ = m.Close(ctx)
	})

	return m
}

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	t.Cleanup(cancel)
	return ctx
}

// TestDatabaseFromURI — чистый хелпер, работает без контейнера.
func TestDatabaseFromURI(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want string
	}{
		{"with-db", "mongodb://localhost:27017/engagement_x", "engagement_x"},
		{"no-db", "mongodb://localhost:27017", defaultDBName},
		{"trailing-slash", "mongodb://localhost:27017/", defaultDBName},
		{"with-params", "mongodb://u:p@localhost:27017/custom?replicaSet=rs0", "custom"},
	}
	for _, tt := range tests {
		if got := databaseFromURI(tt.uri); got != tt.want {
			t.Errorf("%s: want %q, got %q", tt.name, tt.want, got)
		}
	}
}

// Идемпотентность лайка: повторная вставка той же пары — ErrConflict,
// повторное удаление — ErrNotFound.
func TestLikes_Lifecycle(t *testing.T) {
	m := mustNewMongo(t, newTestConfig(t))
	ctx := testCtx(t)

	uid := uuid.New()
	like := models.Like{
		TargetType: models.LikePost,
		TargetID:   "p1",
		UserID:     uid,
		CreatedAt:  time.Now().UTC(),
	}

	if err := m.InsertLike(ctx, like); err != nil {
		t.Fatalf("InsertLike error: %v", err)
	}

	if err := m.InsertLike(ctx, like); !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("duplicate InsertLike: want ErrConflict, got %v", err)
	}

	liked, err := m.IsLiked(ctx, models.LikePost, "p1", uid)
	if err != nil || !liked {
		t.Fatalf("IsLiked: want (true, nil), got (%v, %v)", liked, err)
	}

	n, err := m.CountLikes(ctx, models.LikePost, "p1")
	if err != nil || n != 1 {
		t.Fatalf("CountLikes: want (1, nil), got (%d, %v)", n, err)
	}

	if err := m.DeleteLike(ctx, models.LikePost, "p1", uid); err != nil {
		t.Fatalf("DeleteLike error: %v", err)
	}

	if err := m.DeleteLike(ctx, models.LikePost, "p1", uid); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("second DeleteLike: want ErrNotFound, got %v", err)
	}

	liked, err = m.IsLiked(ctx, models.LikePost, "p1", uid)
	if err != nil || liked {
		t.Fatalf("IsLiked after delete: want (false, nil), got (%v, %v)", liked, err)
	}
}

// Разные типы целей с одинаковым id не пересекаются.
func TestLikes_TargetTypesAreIsolated(t *testing.T) {
	m := mustNewMongo(t, newTestConfig(t))
	ctx := testCtx(t)

	uid := uuid.New()
	for _, target := range []models.LikeTarget{models.LikePost, models.LikeComment} {
		if err := m.InsertLike(ctx, models.Like{
			TargetType: target, TargetID: "x1", UserID: uid, CreatedAt: time.Now().UTC(),
		}); err != nil {
			t.Fatalf("InsertLike(%s) error: %v", target, err)
		}
	}

	n, err := m.CountLikes(ctx, models.LikePost, "x1")
	if err != nil || n != 1 {
		t.Fatalf("CountLikes(post): want 1, got (%d, %v)", n, err)
	}
}

// Батчи: счётчики и подмножество лайкнутого одним запросом.
func TestLikes_Batches(t *testing.T) {
	m := mustNewMongo(t, newTestConfig(t))
	ctx := testCtx(t)

	me := uuid.New()
	other := uuid.New()

	seed := []models.Like{
		{TargetType: models.LikeComment, TargetID: "c1", UserID: me},
		{TargetType: models.LikeComment, TargetID: "c1", UserID: other},
		{TargetType: models.LikeComment, TargetID: "c2", UserID: other},
	}
	for _, l := range seed {
		l.CreatedAt = time.Now().UTC()
		if err := m.InsertLike(ctx, l); err != nil {
			t.Fatalf("seed InsertLike error: %v", err)
		}
	}

	counts, err := m.CountLikesMany(ctx, models.LikeComment, []string{"c1", "c2", "c3"})
	if err != nil {
		t.Fatalf("CountLikesMany error: %v", err)
	}
	if counts["c1"] != 2 || counts["c2"] != 1 {
		t.Fatalf("CountLikesMany: want c1=2 c2=1, got %v", counts)
	}
	if _, ok := counts["c3"]; ok {
		t.Fatalf("CountLikesMany: target without likes must be absent, got %v", counts)
	}

	likedSet, err := m.LikedMany(ctx, models.LikeComment, []string{"c1", "c2", "c3"}, me)
	if err != nil {
		t.Fatalf("LikedMany error: %v", err)
	}
	if _, ok := likedSet["c1"]; !ok {
		t.Fatalf("LikedMany: want c1 present, got %v", likedSet)
	}
	if len(likedSet) != 1 {
		t.Fatalf("LikedMany: want exactly {c1}, got %v", likedSet)
	}
}

// Создание: ответ наследует post_id родителя; ответ на ответ запрещён;
// ответ на несуществующий корень — ErrParentNotFound.
func TestCreateComment_TreeRules(t *testing.T) {
	m := mustNewMongo(t, newTestConfig(t))
	ctx := testCtx(t)

	postID := uuid.New()

	root, err := m.CreateComment(ctx, models.Comment{
		PostID:         postID,
		AuthorID:       uuid.New(),
		AuthorUsername: "alice",
		Content:        "root",
		CreatedAt:      time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateComment(root) error: %v", err)
	}
	if root.ID == "" {
		t.Fatalf("expected generated ID")
	}

	reply, err := m.CreateComment(ctx, models.Comment{
		ParentID:       root.ID,
		AuthorID:       uuid.New(),
		AuthorUsername: "bob",
		Content:        "reply",
		CreatedAt:      time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateComment(reply) error: %v", err)
	}
	if reply.PostID != postID {
		t.Fatalf("reply must inherit post_id: want %s, got %s", postID, reply.PostID)
	}

	_, err = m.CreateComment(ctx, models.Comment{
		ParentID:  reply.ID,
		AuthorID:  uuid.New(),
		Content:   "nested",
		CreatedAt: time.Now().UTC(),
	})
	if !errors.Is(err, storage.ErrMaxDepthExceeded) {
		t.Fatalf("reply-to-reply: want ErrMaxDepthExceeded, got %v", err)
	}

	_, err = m.CreateComment(ctx, models.Comment{
		ParentID:  "507f1f77bcf86cd799439011",
		AuthorID:  uuid.New(),
		Content:   "orphan",
		CreatedAt: time.Now().UTC(),
	})
	if !errors.Is(err, storage.ErrParentNotFound) {
		t.Fatalf("reply to missing parent: want ErrParentNotFound, got %v", err)
	}
}

// Битый post_id у родителя — ошибка ответа, не паника процесса.
func TestCreateComment_CorruptParent(t *testing.T) {
	m := mustNewMongo(t, newTestConfig(t))
	ctx := testCtx(t)

	res, err := m.comments.InsertOne(ctx, bson.D{
		{Key: "post_id", Value: "not-a-uuid"},
		{Key: "parent_id", Value: ""},
		{Key: "author_id", Value: uuid.New().String()},
		{Key: "author_username", Value: "mallory"},
		{Key: "content", Value: "corrupt root"},
		{Key: "created_at", Value: time.Now().UTC()},
	})
	if err != nil {
		t.Fatalf("seed corrupt parent error: %v", err)
	}

	parentID := res.InsertedID.(primitive.ObjectID).Hex()

	_, err = m.CreateComment(ctx, models.Comment{
		ParentID:  parentID,
		AuthorID:  uuid.New(),
		Content:   "reply to corrupt",
		CreatedAt: time.Now().UTC(),
	})
	if err == nil {
		t.Fatalf("reply to corrupt parent: want error, got nil")
	}
}

// Выдача ветки: корни от новых к старым, ответы от старых к новым.
func TestFetchThread_Ordering(t *testing.T) {
	m := mustNewMongo(t, newTestConfig(t))
	ctx := testCtx(t)

	postID := uuid.New()

	// CreatedAt проставляет само хранилище; порядок задаётся
	// порядком вставки (ничья по времени решается _id).
	var rootIDs []string
	for i := 0; i < 3; i++ {
		c, err := m.CreateComment(ctx, models.Comment{
			PostID:         postID,
			AuthorID:       uuid.New(),
			AuthorUsername: fmt.Sprintf("user%d", i),
			Content:        fmt.Sprintf("root %d", i),
		})
		if err != nil {
			t.Fatalf("seed root error: %v", err)
		}
		rootIDs = append(rootIDs, c.ID)
	}

	var replyIDs []string
	for i := 0; i < 2; i++ {
		r, err := m.CreateComment(ctx, models.Comment{
			ParentID: rootIDs[0],
			AuthorID: uuid.New(),
			Content:  fmt.Sprintf("reply %d", i),
		})
		if err != nil {
			t.Fatalf("seed reply error: %v", err)
		}
		replyIDs = append(replyIDs, r.ID)
	}

	thread, err := m.FetchThread(ctx, postID)
	if err != nil {
		t.Fatalf("FetchThread error: %v", err)
	}

	if len(thread.Roots) != 3 || len(thread.Replies) != 2 {
		t.Fatalf("thread size: want 3 roots / 2 replies, got %d/%d", len(thread.Roots), len(thread.Replies))
	}

	// Корни: от новых к старым.
	if thread.Roots[0].ID != rootIDs[2] || thread.Roots[2].ID != rootIDs[0] {
		t.Fatalf("roots must be newest-first, got %v", []string{thread.Roots[0].ID, thread.Roots[1].ID, thread.Roots[2].ID})
	}

	// Ответы: от старых к новым.
	if thread.Replies[0].ID != replyIDs[0] || thread.Replies[1].ID != replyIDs[1] {
		t.Fatalf("replies must be oldest-first, got %v", []string{thread.Replies[0].ID, thread.Replies[1].ID})
	}
}

// Удаление корня сносит его ответы и их лайки; возвращается общее
// число удалённых узлов.
func TestDeleteComment_RootCascades(t *testing.T) {
	m := mustNewMongo(t, newTestConfig(t))
	ctx := testCtx(t)

	postID := uuid.New()

	root, err := m.CreateComment(ctx, models.Comment{
		PostID:    postID,
		AuthorID:  uuid.New(),
		Content:   "root",
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateComment(root) error: %v", err)
	}

	var replyID string
	for i := 0; i < 2; i++ {
		r, err := m.CreateComment(ctx, models.Comment{
			ParentID:  root.ID,
			AuthorID:  uuid.New(),
			Content:   fmt.Sprintf("reply %d", i),
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("CreateComment(reply) error: %v", err)
		}
		replyID = r.ID
	}

	if err := m.InsertLike(ctx, models.Like{
		TargetType: models.LikeReply, TargetID: replyID, UserID: uuid.New(), CreatedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("seed like error: %v", err)
	}

	removed, err := m.DeleteComment(ctx, root.ID)
	if err != nil {
		t.Fatalf("DeleteComment error: %v", err)
	}
	if removed != 3 {
		t.Fatalf("removed: want 3 (root + 2 replies), got %d", removed)
	}

	thread, err := m.FetchThread(ctx, postID)
	if err != nil {
		t.Fatalf("FetchThread error: %v", err)
	}
	if len(thread.Roots) != 0 || len(thread.Replies) != 0 {
		t.Fatalf("thread must be empty after cascade delete")
	}

	n, err := m.CountLikes(ctx, models.LikeReply, replyID)
	if err != nil || n != 0 {
		t.Fatalf("likes of removed reply: want 0, got (%d, %v)", n, err)
	}

	if _, err := m.DeleteComment(ctx, root.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("second DeleteComment: want ErrNotFound, got %v", err)
	}
}

// Повторная отметка просмотра — не ошибка (upsert).
func TestUpsertView_Idempotent(t *testing.T) {
	m := mustNewMongo(t, newTestConfig(t))
	ctx := testCtx(t)

	view := models.View{
		TargetType: models.SeenPost,
		TargetID:   "p1",
		UserID:     uuid.New(),
		SeenAt:     time.Now().UTC(),
	}

	if err := m.UpsertView(ctx, view); err != nil {
		t.Fatalf("UpsertView error: %v", err)
	}

	view.SeenAt = view.SeenAt.Add(time.Minute)
	if err := m.UpsertView(ctx, view); err != nil {
		t.Fatalf("second UpsertView error: %v", err)
	}
}
