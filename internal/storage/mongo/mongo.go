package mongo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/avikulina/kinolenta/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	commentsCollection = "comments"
	likesCollection    = "likes"
	viewsCollection    = "views"
	defaultDBName      = "engagement"
)

// Mongo — тонкий адаптер для подключения и коллекций MongoDB.
type Mongo struct {
	cfg      *config.Config
	client   *mongodriver.Client
	db       *mongodriver.Database
	comments *mongodriver.Collection
	likes    *mongodriver.Collection
	views    *mongodriver.Collection
}

// New подключается к MongoDB, проверяет соединение, подготавливает
// коллекции и обеспечивает индексацию.
func New(ctx context.Context, cfg *config.Config) (*Mongo, error) {
	if cfg == nil {
		return nil, fmt.Errorf("mongo: nil config")
	}

	if cfg.DB.URL == "" {
		return nil, fmt.Errorf("mongo: empty cfg.DB.URL")
	}

	cli, err := mongodriver.Connect(ctx, options.Client().ApplyURI(cfg.DB.URL))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	dbName := databaseFromURI(cfg.DB.URL)
	db := cli.Database(dbName)

	m := &Mongo{
		cfg:      cfg,
		client:   cli,
		db:       db,
		comments: db.Collection(commentsCollection),
		likes:    db.Collection(likesCollection),
		views:    db.Collection(viewsCollection),
	}

	if err := m.ensureIndexes(ctx); err != nil {
		_ = m.Close(ctx)
		return nil, err
	}

	return m, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// ensureIndexes создаёт индексы engagement-коллекций:
//   - likes: уникальность (target_type, target_id, user_id) — именно на этот
//     индекс опирается идемпотентность повторного лайка;
//   - likes: (target_type, target_id) для счётчиков;
//   - comments: выдача корней post_id + parent_id + created_at(desc);
//   - comments: ответы ветки parent_id + created_at(asc);
//   - views: уникальность (target_type, target_id, user_id) для upsert.
func (m *Mongo) ensureIndexes(ctx context.Context) error {
	likeModels := []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "target_type", Value: 1}, {Key: "target_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetName("like_identity_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "target_type", Value: 1}, {Key: "target_id", Value: 1}},
			Options: options.Index().SetName("like_target"),
		},
	}

	if _, err := m.likes.Indexes().CreateMany(ctx, likeModels); err != nil {
		return fmt.Errorf("mongo ensure likes indexes: %w", err)
	}

	commentModels := []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "post_id", Value: 1}, {Key: "parent_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("post_parent_created_desc"),
		},
		{
			Keys:    bson.D{{Key: "parent_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("parent_created_asc"),
		},
	}

	if _, err := m.comments.Indexes().CreateMany(ctx, commentModels); err != nil {
		return fmt.Errorf("mongo ensure comments indexes: %w", err)
	}

	viewModels := []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "target_type", Value: 1}, {Key: "target_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetName("view_identity_unique").SetUnique(true),
		},
	}

	if _, err := m.views.Indexes().CreateMany(ctx, viewModels); err != nil {
		return fmt.Errorf("mongo ensure views indexes: %w", err)
	}

	return nil
}

// databaseFromURI извлекает имя базы из URI-пути mongodb.
// Если оно отсутствует или не разбирается — возвращает значение по умолчанию.
func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}
	return defaultDBName
}
