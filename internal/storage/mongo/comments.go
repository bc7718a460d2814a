package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/avikulina/kinolenta/internal/models"
	"github.com/avikulina/kinolenta/internal/storage"
)

// commentDoc — представление комментария в коллекции comments.
type commentDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	PostID         string             `bson:"post_id"`
	ParentID       string             `bson:"parent_id"`
	AuthorID       string             `bson:"author_id"`
	AuthorUsername string             `bson:"author_username"`
	AuthorAvatar   string             `bson:"author_avatar"`
	Content        string             `bson:"content"`
	LikeCount      int64              `bson:"like_count"`
	CreatedAt      time.Time          `bson:"created_at"`
}

func (d commentDoc) toModel() (models.Comment, error) {
	postID, err := uuid.Parse(d.PostID)
	if err != nil {
		return models.Comment{}, fmt.Errorf("bad post_id %q: %w", d.PostID, err)
	}

	authorID, err := uuid.Parse(d.AuthorID)
	if err != nil {
		return models.Comment{}, fmt.Errorf("bad author_id %q: %w", d.AuthorID, err)
	}

	return models.Comment{
		ID:             d.ID.Hex(),
		PostID:         postID,
		ParentID:       d.ParentID,
		AuthorID:       authorID,
		AuthorUsername: d.AuthorUsername,
		AuthorAvatar:   d.AuthorAvatar,
		Content:        d.Content,
		LikeCount:      d.LikeCount,
		CreatedAt:      d.CreatedAt.UTC(),
	}, nil
}

// CreateComment создаёт корневой комментарий или ответ.
//   - Для ответа родитель обязан существовать (ErrParentNotFound)
//     и сам быть корнем (ErrMaxDepthExceeded): глубина дерева
//     зафиксирована одним уровнем.
func (m *Mongo) CreateComment(ctx context.Context, comm models.Comment) (*models.Comment, error) {
	const op = "storage/mongo/CreateComment"

	// MongoDB DateTime хранит миллисекунды.
	now := time.Now().UTC().Truncate(time.Millisecond)
	comm.CreatedAt = now

	if strings.TrimSpace(comm.ParentID) != "" {
		parentOID, err := primitive.ObjectIDFromHex(strings.TrimSpace(comm.ParentID))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrParentNotFound)
		}

		var parent commentDoc
		if err := m.comments.FindOne(ctx, bson.D{{Key: "_id", Value: parentOID}}).Decode(&parent); err != nil {
			if errors.Is(err, mongodriver.ErrNoDocuments) {
				return nil, fmt.Errorf("%s: %w", op, storage.ErrParentNotFound)
			}

			return nil, fmt.Errorf("%s: find parent: %w", op, err)
		}

		if parent.ParentID != "" {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrMaxDepthExceeded)
		}

		// Пост у ответа всегда как у родителя (защита от рассинхрона).
		parentPostID, err := uuid.Parse(parent.PostID)
		if err != nil {
			return nil, fmt.Errorf("%s: bad parent post_id %q: %w", op, parent.PostID, err)
		}

		comm.PostID = parentPostID
		comm.ParentID = parentOID.Hex()
	}

	doc := commentDoc{
		PostID:         comm.PostID.String(),
		ParentID:       comm.ParentID,
		AuthorID:       comm.AuthorID.String(),
		AuthorUsername: comm.AuthorUsername,
		AuthorAvatar:   comm.AuthorAvatar,
		Content:        comm.Content,
		CreatedAt:      now,
	}

	res, err := m.comments.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%s: insert: %w", op, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		// Mongo всегда возвращает ObjectID.
		return nil, fmt.Errorf("%s: inserted id type", op)
	}

	comm.ID = oid.Hex()
	return &comm, nil
}

// DeleteComment удаляет комментарий; корень — вместе с ответами и их
// лайками. Возвращает общее число удалённых узлов.
// Отсутствие записи — storage.ErrNotFound.
func (m *Mongo) DeleteComment(ctx context.Context, id string) (int64, error) {
	const op = "storage/mongo/DeleteComment"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	var doc commentDoc
	if err := m.comments.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return 0, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return 0, fmt.Errorf("%s: find: %w", op, err)
	}

	removed := int64(0)
	likeTargets := []string{oid.Hex()}

	if doc.ParentID == "" {
		// Сначала ответы: если удаление корня не дойдёт до конца,
		// сирот в выдаче всё равно не будет — сборка ветки их отбрасывает.
		cur, err := m.comments.Find(ctx, bson.D{{Key: "parent_id", Value: oid.Hex()}},
			options.Find().SetProjection(bson.D{{Key: "_id", Value: 1}}))
		if err != nil {
			return 0, fmt.Errorf("%s: find replies: %w", op, err)
		}

		for cur.Next(ctx) {
			var row struct {
				ID primitive.ObjectID `bson:"_id"`
			}
			if err := cur.Decode(&row); err != nil {
				cur.Close(ctx)
				return 0, fmt.Errorf("%s: decode reply: %w", op, err)
			}
			likeTargets = append(likeTargets, row.ID.Hex())
		}

		if err := cur.Err(); err != nil {
			cur.Close(ctx)
			return 0, fmt.Errorf("%s: cursor: %w", op, err)
		}
		cur.Close(ctx)

		delRes, err := m.comments.DeleteMany(ctx, bson.D{{Key: "parent_id", Value: oid.Hex()}})
		if err != nil {
			return 0, fmt.Errorf("%s: delete replies: %w", op, err)
		}
		removed += delRes.DeletedCount
	}

	delRes, err := m.comments.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return 0, fmt.Errorf("%s: delete: %w", op, err)
	}
	removed += delRes.DeletedCount

	// Лайки удалённых узлов чистим в ту же операцию; неуспех не
	// критичен для выдачи, но оставлять мусор не хочется.
	_, _ = m.likes.DeleteMany(ctx, bson.D{
		{Key: "target_type", Value: bson.D{{Key: "$in", Value: bson.A{
			string(models.LikeComment), string(models.LikeReply),
		}}}},
		{Key: "target_id", Value: bson.D{{Key: "$in", Value: likeTargets}}},
	})

	return removed, nil
}

// FetchThread возвращает полную двухуровневую ветку поста одной парой
// запросов: корни (created_at DESC, _id DESC) и все ответы корней
// (created_at ASC, _id ASC).
func (m *Mongo) FetchThread(ctx context.Context, postID uuid.UUID) (*models.Thread, error) {
	const op = "storage/mongo/FetchThread"

	rootOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	rootCur, err := m.comments.Find(ctx, bson.D{
		{Key: "post_id", Value: postID.String()},
		{Key: "parent_id", Value: ""},
	}, rootOpts)
	if err != nil {
		return nil, fmt.Errorf("%s: find roots: %w", op, err)
	}

	roots, err := decodeComments(ctx, rootCur)
	if err != nil {
		return nil, fmt.Errorf("%s: roots: %w", op, err)
	}

	replyOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	replyCur, err := m.comments.Find(ctx, bson.D{
		{Key: "post_id", Value: postID.String()},
		{Key: "parent_id", Value: bson.D{{Key: "$ne", Value: ""}}},
	}, replyOpts)
	if err != nil {
		return nil, fmt.Errorf("%s: find replies: %w", op, err)
	}

	replies, err := decodeComments(ctx, replyCur)
	if err != nil {
		return nil, fmt.Errorf("%s: replies: %w", op, err)
	}

	return &models.Thread{Roots: roots, Replies: replies}, nil
}

func decodeComments(ctx context.Context, cur *mongodriver.Cursor) ([]models.Comment, error) {
	defer cur.Close(ctx)

	var items []models.Comment
	for cur.Next(ctx) {
		var doc commentDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}

		comm, err := doc.toModel()
		if err != nil {
			return nil, err
		}

		items = append(items, comm)
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("cursor: %w", err)
	}

	return items, nil
}
