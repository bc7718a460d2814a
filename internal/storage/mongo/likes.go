package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/avikulina/kinolenta/internal/models"
	"github.com/avikulina/kinolenta/internal/storage"
)

// likeDoc — представление лайка в коллекции likes.
type likeDoc struct {
	TargetType string    `bson:"target_type"`
	TargetID   string    `bson:"target_id"`
	UserID     string    `bson:"user_id"`
	CreatedAt  time.Time `bson:"created_at"`
}

// InsertLike добавляет запись о лайке.
// Повторная вставка той же пары (цель, пользователь) упирается в
// уникальный индекс — наружу отдаём storage.ErrConflict, вызывающий
// слой трактует его как успех (идемпотентное включение).
func (m *Mongo) InsertLike(ctx context.Context, like models.Like) error {
	const op = "storage/mongo/InsertLike"

	doc := likeDoc{
		TargetType: string(like.TargetType),
		TargetID:   like.TargetID,
		UserID:     like.UserID.String(),
		CreatedAt:  like.CreatedAt.UTC().Truncate(time.Millisecond),
	}

	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}

	if _, err := m.likes.InsertOne(ctx, doc); err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrConflict)
		}

		return fmt.Errorf("%s: insert: %w", op, err)
	}

	return nil
}

// DeleteLike удаляет запись о лайке.
// Отсутствие записи — storage.ErrNotFound (вызывающий слой волен
// трактовать это как успех: выключение и так произошло).
func (m *Mongo) DeleteLike(ctx context.Context, target models.LikeTarget, targetID string, userID uuid.UUID) error {
	const op = "storage/mongo/DeleteLike"

	res, err := m.likes.DeleteOne(ctx, bson.D{
		{Key: "target_type", Value: string(target)},
		{Key: "target_id", Value: targetID},
		{Key: "user_id", Value: userID.String()},
	})
	if err != nil {
		return fmt.Errorf("%s: delete: %w", op, err)
	}

	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// IsLiked сообщает, лайкал ли пользователь цель.
func (m *Mongo) IsLiked(ctx context.Context, target models.LikeTarget, targetID string, userID uuid.UUID) (bool, error) {
	const op = "storage/mongo/IsLiked"

	err := m.likes.FindOne(ctx, bson.D{
		{Key: "target_type", Value: string(target)},
		{Key: "target_id", Value: targetID},
		{Key: "user_id", Value: userID.String()},
	}).Err()

	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return false, nil
		}

		return false, fmt.Errorf("%s: %w", op, err)
	}

	return true, nil
}

// CountLikes возвращает точное число лайков цели.
func (m *Mongo) CountLikes(ctx context.Context, target models.LikeTarget, targetID string) (int64, error) {
	const op = "storage/mongo/CountLikes"

	n, err := m.likes.CountDocuments(ctx, bson.D{
		{Key: "target_type", Value: string(target)},
		{Key: "target_id", Value: targetID},
	})
	if err != nil {
		return 0, fmt.Errorf("%s: count: %w", op, err)
	}

	return n, nil
}

// CountLikesMany возвращает счётчики лайков для набора целей одной
// агрегацией ($match + $group по target_id). Цели без лайков в
// результате отсутствуют.
func (m *Mongo) CountLikesMany(ctx context.Context, target models.LikeTarget, ids []string) (map[string]int64, error) {
	const op = "storage/mongo/CountLikesMany"

	out := make(map[string]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	pipeline := mongodriver.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "target_type", Value: string(target)},
			{Key: "target_id", Value: bson.D{{Key: "$in", Value: ids}}},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$target_id"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cur, err := m.likes.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%s: aggregate: %w", op, err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}

		out[row.ID] = row.Count
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return out, nil
}

// LikedMany возвращает подмножество ids, лайкнутых пользователем,
// одним запросом с проекцией только target_id.
func (m *Mongo) LikedMany(ctx context.Context, target models.LikeTarget, ids []string, userID uuid.UUID) (map[string]struct{}, error) {
	const op = "storage/mongo/LikedMany"

	out := make(map[string]struct{}, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cur, err := m.likes.Find(ctx, bson.D{
		{Key: "target_type", Value: string(target)},
		{Key: "target_id", Value: bson.D{{Key: "$in", Value: ids}}},
		{Key: "user_id", Value: userID.String()},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var row likeDoc
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}

		out[row.TargetID] = struct{}{}
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return out, nil
}
