package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/avikulina/kinolenta/internal/models"
)

// UpsertView идемпотентно фиксирует просмотр: повторный просмотр
// обновляет seen_at, не плодя записей (уникальный индекс по паре
// цель/пользователь). Гонка двух upsert-ов по одной паре проявляется
// как duplicate key — трактуем как успех.
func (m *Mongo) UpsertView(ctx context.Context, view models.View) error {
	const op = "storage/mongo/UpsertView"

	seenAt := view.SeenAt.UTC().Truncate(time.Millisecond)
	if seenAt.IsZero() {
		seenAt = time.Now().UTC().Truncate(time.Millisecond)
	}

	filter := bson.D{
		{Key: "target_type", Value: string(view.TargetType)},
		{Key: "target_id", Value: view.TargetID},
		{Key: "user_id", Value: view.UserID.String()},
	}

	update := bson.D{
		{Key: "$set", Value: bson.D{{Key: "seen_at", Value: seenAt}}},
	}

	_, err := m.views.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return nil
		}

		return fmt.Errorf("%s: upsert: %w", op, err)
	}

	return nil
}
