package session

import (
	"context"

	"github.com/avikulina/kinolenta/internal/models"
	"github.com/avikulina/kinolenta/internal/pkg/log"
)

// TogglePostLike оптимистично переключает лайк поста.
//
// Локальный флаг и счётчик меняются синхронно, поход в шлюз — следом;
// при ошибке состояние откатывается к точному снимку. Ошибка лайка
// пользователю не показывается: тихий откат менее разрушителен, чем
// диалог об ошибке. При успехе счётчик сверяется с авторитетным
// значением повторным запросом — только для поста, у комментариев
// оптимистичной дельте доверяем.
func (c *Controller) TogglePostLike(ctx context.Context) {
	postID := c.params.PostID.String()

	c.mu.Lock()
	next := !c.liked
	c.mu.Unlock()

	err := c.optimistic(
		func() func() {
			prevLiked, prevCount := c.liked, c.likeCount
			c.liked = next
			if next {
				c.likeCount++
			} else {
				c.likeCount--
			}

			return func() {
				c.liked, c.likeCount = prevLiked, prevCount
			}
		},
		func() error {
			return c.gw.ToggleLike(ctx, c.params.Actor, models.LikePost, postID, next)
		},
	)
	if err != nil {
		log.From(ctx).Warn("post like toggle reverted", "post_id", postID, "err", err)
		return
	}

	n, err := c.gw.CountLikes(ctx, models.LikePost, postID)
	if err != nil {
		// Сверка не удалась — остаёмся на оптимистичном значении.
		log.From(ctx).Warn("post like count reconcile failed", "post_id", postID, "err", err)
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	c.likeCount = n
	c.mu.Unlock()

	c.notify()
}

// ToggleCommentLike оптимистично переключает лайк корневого комментария.
func (c *Controller) ToggleCommentLike(ctx context.Context, id string) {
	c.toggleNodeLike(ctx, models.LikeComment, id)
}

// ToggleReplyLike оптимистично переключает лайк ответа.
func (c *Controller) ToggleReplyLike(ctx context.Context, id string) {
	c.toggleNodeLike(ctx, models.LikeReply, id)
}

// toggleNodeLike — общий путь для лайков узлов ветки: откат при
// ошибке, без авторитетной сверки при успехе (поход дорог относительно
// пользы на этой гранулярности).
func (c *Controller) toggleNodeLike(ctx context.Context, target models.LikeTarget, id string) {
	c.mu.Lock()
	next := !c.likedByID[id]
	c.mu.Unlock()

	err := c.optimistic(
		func() func() {
			prevLiked := c.likedByID[id]
			prevCount := c.countByID[id]

			c.likedByID[id] = next
			if next {
				c.countByID[id] = prevCount + 1
			} else {
				c.countByID[id] = prevCount - 1
			}

			return func() {
				c.likedByID[id] = prevLiked
				c.countByID[id] = prevCount
			}
		},
		func() error {
			return c.gw.ToggleLike(ctx, c.params.Actor, target, id, next)
		},
	)
	if err != nil {
		log.From(ctx).Warn("node like toggle reverted",
			"target_type", string(target), "target_id", id, "err", err)
	}
}
