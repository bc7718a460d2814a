package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avikulina/kinolenta/internal/moderation"
	"github.com/avikulina/kinolenta/internal/pkg/log"
	"github.com/avikulina/kinolenta/internal/service"
)

// Submit отправляет комментарий или ответ (если задан контекст ответа
// через BeginReply).
//
// Протокол:
//   - текст обрезается; пустой — no-op;
//   - текст проходит модерацию; отказ показывается в Notice на
//     noticeDelay (затем черновик пользователя восстанавливается) и
//     возвращается ErrRejected с причиной;
//   - принятый текст уходит в шлюз; созданный узел вставляется в начало
//     нужного ведра, контекст ответа и черновик очищаются, новый узел
//     подсвечивается; для ответа видимое окно раскрытия расширяется,
//     чтобы свой ответ был виден без клика по «показать ответы».
//
// Флаг submitting блокирует повторную отправку, пока первая в полёте.
func (c *Controller) Submit(ctx context.Context, raw string) error {
	const op = "session/comments/Submit"

	text := strings.TrimSpace(raw)
	if text == "" {
		return nil
	}

	c.mu.Lock()
	if c.closed || c.submitting {
		c.mu.Unlock()
		return nil
	}

	parentID := c.replyTo
	mctx := c.moderationContextLocked(parentID)
	c.submitting = true
	c.mu.Unlock()

	c.notify()

	if res := moderation.Validate(text, mctx); !res.Accepted {
		c.showNotice(res.Reason, raw)
		return fmt.Errorf("%s: %w: %s", op, ErrRejected, res.Reason)
	}

	created, err := c.gw.CreateComment(ctx, service.CreateCommentInput{
		PostID:         c.params.PostID,
		ParentID:       parentID,
		Actor:          c.params.Actor,
		AuthorUsername: c.params.ActorUsername,
		AuthorAvatar:   c.params.ActorAvatar,
		Content:        text,
	})

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}

	c.submitting = false

	if err != nil {
		c.mu.Unlock()

		c.notify()
		log.From(ctx).Error("comment submit failed", "op", op, "post_id", c.params.PostID, "err", err)

		return fmt.Errorf("%s: %w", op, err)
	}

	if created.IsReply() {
		c.idx.PrependReply(*created, c.idx.RootAuthor(created.ParentID))
		c.reveal.RevealOwn(created.ParentID)
	} else {
		c.idx.PrependRoot(*created)
	}

	c.commentCount++
	c.countByID[created.ID] = 0
	c.likedByID[created.ID] = false
	c.replyTo = ""
	c.draft = ""
	c.highlightID = created.ID
	c.mu.Unlock()

	c.notify()

	return nil
}

// Delete убирает узел из локальной ветки, уменьшает счётчик
// комментариев на 1 + число удалённых вместе с корнем ответов и затем
// удаляет узел в шлюзе. При ошибке шлюза локальное состояние не
// латается обратно — ветка перечитывается целиком: восстановить точную
// вложенную структуру труднее и опаснее, чем перечитать.
func (c *Controller) Delete(ctx context.Context, id string) error {
	const op = "session/comments/Delete"

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}

	removed := c.idx.RemoveRoot(id)
	if removed == 0 {
		for parentID := range c.idx.RepliesByParent {
			if c.idx.RemoveReply(parentID, id) == 1 {
				removed = 1
				break
			}
		}
	}

	if removed == 0 {
		c.mu.Unlock()
		return nil
	}

	c.commentCount -= removed
	delete(c.countByID, id)
	delete(c.likedByID, id)
	c.mu.Unlock()

	c.notify()

	if _, err := c.gw.DeleteComment(ctx, c.params.Actor, id); err != nil {
		log.From(ctx).Error("remote delete failed, reloading thread",
			"op", op, "comment_id", id, "err", err)

		if relErr := c.reloadThread(ctx); relErr != nil {
			log.From(ctx).Error("thread reload failed", "op", op, "err", relErr)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// moderationContextLocked собирает контекст модерации из текущей
// ветки. Вызывается под мьютексом.
func (c *Controller) moderationContextLocked(parentID string) moderation.Context {
	visible := make([]moderation.VisibleComment, 0, c.idx.TotalCount())
	for _, r := range c.idx.Roots {
		visible = append(visible, moderation.VisibleComment{
			ID:     r.ID,
			Author: r.AuthorUsername,
			Text:   r.Content,
		})
	}

	for _, bucket := range c.idx.RepliesByParent {
		for _, n := range bucket {
			visible = append(visible, moderation.VisibleComment{
				ID:     n.ID,
				Author: n.AuthorUsername,
				Text:   n.Content,
			})
		}
	}

	kind := moderation.KindComment
	var parentAuthor string
	if parentID != "" {
		kind = moderation.KindReply
		parentAuthor = c.idx.RootAuthor(parentID)
	}

	return moderation.Context{
		PostID:         c.params.PostID.String(),
		PosterUsername: c.params.PosterUsername,
		AuthorUsername: c.params.ActorUsername,
		Kind:           kind,
		ParentID:       parentID,
		ParentAuthor:   parentAuthor,
		Visible:        visible,
		Now:            time.Now().UTC(),
	}
}

// showNotice показывает причину отказа на noticeDelay, сохранив
// черновик пользователя для восстановления после исчезновения плашки.
func (c *Controller) showNotice(reason, draft string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	c.submitting = false
	c.notice = reason
	c.draft = draft
	c.noticeSeq++
	seq := c.noticeSeq
	c.mu.Unlock()

	c.notify()

	time.AfterFunc(c.noticeDelay, func() {
		c.mu.Lock()
		// Плашку могла сменить более свежая причина.
		if c.closed || c.noticeSeq != seq {
			c.mu.Unlock()
			return
		}

		c.notice = ""
		c.mu.Unlock()

		c.notify()
	})
}
