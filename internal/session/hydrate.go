package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/avikulina/kinolenta/internal/models"
	"github.com/avikulina/kinolenta/internal/pkg/log"
	"github.com/avikulina/kinolenta/internal/thread"
)

// Hydrate выполняет двухфазную гидрацию и переводит контроллер в Ready.
//
// Фаза 1 — параллельно: флаг и счётчик лайка поста, полная ветка
// комментариев, оценка и теги поста (если настроен MetaFetcher);
// попутно best-effort отметка просмотра. Фаза 2
// стартует строго после сборки ветки, потому что зависит от набора
// идентификаторов из фазы 1: батч-счётчики и батч-флаги лайков для
// всех корней и ответов. Ready наступает только после обеих фаз —
// комментарии не должны мелькать с нулевыми счётчиками.
func (c *Controller) Hydrate(ctx context.Context) error {
	const op = "session/hydrate/Hydrate"

	c.mu.Lock()
	if c.closed || c.state != StateLoading {
		c.mu.Unlock()
		return nil
	}

	// Идентичность поста известна — сразу в Hydrating.
	c.state = StateHydrating
	c.mu.Unlock()

	c.notify()

	liked, likeCount, rows, meta, err := c.fetchPhase1(ctx)
	if err != nil {
		log.From(ctx).Error("hydration phase 1 failed", "op", op, "post_id", c.params.PostID, "err", err)
		return fmt.Errorf("%s: %w", op, err)
	}

	idx := thread.Assemble(rows)

	nodeCounts, nodeLiked, err := c.fetchPhase2(ctx, idx)
	if err != nil {
		log.From(ctx).Error("hydration phase 2 failed", "op", op, "post_id", c.params.PostID, "err", err)
		return fmt.Errorf("%s: %w", op, err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}

	c.liked = liked
	c.likeCount = likeCount
	c.postMeta = meta
	c.idx = idx
	c.reveal = thread.NewRevealState()
	c.commentCount = idx.TotalCount()
	c.countByID = nodeCounts
	c.likedByID = nodeLiked
	c.state = StateReady
	c.mu.Unlock()

	c.notify()

	return nil
}

// fetchPhase1 параллельно получает состояние лайка поста, ветку и
// метаданные поста.
func (c *Controller) fetchPhase1(ctx context.Context) (liked bool, likeCount int64, rows []models.Comment, meta PostMeta, err error) {
	postID := c.params.PostID.String()

	var (
		wg                                     sync.WaitGroup
		likedErr, countErr, threadErr, metaErr error
		fetched                                *models.Thread
	)

	wg.Add(3)

	if c.meta != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			meta, metaErr = c.meta(ctx, c.params.PostID)
		}()
	}

	go func() {
		defer wg.Done()
		liked, likedErr = c.gw.IsLiked(ctx, c.params.Actor, models.LikePost, postID)
	}()

	go func() {
		defer wg.Done()
		likeCount, countErr = c.gw.CountLikes(ctx, models.LikePost, postID)
	}()

	go func() {
		defer wg.Done()
		fetched, threadErr = c.gw.FetchThread(ctx, c.params.PostID)
	}()

	// Отметка просмотра — телеметрия, её исход гидрацию не задерживает
	// и не проваливает.
	go func() {
		if seenErr := c.gw.MarkSeen(ctx, c.params.Actor, models.SeenPost, postID); seenErr != nil {
			log.From(ctx).Warn("mark seen failed", "post_id", postID, "err", seenErr)
		}
	}()

	wg.Wait()

	for _, e := range []error{likedErr, countErr, threadErr, metaErr} {
		if e != nil {
			return false, 0, nil, PostMeta{}, e
		}
	}

	rows = append(rows, fetched.Roots...)
	rows = append(rows, fetched.Replies...)

	return liked, likeCount, rows, meta, nil
}

// fetchPhase2 батчами получает счётчики и флаги лайков всех узлов.
// Корни и ответы — разные типы целей, поэтому по два похода на вид.
func (c *Controller) fetchPhase2(ctx context.Context, idx *thread.Index) (map[string]int64, map[string]bool, error) {
	rootIDs := make([]string, 0, len(idx.Roots))
	for _, r := range idx.Roots {
		rootIDs = append(rootIDs, r.ID)
	}

	var replyIDs []string
	for _, bucket := range idx.RepliesByParent {
		for _, n := range bucket {
			replyIDs = append(replyIDs, n.ID)
		}
	}

	counts := make(map[string]int64, len(rootIDs)+len(replyIDs))
	likedSet := make(map[string]bool, len(rootIDs)+len(replyIDs))

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		errOnce error
	)

	fail := func(err error) {
		mu.Lock()
		if errOnce == nil {
			errOnce = err
		}
		mu.Unlock()
	}

	batch := func(target models.LikeTarget, ids []string) {
		defer wg.Done()

		if len(ids) == 0 {
			return
		}

		got, err := c.gw.CountLikesMany(ctx, target, ids)
		if err != nil {
			fail(err)
			return
		}

		flags, err := c.gw.LikedMany(ctx, c.params.Actor, target, ids)
		if err != nil {
			fail(err)
			return
		}

		mu.Lock()
		for id, n := range got {
			counts[id] = n
		}
		for id := range flags {
			likedSet[id] = true
		}
		mu.Unlock()
	}

	wg.Add(2)
	go batch(models.LikeComment, rootIDs)
	go batch(models.LikeReply, replyIDs)
	wg.Wait()

	if errOnce != nil {
		return nil, nil, errOnce
	}

	return counts, likedSet, nil
}

// reloadThread перечитывает ветку целиком и повторяет фазу 2.
// Используется после неудачного удаления: восстанавливать частично
// вырезанные локальные структуры опаснее, чем перечитать.
// Раскрытие ответов сохраняется — refetch не должен молча
// схлопывать уже раскрытые ветки.
func (c *Controller) reloadThread(ctx context.Context) error {
	const op = "session/hydrate/reloadThread"

	fetched, err := c.gw.FetchThread(ctx, c.params.PostID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows := make([]models.Comment, 0, len(fetched.Roots)+len(fetched.Replies))
	rows = append(rows, fetched.Roots...)
	rows = append(rows, fetched.Replies...)

	idx := thread.Assemble(rows)

	counts, likedSet, err := c.fetchPhase2(ctx, idx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}

	c.idx = idx
	c.commentCount = idx.TotalCount()
	c.countByID = counts
	c.likedByID = likedSet
	c.mu.Unlock()

	c.notify()

	return nil
}
