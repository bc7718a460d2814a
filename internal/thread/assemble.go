// Package thread собирает плоскую выборку комментариев в двухуровневую
// структуру ветки и управляет постепенным раскрытием ответов.
package thread

import (
	"sort"

	"github.com/avikulina/kinolenta/internal/models"
)

// Node — комментарий с атрибуцией для отрисовки: у ответа ReplyingTo
// содержит имя автора корневого комментария («в ответ X»).
type Node struct {
	models.Comment
	ReplyingTo string
}

// Index — производная структура ветки. Не персистится: строится при
// показе поста и выбрасывается при размонтировании.
// Инвариант: каждый ключ RepliesByParent присутствует среди Roots.
type Index struct {
	Roots           []Node
	RepliesByParent map[string][]Node
}

// Assemble строит Index из плоской выборки.
// Алгоритм:
//   - строки делятся на корни (parent_id пуст) и ответы;
//   - корни сортируются от новых к старым;
//   - ответы группируются по parent_id с сохранением порядка выборки
//     (старые впереди, новые дописываются в конец);
//   - ответ, чей родитель не попал в выборку (например, удалён),
//     молча отбрасывается — он не должен появиться в UI сиротой.
func Assemble(rows []models.Comment) *Index {
	idx := &Index{
		RepliesByParent: map[string][]Node{},
	}

	authorByID := make(map[string]string, len(rows))
	for _, row := range rows {
		if !row.IsReply() {
			idx.Roots = append(idx.Roots, Node{Comment: row})
			authorByID[row.ID] = row.AuthorUsername
		}
	}

	sort.SliceStable(idx.Roots, func(i, j int) bool {
		return idx.Roots[i].CreatedAt.After(idx.Roots[j].CreatedAt)
	})

	for _, row := range rows {
		if !row.IsReply() {
			continue
		}

		parentAuthor, ok := authorByID[row.ParentID]
		if !ok {
			// Родитель удалён или не выбран — сироту не показываем.
			continue
		}

		idx.RepliesByParent[row.ParentID] = append(idx.RepliesByParent[row.ParentID], Node{
			Comment:    row,
			ReplyingTo: parentAuthor,
		})
	}

	return idx
}

// AllIDs возвращает идентификаторы всех узлов ветки — набор для
// батч-гидрации счётчиков и флагов лайков.
func (i *Index) AllIDs() []string {
	out := make([]string, 0, i.TotalCount())
	for _, r := range i.Roots {
		out = append(out, r.ID)
	}

	for _, bucket := range i.RepliesByParent {
		for _, n := range bucket {
			out = append(out, n.ID)
		}
	}

	return out
}

// TotalCount — общее число узлов (корни + ответы).
func (i *Index) TotalCount() int {
	n := len(i.Roots)
	for _, bucket := range i.RepliesByParent {
		n += len(bucket)
	}

	return n
}

// RemoveRoot удаляет корень вместе с его ответами.
// Возвращает число удалённых узлов (0 — корня не было).
func (i *Index) RemoveRoot(id string) int {
	pos := -1
	for k, r := range i.Roots {
		if r.ID == id {
			pos = k
			break
		}
	}

	if pos < 0 {
		return 0
	}

	removed := 1 + len(i.RepliesByParent[id])
	i.Roots = append(i.Roots[:pos], i.Roots[pos+1:]...)
	delete(i.RepliesByParent, id)

	return removed
}

// RemoveReply удаляет один ответ из ведра родителя.
// Возвращает число удалённых узлов (0 или 1).
func (i *Index) RemoveReply(parentID, id string) int {
	bucket := i.RepliesByParent[parentID]
	for k, n := range bucket {
		if n.ID == id {
			i.RepliesByParent[parentID] = append(bucket[:k], bucket[k+1:]...)
			return 1
		}
	}

	return 0
}

// PrependRoot вставляет свежесозданный корень в начало списка.
func (i *Index) PrependRoot(c models.Comment) {
	i.Roots = append([]Node{{Comment: c}}, i.Roots...)
}

// PrependReply вставляет собственный свежий ответ в начало ведра,
// чтобы он гарантированно попал в видимое окно раскрытия.
func (i *Index) PrependReply(c models.Comment, parentAuthor string) {
	node := Node{Comment: c, ReplyingTo: parentAuthor}
	i.RepliesByParent[c.ParentID] = append([]Node{node}, i.RepliesByParent[c.ParentID]...)
}

// RootAuthor возвращает имя автора корня (пустая строка, если корня нет).
func (i *Index) RootAuthor(id string) string {
	for _, r := range i.Roots {
		if r.ID == id {
			return r.AuthorUsername
		}
	}

	return ""
}
