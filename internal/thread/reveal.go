package thread

// Политика постепенного раскрытия: сначала 3 ответа, дальше по 5.
const (
	revealInitial = 3
	revealStep    = 5
)

// RevealState — счётчики видимых ответов по корням. Живёт вместе с
// Index на время показа поста; повторная выборка ветки не должна
// молча схлопывать уже раскрытые ответы.
type RevealState struct {
	visible map[string]int
}

// NewRevealState создаёт состояние, в котором все ветки свёрнуты.
func NewRevealState() *RevealState {
	return &RevealState{visible: map[string]int{}}
}

// Visible возвращает число видимых ответов корня (0 — свёрнуто).
func (r *RevealState) Visible(parentID string) int {
	return r.visible[parentID]
}

// Reveal раскрывает очередную порцию: из свёрнутого состояния —
// min(3, total), иначе — min(total, текущее+5).
func (r *RevealState) Reveal(parentID string, total int) {
	cur := r.visible[parentID]
	if cur == 0 {
		r.visible[parentID] = min(revealInitial, total)
		return
	}

	r.visible[parentID] = min(total, cur+revealStep)
}

// Hide сворачивает ветку.
func (r *RevealState) Hide(parentID string) {
	r.visible[parentID] = 0
}

// RevealOwn гарантирует видимость только что отправленного ответа:
// max(1, текущее+1), без клика по «показать ответы».
func (r *RevealState) RevealOwn(parentID string) {
	next := r.visible[parentID] + 1
	if next < 1 {
		next = 1
	}

	r.visible[parentID] = next
}

// VisibleReplies возвращает видимый префикс ведра ответов.
func (i *Index) VisibleReplies(r *RevealState, parentID string) []Node {
	bucket := i.RepliesByParent[parentID]
	n := r.Visible(parentID)
	if n > len(bucket) {
		n = len(bucket)
	}

	return bucket[:n]
}
