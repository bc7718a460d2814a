// Package moderation реализует чистую проверку текста комментария
// перед отправкой. Никакого I/O и скрытого состояния: результат —
// функция только от входных аргументов, поэтому пакет тестируется
// в полной изоляции от сети и хранилищ.
package moderation

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// MaxLength — предел длины комментария в рунах.
const MaxLength = 500

// Kind — вид отправки: корневой комментарий или ответ.
type Kind string

const (
	KindComment Kind = "comment"
	KindReply   Kind = "reply"
)

// VisibleComment — уже видимый в ветке комментарий (для проверки
// дублей и упоминаний).
type VisibleComment struct {
	ID     string
	Author string
	Text   string
}

// Context — контекст отправки. Передаётся целиком, чтобы Validate
// оставалась чистой функцией.
type Context struct {
	PostID         string
	PosterUsername string
	AuthorUsername string
	Kind           Kind
	ParentID       string
	ParentAuthor   string
	Visible        []VisibleComment
	Now            time.Time
}

// Result — вердикт модерации: либо принятый (нормализованный) текст,
// либо человекочитаемая причина отказа.
type Result struct {
	Accepted bool
	Text     string
	Reason   string
}

func accepted(text string) Result {
	return Result{Accepted: true, Text: text}
}

func rejected(reason string) Result {
	return Result{Reason: reason}
}

// Validate проверяет сырой текст в контексте ветки.
// Нормализация принятого текста ограничена обрезкой пробелов:
// токенизация упоминаний (см. mentions.go) текст не меняет.
func Validate(raw string, mctx Context) Result {
	text := strings.TrimSpace(raw)

	if text == "" {
		return rejected("comment is empty")
	}

	if n := len([]rune(text)); n > MaxLength {
		return rejected(fmt.Sprintf("comment is too long (%d/%d characters)", n, MaxLength))
	}

	if !hasPrintable(text) {
		return rejected("comment has no readable characters")
	}

	// Дубль: тот же автор уже отправил ровно этот текст в видимой части ветки.
	for _, vc := range mctx.Visible {
		if vc.Author == mctx.AuthorUsername && strings.TrimSpace(vc.Text) == text {
			return rejected("you have already posted this comment")
		}
	}

	// Упоминания должны указывать на участников ветки или автора поста.
	known := knownUsernames(mctx)
	for _, tok := range TokenizeMentions(text) {
		if tok.Kind != TokenMention {
			continue
		}

		if _, ok := known[strings.ToLower(tok.Username)]; !ok {
			return rejected(fmt.Sprintf("unknown user mentioned: @%s", tok.Username))
		}
	}

	return accepted(text)
}

// knownUsernames собирает участников, которых допустимо упоминать:
// автор поста, автор родительского комментария, авторы видимых
// комментариев и сам отправитель.
func knownUsernames(mctx Context) map[string]struct{} {
	known := make(map[string]struct{}, len(mctx.Visible)+3)

	add := func(u string) {
		if u != "" {
			known[strings.ToLower(u)] = struct{}{}
		}
	}

	add(mctx.PosterUsername)
	add(mctx.ParentAuthor)
	add(mctx.AuthorUsername)
	for _, vc := range mctx.Visible {
		add(vc.Author)
	}

	return known
}

func hasPrintable(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}

	return false
}
