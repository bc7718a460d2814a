package moderation

import "strings"

// TokenKind — вид токена разметки.
type TokenKind int

const (
	TokenText TokenKind = iota
	TokenMention
)

// Token — фрагмент текста комментария: обычный текст или @упоминание.
// Используется только для отрисовки; исходный текст не модифицируется —
// конкатенация Raw всех токенов равна входной строке.
type Token struct {
	Kind     TokenKind
	Raw      string
	Username string
}

// TokenizeMentions разбивает текст на токены. Упоминание — '@' и
// следующий за ним непустой идентификатор [A-Za-z0-9_]; одиночная '@'
// остаётся обычным текстом.
func TokenizeMentions(text string) []Token {
	var out []Token
	var plain strings.Builder

	flush := func() {
		if plain.Len() > 0 {
			out = append(out, Token{Kind: TokenText, Raw: plain.String()})
			plain.Reset()
		}
	}

	runes := []rune(text)
	for i := 0; i < len(runes); {
		if runes[i] != '@' {
			plain.WriteRune(runes[i])
			i++
			continue
		}

		j := i + 1
		for j < len(runes) && isUsernameRune(runes[j]) {
			j++
		}

		if j == i+1 {
			// Одиночная '@' без имени.
			plain.WriteRune('@')
			i++
			continue
		}

		flush()
		name := string(runes[i+1 : j])
		out = append(out, Token{Kind: TokenMention, Raw: string(runes[i:j]), Username: name})
		i = j
	}

	flush()

	return out
}

func isUsernameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '_':
		return true
	}

	return false
}
