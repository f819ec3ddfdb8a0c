package service

import (
	"strings"
	"unicode"

	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/review/internal/domain"
)

// sanitizeComment strips HTML tags and control characters from a
// comment and caps it at MaxCommentLength runes. Comments are stored
// and served as plain text.
func sanitizeComment(comment string) string {
	var b strings.Builder
	b.Grow(len(comment))

	inTag := false
	for _, r := range comment {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case inTag:
		case r == '\n' || r == '\t':
			b.WriteRune(' ')
		case unicode.IsControl(r):
		default:
			b.WriteRune(r)
		}
	}

	cleaned := strings.Join(strings.Fields(b.String()), " ")

	runes := []rune(cleaned)
	if len(runes) > domain.MaxCommentLength {
		runes = runes[:domain.MaxCommentLength]
		cleaned = strings.TrimSpace(string(runes))
	}

	return cleaned
}
