package gateway

import (
	"encoding/json"
	"strings"

	"github.com/4613216-rgb000/smart-bid-aide/internal/core/domain"
)

// ParseTenderArray finds the first bracketed JSON array in a free-text model
// reply and decodes it. Models wrap the payload in prose or code fences often
// enough that a strict top-level decode would reject most good replies.
func ParseTenderArray(reply string) ([]domain.ParsedTender, bool) {
	raw, ok := firstArray(reply)
	if !ok {
		return nil, false
	}

	var parsed []domain.ParsedTender
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, false
	}

	valid := make([]domain.ParsedTender, 0, len(parsed))
	for _, tender := range parsed {
		if strings.TrimSpace(tender.Title) == "" {
			continue
		}
		valid = append(valid, tender)
	}
	return valid, true
}

// firstArray returns the first balanced [...] span, skipping brackets inside
// string literals.
func firstArray(s string) (string, bool) {
	start := strings.IndexByte(s, '[')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
