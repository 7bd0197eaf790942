package llm

import (
	"encoding/json"
	"strings"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/bookmarker/pkg/domain"
)

// quoteChars are removed from a plain-text answer before it is used as category
const quoteChars = "\"'`“”‘’「」『』"

// ParseResponse turns raw provider output into a classification result, it never fails.
// The first balanced {...} region is parsed as {"category": ..., "title": ...}, otherwise the whole
// text is the category. Title is forced to originalTitle unless renameEnabled.
// Category may be empty, the caller substitutes its default.
func ParseResponse(raw, originalTitle string, renameEnabled bool) domain.ClassificationResult {
	res := domain.ClassificationResult{Title: originalTitle}

	if region, ok := firstJSONObject(raw); ok {
		var answer struct {
			Category string  `json:"category"`
			Title    *string `json:"title"`
		}
		err := json.Unmarshal([]byte(region), &answer)
		if err == nil {
			res.Category = strings.TrimSpace(answer.Category)
			if renameEnabled && answer.Title != nil && strings.TrimSpace(*answer.Title) != "" {
				res.Title = strings.TrimSpace(*answer.Title)
			}
			return res
		}
		lgr.Printf("[DEBUG] json region not parsed, fallback to plain text: %v", err)
	}

	res.Category = cleanCategory(raw)
	return res
}

// firstJSONObject finds the first balanced {...} region, braces inside string literals are ignored
func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString, escaped := false, false
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
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// cleanCategory strips quote characters, trailing full stops and surrounding whitespace
func cleanCategory(s string) string {
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(quoteChars, r) {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, ".。")
	return strings.TrimSpace(s)
}
