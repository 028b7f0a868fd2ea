package catalog

import (
	"encoding/json"
	"strings"
	"unicode"
)

// keywords merges the explicit keywords (a string or an array of strings,
// both split on ',' and ';') with the words of title and artist. The result
// is lowercased and deduplicated, in first-seen order.
func keywords(raw json.RawMessage, title, artist string) []string {
	var words []string
	for _, k := range explicitKeywords(raw) {
		words = append(words, splitList(k)...)
	}
	words = append(words, strings.Fields(title)...)
	words = append(words, strings.FieldsFunc(artist, func(r rune) bool {
		return r == ',' || r == '&' || r == '/' || unicode.IsSpace(r)
	})...)

	seen := make(map[string]bool, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

func explicitKeywords(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return []string{s}
	}
	var list []any
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
}
