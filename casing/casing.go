package casing

import (
	"strings"
	"unicode"
)

// ToSnake converts a lowerCamelCase identifier to snake_case.
// Identifiers that are already snake_case come back unchanged.
func ToSnake(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]))
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			// Underscore before a new word, but keep acronym runs together
			// (photoURL -> photo_url, not photo_u_r_l).
			if i > 0 && (prevLower || nextLower) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ToCamel converts a snake_case identifier to lowerCamelCase.
// Identifiers without underscores come back unchanged.
func ToCamel(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}
	parts := strings.Split(s, "_")
	var b strings.Builder
	b.Grow(len(s))
	b.WriteString(parts[0])
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

// SnakeKeys rewrites every mapping key in v to snake_case, recursing through
// nested maps and slices. Scalars (including nil) are returned unchanged.
func SnakeKeys(v any) any {
	return convertKeys(v, ToSnake)
}

// CamelKeys rewrites every mapping key in v to lowerCamelCase, recursing
// through nested maps and slices. Scalars (including nil) are returned
// unchanged. CamelKeys and SnakeKeys are inverse on compliant key names.
func CamelKeys(v any) any {
	return convertKeys(v, ToCamel)
}

func convertKeys(v any, rename func(string) string) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[rename(k)] = convertKeys(val, rename)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = convertKeys(val, rename)
		}
		return out
	default:
		return v
	}
}
