package domain

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

const (
	maxTags   = 12
	maxTagLen = 40
)

// ParseTags чистит пользовательский ввод тегов: trim, обрезка до 40 символов,
// дедупликация, не больше 12 штук.
func ParseTags(raw string) []string {
	out := make([]string, 0, maxTags)
	seen := make(map[string]struct{})
	for _, v := range strings.Split(raw, ",") {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		// обрезаем по рунам: срез по байтам режет многобайтовые символы
		if utf8.RuneCountInString(v) > maxTagLen {
			v = string([]rune(v)[:maxTagLen])
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
		if len(out) == maxTags {
			break
		}
	}
	return out
}

// NormalizeURL возвращает абсолютный URL или "" если ссылка невалидна.
func NormalizeURL(value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return ""
	}
	u, err := url.Parse(v)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return ""
	}
	return u.String()
}
