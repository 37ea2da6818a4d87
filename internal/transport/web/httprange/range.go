// Package httprange переводит заголовок Range и известный размер объекта
// в план отдачи: статус (200/206/416), байтовое окно и заголовки ответа.
package httprange

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Plan — решение, что именно отдавать. Start/End включительны и имеют смысл
// только при Status 200 или 206.
type Plan struct {
	Status int
	Start  int64
	End    int64
	Total  int64
}

// Resolve строит план для заголовка Range (может быть пустым) и полного
// размера объекта. Чистая функция: одинаковый вход — одинаковый план.
//
// Поддерживается только одиночный диапазон bytes=A-B / bytes=A- / bytes=-N.
// Multi-range (bytes=0-10,20-30) сознательно не поддерживаем: это избавляет
// от multipart/byteranges и для отдачи видео не нужно. Любой нераспознанный
// или невыполнимый диапазон — 416, не 400: объект существует, невыполним
// именно диапазон.
func Resolve(rangeHeader string, total int64) Plan {
	if rangeHeader == "" {
		return Plan{Status: http.StatusOK, Start: 0, End: total - 1, Total: total}
	}

	start, end, ok := parseSingleRange(rangeHeader, total)
	if !ok {
		return Plan{Status: http.StatusRequestedRangeNotSatisfiable, Total: total}
	}
	return Plan{Status: http.StatusPartialContent, Start: start, End: end, Total: total}
}

// Length — сколько байт реально передаётся.
func (p Plan) Length() int64 {
	if p.Status == http.StatusRequestedRangeNotSatisfiable {
		return 0
	}
	return p.End - p.Start + 1
}

// ContentRange — значение заголовка Content-Range для плана.
func (p Plan) ContentRange() string {
	if p.Status == http.StatusRequestedRangeNotSatisfiable {
		return fmt.Sprintf("bytes */%d", p.Total)
	}
	return fmt.Sprintf("bytes %d-%d/%d", p.Start, p.End, p.Total)
}

// Header собирает заголовки ответа. contentType используется для 200/206.
func (p Plan) Header(contentType string) http.Header {
	h := http.Header{}
	switch p.Status {
	case http.StatusRequestedRangeNotSatisfiable:
		h.Set("Content-Range", p.ContentRange())
		h.Set("Cache-Control", "no-store")
	case http.StatusPartialContent:
		h.Set("Content-Type", contentType)
		h.Set("Content-Length", strconv.FormatInt(p.Length(), 10))
		h.Set("Accept-Ranges", "bytes")
		h.Set("Content-Range", p.ContentRange())
		h.Set("Cache-Control", "no-store")
	default:
		h.Set("Content-Type", contentType)
		h.Set("Content-Length", strconv.FormatInt(p.Length(), 10))
		h.Set("Accept-Ranges", "bytes")
	}
	return h
}

// parseSingleRange разбирает одиночный byte-range.
// Возвращает включительные границы, уже свалидированные против total.
func parseSingleRange(raw string, total int64) (start, end int64, ok bool) {
	spec, found := strings.CutPrefix(raw, "bytes=")
	if !found {
		return 0, 0, false
	}
	spec = strings.TrimSpace(spec)
	if spec == "" || strings.Contains(spec, ",") {
		return 0, 0, false
	}

	startRaw, endRaw, found := strings.Cut(spec, "-")
	if !found {
		return 0, 0, false
	}
	startRaw = strings.TrimSpace(startRaw)
	endRaw = strings.TrimSpace(endRaw)

	switch {
	// bytes=-N: последние N байт
	case startRaw == "" && endRaw != "":
		n, err := strconv.ParseInt(endRaw, 10, 64)
		if err != nil || n <= 0 {
			return 0, 0, false
		}
		start = total - n
		if start < 0 {
			start = 0
		}
		return start, total - 1, true

	// bytes=A-: от A до конца
	case startRaw != "" && endRaw == "":
		start, err := strconv.ParseInt(startRaw, 10, 64)
		if err != nil || start < 0 || start >= total {
			return 0, 0, false
		}
		return start, total - 1, true

	// bytes=A-B
	case startRaw != "" && endRaw != "":
		start, err1 := strconv.ParseInt(startRaw, 10, 64)
		end, err2 := strconv.ParseInt(endRaw, 10, 64)
		if err1 != nil || err2 != nil {
			return 0, 0, false
		}
		if start < 0 || end < start || start >= total {
			return 0, 0, false
		}
		if end > total-1 {
			end = total - 1
		}
		return start, end, true

	// bytes=- : обе границы пусты
	default:
		return 0, 0, false
	}
}
