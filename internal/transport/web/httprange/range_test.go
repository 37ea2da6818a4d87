package httprange

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveNoHeader(t *testing.T) {
	p := Resolve("", 1000)
	require.Equal(t, http.StatusOK, p.Status)
	assert.Equal(t, int64(0), p.Start)
	assert.Equal(t, int64(999), p.End)
	assert.Equal(t, int64(1000), p.Length())

	h := p.Header("video/mp4")
	assert.Equal(t, "bytes", h.Get("Accept-Ranges"))
	assert.Empty(t, h.Get("Content-Range"))
}

func TestResolvePartial(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		total      int64
		start, end int64
	}{
		{"closed interval", "bytes=0-499", 1000, 0, 499},
		{"suffix", "bytes=-500", 1000, 500, 999},
		{"suffix longer than object", "bytes=-5000", 1000, 0, 999},
		{"prefix", "bytes=900-", 1000, 900, 999},
		{"end clamped", "bytes=990-2000", 1000, 990, 999},
		{"single byte", "bytes=0-0", 1000, 0, 0},
		{"last byte", "bytes=999-999", 1000, 999, 999},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := Resolve(tc.header, tc.total)
			require.Equal(t, http.StatusPartialContent, p.Status)
			assert.Equal(t, tc.start, p.Start)
			assert.Equal(t, tc.end, p.End)

			h := p.Header("video/mp4")
			assert.Equal(t, p.ContentRange(), h.Get("Content-Range"))
			assert.Equal(t, "no-store", h.Get("Cache-Control"))
			assert.Equal(t, "bytes", h.Get("Accept-Ranges"))
		})
	}

	p := Resolve("bytes=0-499", 1000)
	assert.Equal(t, int64(500), p.Length())
	assert.Equal(t, "bytes 0-499/1000", p.ContentRange())
	assert.Equal(t, "500", p.Header("video/mp4").Get("Content-Length"))
}

func TestResolveUnsatisfiable(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"start beyond total", "bytes=1000-1010"},
		{"end before start", "bytes=500-100"},
		{"garbage", "bytes=abc"},
		{"empty suffix", "bytes=-"},
		{"negative suffix", "bytes=--5"},
		{"zero suffix", "bytes=-0"},
		{"multi-range", "bytes=0-10,20-30"},
		{"wrong unit", "lines=0-10"},
		{"no spec", "bytes="},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := Resolve(tc.header, 1000)
			require.Equal(t, http.StatusRequestedRangeNotSatisfiable, p.Status)
			assert.Equal(t, int64(0), p.Length())

			h := p.Header("video/mp4")
			assert.Equal(t, "bytes */1000", h.Get("Content-Range"))
			assert.Equal(t, "no-store", h.Get("Cache-Control"))
			assert.Empty(t, h.Get("Content-Length"))
		})
	}
}

func TestResolveIdempotent(t *testing.T) {
	a := Resolve("bytes=100-200", 1000)
	b := Resolve("bytes=100-200", 1000)
	assert.Equal(t, a, b)
}
