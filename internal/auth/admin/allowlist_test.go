package admin

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIP(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"[::1]:4000", "::1"},
		{"[::1]", "::1"},
		{"::ffff:10.0.0.5", "10.0.0.5"},
		{"203.0.113.10:9999", "203.0.113.10"},
		{"203.0.113.10", "203.0.113.10"},
		{"fe80::1%lo0", "fe80::1"},
		{" 192.168.1.1 ", "192.168.1.1"},
		{"2001:db8::1", "2001:db8::1"},
		{"not-an-ip", ""},
		{"", ""},
		{"203.0.113.10:port", "203.0.113.10"}, // порт отбрасывается до парсинга
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, NormalizeIP(tc.in), "input %q", tc.in)
	}
}

func TestIPGateAllowlist(t *testing.T) {
	g := NewIPGate("203.0.113.10, 2001:db8::7\n198.51.100.2", true)

	mk := func(remote string) *http.Request {
		r := httptest.NewRequest(http.MethodPost, "/v1/books", nil)
		r.RemoteAddr = remote
		return r
	}

	assert.True(t, g.IsAdmin(mk("203.0.113.10:54321")))
	assert.True(t, g.IsAdmin(mk("[2001:db8::7]:443")))
	assert.True(t, g.IsAdmin(mk("198.51.100.2:1")))
	assert.False(t, g.IsAdmin(mk("203.0.113.11:54321")))

	// IP не определить — не админ
	r := mk("")
	assert.False(t, g.IsAdmin(r))
}

func TestIPGateLoopbackOutsideProduction(t *testing.T) {
	dev := NewIPGate("", false)
	prod := NewIPGate("", true)

	r := httptest.NewRequest(http.MethodPost, "/v1/books", nil)
	r.RemoteAddr = "127.0.0.1:9000"
	assert.True(t, dev.IsAdmin(r))
	assert.False(t, prod.IsAdmin(r))

	r6 := httptest.NewRequest(http.MethodPost, "/v1/books", nil)
	r6.RemoteAddr = "[::1]:9000"
	assert.True(t, dev.IsAdmin(r6))
	assert.False(t, prod.IsAdmin(r6))
}

func TestClientIPHeaderPrecedence(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:1234"

	assert.Equal(t, "10.0.0.1", ClientIP(r))

	r.Header.Set("Cf-Connecting-Ip", "198.51.100.4")
	assert.Equal(t, "198.51.100.4", ClientIP(r))

	r.Header.Set("X-Real-Ip", "198.51.100.3")
	assert.Equal(t, "198.51.100.3", ClientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 70.41.3.18, 150.172.238.178")
	assert.Equal(t, "203.0.113.9", ClientIP(r))
}

func TestClientIPMappedForwardedFor(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Forwarded-For", "::ffff:203.0.113.9")
	assert.Equal(t, "203.0.113.9", ClientIP(r))
}
