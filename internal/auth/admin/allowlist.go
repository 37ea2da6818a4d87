package admin

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// Постоянная часть allowlist (IP деплой-серверов добавляются через
// ADMIN_ALLOW_IPS, сюда попадают только те, что не меняются между средами).
var builtinAllowed []string

// Заголовки прокси в порядке приоритета. Берётся первый, давший адрес.
var proxyHeaders = []string{
	"X-Forwarded-For",
	"X-Vercel-Forwarded-For",
	"X-Real-Ip",
	"Cf-Connecting-Ip",
}

// IPGate — стратегия «allowlist по IP клиента».
// Набор адресов неизменяем после старта, проверка — чтение из map.
type IPGate struct {
	allowed map[string]struct{}
}

// NewIPGate собирает allowlist: встроенный список, loopback вне production
// и значения из extra (разделители — запятые и пробелы).
func NewIPGate(extra string, production bool) *IPGate {
	g := &IPGate{allowed: make(map[string]struct{})}
	for _, ip := range builtinAllowed {
		g.add(ip)
	}
	if !production {
		g.add("127.0.0.1")
		g.add("::1")
	}
	for _, ip := range strings.FieldsFunc(extra, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	}) {
		g.add(ip)
	}
	return g
}

var _ Gate = (*IPGate)(nil)

func (g *IPGate) add(raw string) {
	if ip := NormalizeIP(raw); ip != "" {
		g.allowed[ip] = struct{}{}
	}
}

func (g *IPGate) IsAdmin(r *http.Request) bool {
	ip := ClientIP(r)
	if ip == "" {
		return false
	}
	_, ok := g.allowed[ip]
	return ok
}

// ClientIP определяет IP клиента: заголовки прокси по приоритету,
// затем адрес транспортного уровня. Пустая строка — определить не удалось.
func ClientIP(r *http.Request) string {
	for _, h := range proxyHeaders {
		v := r.Header.Get(h)
		if v == "" {
			continue
		}
		// X-Forwarded-For: client, proxy1, proxy2 — интересует первый
		if i := strings.IndexByte(v, ','); i >= 0 {
			v = v[:i]
		}
		if ip := NormalizeIP(v); ip != "" {
			return ip
		}
	}
	return NormalizeIP(r.RemoteAddr)
}

// NormalizeIP приводит адрес к канонической форме:
// "[::1]:4000" -> "::1", "fe80::1%lo0" -> "fe80::1",
// "::ffff:1.2.3.4" -> "1.2.3.4", "203.0.113.10:9999" -> "203.0.113.10".
// Невалидный вход даёт пустую строку.
func NormalizeIP(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	if strings.HasPrefix(s, "[") {
		// IPv6 в скобках, возможно с портом
		if host, _, err := net.SplitHostPort(s); err == nil {
			s = host
		} else {
			s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
		}
	} else if strings.Count(s, ":") == 1 {
		// голый IPv4 с портом
		if host, _, err := net.SplitHostPort(s); err == nil {
			s = host
		}
	}

	// зона (fe80::1%lo0)
	if i := strings.IndexByte(s, '%'); i >= 0 {
		s = s[:i]
	}

	addr, err := netip.ParseAddr(s)
	if err != nil {
		return ""
	}
	return addr.Unmap().String()
}
